package usecase

import (
	"context"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/dto/request"
	"museum-booking/internal/dto/response"
	"museum-booking/pkg/apperror"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	BatchCreateBookings(ctx context.Context, req *request.BatchCreateBookingRequest) (*response.BatchBookingResponse, error)
	RescheduleBooking(ctx context.Context, bookingID, userID uuid.UUID, req *request.RescheduleBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, req *request.CancelBookingRequest) (*response.BookingResponse, error)
	VerifyBooking(ctx context.Context, req *request.VerifyBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*response.BookingResponse, error)
	QueryMyBookings(ctx context.Context, userID uuid.UUID, req *request.MyBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	QueryByAdminFilters(ctx context.Context, req *request.BookingQueryRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type reservationService struct {
	store    *repository.Store
	quota    QuotaLedger
	identity IdentityProvider
	notifier NotificationPort
	clock    utils.Clock
	log      *zap.Logger
}

func NewReservationService(
	store *repository.Store,
	quota QuotaLedger,
	identity IdentityProvider,
	notifier NotificationPort,
	clock utils.Clock,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		store:    store,
		quota:    quota,
		identity: identity,
		notifier: notifier,
		clock:    clock,
		log:      log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, invalid(errs)
	}

	visitDate, err := s.futureDate(req.VisitDate)
	if err != nil {
		return nil, fail(s.log, "create booking", err, zap.String("user_id", userID.String()))
	}

	// 2. Identity check runs before the transaction so no lock is held across it
	if err := s.requireIdentity(ctx, userID); err != nil {
		return nil, fail(s.log, "create booking", err, zap.String("user_id", userID.String()))
	}

	// 3. Reserve and insert atomically
	booking, err := s.reserve(ctx, userID, visitDate)
	if err != nil {
		return nil, fail(s.log, "create booking", err,
			zap.String("user_id", userID.String()),
			zap.String("visit_date", req.VisitDate))
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("visit_date", req.VisitDate))

	s.publish(ctx, BookingCreated, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// BatchCreateBookings books the same date for each listed visitor. Each
// reservation is its own transaction; one failure does not undo the others.
func (s *reservationService) BatchCreateBookings(ctx context.Context, req *request.BatchCreateBookingRequest) (*response.BatchBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Batch booking validation failed", zap.Any("errors", errs))
		return nil, invalid(errs)
	}

	visitDate, err := s.futureDate(req.VisitDate)
	if err != nil {
		return nil, fail(s.log, "batch create bookings", err)
	}

	result := &response.BatchBookingResponse{
		SuccessList: []response.BookingResponse{},
		Failed:      []response.BatchFailure{},
	}

	for _, raw := range req.UserIDs {
		booking, err := s.reserveFor(ctx, raw, visitDate)
		if err != nil {
			appErr, _ := apperror.As(fail(s.log, "batch create booking", err, zap.String("user_id", raw)))
			result.Failed = append(result.Failed, response.BatchFailure{
				UserID:  raw,
				Code:    appErr.Code,
				Message: appErr.Message,
			})
			continue
		}

		s.publish(ctx, BookingCreated, booking)
		result.SuccessList = append(result.SuccessList, response.BookingToResponse(booking))
	}

	result.SuccessCount = len(result.SuccessList)
	result.FailCount = len(result.Failed)

	s.log.Info("Batch booking finished",
		zap.String("visit_date", req.VisitDate),
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailCount))

	return result, nil
}

func (s *reservationService) reserveFor(ctx context.Context, raw string, visitDate time.Time) (*entity.Booking, error) {
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.ErrInvalidInput.Withf("invalid user id %q", raw)
	}
	if err := s.requireIdentity(ctx, userID); err != nil {
		return nil, err
	}
	return s.reserve(ctx, userID, visitDate)
}

// reserve inserts a booked row for (userID, visitDate) inside one
// transaction: a rejected quota leaves no row behind.
func (s *reservationService) reserve(ctx context.Context, userID uuid.UUID, visitDate time.Time) (*entity.Booking, error) {
	now := s.clock.Now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:     userID,
		VisitDate:  visitDate,
		TicketCode: utils.GenerateTicketCode(),
		Status:     entity.BookingStatusBooked,
	}

	err := s.store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		exists, err := repo.Booking.ExistsActiveForUser(ctx, userID, visitDate, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return apperror.ErrAlreadyBooked
		}

		if err := s.quota.CheckAndReserve(ctx, repo, visitDate); err != nil {
			return err
		}

		return repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *reservationService) RescheduleBooking(ctx context.Context, bookingID, userID uuid.UUID, req *request.RescheduleBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reschedule validation failed", zap.Any("errors", errs))
		return nil, invalid(errs)
	}

	newDate, err := utils.ParseDate(req.NewVisitDate)
	if err != nil {
		return nil, apperror.ErrDateInvalid
	}

	fields := []zap.Field{
		zap.String("booking_id", bookingID.String()),
		zap.String("user_id", userID.String()),
		zap.String("new_visit_date", req.NewVisitDate),
	}

	if err := s.requireIdentity(ctx, userID); err != nil {
		return nil, fail(s.log, "reschedule booking", err, fields...)
	}

	now := s.clock.Now()
	today := utils.DateOf(now)
	var booking *entity.Booking

	err = s.store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		// Lock the visitor first: the once-a-day limit spans all their bookings
		user, err := repo.User.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperror.ErrUserNotFound
		}

		b, err := repo.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return apperror.ErrBookingNotFound
		}
		if b.UserID != userID {
			return apperror.ErrNotOwner
		}

		rescheduled, err := repo.Booking.CountRescheduledByUser(ctx, userID, today, today.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		active, err := repo.Booking.ExistsActiveForUser(ctx, userID, newDate, b.ID)
		if err != nil {
			return err
		}

		facts := RescheduleFacts{RescheduledToday: rescheduled > 0, ActiveOnNewDate: active}
		if err := CheckReschedule(b, newDate, today, facts); err != nil {
			return err
		}
		next, err := Transition(b.Status, ActionReschedule)
		if err != nil {
			return err
		}

		if err := s.quota.CheckAndReserve(ctx, repo, newDate); err != nil {
			return err
		}

		// Moving the row frees the old date: reserved counts are derived
		b.VisitDate = newDate
		b.Status = next
		b.RescheduledAt = &now
		b.UpdatedAt = now
		if err := repo.Booking.Update(ctx, b); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, fail(s.log, "reschedule booking", err, fields...)
	}

	s.log.Info("Booking rescheduled", fields...)
	s.publish(ctx, BookingRescheduled, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	fields := []zap.Field{
		zap.String("booking_id", bookingID.String()),
		zap.String("user_id", userID.String()),
	}

	now := s.clock.Now()
	booking, err := s.transition(ctx, func(repo *repository.Repository) (*entity.Booking, error) {
		b, err := repo.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, apperror.ErrBookingNotFound
		}
		if b.UserID != userID {
			return nil, apperror.ErrNotOwner
		}
		return b, nil
	}, ActionCancel, func(b *entity.Booking) {
		b.CancelReason = req.CancelReason
	}, now)
	if err != nil {
		return nil, fail(s.log, "cancel booking", err, fields...)
	}

	s.log.Info("Booking cancelled", fields...)
	s.publish(ctx, BookingCancelled, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) VerifyBooking(ctx context.Context, req *request.VerifyBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	now := s.clock.Now()
	booking, err := s.transition(ctx, func(repo *repository.Repository) (*entity.Booking, error) {
		b, err := repo.Booking.FindByTicketCodeForUpdate(ctx, req.TicketCode)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, apperror.ErrBookingNotFound.Withf("no booking for ticket code")
		}
		return b, nil
	}, ActionVerify, func(b *entity.Booking) {
		b.VerifiedAt = &now
	}, now)
	if err != nil {
		return nil, fail(s.log, "verify booking", err, zap.String("ticket_code", req.TicketCode))
	}

	s.log.Info("Booking verified",
		zap.String("booking_id", booking.ID.String()),
		zap.String("ticket_code", booking.TicketCode))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// transition loads a booking under lock, applies the guarded move for
// action and persists it, all in one transaction.
func (s *reservationService) transition(
	ctx context.Context,
	load func(repo *repository.Repository) (*entity.Booking, error),
	action BookingAction,
	mutate func(b *entity.Booking),
	now time.Time,
) (*entity.Booking, error) {
	today := utils.DateOf(now)
	var booking *entity.Booking

	err := s.store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		b, err := load(repo)
		if err != nil {
			return err
		}

		switch action {
		case ActionCancel:
			err = CheckCancel(b, today)
		case ActionVerify:
			err = CheckVerify(b, today)
		}
		if err != nil {
			return err
		}

		next, err := Transition(b.Status, action)
		if err != nil {
			return err
		}

		b.Status = next
		b.UpdatedAt = now
		mutate(b)
		if err := repo.Booking.Update(ctx, b); err != nil {
			return err
		}

		booking = b
		return nil
	})

	return booking, err
}

func (s *reservationService) GetBooking(ctx context.Context, bookingID, userID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.store.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fail(s.log, "get booking", err, zap.String("booking_id", bookingID.String()))
	}
	if booking == nil {
		return nil, apperror.ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, apperror.ErrNotOwner
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *reservationService) QueryMyBookings(ctx context.Context, userID uuid.UUID, req *request.MyBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	filter := repository.BookingFilter{UserID: &userID}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}

	return s.search(ctx, filter, req.PaginatedRequest)
}

func (s *reservationService) QueryByAdminFilters(ctx context.Context, req *request.BookingQueryRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	visitDate := utils.Today(s.clock)
	if req.VisitDate != "" {
		parsed, err := utils.ParseDate(req.VisitDate)
		if err != nil {
			return nil, apperror.ErrDateInvalid
		}
		visitDate = parsed
	}

	filter := repository.BookingFilter{
		VisitDate:  &visitDate,
		TicketCode: req.TicketCode,
	}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, apperror.ErrInvalidInput.Withf("invalid user_id")
		}
		filter.UserID = &userID
	}

	return s.search(ctx, filter, req.PaginatedRequest)
}

func (s *reservationService) search(ctx context.Context, filter repository.BookingFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.store.Booking.Search(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fail(s.log, "search bookings", err)
	}

	total, err := s.store.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fail(s.log, "count bookings", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b)
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

// ==================== HELPER METHODS ====================

// futureDate parses value and rejects days before today.
func (s *reservationService) futureDate(value string) (time.Time, error) {
	date, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, apperror.ErrDateInvalid
	}
	if date.Before(utils.Today(s.clock)) {
		return time.Time{}, apperror.ErrDateInvalid.Withf("visit date %s is in the past", value)
	}
	return date, nil
}

func (s *reservationService) requireIdentity(ctx context.Context, userID uuid.UUID) error {
	verified, err := s.identity.IsVerified(ctx, userID)
	if err != nil {
		return err
	}
	if !verified {
		return apperror.ErrIdentityRequired
	}
	return nil
}

// publish hands the committed change to the notification port. It runs
// after commit and never affects the caller's result.
func (s *reservationService) publish(ctx context.Context, kind BookingEventKind, b *entity.Booking) {
	s.notifier.Publish(ctx, BookingEvent{
		Kind:       kind,
		BookingID:  b.ID,
		UserID:     b.UserID,
		VisitDate:  utils.FormatDate(b.VisitDate),
		TicketCode: b.TicketCode,
		OccurredAt: s.clock.Now(),
	})
}
