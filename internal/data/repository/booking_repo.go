package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/pkg/database"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingFilter narrows Search and Count. Nil fields are not applied.
type BookingFilter struct {
	UserID     *uuid.UUID
	VisitDate  *time.Time
	Status     *entity.BookingStatus
	TicketCode string // substring match
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByTicketCodeForUpdate(ctx context.Context, code string) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error

	// Quota and rule queries
	CountActiveByDate(ctx context.Context, date time.Time) (int, error)
	ExistsActiveForUser(ctx context.Context, userID uuid.UUID, date time.Time, excludeID uuid.UUID) (bool, error)
	CountRescheduledByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
	ExpireOverdue(ctx context.Context, from []entity.BookingStatus, today, now time.Time) (int64, error)

	Search(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
}

type bookingRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewBookingRepository(db database.DBTX, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, visit_date, ticket_code, status, cancel_reason,
		       verified_at, rescheduled_at, created_at, updated_at`

func statusStrings(statuses []entity.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.VisitDate,
		&booking.TicketCode,
		&booking.Status,
		&booking.CancelReason,
		&booking.VerifiedAt,
		&booking.RescheduledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	booking.VisitDate = utils.DateOf(booking.VisitDate)
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, visit_date, ticket_code, status, cancel_reason,
		                      verified_at, rescheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.VisitDate,
		booking.TicketCode,
		booking.Status,
		booking.CancelReason,
		booking.VerifiedAt,
		booking.RescheduledAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.String()),
			zap.String("visit_date", utils.FormatDate(booking.VisitDate)),
		)
		return fmt.Errorf("create booking for user %s: %w", booking.UserID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.findOne(ctx, "id", query, id)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, "id", query, id)
}

func (r *bookingRepository) FindByTicketCodeForUpdate(ctx context.Context, code string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ticket_code = $1 FOR UPDATE`
	return r.findOne(ctx, "ticket_code", query, code)
}

func (r *bookingRepository) findOne(ctx context.Context, by, query string, arg any) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("by", by))
		return nil, fmt.Errorf("find booking by %s: %w", by, err)
	}
	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET visit_date = $2, status = $3, cancel_reason = $4,
		    verified_at = $5, rescheduled_at = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.VisitDate,
		booking.Status,
		booking.CancelReason,
		booking.VerifiedAt,
		booking.RescheduledAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID)
	}

	return nil
}

func (r *bookingRepository) CountActiveByDate(ctx context.Context, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE visit_date = $1 AND status = ANY($2)`

	var count int
	err := r.db.QueryRow(ctx, query, date, statusStrings(entity.ActiveBookingStatuses())).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count active bookings",
			zap.Error(err),
			zap.String("visit_date", utils.FormatDate(date)),
		)
		return 0, fmt.Errorf("count active bookings on %s: %w", utils.FormatDate(date), err)
	}

	return count, nil
}

func (r *bookingRepository) ExistsActiveForUser(ctx context.Context, userID uuid.UUID, date time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND visit_date = $2 AND status = ANY($3) AND id <> $4
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, userID, date, statusStrings(entity.ActiveBookingStatuses()), excludeID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check active booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check active booking for user %s: %w", userID, err)
	}

	return exists, nil
}

func (r *bookingRepository) CountRescheduledByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE user_id = $1 AND rescheduled_at >= $2 AND rescheduled_at < $3
	`

	var count int
	err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reschedules",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reschedules for user %s: %w", userID, err)
	}

	return count, nil
}

// ExpireOverdue moves every booking in one of the from states and dated
// before today to expired.
func (r *bookingRepository) ExpireOverdue(ctx context.Context, from []entity.BookingStatus, today, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE visit_date < $3 AND status = ANY($4)
	`

	result, err := r.db.Exec(ctx, query,
		entity.BookingStatusExpired,
		now,
		today,
		statusStrings(from),
	)
	if err != nil {
		r.log.Error("Failed to expire overdue bookings", zap.Error(err))
		return 0, fmt.Errorf("expire overdue bookings: %w", err)
	}

	return result.RowsAffected(), nil
}

func buildBookingWhere(filter BookingFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.VisitDate != nil {
		add("visit_date = $%d", *filter.VisitDate)
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.TicketCode != "" {
		add("ticket_code LIKE $%d", "%"+filter.TicketCode+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *bookingRepository) Search(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	where, args := buildBookingWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search bookings", zap.Error(err))
		return nil, fmt.Errorf("search bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := buildBookingWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}
