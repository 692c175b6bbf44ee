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

	"go.uber.org/zap"
)

// QuotaLedger arbitrates the capacity of each visit date.
type QuotaLedger interface {
	// CheckAndReserve must run inside repo's transaction. It locks the
	// date's quota row and recounts active bookings; the lock is held
	// until that transaction ends, so the caller's insert is covered.
	CheckAndReserve(ctx context.Context, repo *repository.Repository, date time.Time) error
	UpdateCapacity(ctx context.Context, date time.Time, capacity int) error
	SetEnabled(ctx context.Context, date time.Time, enabled bool) error
	Info(ctx context.Context, date time.Time) (*entity.QuotaSnapshot, error)
}

type QuotaService interface {
	QuotaLedger
	GetQuota(ctx context.Context, req *request.QuotaQueryRequest) (*response.QuotaResponse, error)
	UpdateQuota(ctx context.Context, req *request.UpdateQuotaRequest) (*response.QuotaResponse, error)
}

type quotaService struct {
	store *repository.Store
	clock utils.Clock
	log   *zap.Logger
}

func NewQuotaService(store *repository.Store, clock utils.Clock, log *zap.Logger) QuotaService {
	return &quotaService{
		store: store,
		clock: clock,
		log:   log.With(zap.String("service", "quota")),
	}
}

func (s *quotaService) CheckAndReserve(ctx context.Context, repo *repository.Repository, date time.Time) error {
	quota, err := repo.Quota.FindByDateForUpdate(ctx, date)
	if err != nil {
		return err
	}
	if quota == nil || quota.Retired {
		return apperror.ErrQuotaMissing.Withf("no quota configured for %s", utils.FormatDate(date))
	}
	if !quota.Enabled {
		return apperror.ErrQuotaDisabled.Withf("booking is disabled for %s", utils.FormatDate(date))
	}

	reserved, err := repo.Booking.CountActiveByDate(ctx, date)
	if err != nil {
		return err
	}
	if reserved >= quota.Capacity {
		return apperror.ErrQuotaExhausted.Withf("no remaining capacity for %s", utils.FormatDate(date))
	}

	return nil
}

// adjust loads the date's row under lock with its current reserved count
// and persists whatever apply changes.
func (s *quotaService) adjust(ctx context.Context, date time.Time, apply func(q *entity.DailyQuota, reserved int) error) error {
	return s.store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		quota, err := repo.Quota.FindByDateForUpdate(ctx, date)
		if err != nil {
			return err
		}
		if quota == nil {
			return apperror.ErrQuotaNotFound.Withf("no quota for %s", utils.FormatDate(date))
		}

		reserved, err := repo.Booking.CountActiveByDate(ctx, date)
		if err != nil {
			return err
		}

		if err := apply(quota, reserved); err != nil {
			return err
		}
		quota.UpdatedAt = s.clock.Now()
		return repo.Quota.Update(ctx, quota)
	})
}

func checkCapacity(capacity, reserved int) error {
	if capacity < 0 {
		return apperror.ErrInvalidInput.Withf("capacity must not be negative")
	}
	if capacity < reserved {
		return apperror.ErrCapacityBelowReserved.Withf("capacity %d is below %d reserved", capacity, reserved)
	}
	return nil
}

func (s *quotaService) UpdateCapacity(ctx context.Context, date time.Time, capacity int) error {
	err := s.adjust(ctx, date, func(q *entity.DailyQuota, reserved int) error {
		if err := checkCapacity(capacity, reserved); err != nil {
			return err
		}
		q.Capacity = capacity
		return nil
	})
	if err != nil {
		return fail(s.log, "update capacity", err, zap.String("visit_date", utils.FormatDate(date)))
	}

	s.log.Info("Quota capacity updated",
		zap.String("visit_date", utils.FormatDate(date)),
		zap.Int("capacity", capacity))
	return nil
}

func (s *quotaService) SetEnabled(ctx context.Context, date time.Time, enabled bool) error {
	err := s.adjust(ctx, date, func(q *entity.DailyQuota, _ int) error {
		q.Enabled = enabled
		return nil
	})
	if err != nil {
		return fail(s.log, "set quota enabled", err, zap.String("visit_date", utils.FormatDate(date)))
	}

	s.log.Info("Quota availability changed",
		zap.String("visit_date", utils.FormatDate(date)),
		zap.Bool("enabled", enabled))
	return nil
}

// Info is a plain read and may be stale by the time it returns.
func (s *quotaService) Info(ctx context.Context, date time.Time) (*entity.QuotaSnapshot, error) {
	quota, err := s.store.Quota.FindByDate(ctx, date)
	if err != nil {
		return nil, fail(s.log, "get quota", err)
	}
	if quota == nil {
		return nil, apperror.ErrQuotaNotFound.Withf("no quota for %s", utils.FormatDate(date))
	}

	reserved, err := s.store.Booking.CountActiveByDate(ctx, date)
	if err != nil {
		return nil, fail(s.log, "get quota", err)
	}

	return &entity.QuotaSnapshot{
		VisitDate: quota.VisitDate,
		Capacity:  quota.Capacity,
		Reserved:  reserved,
		Enabled:   quota.Enabled,
		Retired:   quota.Retired,
	}, nil
}

func (s *quotaService) GetQuota(ctx context.Context, req *request.QuotaQueryRequest) (*response.QuotaResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, apperror.ErrDateInvalid
	}

	snapshot, err := s.Info(ctx, date)
	if err != nil {
		return nil, err
	}

	resp := response.QuotaToResponse(snapshot)
	return &resp, nil
}

func (s *quotaService) UpdateQuota(ctx context.Context, req *request.UpdateQuotaRequest) (*response.QuotaResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(errs)
	}
	if req.Capacity == nil && req.Enabled == nil {
		return nil, invalid(map[string]string{"capacity": "capacity or enabled is required"})
	}

	date, err := utils.ParseDate(req.VisitDate)
	if err != nil {
		return nil, apperror.ErrDateInvalid
	}

	switch {
	case req.Enabled == nil:
		err = s.UpdateCapacity(ctx, date, *req.Capacity)
	case req.Capacity == nil:
		err = s.SetEnabled(ctx, date, *req.Enabled)
	default:
		err = s.adjust(ctx, date, func(q *entity.DailyQuota, reserved int) error {
			if err := checkCapacity(*req.Capacity, reserved); err != nil {
				return err
			}
			q.Capacity = *req.Capacity
			q.Enabled = *req.Enabled
			return nil
		})
		if err != nil {
			err = fail(s.log, "update quota", err, zap.String("visit_date", req.VisitDate))
		}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Quota updated", zap.String("visit_date", req.VisitDate))

	snapshot, err := s.Info(ctx, date)
	if err != nil {
		return nil, err
	}
	resp := response.QuotaToResponse(snapshot)
	return &resp, nil
}
