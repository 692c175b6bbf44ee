package usecase

import (
	"context"
	"errors"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/dto/request"
	"museum-booking/internal/dto/response"
	"museum-booking/pkg/apperror"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProvisionService keeps a rolling window of quota rows ahead of today
// and retires the ones behind it.
type ProvisionService interface {
	ProvisionFuture(ctx context.Context, days int) (int, error)
	RetirePast(ctx context.Context) (int, error)
	RunDaily(ctx context.Context) error
	Provision(ctx context.Context, req *request.ProvisionQuotaRequest) (*response.ProvisionResponse, error)
}

type provisionService struct {
	quotas repository.QuotaRepository
	config utils.QuotaConfig
	clock  utils.Clock
	log    *zap.Logger
}

func NewProvisionService(quotas repository.QuotaRepository, config utils.QuotaConfig, clock utils.Clock, log *zap.Logger) ProvisionService {
	return &provisionService{
		quotas: quotas,
		config: config,
		clock:  clock,
		log:    log.With(zap.String("service", "provisioner")),
	}
}

// ProvisionFuture creates a row with the default capacity for each of the
// next days dates, today included, that has none. Existing rows are left
// untouched, so overlapping runs create nothing twice.
func (s *provisionService) ProvisionFuture(ctx context.Context, days int) (int, error) {
	if days < 1 || days > s.config.MaxProvisionDays {
		return 0, apperror.ErrInvalidInput.Withf("days must be between 1 and %d", s.config.MaxProvisionDays)
	}

	now := s.clock.Now()
	today := utils.DateOf(now)
	created := 0

	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i)
		ok, err := s.quotas.Create(ctx, &entity.DailyQuota{
			BaseNoDelete: entity.BaseNoDelete{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			VisitDate: date,
			Capacity:  s.config.DefaultCapacity,
			Enabled:   true,
		})
		if err != nil {
			return created, fail(s.log, "provision quota", err, zap.String("visit_date", utils.FormatDate(date)))
		}
		if ok {
			created++
		}
	}

	s.log.Info("Quota provisioned",
		zap.String("from", utils.FormatDate(today)),
		zap.Int("days", days),
		zap.Int("created", created))

	return created, nil
}

func (s *provisionService) RetirePast(ctx context.Context) (int, error) {
	now := s.clock.Now()

	retired, err := s.quotas.RetireBefore(ctx, utils.DateOf(now), now)
	if err != nil {
		return 0, fail(s.log, "retire quota", err)
	}

	if retired > 0 {
		s.log.Info("Past quota retired", zap.Int64("count", retired))
	}
	return int(retired), nil
}

// RunDaily is the scheduled entry point: fill the horizon, then retire.
func (s *provisionService) RunDaily(ctx context.Context) error {
	_, provisionErr := s.ProvisionFuture(ctx, s.config.HorizonDays)
	_, retireErr := s.RetirePast(ctx)
	return errors.Join(provisionErr, retireErr)
}

func (s *provisionService) Provision(ctx context.Context, req *request.ProvisionQuotaRequest) (*response.ProvisionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalid(errs)
	}

	created, err := s.ProvisionFuture(ctx, req.Days)
	if err != nil {
		return nil, err
	}

	today := utils.Today(s.clock)
	return &response.ProvisionResponse{
		From:    utils.FormatDate(today),
		To:      utils.FormatDate(today.AddDate(0, 0, req.Days-1)),
		Created: created,
	}, nil
}
