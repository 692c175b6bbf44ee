package usecase

import (
	"context"

	"museum-booking/internal/data/repository"
	"museum-booking/pkg/utils"

	"go.uber.org/zap"
)

type SweepService interface {
	// Sweep expires every booked or rescheduled booking dated before
	// today. The predicate depends only on state and date, so a missed
	// run is caught up by the next one.
	Sweep(ctx context.Context) (int64, error)
}

type sweepService struct {
	bookings repository.BookingRepository
	clock    utils.Clock
	log      *zap.Logger
}

func NewSweepService(bookings repository.BookingRepository, clock utils.Clock, log *zap.Logger) SweepService {
	return &sweepService{
		bookings: bookings,
		clock:    clock,
		log:      log.With(zap.String("service", "sweeper")),
	}
}

func (s *sweepService) Sweep(ctx context.Context) (int64, error) {
	now := s.clock.Now()

	expired, err := s.bookings.ExpireOverdue(ctx, ExpirableStatuses(), utils.DateOf(now), now)
	if err != nil {
		return 0, fail(s.log, "sweep expired bookings", err)
	}

	s.log.Info("Overdue bookings expired", zap.Int64("count", expired))
	return expired, nil
}
