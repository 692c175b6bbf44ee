package usecase

import (
	"museum-booking/internal/data/repository"
	"museum-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Quota       QuotaService
	Reservation ReservationService
	Provisioner ProvisionService
	Sweeper     SweepService
}

func NewService(
	store *repository.Store,
	notifier NotificationPort,
	config *utils.Config,
	clock utils.Clock,
	log *zap.Logger,
) *Service {
	quota := NewQuotaService(store, clock, log)

	return &Service{
		Auth:        NewAuthService(store.Repository, config, clock, log),
		User:        NewUserService(store.Repository, clock, log),
		Quota:       quota,
		Reservation: NewReservationService(store, quota, NewUserIdentity(store.User), notifier, clock, log),
		Provisioner: NewProvisionService(store.Quota, config.Quota, clock, log),
		Sweeper:     NewSweepService(store.Booking, clock, log),
	}
}
