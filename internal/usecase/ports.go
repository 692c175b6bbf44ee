package usecase

import (
	"context"
	"time"

	"museum-booking/internal/data/repository"

	"github.com/google/uuid"
)

// IdentityProvider answers whether a subject has completed real-name binding.
type IdentityProvider interface {
	IsVerified(ctx context.Context, userID uuid.UUID) (bool, error)
}

type BookingEventKind string

const (
	BookingCreated     BookingEventKind = "created"
	BookingRescheduled BookingEventKind = "rescheduled"
	BookingCancelled   BookingEventKind = "cancelled"
)

// BookingEvent is emitted after a reservation change has been committed.
type BookingEvent struct {
	Kind       BookingEventKind `json:"kind"`
	BookingID  uuid.UUID        `json:"booking_id"`
	UserID     uuid.UUID        `json:"user_id"`
	VisitDate  string           `json:"visit_date"`
	TicketCode string           `json:"ticket_code"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NotificationPort receives booking events. Publish must not block the
// caller for long and reports nothing back: delivery is best effort.
type NotificationPort interface {
	Publish(ctx context.Context, event BookingEvent)
}

type userIdentity struct {
	users repository.UserRepository
}

func NewUserIdentity(users repository.UserRepository) IdentityProvider {
	return &userIdentity{users: users}
}

func (i *userIdentity) IsVerified(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := i.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.IdentityVerified(), nil
}

type noopNotifier struct{}

// NoopNotifier drops every event.
func NoopNotifier() NotificationPort { return noopNotifier{} }

func (noopNotifier) Publish(context.Context, BookingEvent) {}
