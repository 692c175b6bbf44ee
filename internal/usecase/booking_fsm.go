package usecase

import (
	"sort"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/pkg/apperror"
	"museum-booking/pkg/utils"
)

type BookingAction string

const (
	ActionReschedule BookingAction = "reschedule"
	ActionCancel     BookingAction = "cancel"
	ActionVerify     BookingAction = "verify"
	ActionExpire     BookingAction = "expire"
)

// bookingTransitions lists every legal move. Anything missing is rejected.
var bookingTransitions = map[entity.BookingStatus]map[BookingAction]entity.BookingStatus{
	entity.BookingStatusBooked: {
		ActionReschedule: entity.BookingStatusRescheduled,
		ActionCancel:     entity.BookingStatusCancelled,
		ActionVerify:     entity.BookingStatusVerified,
		ActionExpire:     entity.BookingStatusExpired,
	},
	entity.BookingStatusRescheduled: {
		ActionCancel: entity.BookingStatusCancelled,
		ActionVerify: entity.BookingStatusVerified,
		ActionExpire: entity.BookingStatusExpired,
	},
}

// Transition returns the status a booking moves to under action.
func Transition(from entity.BookingStatus, action BookingAction) (entity.BookingStatus, error) {
	if to, ok := bookingTransitions[from][action]; ok {
		return to, nil
	}
	if from == entity.BookingStatusVerified && action == ActionVerify {
		return "", apperror.ErrAlreadyVerified
	}
	return "", apperror.ErrInvalidTransition.Withf("cannot %s a booking in %s state", action, from)
}

// RescheduleFacts are the lookups a reschedule guard needs, gathered by
// the caller inside its transaction.
type RescheduleFacts struct {
	RescheduledToday bool
	ActiveOnNewDate  bool
}

// CheckReschedule tests the visitor's daily limit before the booking's
// own state: a second move on the same day is over the limit whichever
// booking it targets.
func CheckReschedule(b *entity.Booking, newDate, today time.Time, facts RescheduleFacts) error {
	if facts.RescheduledToday {
		return apperror.ErrRescheduleLimit
	}
	if _, err := Transition(b.Status, ActionReschedule); err != nil {
		return err
	}
	if b.VisitDate.Before(today) {
		return apperror.ErrExpired.Withf("visit date %s has passed", utils.FormatDate(b.VisitDate))
	}
	if newDate.Before(today) {
		return apperror.ErrDateInvalid.Withf("new visit date %s is in the past", utils.FormatDate(newDate))
	}
	if newDate.Equal(b.VisitDate) {
		return apperror.ErrDateInvalid.Withf("new visit date must differ from %s", utils.FormatDate(b.VisitDate))
	}
	if facts.ActiveOnNewDate {
		return apperror.ErrAlreadyBooked
	}
	return nil
}

func CheckCancel(b *entity.Booking, today time.Time) error {
	if _, err := Transition(b.Status, ActionCancel); err != nil {
		return err
	}
	if b.VisitDate.Before(today) {
		return apperror.ErrExpired.Withf("visit date %s has passed and cannot be cancelled", utils.FormatDate(b.VisitDate))
	}
	return nil
}

func CheckVerify(b *entity.Booking, today time.Time) error {
	if _, err := Transition(b.Status, ActionVerify); err != nil {
		return err
	}
	if b.VisitDate.Before(today) {
		return apperror.ErrExpired.Withf("visit date %s has passed", utils.FormatDate(b.VisitDate))
	}
	return nil
}

// ExpirableStatuses are the states the expire action leaves from. The
// sweep selects on exactly these.
func ExpirableStatuses() []entity.BookingStatus {
	var from []entity.BookingStatus
	for status, moves := range bookingTransitions {
		if _, ok := moves[ActionExpire]; ok {
			from = append(from, status)
		}
	}
	sort.Slice(from, func(i, j int) bool { return from[i] < from[j] })
	return from
}
