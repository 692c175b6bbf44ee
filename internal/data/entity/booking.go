package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusBooked      BookingStatus = "booked"
	BookingStatusRescheduled BookingStatus = "rescheduled"
	BookingStatusCancelled   BookingStatus = "cancelled"
	BookingStatusVerified    BookingStatus = "verified"
	BookingStatusExpired     BookingStatus = "expired"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusBooked, BookingStatusRescheduled, BookingStatusCancelled,
		BookingStatusVerified, BookingStatusExpired:
		return true
	}
	return false
}

// IsActive reports whether the booking holds a seat of its day's quota.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusBooked || s == BookingStatusRescheduled || s == BookingStatusVerified
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusVerified || s == BookingStatusExpired
}

// ActiveBookingStatuses are counted against a day's capacity.
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusBooked, BookingStatusRescheduled, BookingStatusVerified}
}

type Booking struct {
	BaseNoDelete
	UserID        uuid.UUID     `db:"user_id"`
	VisitDate     time.Time     `db:"visit_date"`
	TicketCode    string        `db:"ticket_code"`
	Status        BookingStatus `db:"status"`
	CancelReason  *string       `db:"cancel_reason"`
	VerifiedAt    *time.Time    `db:"verified_at"`
	RescheduledAt *time.Time    `db:"rescheduled_at"`
}
