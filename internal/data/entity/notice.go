package entity

import "github.com/google/uuid"

type NoticeKind string

const (
	NoticeBookingCreated     NoticeKind = "created"
	NoticeBookingRescheduled NoticeKind = "rescheduled"
	NoticeBookingCancelled   NoticeKind = "cancelled"
)

// Notice is an in-app message shown to a visitor about one of their bookings.
type Notice struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	BookingID uuid.UUID  `db:"booking_id"`
	Kind      NoticeKind `db:"kind"`
	Title     string     `db:"title"`
	Content   string     `db:"content"`
	IsRead    bool       `db:"is_read"`
}
