package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateActiveBooking: the visitor already holds an active booking for the date.
	ErrDuplicateActiveBooking = errors.New("active booking already exists for user and date")
	ErrDuplicateTicketCode    = errors.New("ticket code already exists")
	ErrDuplicateUser          = errors.New("username or email already exists")
)

const uniqueViolation = "23505"

var constraintErrors = map[string]error{
	"uq_bookings_active_user_date": ErrDuplicateActiveBooking,
	"uq_bookings_ticket_code":      ErrDuplicateTicketCode,
	"users_username_key":           ErrDuplicateUser,
	"users_email_key":              ErrDuplicateUser,
}

// mapConstraintError turns a unique violation on a known index into its sentinel.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if sentinel, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return sentinel
		}
	}
	return nil
}
