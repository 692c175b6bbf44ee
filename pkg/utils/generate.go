package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ==================== TOKEN ====================

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== TICKET CODE ====================

// GenerateTicketCode returns 32 lowercase hex chars taken from a random
// v4 UUID. Uniqueness is enforced by the bookings.ticket_code index.
func GenerateTicketCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
