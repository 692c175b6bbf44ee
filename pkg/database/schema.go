package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'visitor',
		real_name VARCHAR(100),
		id_no VARCHAR(32),
		phone VARCHAR(32),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		token UUID NOT NULL UNIQUE,
		user_agent VARCHAR(255),
		ip_address VARCHAR(64),
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS daily_quotas (
		id UUID PRIMARY KEY,
		visit_date DATE NOT NULL UNIQUE,
		capacity INTEGER NOT NULL CHECK (capacity >= 0),
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		retired BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		visit_date DATE NOT NULL,
		ticket_code CHAR(32) NOT NULL,
		status VARCHAR(20) NOT NULL,
		cancel_reason VARCHAR(255),
		verified_at TIMESTAMPTZ,
		rescheduled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_ticket_code ON bookings (ticket_code)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active_user_date ON bookings (user_id, visit_date)
		WHERE status IN ('booked', 'rescheduled', 'verified')`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_date_status ON bookings (visit_date, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_rescheduled ON bookings (user_id, rescheduled_at)`,
	`CREATE TABLE IF NOT EXISTS user_notices (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		booking_id UUID NOT NULL,
		kind VARCHAR(20) NOT NULL,
		title VARCHAR(100) NOT NULL,
		content TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_notices_user ON user_notices (user_id, created_at DESC)`,
}

// Migrate creates the tables and indexes when they do not exist yet
func Migrate(ctx context.Context, db DBTX) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
