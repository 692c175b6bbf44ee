package entity

import "time"

// DailyQuota is the admission capacity of one calendar day.
type DailyQuota struct {
	BaseNoDelete
	VisitDate time.Time `db:"visit_date"`
	Capacity  int       `db:"capacity"`
	Enabled   bool      `db:"enabled"`
	Retired   bool      `db:"retired"`
}

// QuotaSnapshot is a point-in-time read of a day's allocation.
type QuotaSnapshot struct {
	VisitDate time.Time
	Capacity  int
	Reserved  int
	Enabled   bool
	Retired   bool
}

func (s QuotaSnapshot) Remaining() int {
	if s.Reserved >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Reserved
}
