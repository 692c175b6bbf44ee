package utils

import (
	"sync"
	"time"
)

// DateLayout is the wire format for visit dates.
const DateLayout = "2006-01-02"

// Clock is the source of "now" for everything that depends on the
// calendar day. Production uses SystemClock; tests pin a FixedClock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a settable instant.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// DateOf truncates t to midnight of its calendar day in the server's
// local zone. Values scanned from DATE columns arrive as UTC midnight;
// their year/month/day are kept as-is.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Today returns the current server-local calendar day.
func Today(clock Clock) time.Time {
	return DateOf(clock.Now())
}

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.Local)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MustDate is for tests and fixtures.
func MustDate(value string) time.Time {
	t, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}
