package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 59, 59, 0, time.Local)
	assert.True(t, DateOf(late).Equal(MustDate("2026-03-10")))

	// DATE columns scan as UTC midnight; the calendar day must survive
	scanned := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-10", FormatDate(DateOf(scanned)))
}

func TestFixedClock(t *testing.T) {
	clock := NewFixedClock(time.Date(2026, 3, 10, 23, 0, 0, 0, time.Local))
	assert.Equal(t, "2026-03-10", FormatDate(Today(clock)))

	clock.Advance(2 * time.Hour)
	assert.Equal(t, "2026-03-11", FormatDate(Today(clock)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Local, d.Location())

	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)

	_, err = ParseDate("28/02/2026")
	assert.Error(t, err)
}

func TestGenerateTicketCode(t *testing.T) {
	code := GenerateTicketCode()
	assert.Len(t, code, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", code)
	assert.NotEqual(t, code, GenerateTicketCode())
}
