package usecase_test

import (
	"testing"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	f := newFixture(t)
	f.addQuota(t, today, 10)
	f.addQuota(t, tomorrow, 10)

	stale := f.book(t, f.addVisitor(t, true), today)

	verifiedOwner := f.addVisitor(t, true)
	verified := f.book(t, verifiedOwner, today)
	_, err := f.service.Reservation.VerifyBooking(f.ctx, &request.VerifyBookingRequest{TicketCode: verified.TicketCode})
	require.NoError(t, err)

	cancelledOwner := f.addVisitor(t, true)
	cancelled := f.book(t, cancelledOwner, today)
	_, err = f.service.Reservation.CancelBooking(f.ctx, uuid.MustParse(cancelled.ID), cancelledOwner, &request.CancelBookingRequest{})
	require.NoError(t, err)

	upcoming := f.book(t, f.addVisitor(t, true), tomorrow)

	movedOwner := f.addVisitor(t, true)
	moved := f.book(t, movedOwner, tomorrow)
	_, err = f.service.Reservation.RescheduleBooking(f.ctx, uuid.MustParse(moved.ID), movedOwner,
		&request.RescheduleBookingRequest{NewVisitDate: today})
	require.NoError(t, err)

	// Nothing is overdue on the visit day itself
	n, err := f.service.Sweeper.Sweep(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	before := map[string]*entity.Booking{}
	for _, id := range []string{stale.ID, moved.ID, verified.ID, cancelled.ID, upcoming.ID} {
		before[id] = f.snapshot(t, id)
	}

	f.clock.Advance(24 * time.Hour)

	n, err = f.service.Sweeper.Sweep(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, id := range []string{stale.ID, moved.ID} {
		want := *before[id]
		want.Status = entity.BookingStatusExpired
		want.UpdatedAt = f.clock.Now()
		assert.Equal(t, &want, f.snapshot(t, id))
	}
	for _, id := range []string{verified.ID, cancelled.ID, upcoming.ID} {
		assert.Equal(t, before[id], f.snapshot(t, id))
	}
	// Only the verified visit still holds a seat on the past day
	assert.Equal(t, 1, f.reserved(t, today))

	n, err = f.service.Sweeper.Sweep(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
