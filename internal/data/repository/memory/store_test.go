package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/data/repository/memory"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBooking(userID uuid.UUID, date string) *entity.Booking {
	return &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:       userID,
		VisitDate:    utils.MustDate(date),
		TicketCode:   utils.GenerateTicketCode(),
		Status:       entity.BookingStatusBooked,
	}
}

func TestWithinTx_RollbackUndoesWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(zap.NewNop())

	kept := newBooking(uuid.New(), "2026-03-11")
	require.NoError(t, store.Booking.Create(ctx, kept))

	boom := errors.New("abort")
	err := store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		require.NoError(t, repo.Booking.Create(ctx, newBooking(uuid.New(), "2026-03-11")))

		cancelled := *kept
		cancelled.Status = entity.BookingStatusCancelled
		require.NoError(t, repo.Booking.Update(ctx, &cancelled))

		_, err := repo.Quota.Create(ctx, &entity.DailyQuota{VisitDate: utils.MustDate("2026-03-11"), Capacity: 5})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := store.Booking.CountActiveByDate(ctx, utils.MustDate("2026-03-11"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.Booking.FindByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusBooked, got.Status)

	quota, err := store.Quota.FindByDate(ctx, utils.MustDate("2026-03-11"))
	require.NoError(t, err)
	assert.Nil(t, quota)
}

func TestWithinTx_CommitKeepsWrites(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(zap.NewNop())
	booking := newBooking(uuid.New(), "2026-03-11")

	require.NoError(t, store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		return repo.Booking.Create(ctx, booking)
	}))

	got, err := store.Booking.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, booking.TicketCode, got.TicketCode)
}

func TestBookingRepository_UniqueActivePair(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(zap.NewNop())
	userID := uuid.New()

	first := newBooking(userID, "2026-03-11")
	require.NoError(t, store.Booking.Create(ctx, first))
	require.ErrorIs(t, store.Booking.Create(ctx, newBooking(userID, "2026-03-11")), repository.ErrDuplicateActiveBooking)

	// A cancelled booking frees the pair
	first.Status = entity.BookingStatusCancelled
	require.NoError(t, store.Booking.Update(ctx, first))
	require.NoError(t, store.Booking.Create(ctx, newBooking(userID, "2026-03-11")))

	dup := newBooking(uuid.New(), "2026-03-12")
	dup.TicketCode = first.TicketCode
	require.ErrorIs(t, store.Booking.Create(ctx, dup), repository.ErrDuplicateTicketCode)
}

func TestBookingRepository_ExpireOverdue(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(zap.NewNop())
	from := []entity.BookingStatus{entity.BookingStatusBooked, entity.BookingStatusRescheduled}

	past := newBooking(uuid.New(), "2026-03-09")
	moved := newBooking(uuid.New(), "2026-03-09")
	moved.Status = entity.BookingStatusRescheduled
	verified := newBooking(uuid.New(), "2026-03-09")
	verified.Status = entity.BookingStatusVerified
	current := newBooking(uuid.New(), "2026-03-10")
	for _, b := range []*entity.Booking{past, moved, verified, current} {
		require.NoError(t, store.Booking.Create(ctx, b))
	}

	before := map[uuid.UUID]*entity.Booking{}
	for _, b := range []*entity.Booking{past, moved, verified, current} {
		got, err := store.Booking.FindByID(ctx, b.ID)
		require.NoError(t, err)
		before[b.ID] = got
	}

	now := time.Now()
	n, err := store.Booking.ExpireOverdue(ctx, from, utils.MustDate("2026-03-10"), now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, b := range []*entity.Booking{past, moved} {
		got, err := store.Booking.FindByID(ctx, b.ID)
		require.NoError(t, err)
		want := *before[b.ID]
		want.Status = entity.BookingStatusExpired
		want.UpdatedAt = now
		assert.Equal(t, &want, got)
	}
	for _, b := range []*entity.Booking{verified, current} {
		got, err := store.Booking.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, before[b.ID], got)
	}
}

func TestWithinTx_CancelledContext(t *testing.T) {
	store := memory.NewStore(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Tx.WithinTx(ctx, func(*repository.Repository) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestWithinTx_RowLocksAreKeyedByDate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(zap.NewNop())
	for _, d := range []string{"2026-03-11", "2026-03-12"} {
		_, err := store.Quota.Create(ctx, &entity.DailyQuota{VisitDate: utils.MustDate(d), Capacity: 5, Enabled: true})
		require.NoError(t, err)
	}

	locked := make(chan struct{})
	release := make(chan struct{})
	holder := make(chan error, 1)
	go func() {
		holder <- store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
			if _, err := repo.Quota.FindByDateForUpdate(ctx, utils.MustDate("2026-03-11")); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	// Another date goes through while 03-11 is held
	other := make(chan error, 1)
	go func() {
		other <- store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
			if _, err := repo.Quota.FindByDateForUpdate(ctx, utils.MustDate("2026-03-12")); err != nil {
				return err
			}
			return repo.Booking.Create(ctx, newBooking(uuid.New(), "2026-03-12"))
		})
	}()
	select {
	case err := <-other:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("transaction on 2026-03-12 blocked behind 2026-03-11")
	}

	// The same date waits for the holder
	sameCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	err := store.Tx.WithinTx(sameCtx, func(repo *repository.Repository) error {
		_, err := repo.Quota.FindByDateForUpdate(sameCtx, utils.MustDate("2026-03-11"))
		return err
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-holder)

	require.NoError(t, store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
		_, err := repo.Quota.FindByDateForUpdate(ctx, utils.MustDate("2026-03-11"))
		return err
	}))
}
