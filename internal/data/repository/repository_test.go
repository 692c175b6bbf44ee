package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestQuotaRepository_FindByDateForUpdate(t *testing.T) {
	mock := newMock(t)
	repo := repository.NewQuotaRepository(mock, zap.NewNop())

	ctx := context.Background()
	date := utils.MustDate("2026-03-11")

	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_quotas WHERE visit_date = $1 FOR UPDATE")).
		WithArgs(date).
		WillReturnError(pgx.ErrNoRows)

	quota, err := repo.FindByDateForUpdate(ctx, date)
	require.NoError(t, err)
	assert.Nil(t, quota)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(date).
		WillReturnError(errors.New("connection reset"))

	quota, err = repo.FindByDateForUpdate(ctx, date)
	require.Error(t, err)
	assert.Nil(t, quota)
}

func TestQuotaRepository_CreateIsIdempotent(t *testing.T) {
	mock := newMock(t)
	repo := repository.NewQuotaRepository(mock, zap.NewNop())

	quota := &entity.DailyQuota{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		VisitDate:    utils.MustDate("2026-03-11"),
		Capacity:     2000,
		Enabled:      true,
	}
	insert := regexp.QuoteMeta("ON CONFLICT (visit_date) DO NOTHING")

	mock.ExpectExec(insert).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(insert).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.Create(context.Background(), quota)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(context.Background(), quota)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestBookingRepository_CreateMapsUniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"uq_bookings_active_user_date", repository.ErrDuplicateActiveBooking},
		{"uq_bookings_ticket_code", repository.ErrDuplicateTicketCode},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			mock := newMock(t)
			repo := repository.NewBookingRepository(mock, zap.NewNop())

			mock.ExpectExec("INSERT INTO bookings").
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &entity.Booking{
				BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
				UserID:       uuid.New(),
				VisitDate:    utils.MustDate("2026-03-11"),
				TicketCode:   utils.GenerateTicketCode(),
				Status:       entity.BookingStatusBooked,
			})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBookingRepository_CountActiveByDate(t *testing.T) {
	mock := newMock(t)
	repo := repository.NewBookingRepository(mock, zap.NewNop())
	date := utils.MustDate("2026-03-11")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings WHERE visit_date = $1 AND status = ANY($2)")).
		WithArgs(date, []string{"booked", "rescheduled", "verified"}).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1999))

	n, err := repo.CountActiveByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 1999, n)
}

func TestTransactor(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		mock := newMock(t)
		store := repository.NewStore(mock, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE daily_quotas").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		err := store.Tx.WithinTx(ctx, func(repo *repository.Repository) error {
			return repo.Quota.Update(ctx, &entity.DailyQuota{
				BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
				VisitDate:    utils.MustDate("2026-03-11"),
				Capacity:     10,
			})
		})
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		mock := newMock(t)
		store := repository.NewStore(mock, zap.NewNop())
		boom := errors.New("quota exhausted")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := store.Tx.WithinTx(ctx, func(*repository.Repository) error {
			return boom
		})
		require.ErrorIs(t, err, boom)
	})

	t.Run("begin failure", func(t *testing.T) {
		mock := newMock(t)
		store := repository.NewStore(mock, zap.NewNop())

		mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

		err := store.Tx.WithinTx(ctx, func(*repository.Repository) error {
			t.Fatal("fn must not run")
			return nil
		})
		require.Error(t, err)
	})
}

func TestNoticeRepository_MarkAllRead(t *testing.T) {
	mock := newMock(t)
	repo := repository.NewNoticeRepository(mock, zap.NewNop())
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_notices SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE")).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.MarkAllRead(context.Background(), userID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_notices")).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	notice, err := repo.FindByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, notice)
}
