package usecase_test

import (
	"testing"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/dto/request"
	"museum-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) addNotice(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()

	notice := &entity.Notice{
		UserID:    userID,
		BookingID: uuid.New(),
		Kind:      entity.NoticeBookingCreated,
		Title:     "Booking confirmed",
		Content:   "Booking confirmed for " + tomorrow,
	}
	notice.ID = uuid.New()
	notice.CreatedAt = f.clock.Now()
	require.NoError(t, f.store.Notice.Create(f.ctx, notice))
	return notice.ID
}

func TestGetNotice_MarksRead(t *testing.T) {
	f := newFixture(t)
	visitor := f.addVisitor(t, true)
	id := f.addNotice(t, visitor)

	notice, err := f.service.User.GetNotice(f.ctx, visitor, id)
	require.NoError(t, err)
	assert.True(t, notice.IsRead)

	stored, err := f.store.Notice.FindByID(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)

	// Another visitor cannot see it
	_, err = f.service.User.GetNotice(f.ctx, f.addVisitor(t, true), id)
	require.ErrorIs(t, err, apperror.ErrNoticeNotFound)

	_, err = f.service.User.GetNotice(f.ctx, visitor, uuid.New())
	require.ErrorIs(t, err, apperror.ErrNoticeNotFound)
}

func TestReadAllNotices(t *testing.T) {
	f := newFixture(t)
	visitor := f.addVisitor(t, true)
	other := f.addVisitor(t, true)
	for i := 0; i < 3; i++ {
		f.addNotice(t, visitor)
	}
	untouched := f.addNotice(t, other)

	result, err := f.service.User.ReadAllNotices(f.ctx, visitor)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Updated)

	page, err := f.service.User.GetNotices(f.ctx, visitor, &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	for _, n := range page.Data {
		assert.True(t, n.IsRead)
	}

	stored, err := f.store.Notice.FindByID(f.ctx, untouched)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)

	result, err = f.service.User.ReadAllNotices(f.ctx, visitor)
	require.NoError(t, err)
	assert.EqualValues(t, 0, result.Updated)
}
