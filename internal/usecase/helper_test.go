package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/data/repository/memory"
	"museum-booking/internal/dto/request"
	"museum-booking/internal/dto/response"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	yesterday = "2026-03-09"
	today     = "2026-03-10"
	tomorrow  = "2026-03-11"
	dayAfter  = "2026-03-12"
)

func testConfig() *utils.Config {
	return &utils.Config{
		Quota: utils.QuotaConfig{
			DefaultCapacity:  2000,
			HorizonDays:      7,
			MaxProvisionDays: 30,
		},
		Session: utils.SessionConfig{ExpiryHours: 24},
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []usecase.BookingEvent
}

func (n *recordingNotifier) Publish(_ context.Context, event usecase.BookingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) kinds() []usecase.BookingEventKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]usecase.BookingEventKind, len(n.events))
	for i, e := range n.events {
		out[i] = e.Kind
	}
	return out
}

type fixture struct {
	ctx     context.Context
	store   *repository.Store
	clock   *utils.FixedClock
	events  *recordingNotifier
	service *usecase.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := utils.NewFixedClock(time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local))
	store := memory.NewStore(zap.NewNop())
	events := &recordingNotifier{}

	return &fixture{
		ctx:     context.Background(),
		store:   store,
		clock:   clock,
		events:  events,
		service: usecase.NewService(store, events, testConfig(), clock, zap.NewNop()),
	}
}

func strPtr(s string) *string { return &s }

func (f *fixture) addVisitor(t *testing.T, verified bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := f.clock.Now()
	user := &entity.User{
		Base:     entity.Base{ID: id, CreatedAt: now, UpdatedAt: now},
		Username: "visitor-" + id.String(),
		Email:    id.String() + "@example.com",
		Role:     entity.RoleVisitor,
		IsActive: true,
	}
	if verified {
		user.RealName = strPtr("Ana Visitor")
		user.IDNo = strPtr("3201010101010001")
		user.Phone = strPtr("081234567890")
	}

	require.NoError(t, f.store.User.Create(f.ctx, user))
	return id
}

func (f *fixture) addQuota(t *testing.T, date string, capacity int) {
	t.Helper()

	now := f.clock.Now()
	created, err := f.store.Quota.Create(f.ctx, &entity.DailyQuota{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		VisitDate:    utils.MustDate(date),
		Capacity:     capacity,
		Enabled:      true,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func (f *fixture) book(t *testing.T, userID uuid.UUID, date string) *response.BookingResponse {
	t.Helper()

	resp, err := f.service.Reservation.CreateBooking(f.ctx, userID, &request.CreateBookingRequest{VisitDate: date})
	require.NoError(t, err)
	return resp
}

func (f *fixture) reserved(t *testing.T, date string) int {
	t.Helper()

	n, err := f.store.Booking.CountActiveByDate(f.ctx, utils.MustDate(date))
	require.NoError(t, err)
	return n
}

func (f *fixture) status(t *testing.T, bookingID string) entity.BookingStatus {
	t.Helper()
	return f.snapshot(t, bookingID).Status
}

func (f *fixture) snapshot(t *testing.T, bookingID string) *entity.Booking {
	t.Helper()

	b, err := f.store.Booking.FindByID(f.ctx, uuid.MustParse(bookingID))
	require.NoError(t, err)
	require.NotNil(t, b)
	return b
}
