package wire_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository/memory"
	"museum-booking/internal/wire"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func (s *testServer) login(username, password string) string {
	s.t.Helper()

	status, env := s.do(http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(s.t, http.StatusOK, status, env.Message)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &auth))
	return auth.Token
}

func newTestServer(t *testing.T) (*testServer, *utils.FixedClock) {
	t.Helper()

	ctx := context.Background()
	log := zap.NewNop()
	clock := utils.NewFixedClock(time.Now())
	store := memory.NewStore(log)
	config := &utils.Config{
		Quota:   utils.QuotaConfig{DefaultCapacity: 2, HorizonDays: 7, MaxProvisionDays: 30},
		Session: utils.SessionConfig{ExpiryHours: 1},
	}

	notifier, closeNotifier, err := wire.Notifier(ctx, store, config, clock, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeNotifier() })

	hash, err := utils.HashPassword("admin-secret")
	require.NoError(t, err)
	now := clock.Now()
	require.NoError(t, store.User.Create(ctx, &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username:     "curator",
		Email:        "curator@example.com",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}))

	app := wire.Wiring(store, notifier, config, clock, log)
	return &testServer{t: t, handler: app.Router}, clock
}

func TestRouter_BookingJourney(t *testing.T) {
	srv, clock := newTestServer(t)
	tomorrow := utils.FormatDate(utils.Today(clock).AddDate(0, 0, 1))

	status, _ := srv.do(http.MethodPost, "/api/register", "", map[string]string{
		"username":  "ana",
		"email":     "ana@example.com",
		"password":  "secret123",
		"real_name": "Ana Visitor",
		"id_no":     "3201010101010001",
		"phone":     "081234567890",
	})
	require.Equal(t, http.StatusCreated, status)

	visitor := srv.login("ana", "secret123")
	admin := srv.login("curator", "admin-secret")

	// No quota yet for the date
	status, env := srv.do(http.MethodPost, "/api/bookings", visitor, map[string]string{"visit_date": tomorrow})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "QUOTA_MISSING", env.Code)

	status, _ = srv.do(http.MethodPost, "/api/admin/quota/provision", visitor, map[string]int{"days": 3})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = srv.do(http.MethodPost, "/api/admin/quota/provision", admin, map[string]int{"days": 3})
	require.Equal(t, http.StatusCreated, status)

	status, env = srv.do(http.MethodPost, "/api/bookings", visitor, map[string]string{"visit_date": tomorrow})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var booking struct {
		ID         string `json:"id"`
		TicketCode string `json:"ticket_code"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	assert.Equal(t, "booked", booking.Status)

	status, env = srv.do(http.MethodPost, "/api/bookings", visitor, map[string]string{"visit_date": tomorrow})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_BOOKED", env.Code)

	status, env = srv.do(http.MethodGet, "/api/quota?date="+tomorrow, "", nil)
	require.Equal(t, http.StatusOK, status)
	var quota struct {
		Capacity  int `json:"capacity"`
		Reserved  int `json:"reserved"`
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quota))
	assert.Equal(t, 2, quota.Capacity)
	assert.Equal(t, 1, quota.Reserved)
	assert.Equal(t, 1, quota.Remaining)

	status, env = srv.do(http.MethodPost, "/api/admin/bookings/verify", admin, map[string]string{"ticket_code": booking.TicketCode})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = srv.do(http.MethodPost, "/api/admin/bookings/verify", admin, map[string]string{"ticket_code": booking.TicketCode})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_VERIFIED", env.Code)

	status, env = srv.do(http.MethodPut, "/api/bookings/"+booking.ID+"/cancel", visitor, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", env.Code)

	status, env = srv.do(http.MethodGet, "/api/user/notices", visitor, nil)
	require.Equal(t, http.StatusOK, status)
	var notices struct {
		Data []struct {
			ID     string `json:"id"`
			Kind   string `json:"kind"`
			IsRead bool   `json:"is_read"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notices))
	require.Len(t, notices.Data, 1)
	assert.Equal(t, "created", notices.Data[0].Kind)
	assert.False(t, notices.Data[0].IsRead)

	status, env = srv.do(http.MethodGet, "/api/user/notices/"+notices.Data[0].ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOTICE_NOT_FOUND", env.Code)

	status, env = srv.do(http.MethodPut, "/api/user/notices/read-all", visitor, nil)
	require.Equal(t, http.StatusOK, status)
	var readAll struct {
		Updated int64 `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &readAll))
	assert.EqualValues(t, 1, readAll.Updated)

	status, env = srv.do(http.MethodGet, "/api/user/notices/"+notices.Data[0].ID, visitor, nil)
	require.Equal(t, http.StatusOK, status)
	var notice struct {
		IsRead bool `json:"is_read"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notice))
	assert.True(t, notice.IsRead)
}

func TestRouter_IdentityAndAuth(t *testing.T) {
	srv, clock := newTestServer(t)
	tomorrow := utils.FormatDate(utils.Today(clock).AddDate(0, 0, 1))

	status, _ := srv.do(http.MethodGet, "/api/bookings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = srv.do(http.MethodGet, "/api/bookings", uuid.NewString(), nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = srv.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "budi",
		"email":    "budi@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	visitor := srv.login("budi", "secret123")

	status, env := srv.do(http.MethodPost, "/api/bookings", visitor, map[string]string{"visit_date": tomorrow})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "IDENTITY_REQUIRED", env.Code)

	status, env = srv.do(http.MethodPost, "/api/bookings", visitor, map[string]string{"visit_date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", env.Code)

	status, _ = srv.do(http.MethodPost, "/api/logout", visitor, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = srv.do(http.MethodGet, "/api/user/profile", visitor, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nowhere", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
