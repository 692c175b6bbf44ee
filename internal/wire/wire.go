package wire

import (
	"net/http"

	"museum-booking/internal/adaptor"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/middleware"
	"museum-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the router and the services the background jobs need
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes over store
func Wiring(
	store *repository.Store,
	notifier usecase.NotificationPort,
	config *utils.Config,
	clock utils.Clock,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(store, notifier, config, clock, logger)
	handler := adaptor.NewHandler(service, clock, logger)

	router := setupRouter(handler, store.Repository, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	auth := middleware.AuthSession(repo.Session, repo.User, logger)
	admin := middleware.Admin(logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth)
	wireBooking(r, handler.Booking, auth, admin)
	wireQuota(r, handler.Quota, handler.Job, auth, admin)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "route not found")
	})

	return r
}
