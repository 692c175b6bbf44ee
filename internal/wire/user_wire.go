package wire

import (
	"net/http"

	"museum-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures profile and notice routes for the signed-in visitor
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, auth func(http.Handler) http.Handler) {
	r.Route("/api/user", func(r chi.Router) {
		r.Use(auth)

		r.Get("/profile", userHandler.GetProfile)    // GET /api/user/profile
		r.Put("/profile", userHandler.UpdateProfile) // PUT /api/user/profile (real-name binding)
		r.Get("/notices", userHandler.GetNotices)    // GET /api/user/notices?page=1&per_page=10
		r.Put("/notices/read-all", userHandler.ReadAllNotices)
		r.Get("/notices/{id}", userHandler.GetNotice)
	})
}
