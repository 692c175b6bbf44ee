package wire

import (
	"net/http"

	"museum-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireQuota(
	r chi.Router,
	quotaHandler *adaptor.QuotaHandler,
	jobHandler *adaptor.JobHandler,
	auth, admin func(http.Handler) http.Handler,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/quota", quotaHandler.GetQuota) // GET /api/quota?date=YYYY-MM-DD

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth, admin)

		r.Put("/api/admin/quota", quotaHandler.UpdateQuota)
		r.Post("/api/admin/quota/provision", quotaHandler.ProvisionQuota)
		r.Post("/api/admin/jobs/sweep", jobHandler.Sweep)
	})
}
