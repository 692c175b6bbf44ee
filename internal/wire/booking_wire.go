package wire

import (
	"net/http"

	"museum-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth, admin func(http.Handler) http.Handler) {
	// ==================== VISITOR ROUTES ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(auth)

		r.Post("/", bookingHandler.CreateBooking)                  // POST /api/bookings
		r.Get("/", bookingHandler.GetMyBookings)                   // GET /api/bookings?status=&page=
		r.Get("/{id}", bookingHandler.GetBooking)                  // GET /api/bookings/{id}
		r.Put("/{id}/reschedule", bookingHandler.RescheduleBooking) // PUT /api/bookings/{id}/reschedule
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)         // PUT /api/bookings/{id}/cancel
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(auth, admin)

		r.Get("/", bookingHandler.SearchBookings)            // GET /api/admin/bookings?visit_date=&status=&ticket_code=
		r.Post("/verify", bookingHandler.VerifyBooking)      // POST /api/admin/bookings/verify
		r.Post("/batch", bookingHandler.BatchCreateBookings) // POST /api/admin/bookings/batch
	})
}
