package adaptor

import (
	"net/http"

	"museum-booking/internal/dto/request"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.ReservationService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// bookingParams pulls the caller and the {id} path parameter.
func bookingParams(w http.ResponseWriter, r *http.Request) (bookingID, userID uuid.UUID, ok bool) {
	userID, ok = utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return bookingID, userID, true
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(r, &req) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// GetMyBookings handles GET /api/bookings
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := &request.MyBookingsRequest{
		PaginatedRequest: *pageFromQuery(r),
		Status:           r.URL.Query().Get("status"),
	}

	bookings, err := h.service.QueryMyBookings(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "query my bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, userID, ok := bookingParams(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// RescheduleBooking handles PUT /api/bookings/{id}/reschedule
func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, userID, ok := bookingParams(w, r)
	if !ok {
		return
	}

	var req request.RescheduleBookingRequest
	if !decodeJSON(r, &req) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.RescheduleBooking(r.Context(), bookingID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reschedule booking")
		return
	}

	utils.ResponseSuccess(w, "Booking rescheduled", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, userID, ok := bookingParams(w, r)
	if !ok {
		return
	}

	// Reason is optional, an empty body is fine
	var req request.CancelBookingRequest
	if r.ContentLength != 0 && !decodeJSON(r, &req) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), bookingID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}

// ==================== ADMIN METHODS ====================

// VerifyBooking handles POST /api/admin/bookings/verify
func (h *BookingHandler) VerifyBooking(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyBookingRequest
	if !decodeJSON(r, &req) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.VerifyBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify booking")
		return
	}

	utils.ResponseSuccess(w, "Booking verified", booking)
}

// BatchCreateBookings handles POST /api/admin/bookings/batch
func (h *BookingHandler) BatchCreateBookings(w http.ResponseWriter, r *http.Request) {
	var req request.BatchCreateBookingRequest
	if !decodeJSON(r, &req) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.BatchCreateBookings(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "batch create bookings")
		return
	}

	utils.ResponseSuccess(w, "Batch booking finished", result)
}

// SearchBookings handles GET /api/admin/bookings
func (h *BookingHandler) SearchBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.BookingQueryRequest{
		PaginatedRequest: *pageFromQuery(r),
		VisitDate:        query.Get("visit_date"),
		Status:           query.Get("status"),
		TicketCode:       query.Get("ticket_code"),
		UserID:           query.Get("user_id"),
	}

	bookings, err := h.service.QueryByAdminFilters(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "search bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
