package adaptor

import (
	"encoding/json"
	"net/http"

	"museum-booking/internal/usecase"
	"museum-booking/pkg/apperror"
	"museum-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Booking *BookingHandler
	Quota   *QuotaHandler
	Job     *JobHandler
}

func NewHandler(service *usecase.Service, clock utils.Clock, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		User:    NewUserHandler(service.User, log),
		Booking: NewBookingHandler(service.Reservation, log),
		Quota:   NewQuotaHandler(service.Quota, service.Provisioner, log),
		Job:     NewJobHandler(service.Sweeper, clock, log),
	}
}

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation:      http.StatusBadRequest,
	apperror.KindUnauthenticated: http.StatusUnauthorized,
	apperror.KindAuthorization:   http.StatusForbidden,
	apperror.KindNotFound:        http.StatusNotFound,
	apperror.KindConflict:        http.StatusConflict,
	apperror.KindState:           http.StatusConflict,
	apperror.KindConfiguration:   http.StatusUnprocessableEntity,
}

// handleServiceError writes the error envelope for err. Services have
// already logged it; only untyped errors are logged here.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr, ok := apperror.As(err)
	if !ok {
		log.Error("Unhandled service error", zap.String("operation", operation), zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	status, ok := statusByKind[appErr.Kind]
	if !ok {
		utils.ResponseError(w, http.StatusInternalServerError, appErr.Code, "Internal server error", nil)
		return
	}

	var fields any
	if len(appErr.Fields) > 0 {
		fields = appErr.Fields
	}
	utils.ResponseError(w, status, appErr.Code, appErr.Message, fields)
}

func decodeJSON(r *http.Request, dst any) bool {
	return json.NewDecoder(r.Body).Decode(dst) == nil
}
