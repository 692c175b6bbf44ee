package adaptor

import (
	"net/http"

	"museum-booking/internal/dto/response"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"go.uber.org/zap"
)

// JobHandler lets an admin trigger scheduled jobs by hand.
type JobHandler struct {
	sweeper usecase.SweepService
	clock   utils.Clock
	log     *zap.Logger
}

func NewJobHandler(sweeper usecase.SweepService, clock utils.Clock, log *zap.Logger) *JobHandler {
	return &JobHandler{
		sweeper: sweeper,
		clock:   clock,
		log:     log.With(zap.String("handler", "job")),
	}
}

// Sweep handles POST /api/admin/jobs/sweep
func (h *JobHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	expired, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "sweep")
		return
	}

	utils.ResponseSuccess(w, "Sweep finished", response.SweepResponse{
		Expired: expired,
		RanAt:   h.clock.Now(),
	})
}
