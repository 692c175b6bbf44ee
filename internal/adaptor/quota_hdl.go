package adaptor

import (
	"net/http"

	"museum-booking/internal/dto/request"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"go.uber.org/zap"
)

type QuotaHandler struct {
	quota       usecase.QuotaService
	provisioner usecase.ProvisionService
	log         *zap.Logger
}

func NewQuotaHandler(quota usecase.QuotaService, provisioner usecase.ProvisionService, log *zap.Logger) *QuotaHandler {
	return &QuotaHandler{
		quota:       quota,
		provisioner: provisioner,
		log:         log.With(zap.String("handler", "quota")),
	}
}

// GetQuota handles GET /api/quota?date=YYYY-MM-DD
func (h *QuotaHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	req := &request.QuotaQueryRequest{Date: r.URL.Query().Get("date")}

	quota, err := h.quota.GetQuota(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get quota")
		return
	}

	utils.ResponseSuccess(w, "success", quota)
}

// UpdateQuota handles PUT /api/admin/quota
func (h *QuotaHandler) UpdateQuota(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateQuotaRequest
	if !decodeJSON(r, &req) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	quota, err := h.quota.UpdateQuota(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update quota")
		return
	}

	utils.ResponseSuccess(w, "Quota updated", quota)
}

// ProvisionQuota handles POST /api/admin/quota/provision
func (h *QuotaHandler) ProvisionQuota(w http.ResponseWriter, r *http.Request) {
	var req request.ProvisionQuotaRequest
	if !decodeJSON(r, &req) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.provisioner.Provision(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "provision quota")
		return
	}

	utils.ResponseCreated(w, "Quota provisioned", result)
}
