package response

import (
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/pkg/utils"
)

const (
	QuotaStatusAvailable = "available"
	QuotaStatusFull      = "full"
	QuotaStatusDisabled  = "disabled"
	QuotaStatusRetired   = "retired"
)

type QuotaResponse struct {
	VisitDate string `json:"visit_date"`
	Capacity  int    `json:"capacity"`
	Reserved  int    `json:"reserved"`
	Remaining int    `json:"remaining"`
	Enabled   bool   `json:"enabled"`
	Status    string `json:"status"`
}

func QuotaToResponse(s *entity.QuotaSnapshot) QuotaResponse {
	status := QuotaStatusAvailable
	switch {
	case s.Retired:
		status = QuotaStatusRetired
	case !s.Enabled:
		status = QuotaStatusDisabled
	case s.Remaining() == 0:
		status = QuotaStatusFull
	}

	return QuotaResponse{
		VisitDate: utils.FormatDate(s.VisitDate),
		Capacity:  s.Capacity,
		Reserved:  s.Reserved,
		Remaining: s.Remaining(),
		Enabled:   s.Enabled,
		Status:    status,
	}
}

type ProvisionResponse struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Created int    `json:"created"`
}

type SweepResponse struct {
	Expired int64     `json:"expired"`
	RanAt   time.Time `json:"ran_at"`
}
