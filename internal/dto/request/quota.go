package request

type QuotaQueryRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type UpdateQuotaRequest struct {
	VisitDate string `json:"visit_date" validate:"required,datetime=2006-01-02"`
	Capacity  *int   `json:"capacity,omitempty" validate:"omitempty,min=0"`
	Enabled   *bool  `json:"enabled,omitempty"`
}

type ProvisionQuotaRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}
