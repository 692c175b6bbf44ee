package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	VisitDate  string   `json:"visit_date" validate:"required,datetime=2006-01-02"`
	TicketCode string   `json:"ticket_code" validate:"omitempty,len=32,hexadecimal"`
	Status     string   `json:"status" validate:"omitempty,oneof=booked cancelled"`
	UserIDs    []string `json:"user_ids" validate:"omitempty,unique,dive,uuid"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(&sampleRequest{VisitDate: "2026-03-10"}))

	errs := ValidateStruct(&sampleRequest{
		VisitDate:  "10-03-2026",
		TicketCode: "xyz",
		Status:     "lost",
		UserIDs:    []string{"a", "a"},
	})

	assert.Equal(t, "Must be a date in 2006-01-02 format", errs["visit_date"])
	assert.Equal(t, "Must be exactly 32 characters", errs["ticket_code"])
	assert.Equal(t, "Must be one of: booked, cancelled", errs["status"])
	assert.Equal(t, "Must not contain duplicates", errs["user_ids"])
}

func TestValidateStruct_Required(t *testing.T) {
	errs := ValidateStruct(&sampleRequest{})
	assert.Equal(t, map[string]string{"visit_date": "This field is required"}, errs)
	assert.Equal(t, "visit_date: This field is required", FormatValidationErrors(errs))
}
