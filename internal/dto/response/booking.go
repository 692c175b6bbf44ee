package response

import (
	"time"

	"museum-booking/internal/data/entity"
	"museum-booking/pkg/utils"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	VisitDate     string               `json:"visit_date"`
	TicketCode    string               `json:"ticket_code"`
	Status        entity.BookingStatus `json:"status"`
	CancelReason  *string              `json:"cancel_reason,omitempty"`
	VerifiedAt    *time.Time           `json:"verified_at,omitempty"`
	RescheduledAt *time.Time           `json:"rescheduled_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		VisitDate:     utils.FormatDate(b.VisitDate),
		TicketCode:    b.TicketCode,
		Status:        b.Status,
		CancelReason:  b.CancelReason,
		VerifiedAt:    b.VerifiedAt,
		RescheduledAt: b.RescheduledAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

type BatchFailure struct {
	UserID  string `json:"user_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BatchBookingResponse struct {
	SuccessCount int               `json:"success_count"`
	FailCount    int               `json:"fail_count"`
	SuccessList  []BookingResponse `json:"success_list"`
	Failed       []BatchFailure    `json:"failed"`
}
