package request

type CreateBookingRequest struct {
	VisitDate string `json:"visit_date" validate:"required,datetime=2006-01-02"`
}

type BatchCreateBookingRequest struct {
	VisitDate string   `json:"visit_date" validate:"required,datetime=2006-01-02"`
	UserIDs   []string `json:"user_ids" validate:"required,min=1,max=500,unique,dive,uuid"`
}

type RescheduleBookingRequest struct {
	NewVisitDate string `json:"new_visit_date" validate:"required,datetime=2006-01-02"`
}

type CancelBookingRequest struct {
	CancelReason *string `json:"cancel_reason,omitempty" validate:"omitempty,max=255"`
}

type VerifyBookingRequest struct {
	TicketCode string `json:"ticket_code" validate:"required,len=32,hexadecimal"`
}

type MyBookingsRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=booked rescheduled cancelled verified expired"`
}

// BookingQueryRequest is the admin search. VisitDate defaults to today when empty.
type BookingQueryRequest struct {
	PaginatedRequest
	VisitDate  string `json:"visit_date" validate:"omitempty,datetime=2006-01-02"`
	Status     string `json:"status" validate:"omitempty,oneof=booked rescheduled cancelled verified expired"`
	TicketCode string `json:"ticket_code" validate:"omitempty,max=32"`
	UserID     string `json:"user_id" validate:"omitempty,uuid"`
}
