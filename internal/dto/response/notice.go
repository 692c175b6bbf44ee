package response

import (
	"time"

	"museum-booking/internal/data/entity"
)

type NoticeResponse struct {
	ID        string            `json:"id"`
	BookingID string            `json:"booking_id"`
	Kind      entity.NoticeKind `json:"kind"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	IsRead    bool              `json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}

func NoticeToResponse(n *entity.Notice) NoticeResponse {
	return NoticeResponse{
		ID:        n.ID.String(),
		BookingID: n.BookingID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

type ReadAllNoticesResponse struct {
	Updated int64 `json:"updated"`
}
