package notify

import (
	"context"
	"fmt"

	"museum-booking/internal/data/entity"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"github.com/google/uuid"
)

var noticeTitles = map[usecase.BookingEventKind]string{
	usecase.BookingCreated:     "Booking confirmed",
	usecase.BookingRescheduled: "Booking rescheduled",
	usecase.BookingCancelled:   "Booking cancelled",
}

// NoticeSink stores an in-app notice for the visitor.
type NoticeSink struct {
	notices repository.NoticeRepository
	clock   utils.Clock
}

func NewNoticeSink(notices repository.NoticeRepository, clock utils.Clock) *NoticeSink {
	return &NoticeSink{notices: notices, clock: clock}
}

func (s *NoticeSink) Name() string { return "notice" }

func (s *NoticeSink) Send(ctx context.Context, event usecase.BookingEvent) error {
	title, ok := noticeTitles[event.Kind]
	if !ok {
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}

	notice := &entity.Notice{
		UserID:    event.UserID,
		BookingID: event.BookingID,
		Kind:      entity.NoticeKind(event.Kind),
		Title:     title,
		Content:   fmt.Sprintf("%s for %s. Ticket code: %s", title, event.VisitDate, event.TicketCode),
	}
	notice.ID = uuid.New()
	notice.CreatedAt = s.clock.Now()

	return s.notices.Create(ctx, notice)
}
