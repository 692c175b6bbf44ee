// Package notify delivers committed booking events to visitors and to
// downstream consumers. Delivery is best effort: failures are logged
// and never reach the booking caller.
package notify

import (
	"context"
	"fmt"
	"time"

	"museum-booking/internal/usecase"

	"go.uber.org/zap"
)

// Sink is one delivery channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, event usecase.BookingEvent) error
}

// Fanout sends every event to each sink in turn.
type Fanout struct {
	sinks   []Sink
	timeout time.Duration
	log     *zap.Logger
}

func NewFanout(log *zap.Logger, timeout time.Duration, sinks ...Sink) *Fanout {
	return &Fanout{
		sinks:   sinks,
		timeout: timeout,
		log:     log.With(zap.String("component", "notify")),
	}
}

// Publish implements usecase.NotificationPort.
func (f *Fanout) Publish(ctx context.Context, event usecase.BookingEvent) {
	// The request may finish before delivery does
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	for _, sink := range f.sinks {
		if err := f.send(ctx, sink, event); err != nil {
			f.log.Warn("Notification failed",
				zap.String("sink", sink.Name()),
				zap.String("kind", string(event.Kind)),
				zap.String("booking_id", event.BookingID.String()),
				zap.Error(err))
		}
	}
}

func (f *Fanout) send(ctx context.Context, sink Sink, event usecase.BookingEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()
	return sink.Send(ctx, event)
}
