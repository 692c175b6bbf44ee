package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"museum-booking/internal/usecase"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// StreamSink publishes events as JSON messages, one topic per kind:
// <prefix>booking.created, <prefix>booking.rescheduled, ...
type StreamSink struct {
	publisher message.Publisher
	prefix    string
}

func NewStreamSink(publisher message.Publisher, prefix string) *StreamSink {
	return &StreamSink{publisher: publisher, prefix: prefix}
}

func (s *StreamSink) Name() string { return "stream" }

func (s *StreamSink) Topic(kind usecase.BookingEventKind) string {
	return s.prefix + "booking." + string(kind)
}

func (s *StreamSink) Send(ctx context.Context, event usecase.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", string(event.Kind))
	msg.SetContext(ctx)

	if err := s.publisher.Publish(s.Topic(event.Kind), msg); err != nil {
		return fmt.Errorf("publish booking event: %w", err)
	}
	return nil
}

// NewRedisStreamPublisher connects a Watermill publisher to Redis Streams.
func NewRedisStreamPublisher(rdb redis.UniversalClient, logger watermill.LoggerAdapter) (message.Publisher, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}
	return publisher, nil
}
