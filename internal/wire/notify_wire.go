package wire

import (
	"context"
	"fmt"
	"time"

	"museum-booking/internal/adaptor/notify"
	"museum-booking/internal/data/repository"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const notifyTimeout = 5 * time.Second

// Notifier builds the notification fan-out: in-app notices always, plus
// a Redis stream when REDIS_ADDR is configured. close releases the
// Redis resources and is never nil.
func Notifier(
	ctx context.Context,
	store *repository.Store,
	config *utils.Config,
	clock utils.Clock,
	logger *zap.Logger,
) (port usecase.NotificationPort, close func() error, err error) {
	sinks := []notify.Sink{notify.NewNoticeSink(store.Notice, clock)}
	close = func() error { return nil }

	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", config.Redis.Addr, err)
		}

		publisher, err := notify.NewRedisStreamPublisher(rdb, notify.NewZapLoggerAdapter(logger))
		if err != nil {
			rdb.Close()
			return nil, nil, err
		}

		sinks = append(sinks, notify.NewStreamSink(publisher, config.Redis.StreamPrefix))
		close = func() error {
			if err := publisher.Close(); err != nil {
				return err
			}
			return rdb.Close()
		}

		logger.Info("Booking events streamed to redis", zap.String("addr", config.Redis.Addr))
	}

	return notify.NewFanout(logger, notifyTimeout, sinks...), close, nil
}
