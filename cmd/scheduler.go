package cmd

import (
	"context"
	"fmt"

	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes cron's own messages into zap.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

// Scheduler runs the daily quota rollover and the expiry sweep on their
// cron schedules until ctx is cancelled.
func Scheduler(ctx context.Context, config utils.ScheduleConfig, service *usecase.Service, logger *zap.Logger) error {
	log := logger.With(zap.String("component", "scheduler"))

	if !config.Enabled {
		log.Info("Scheduler disabled")
		<-ctx.Done()
		return nil
	}

	provision := func() {
		if err := service.Provisioner.RunDaily(ctx); err != nil {
			log.Error("Daily quota rollover failed", zap.Error(err))
		}
	}
	sweep := func() {
		if _, err := service.Sweeper.Sweep(ctx); err != nil {
			log.Error("Expiry sweep failed", zap.Error(err))
		}
	}

	c := cron.New(cron.WithLogger(cronLogger{log: log}), cron.WithChain(cron.Recover(cronLogger{log: log})))

	if _, err := c.AddFunc(config.ProvisionCron, provision); err != nil {
		return fmt.Errorf("schedule provision %q: %w", config.ProvisionCron, err)
	}
	if _, err := c.AddFunc(config.SweepCron, sweep); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", config.SweepCron, err)
	}

	// A restart after midnight must not leave today unprovisioned.
	if config.RunOnStart {
		provision()
		sweep()
	}

	c.Start()
	log.Info("Scheduler started",
		zap.String("provision", config.ProvisionCron),
		zap.String("sweep", config.SweepCron),
	)

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
	return nil
}
