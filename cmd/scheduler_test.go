package cmd

import (
	"context"
	"testing"
	"time"

	"museum-booking/internal/data/repository/memory"
	"museum-booking/internal/usecase"
	"museum-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(clock utils.Clock) *usecase.Service {
	config := &utils.Config{
		Quota: utils.QuotaConfig{DefaultCapacity: 100, HorizonDays: 3, MaxProvisionDays: 30},
	}
	return usecase.NewService(memory.NewStore(zap.NewNop()), usecase.NoopNotifier(), config, clock, zap.NewNop())
}

func TestScheduler_RunOnStart(t *testing.T) {
	clock := utils.NewFixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local))
	service := newService(clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Scheduler(ctx, utils.ScheduleConfig{
			Enabled:       true,
			ProvisionCron: "0 0 * * *",
			SweepCron:     "0 12 * * *",
			RunOnStart:    true,
		}, service, zap.NewNop())
	}()

	require.Eventually(t, func() bool {
		_, err := service.Quota.Info(context.Background(), utils.MustDate("2026-03-12"))
		return err == nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_InvalidCron(t *testing.T) {
	service := newService(utils.SystemClock{})

	err := Scheduler(context.Background(), utils.ScheduleConfig{
		Enabled:       true,
		ProvisionCron: "every midnight",
		SweepCron:     "0 12 * * *",
	}, service, zap.NewNop())

	assert.Error(t, err)
}

func TestScheduler_Disabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Scheduler(ctx, utils.ScheduleConfig{}, newService(utils.SystemClock{}), zap.NewNop())
	assert.NoError(t, err)
}
