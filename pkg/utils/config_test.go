package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("QUOTA_DEFAULT_CAPACITY", "500")
	t.Setenv("SCHEDULE_SWEEP_CRON", "30 12 * * *")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, config.Database.Driver)
	assert.Equal(t, 500, config.Quota.DefaultCapacity)
	assert.Equal(t, 7, config.Quota.HorizonDays)
	assert.Equal(t, "30 12 * * *", config.Schedule.SweepCron)
	assert.Equal(t, "0 0 * * *", config.Schedule.ProvisionCron)
	assert.Equal(t, 24, config.Session.ExpiryHours)
}
