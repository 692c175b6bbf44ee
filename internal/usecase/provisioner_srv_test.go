package usecase_test

import (
	"testing"
	"time"

	"museum-booking/internal/dto/request"
	"museum-booking/pkg/apperror"
	"museum-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionFuture_Idempotent(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Provisioner.ProvisionFuture(f.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, created)

	created, err = f.service.Provisioner.ProvisionFuture(f.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	for i := 0; i < 7; i++ {
		snapshot, err := f.service.Quota.Info(f.ctx, utils.MustDate(today).AddDate(0, 0, i))
		require.NoError(t, err)
		assert.Equal(t, 2000, snapshot.Capacity)
		assert.True(t, snapshot.Enabled)
	}

	_, err = f.service.Quota.Info(f.ctx, utils.MustDate(today).AddDate(0, 0, 7))
	require.ErrorIs(t, err, apperror.ErrQuotaNotFound)
}

func TestProvisionFuture_KeepsAdjustedRows(t *testing.T) {
	f := newFixture(t)
	f.addQuota(t, tomorrow, 5)

	created, err := f.service.Provisioner.ProvisionFuture(f.ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	snapshot, err := f.service.Quota.Info(f.ctx, utils.MustDate(tomorrow))
	require.NoError(t, err)
	assert.Equal(t, 5, snapshot.Capacity)
}

func TestProvisionFuture_Bounds(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Provisioner.ProvisionFuture(f.ctx, 0)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.service.Provisioner.ProvisionFuture(f.ctx, 31)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestRunDaily_RetiresPast(t *testing.T) {
	f := newFixture(t)
	f.addQuota(t, yesterday, 10)

	require.NoError(t, f.service.Provisioner.RunDaily(f.ctx))

	snapshot, err := f.service.Quota.Info(f.ctx, utils.MustDate(yesterday))
	require.NoError(t, err)
	assert.True(t, snapshot.Retired)

	// Next day: one more date enters the window, today's row retires
	f.clock.Advance(24 * time.Hour)
	require.NoError(t, f.service.Provisioner.RunDaily(f.ctx))

	created, err := f.service.Provisioner.ProvisionFuture(f.ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	snapshot, err = f.service.Quota.Info(f.ctx, utils.MustDate(today))
	require.NoError(t, err)
	assert.True(t, snapshot.Retired)
}

func TestProvision_Request(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Provisioner.Provision(f.ctx, &request.ProvisionQuotaRequest{Days: 3})
	require.NoError(t, err)
	assert.Equal(t, today, resp.From)
	assert.Equal(t, dayAfter, resp.To)
	assert.Equal(t, 3, resp.Created)
}
