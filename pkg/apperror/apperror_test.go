package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithfKeepsIdentity(t *testing.T) {
	err := ErrQuotaExhausted.Withf("date %s is full", "2026-05-01")

	assert.True(t, errors.Is(err, ErrQuotaExhausted))
	assert.False(t, errors.Is(err, ErrQuotaDisabled))
	assert.Equal(t, "date 2026-05-01 is full", err.Error())
	assert.Equal(t, "no remaining capacity for this date", ErrQuotaExhausted.Message)
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("reserve: %w", ErrRescheduleLimit)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindConflict, appErr.Kind)
	assert.Equal(t, "RESCHEDULE_LIMIT_EXCEEDED", appErr.Code)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindState, KindOf(ErrAlreadyVerified))
	assert.Equal(t, KindConfiguration, KindOf(ErrQuotaMissing))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "create booking")

	assert.Equal(t, KindInternal, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create booking failed", err.Message)
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation(map[string]string{"VisitDate": "This field is required"}, "VisitDate: This field is required")

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "This field is required", err.Fields["VisitDate"])
}
