package response

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafetyStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusPassed))
	assert.True(t, StatusPending.CanTransitionTo(StatusRecalled))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))

	assert.True(t, StatusPassed.CanTransitionTo(StatusPassed))
	assert.False(t, StatusPassed.CanTransitionTo(StatusRecalled))
	assert.False(t, StatusPassed.CanTransitionTo(StatusPending))

	assert.True(t, StatusRecalled.CanTransitionTo(StatusRecalled))
	assert.False(t, StatusRecalled.CanTransitionTo(StatusPassed))
	assert.False(t, StatusRecalled.CanTransitionTo(StatusPending))

	assert.False(t, StatusPending.CanTransitionTo(SafetyStatus("deleted")))
}

func TestParseSafetyStatus(t *testing.T) {
	s, err := ParseSafetyStatus("passed")
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, s)
	assert.True(t, s.IsTerminal())

	_, err = ParseSafetyStatus("PASSED")
	assert.Error(t, err)
}

func TestSafetyResult_ValueScan(t *testing.T) {
	checked := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	v, err := SafetyResult{CheckedAt: checked}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"checked_at":"2025-03-01T10:00:00Z"}`, string(v.([]byte)))

	var out SafetyResult
	require.NoError(t, out.Scan(v))
	assert.True(t, checked.Equal(out.CheckedAt))
	assert.Error(t, out.Scan(42))
}
