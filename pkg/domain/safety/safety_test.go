package safety_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComplexity(t *testing.T) {
	assert.Equal(t, safety.ComplexitySimple, safety.ParseComplexity("SIMPLE"))
	assert.Equal(t, safety.ComplexityComplex, safety.ParseComplexity("complex"))
	assert.Equal(t, safety.ComplexitySuperComplex, safety.ParseComplexity(" SUPER_COMPLEX"))
	assert.Equal(t, safety.ComplexitySimple, safety.ParseComplexity("MEDIUM"))
	assert.Equal(t, safety.ComplexitySimple, safety.ParseComplexity(""))
}

func TestPreSafetyState_Aggregate_FirstBlockingWins(t *testing.T) {
	state := safety.NewPreSafetyState("hello")
	state.Verdicts = []safety.DetectorVerdict{
		safety.Pass("banned_word"),
		safety.Block("prompt_injection", safety.ReasonPromptInjection, "confidence 0.90"),
		safety.Block("sensitive_topic", safety.ReasonSensitiveTopic, "confidence 0.95"),
	}

	state.Aggregate()

	assert.True(t, state.IsBlocked)
	assert.Equal(t, safety.ReasonPromptInjection, state.BlockReason)
	assert.Equal(t, "confidence 0.90", state.BlockDetail)
}

func TestPreSafetyState_Aggregate_NoneBlocking(t *testing.T) {
	state := safety.NewPreSafetyState("hello")
	state.Verdicts = []safety.DetectorVerdict{
		safety.Pass("banned_word"),
		safety.FailOpen("prompt_injection", errors.New("timeout")),
	}

	state.Aggregate()

	assert.False(t, state.IsBlocked)
	assert.Empty(t, state.BlockReason)
	assert.Equal(t, safety.ComplexitySimple, state.ComplexityOrDefault().Complexity)
}

func TestDecodeSafetyCheckJob(t *testing.T) {
	job, err := safety.DecodeSafetyCheckJob([]byte(`{"session_id":"s1","chat_id":"c1","trigger_message_id":"m1","response_text":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, "s1", job.SessionID)
	assert.Equal(t, "hi", job.ResponseText)

	_, err = safety.DecodeSafetyCheckJob([]byte(`{"chat_id":"c1"}`))
	assert.ErrorIs(t, err, safety.ErrInvalidJob)

	_, err = safety.DecodeSafetyCheckJob([]byte(`not json`))
	assert.ErrorIs(t, err, safety.ErrInvalidJob)
}

func TestNewRecallCommand(t *testing.T) {
	job := safety.SafetyCheckJob{SessionID: "s1", ChatID: "c1", TriggerMessageID: "m1", ResponseText: "bad"}
	cmd := safety.NewRecallCommand(job, safety.Block("output_banned_word", safety.ReasonOutputBannedWord, "matched"))

	assert.Equal(t, "s1", cmd.SessionID)
	assert.Equal(t, "c1", cmd.ChatID)
	assert.Equal(t, "m1", cmd.TriggerMessageID)
	assert.Equal(t, safety.ReasonOutputBannedWord, cmd.Reason)
}

func TestContentFilteredError(t *testing.T) {
	state := safety.NewPreSafetyState("x")
	state.Verdicts = []safety.DetectorVerdict{safety.Block("banned_word", safety.ReasonBannedWord, "")}
	state.Aggregate()

	err := fmt.Errorf("intake: %w", safety.NewContentFilteredError(state))

	assert.True(t, safety.IsContentFiltered(err))
	cf, ok := safety.AsContentFiltered(err)
	require.True(t, ok)
	assert.Equal(t, safety.ReasonBannedWord, cf.Reason())
	assert.False(t, safety.IsContentFiltered(errors.New("other")))
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, safety.ClampConfidence(-1))
	assert.Equal(t, 1.0, safety.ClampConfidence(3))
	assert.Equal(t, 0.7, safety.ClampConfidence(0.7))
}
