package telemetry

import (
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/google/uuid"
)

type EventKind string

const (
	KindPreCheck  EventKind = "pre_check"
	KindPostCheck EventKind = "post_check"
	KindRecall    EventKind = "recall"
)

// Post-check and recall outcomes.
const (
	OutcomeAdmitted  = "admitted"
	OutcomeRefused   = "refused"
	OutcomePassed    = "passed"
	OutcomeRecall    = "recall_requested"
	OutcomeSkipped   = "skipped"
	OutcomeRecalled  = "recalled"
	OutcomeSinkError = "sink_error"
)

// SafetyEvent is one exported safety decision.
type SafetyEvent struct {
	ID               string                    `json:"id"`
	Kind             EventKind                 `json:"kind"`
	Outcome          string                    `json:"outcome"`
	SessionID        string                    `json:"session_id,omitempty"`
	ChatID           string                    `json:"chat_id,omitempty"`
	TriggerMessageID string                    `json:"trigger_message_id,omitempty"`
	Blocked          bool                      `json:"blocked"`
	Reason           safety.Reason             `json:"reason"`
	Detail           string                    `json:"detail,omitempty"`
	Verdicts         []safety.DetectorVerdict  `json:"verdicts,omitempty"`
	Complexity       *safety.ComplexityVerdict `json:"complexity,omitempty"`
	Timestamp        time.Time                 `json:"timestamp"`
}

func newEvent(kind EventKind, outcome string) *SafetyEvent {
	return &SafetyEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Outcome:   outcome,
		Reason:    safety.ReasonNone,
		Timestamp: time.Now().UTC(),
	}
}

// PreCheckEvent leaves out the message text.
func PreCheckEvent(state *safety.PreSafetyState) *SafetyEvent {
	outcome := OutcomeAdmitted
	if state.IsBlocked {
		outcome = OutcomeRefused
	}
	evt := newEvent(KindPreCheck, outcome)
	evt.Blocked = state.IsBlocked
	if state.IsBlocked {
		evt.Reason = state.BlockReason
		evt.Detail = state.BlockDetail
	}
	evt.Verdicts = state.Verdicts
	c := state.ComplexityOrDefault()
	evt.Complexity = &c
	return evt
}

func PostCheckEvent(job *safety.SafetyCheckJob, verdicts []safety.DetectorVerdict, outcome string) *SafetyEvent {
	evt := newEvent(KindPostCheck, outcome)
	evt.SessionID = job.SessionID
	evt.ChatID = job.ChatID
	evt.TriggerMessageID = job.TriggerMessageID
	evt.Verdicts = verdicts
	for _, v := range verdicts {
		if v.Blocked {
			evt.Blocked = true
			evt.Reason = v.Reason
			evt.Detail = v.Detail
			break
		}
	}
	return evt
}

func RecallEvent(cmd *safety.RecallCommand, outcome string) *SafetyEvent {
	evt := newEvent(KindRecall, outcome)
	evt.SessionID = cmd.SessionID
	evt.ChatID = cmd.ChatID
	evt.TriggerMessageID = cmd.TriggerMessageID
	evt.Blocked = true
	evt.Reason = cmd.Reason
	evt.Detail = cmd.Detail
	return evt
}
