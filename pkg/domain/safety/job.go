package safety

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidJob = errors.New("invalid safety job")

// SafetyCheckJob is the body published on the post-check routing key.
type SafetyCheckJob struct {
	SessionID        string `json:"session_id"`
	ChatID           string `json:"chat_id"`
	TriggerMessageID string `json:"trigger_message_id"`
	ResponseText     string `json:"response_text"`
}

func (j SafetyCheckJob) Validate() error {
	if j.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalidJob)
	}
	if j.ChatID == "" {
		return fmt.Errorf("%w: chat_id is required", ErrInvalidJob)
	}
	if j.TriggerMessageID == "" {
		return fmt.Errorf("%w: trigger_message_id is required", ErrInvalidJob)
	}
	return nil
}

func DecodeSafetyCheckJob(body []byte) (SafetyCheckJob, error) {
	var job SafetyCheckJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	return job, job.Validate()
}

// RecallCommand asks the delivery side to retract an already sent reply.
type RecallCommand struct {
	SessionID        string `json:"session_id"`
	ChatID           string `json:"chat_id"`
	TriggerMessageID string `json:"trigger_message_id"`
	Reason           Reason `json:"reason"`
	Detail           string `json:"detail,omitempty"`
}

func NewRecallCommand(job SafetyCheckJob, verdict DetectorVerdict) RecallCommand {
	return RecallCommand{
		SessionID:        job.SessionID,
		ChatID:           job.ChatID,
		TriggerMessageID: job.TriggerMessageID,
		Reason:           verdict.Reason,
		Detail:           verdict.Detail,
	}
}

func DecodeRecallCommand(body []byte) (RecallCommand, error) {
	var cmd RecallCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		return cmd, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if cmd.SessionID == "" {
		return cmd, fmt.Errorf("%w: session_id is required", ErrInvalidJob)
	}
	return cmd, nil
}
