package response

import (
	"time"

	domain "github.com/bezhai/inner-bot-server-sub000/pkg/domain/response"
)

type SafetyStatusOutput struct {
	SessionID    string               `json:"session_id"`
	ChatID       string               `json:"chat_id"`
	SafetyStatus domain.SafetyStatus  `json:"safety_status"`
	SafetyResult *domain.SafetyResult `json:"safety_result,omitempty"`
	Detectors    []string             `json:"detectors,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func NewSafetyStatusOutput(r *domain.AgentResponse) SafetyStatusOutput {
	return SafetyStatusOutput{
		SessionID:    r.SessionID,
		ChatID:       r.ChatID,
		SafetyStatus: r.SafetyStatus,
		SafetyResult: r.SafetyResult,
		Detectors:    r.Detectors,
		UpdatedAt:    r.UpdatedAt,
	}
}
