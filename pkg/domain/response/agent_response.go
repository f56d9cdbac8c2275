package response

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/database/types"
	"gorm.io/gorm"
)

// SafetyResult is stored as JSONB next to the status.
type SafetyResult struct {
	CheckedAt  time.Time     `json:"checked_at"`
	RecalledAt *time.Time    `json:"recalled_at,omitempty"`
	Reason     safety.Reason `json:"reason,omitempty"`
	Detail     string        `json:"detail,omitempty"`
}

func (r SafetyResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *SafetyResult) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal SafetyResult value: %v", value)
	}
	return json.Unmarshal(b, r)
}

// AgentResponse is one generated reply awaiting or holding a safety decision.
type AgentResponse struct {
	SessionID        string            `json:"session_id" gorm:"type:text;primaryKey"`
	ChatID           string            `json:"chat_id" gorm:"type:text;not null"`
	TriggerMessageID string            `json:"trigger_message_id" gorm:"type:text;not null"`
	SafetyStatus     SafetyStatus      `json:"safety_status" gorm:"type:text;not null;default:pending;index"`
	SafetyResult     *SafetyResult     `json:"safety_result,omitempty" gorm:"type:jsonb"`
	Detectors        types.StringArray `json:"detectors,omitempty" gorm:"type:text[]"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func NewPending(sessionID, chatID, triggerMessageID string) *AgentResponse {
	return &AgentResponse{
		SessionID:        sessionID,
		ChatID:           chatID,
		TriggerMessageID: triggerMessageID,
		SafetyStatus:     StatusPending,
	}
}

func (r *AgentResponse) BeforeCreate(tx *gorm.DB) error {
	if r.SafetyStatus == "" {
		r.SafetyStatus = StatusPending
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

func (r *AgentResponse) TableName() string {
	return "agent_responses"
}
