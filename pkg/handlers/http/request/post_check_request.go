package request

import "github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"

type PostCheckRequest struct {
	SessionID        string `json:"session_id"`
	ChatID           string `json:"chat_id"`
	TriggerMessageID string `json:"trigger_message_id"`
	ResponseText     string `json:"response_text"`
}

func (r *PostCheckRequest) Job() safety.SafetyCheckJob {
	return safety.SafetyCheckJob{
		SessionID:        r.SessionID,
		ChatID:           r.ChatID,
		TriggerMessageID: r.TriggerMessageID,
		ResponseText:     r.ResponseText,
	}
}
