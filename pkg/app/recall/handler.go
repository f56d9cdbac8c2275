package recall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/response"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/telemetry"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/sirupsen/logrus"
)

type Recorder interface {
	RecordRecall(ctx context.Context, cmd *safety.RecallCommand, outcome string)
}

// Handler drains the recall queue: it asks the sink to retract the reply and
// then marks the record RECALLED.
type Handler struct {
	logger   *logrus.Logger
	sink     Sink
	repo     response.Repository
	recorder Recorder
	now      func() time.Time
}

func NewHandler(logger *logrus.Logger, sink Sink, repo response.Repository, recorder Recorder) *Handler {
	return &Handler{
		logger:   logger,
		sink:     sink,
		repo:     repo,
		recorder: recorder,
		now:      time.Now,
	}
}

func (h *Handler) Handle(ctx context.Context, msg *broker.Message) error {
	cmd, err := safety.DecodeRecallCommand(msg.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", broker.ErrUnprocessable, err)
	}
	return h.OnCommand(ctx, cmd)
}

func (h *Handler) OnCommand(ctx context.Context, cmd safety.RecallCommand) error {
	entry := h.logger.WithFields(logrus.Fields{
		"session_id":         cmd.SessionID,
		"chat_id":            cmd.ChatID,
		"trigger_message_id": cmd.TriggerMessageID,
		"reason":             cmd.Reason,
	})

	rec, err := h.repo.GetBySessionID(ctx, cmd.SessionID)
	switch {
	case err == nil && rec.SafetyStatus == response.StatusRecalled:
		entry.Info("reply already recalled, skipping")
		h.record(ctx, &cmd, telemetry.OutcomeSkipped)
		return nil
	case err != nil && !domain.IsNotFoundError(err):
		return fmt.Errorf("failed to load agent response %s: %w", cmd.SessionID, err)
	}

	if err := h.sink.Recall(ctx, cmd); err != nil {
		entry.WithError(err).Error("recall sink failed")
		h.record(ctx, &cmd, telemetry.OutcomeSinkError)
		return err
	}

	now := h.now().UTC()
	result := response.SafetyResult{
		CheckedAt:  now,
		RecalledAt: &now,
		Reason:     cmd.Reason,
		Detail:     cmd.Detail,
	}
	err = h.repo.UpdateStatus(ctx, cmd.SessionID, response.StatusRecalled, result, nil)
	switch {
	case err == nil:
	case domain.IsNotFoundError(err):
		entry.Warn("reply recalled but no agent response record exists")
	case errors.Is(err, domain.ErrInvalidTransition):
		entry.WithError(err).Warn("reply recalled but record is already terminal")
	default:
		return fmt.Errorf("failed to mark %s recalled: %w", cmd.SessionID, err)
	}

	entry.Info("reply recalled")
	h.record(ctx, &cmd, telemetry.OutcomeRecalled)
	return nil
}

func (h *Handler) record(ctx context.Context, cmd *safety.RecallCommand, outcome string) {
	if h.recorder != nil {
		h.recorder.RecordRecall(ctx, cmd, outcome)
	}
}
