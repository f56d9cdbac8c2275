package postsafety

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/app/detector"
	"github.com/bezhai/inner-bot-server-sub000/pkg/app/recall"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/response"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/telemetry"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/sirupsen/logrus"
)

type Recorder interface {
	RecordPostCheck(ctx context.Context, job *safety.SafetyCheckJob, verdicts []safety.DetectorVerdict, outcome string)
}

// Consumer re-checks a generated reply. A blocked reply is handed to the
// recall queue; a clean one is marked PASSED. It never writes RECALLED.
type Consumer struct {
	logger     *logrus.Logger
	bannedWord detector.Detector
	judge      detector.Detector
	repo       response.Repository
	recalls    recall.CommandPublisher
	recorder   Recorder
	now        func() time.Time
}

func NewConsumer(
	logger *logrus.Logger,
	bannedWord detector.Detector,
	judge detector.Detector,
	repo response.Repository,
	recalls recall.CommandPublisher,
	recorder Recorder,
) *Consumer {
	return &Consumer{
		logger:     logger,
		bannedWord: bannedWord,
		judge:      judge,
		repo:       repo,
		recalls:    recalls,
		recorder:   recorder,
		now:        time.Now,
	}
}

// Handle adapts OnMessage to the broker consumer.
func (c *Consumer) Handle(ctx context.Context, msg *broker.Message) error {
	job, err := safety.DecodeSafetyCheckJob(msg.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", broker.ErrUnprocessable, err)
	}
	return c.OnMessage(ctx, job)
}

func (c *Consumer) OnMessage(ctx context.Context, job safety.SafetyCheckJob) error {
	entry := c.logger.WithFields(logrus.Fields{
		"session_id": job.SessionID,
		"chat_id":    job.ChatID,
	})

	rec, err := c.repo.GetBySessionID(ctx, job.SessionID)
	switch {
	case err == nil && rec.SafetyStatus.IsTerminal():
		entry.WithField("status", rec.SafetyStatus).Info("response already decided, skipping")
		c.record(ctx, &job, nil, telemetry.OutcomeSkipped)
		return nil
	case err != nil && !domain.IsNotFoundError(err):
		return fmt.Errorf("failed to load agent response %s: %w", job.SessionID, err)
	}

	verdicts := c.evaluate(ctx, job.ResponseText)
	last := verdicts[len(verdicts)-1]

	if last.Blocked {
		if err := c.recalls.PublishRecall(ctx, safety.NewRecallCommand(job, last)); err != nil {
			return fmt.Errorf("failed to publish recall for %s: %w", job.SessionID, err)
		}
		entry.WithFields(logrus.Fields{
			"reason": last.Reason,
			"detail": last.Detail,
		}).Warn("reply failed post-safety check, recall requested")
		c.record(ctx, &job, verdicts, telemetry.OutcomeRecall)
		return nil
	}

	names := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		names = append(names, v.Detector)
	}
	result := response.SafetyResult{CheckedAt: c.now().UTC()}
	err = c.repo.UpdateStatus(ctx, job.SessionID, response.StatusPassed, result, names)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidTransition):
		entry.WithError(err).Info("response decided concurrently, not marking passed")
		c.record(ctx, &job, verdicts, telemetry.OutcomeSkipped)
		return nil
	default:
		return fmt.Errorf("failed to mark %s passed: %w", job.SessionID, err)
	}

	entry.Debug("reply passed post-safety check")
	c.record(ctx, &job, verdicts, telemetry.OutcomePassed)
	return nil
}

// evaluate runs the banned word screen and, unless it blocks, the output
// judge. The last verdict decides.
func (c *Consumer) evaluate(ctx context.Context, text string) []safety.DetectorVerdict {
	first := detector.SafeDetect(ctx, c.bannedWord, text)
	if first.Blocked {
		return []safety.DetectorVerdict{first}
	}
	return []safety.DetectorVerdict{first, detector.SafeDetect(ctx, c.judge, text)}
}

func (c *Consumer) record(ctx context.Context, job *safety.SafetyCheckJob, verdicts []safety.DetectorVerdict, outcome string) {
	if c.recorder != nil {
		c.recorder.RecordPostCheck(ctx, job, verdicts, outcome)
	}
}
