package postsafety

import (
	"context"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/response"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/broker"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=JobScheduler --dir=. --output=./mocks --filename=job_scheduler_mock.go --case=underscore --with-expecter
type JobScheduler interface {
	Schedule(ctx context.Context, job safety.SafetyCheckJob) error
}

// Scheduler records a PENDING response and queues its delayed post-check.
type Scheduler struct {
	logger    *logrus.Logger
	repo      response.Repository
	publisher broker.Publisher
	delay     time.Duration
}

func NewScheduler(logger *logrus.Logger, repo response.Repository, publisher broker.Publisher, delay time.Duration) *Scheduler {
	return &Scheduler{logger: logger, repo: repo, publisher: publisher, delay: delay}
}

func (s *Scheduler) Schedule(ctx context.Context, job safety.SafetyCheckJob) error {
	if err := job.Validate(); err != nil {
		return err
	}
	rec := response.NewPending(job.SessionID, job.ChatID, job.TriggerMessageID)
	if err := s.repo.Create(ctx, rec); err != nil {
		return fmt.Errorf("failed to record pending response %s: %w", job.SessionID, err)
	}
	if err := broker.PublishJSON(ctx, s.publisher, broker.RoutingKeySafetyCheck, job,
		broker.WithDelay(s.delay),
		broker.WithCorrelationID(job.SessionID),
	); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": job.SessionID,
		"delay":      s.delay.String(),
	}).Debug("post-safety check scheduled")
	return nil
}
