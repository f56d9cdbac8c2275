package metrics

import (
	"context"
	"sync"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/telemetry"
	"github.com/bezhai/inner-bot-server-sub000/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Worker records safety decisions off the request path: prometheus counters
// and the configured event exporters.
type Worker interface {
	Shutdown()
	StartWorkers(n int)
	RecordPreCheck(ctx context.Context, state *safety.PreSafetyState)
	RecordPostCheck(ctx context.Context, job *safety.SafetyCheckJob, verdicts []safety.DetectorVerdict, outcome string)
	RecordRecall(ctx context.Context, cmd *safety.RecallCommand, outcome string)
}

type worker struct {
	logger    *logrus.Logger
	exporters []telemetry.Exporter
	opts      workerOptions
	taskChan  chan func()
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

func NewWorker(logger *logrus.Logger, exporters []telemetry.Exporter, opts ...Option) Worker {
	o := workerOptions{queueSize: 1000}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &worker{
		logger:    logger,
		exporters: exporters,
		opts:      o,
		taskChan:  make(chan func(), o.queueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Shutdown drains queued tasks, then closes the exporters.
func (m *worker) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.taskChan)
	m.mu.Unlock()

	m.logger.Info("shutting down metrics workers")
	m.wg.Wait()
	m.cancel()
	for _, exporter := range m.exporters {
		exporter.Close()
	}
	m.logger.Info("metrics workers stopped")
}

func (m *worker) StartWorkers(n int) {
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for task := range m.taskChan {
				m.run(task)
			}
		}()
	}
}

func (m *worker) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithField("panic", r).Error("metrics task panicked")
		}
	}()
	task()
}

func (m *worker) RecordPreCheck(_ context.Context, state *safety.PreSafetyState) {
	reason := string(safety.ReasonNone)
	if state.IsBlocked {
		reason = string(state.BlockReason)
	}
	evt := telemetry.PreCheckEvent(state)
	m.enqueueTask(func() {
		prometheus.PreCheckDecisions.WithLabelValues(reason).Inc()
		m.export(evt)
	})
}

func (m *worker) RecordPostCheck(_ context.Context, job *safety.SafetyCheckJob, verdicts []safety.DetectorVerdict, outcome string) {
	evt := telemetry.PostCheckEvent(job, verdicts, outcome)
	m.enqueueTask(func() {
		prometheus.PostCheckOutcomes.WithLabelValues(outcome, string(evt.Reason)).Inc()
		m.export(evt)
	})
}

func (m *worker) RecordRecall(_ context.Context, cmd *safety.RecallCommand, outcome string) {
	evt := telemetry.RecallEvent(cmd, outcome)
	m.enqueueTask(func() {
		prometheus.Recalls.WithLabelValues(outcome).Inc()
		m.export(evt)
	})
}

func (m *worker) export(evt *telemetry.SafetyEvent) {
	var failedExporters []string
	for _, exporter := range m.exporters {
		ctx, cancel := m.exportContext()
		err := exporter.Handle(ctx, evt)
		cancel()
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"exporter": exporter.Name(),
				"event_id": evt.ID,
				"kind":     evt.Kind,
			}).WithError(err).Error("exporter failed")
			failedExporters = append(failedExporters, exporter.Name())
		}
	}
	if len(failedExporters) > 0 {
		m.logger.WithField("failedExporters", failedExporters).
			Warnf("%d exporters failed to handle safety event", len(failedExporters))
	}
}

func (m *worker) exportContext() (context.Context, context.CancelFunc) {
	if m.opts.exportTimeout > 0 {
		return context.WithTimeout(m.ctx, m.opts.exportTimeout)
	}
	return context.WithCancel(m.ctx)
}

func (m *worker) enqueueTask(task func()) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.taskChan <- task:
	default:
		m.logger.Warn("taskChan is full, dropping metrics task")
	}
}
