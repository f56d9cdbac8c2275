package presafety

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/bezhai/inner-bot-server-sub000/pkg/app/detector"
	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotBuilt    = errors.New("pre-safety graph is not built")
	ErrShutdown    = errors.New("pre-safety graph is shut down")
	ErrNoDetectors = errors.New("pre-safety graph needs at least one detector")
)

// Recorder is told about every decision the graph makes.
type Recorder interface {
	RecordPreCheck(ctx context.Context, state *safety.PreSafetyState)
}

type Graph struct {
	logger     *logrus.Logger
	detectors  []detector.Detector
	classifier detector.ComplexityClassifier
	recorders  []Recorder

	built    atomic.Bool
	shutdown atomic.Bool
}

type Option func(*Graph)

func WithRecorder(r Recorder) Option {
	return func(g *Graph) {
		if r != nil {
			g.recorders = append(g.recorders, r)
		}
	}
}

// NewGraph wires the blocking detectors in aggregation order followed by the
// complexity classifier. The caller must Build the graph before use.
func NewGraph(
	logger *logrus.Logger,
	detectors []detector.Detector,
	classifier detector.ComplexityClassifier,
	opts ...Option,
) *Graph {
	g := &Graph{
		logger:     logger,
		detectors:  detectors,
		classifier: classifier,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) Build() error {
	if g.shutdown.Load() {
		return ErrShutdown
	}
	if len(g.detectors) == 0 {
		return ErrNoDetectors
	}
	for i, d := range g.detectors {
		if d == nil {
			return fmt.Errorf("detector %d is nil", i)
		}
	}
	names := make([]string, 0, len(g.detectors))
	for _, d := range g.detectors {
		names = append(names, d.Name())
	}
	g.built.Store(true)
	g.logger.WithField("detectors", names).Info("pre-safety graph built")
	return nil
}

func (g *Graph) Shutdown() {
	if g.shutdown.CompareAndSwap(false, true) {
		g.built.Store(false)
		g.logger.Info("pre-safety graph shut down")
	}
}

// Classify runs every detector and the classifier concurrently and returns
// the aggregated state. Detector failures never surface as errors.
func (g *Graph) Classify(ctx context.Context, text string) (*safety.PreSafetyState, error) {
	if g.shutdown.Load() {
		return nil, ErrShutdown
	}
	if !g.built.Load() {
		return nil, ErrNotBuilt
	}

	state := safety.NewPreSafetyState(text)
	verdicts := make([]safety.DetectorVerdict, len(g.detectors))
	var complexity safety.ComplexityVerdict

	eg, egCtx := errgroup.WithContext(ctx)
	for i, d := range g.detectors {
		eg.Go(func() error {
			verdicts[i] = detector.SafeDetect(egCtx, d, text)
			return nil
		})
	}
	eg.Go(func() error {
		complexity = g.classify(egCtx, text)
		return nil
	})
	_ = eg.Wait()

	state.Verdicts = verdicts
	state.Complexity = &complexity
	state.Aggregate()

	entry := g.logger.WithFields(logrus.Fields{
		"blocked":    state.IsBlocked,
		"complexity": complexity.Complexity,
	})
	if state.IsBlocked {
		entry.WithField("reason", state.BlockReason).Info("message refused by pre-safety check")
	} else {
		entry.Debug("message admitted by pre-safety check")
	}

	for _, r := range g.recorders {
		r.RecordPreCheck(ctx, state)
	}
	return state, nil
}

// Admit is Classify for intake paths: a refused message comes back as a
// *safety.ContentFilteredError.
func (g *Graph) Admit(ctx context.Context, text string) (*safety.PreSafetyState, error) {
	state, err := g.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	if state.IsBlocked {
		return state, safety.NewContentFilteredError(state)
	}
	return state, nil
}

func (g *Graph) classify(ctx context.Context, text string) (v safety.ComplexityVerdict) {
	if g.classifier == nil {
		return safety.DefaultComplexity()
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.WithField("panic", r).Warn("complexity classifier panicked, defaulting to SIMPLE")
			v = safety.DefaultComplexity()
		}
	}()
	return g.classifier.Classify(ctx, text)
}
