package detector

import (
	"context"
	"fmt"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
)

const (
	NameBannedWord       = "banned_word"
	NameOutputBannedWord = "output_banned_word"
	NamePromptInjection  = "prompt_injection"
	NameSensitiveTopic   = "sensitive_topic"
	NameOutputSafety     = "output_safety"
	NameComplexity       = "complexity"
)

// Detector inspects text and always produces a verdict. Failures are turned
// into non-blocking verdicts inside Detect.
//
//go:generate mockery --name=Detector --dir=. --output=./mocks --filename=detector_mock.go --case=underscore --with-expecter
type Detector interface {
	Name() string
	Detect(ctx context.Context, text string) safety.DetectorVerdict
}

// Observer receives every verdict with the time it took.
type Observer interface {
	ObserveVerdict(v safety.DetectorVerdict, elapsed time.Duration)
}

type instrumented struct {
	Detector
	observer Observer
}

func Instrument(d Detector, observer Observer) Detector {
	if observer == nil {
		return d
	}
	return &instrumented{Detector: d, observer: observer}
}

func (i *instrumented) Detect(ctx context.Context, text string) safety.DetectorVerdict {
	start := time.Now()
	v := i.Detector.Detect(ctx, text)
	i.observer.ObserveVerdict(v, time.Since(start))
	return v
}

// SafeDetect runs d and converts a panic into a fail-open verdict.
func SafeDetect(ctx context.Context, d Detector, text string) (v safety.DetectorVerdict) {
	defer func() {
		if r := recover(); r != nil {
			v = safety.FailOpen(d.Name(), fmt.Errorf("panic recovered: %v", r))
		}
	}()
	return d.Detect(ctx, text)
}
