package safety

import (
	"math"
	"strings"
)

type Reason string

const (
	ReasonNone             Reason = "NONE"
	ReasonBannedWord       Reason = "BANNED_WORD"
	ReasonPromptInjection  Reason = "PROMPT_INJECTION"
	ReasonSensitiveTopic   Reason = "SENSITIVE_TOPIC"
	ReasonOutputUnsafe     Reason = "OUTPUT_UNSAFE"
	ReasonOutputBannedWord Reason = "OUTPUT_BANNED_WORD"
)

func (r Reason) String() string {
	return string(r)
}

// DetectorVerdict is the single result type produced by every detector.
// A non-blocking verdict always carries ReasonNone.
type DetectorVerdict struct {
	Detector   string `json:"detector"`
	Blocked    bool   `json:"blocked"`
	Reason     Reason `json:"reason"`
	Detail     string `json:"detail,omitempty"`
	FailedOpen bool   `json:"failed_open,omitempty"`
}

// Outcome is a short label for metrics and logs.
func (v DetectorVerdict) Outcome() string {
	switch {
	case v.Blocked:
		return "blocked"
	case v.FailedOpen:
		return "failed_open"
	default:
		return "passed"
	}
}

func Pass(detector string) DetectorVerdict {
	return DetectorVerdict{Detector: detector, Reason: ReasonNone}
}

// FailOpen is the verdict recorded when a detector could not reach a decision.
func FailOpen(detector string, err error) DetectorVerdict {
	v := Pass(detector)
	v.FailedOpen = true
	if err != nil {
		v.Detail = "detector unavailable: " + err.Error()
	}
	return v
}

func Block(detector string, reason Reason, detail string) DetectorVerdict {
	return DetectorVerdict{
		Detector: detector,
		Blocked:  true,
		Reason:   reason,
		Detail:   detail,
	}
}

type Complexity string

const (
	ComplexitySimple       Complexity = "SIMPLE"
	ComplexityComplex      Complexity = "COMPLEX"
	ComplexitySuperComplex Complexity = "SUPER_COMPLEX"
)

// ParseComplexity maps a classifier label onto a Complexity. Anything it does
// not recognise becomes SIMPLE.
func ParseComplexity(raw string) Complexity {
	switch Complexity(strings.ToUpper(strings.TrimSpace(raw))) {
	case ComplexityComplex:
		return ComplexityComplex
	case ComplexitySuperComplex:
		return ComplexitySuperComplex
	default:
		return ComplexitySimple
	}
}

type ComplexityVerdict struct {
	Complexity Complexity `json:"complexity"`
	Confidence float64    `json:"confidence"`
}

func DefaultComplexity() ComplexityVerdict {
	return ComplexityVerdict{Complexity: ComplexitySimple}
}

// ClampConfidence keeps model supplied confidences inside [0,1].
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
