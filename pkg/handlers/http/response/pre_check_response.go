package response

import "github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"

// PreCheckOutput never echoes the blocking detail back to the caller.
type PreCheckOutput struct {
	Admitted   bool                     `json:"admitted"`
	Complexity safety.Complexity        `json:"complexity,omitempty"`
	Confidence float64                  `json:"confidence,omitempty"`
	Verdicts   []safety.DetectorVerdict `json:"verdicts,omitempty"`
	Reason     safety.Reason            `json:"reason,omitempty"`
	Refusal    string                   `json:"refusal,omitempty"`
}

func Admitted(state *safety.PreSafetyState) PreCheckOutput {
	c := state.ComplexityOrDefault()
	return PreCheckOutput{
		Admitted:   true,
		Complexity: c.Complexity,
		Confidence: c.Confidence,
		Verdicts:   state.Verdicts,
	}
}

func Refused(reason safety.Reason, refusal string) PreCheckOutput {
	return PreCheckOutput{Reason: reason, Refusal: refusal}
}
