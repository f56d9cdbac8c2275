package safety

// PreSafetyState is the outcome of running the input-side detectors on one
// inbound message. Only the aggregation step sets the blocking fields.
type PreSafetyState struct {
	MessageText string             `json:"message_text"`
	Verdicts    []DetectorVerdict  `json:"verdicts"`
	Complexity  *ComplexityVerdict `json:"complexity,omitempty"`
	IsBlocked   bool               `json:"is_blocked"`
	BlockReason Reason             `json:"block_reason,omitempty"`
	BlockDetail string             `json:"block_detail,omitempty"`
}

func NewPreSafetyState(text string) *PreSafetyState {
	return &PreSafetyState{MessageText: text}
}

// ComplexityOrDefault never returns nil.
func (s *PreSafetyState) ComplexityOrDefault() ComplexityVerdict {
	if s.Complexity == nil {
		return DefaultComplexity()
	}
	return *s.Complexity
}

// Aggregate scans the verdicts in the order they were recorded and lets the
// first blocking one decide. It is safe to call more than once.
func (s *PreSafetyState) Aggregate() {
	s.IsBlocked = false
	s.BlockReason = ""
	s.BlockDetail = ""
	for _, v := range s.Verdicts {
		if v.Blocked {
			s.IsBlocked = true
			s.BlockReason = v.Reason
			s.BlockDetail = v.Detail
			return
		}
	}
}
