package response

import "fmt"

type SafetyStatus string

const (
	StatusPending  SafetyStatus = "pending"
	StatusPassed   SafetyStatus = "passed"
	StatusRecalled SafetyStatus = "recalled"
)

func (s SafetyStatus) IsTerminal() bool {
	return s == StatusPassed || s == StatusRecalled
}

func (s SafetyStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPassed, StatusRecalled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a record in s may be moved to next.
// Rewriting the current terminal state is allowed so redelivered jobs stay
// idempotent; leaving a terminal state is not.
func (s SafetyStatus) CanTransitionTo(next SafetyStatus) bool {
	if !next.Valid() {
		return false
	}
	switch s {
	case StatusPending:
		return next != StatusPending
	case StatusPassed, StatusRecalled:
		return next == s
	}
	return false
}

func ParseSafetyStatus(raw string) (SafetyStatus, error) {
	s := SafetyStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown safety status %q", raw)
	}
	return s, nil
}
