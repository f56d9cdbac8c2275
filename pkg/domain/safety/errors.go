package safety

import (
	"errors"
	"fmt"
)

// ContentFilteredError is returned to intake callers when a message is
// refused. It carries the full state so callers can log or export it.
type ContentFilteredError struct {
	State *PreSafetyState
}

func (e *ContentFilteredError) Error() string {
	if e.State == nil {
		return "content filtered"
	}
	return fmt.Sprintf("content filtered: %s", e.State.BlockReason)
}

func (e *ContentFilteredError) Reason() Reason {
	if e.State == nil {
		return ReasonNone
	}
	return e.State.BlockReason
}

func NewContentFilteredError(state *PreSafetyState) error {
	return &ContentFilteredError{State: state}
}

func IsContentFiltered(err error) bool {
	var cf *ContentFilteredError
	return errors.As(err, &cf)
}

func AsContentFiltered(err error) (*ContentFilteredError, bool) {
	var cf *ContentFilteredError
	if errors.As(err, &cf) {
		return cf, true
	}
	return nil, false
}
