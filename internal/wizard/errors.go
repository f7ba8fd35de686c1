package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized   = errors.New("wizard not initialized")
	ErrControlsDisabled = errors.New("navigation controls are disabled")
	ErrNoSteps          = errors.New("wizard form has no steps")
	ErrUnknownStep      = errors.New("unknown step")
	ErrNoSubmitter      = errors.New("no submitter configured")
	ErrRemoteRejected   = errors.New("remote check rejected step")
	ErrValidation       = errors.New("step failed validation")
	ErrUnknownCommand   = errors.New("unknown wizard command")
)

// ValidationError reports a refused advance. Field is the input that took
// focus.
type ValidationError struct {
	Step  string
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("step %q failed validation", e.Step)
	}
	return fmt.Sprintf("step %q failed validation at field %q", e.Step, e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
