package scripts

import "errors"

var (
	// ErrMissingName is returned when a script has no name
	ErrMissingName = errors.New("script missing required 'name' field")

	// ErrNoSteps is returned when a script has no steps
	ErrNoSteps = errors.New("script must have at least one step")

	// ErrEmptyStep is returned when a step has no prompt, input or condition
	ErrEmptyStep = errors.New("step must define a prompt, an input or a condition")

	// ErrInvalidCondition is returned when a condition expression is invalid
	ErrInvalidCondition = errors.New("invalid condition expression")

	// ErrScriptAborted is returned when a script run is cancelled
	ErrScriptAborted = errors.New("script aborted")
)

// StepError wraps an error with step index information
type StepError struct {
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}
