package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrMalformedDragEntry indicates a drag table record that could not be parsed.
	ErrMalformedDragEntry = errors.New("sim: malformed drag table entry")

	// ErrNonTerminating indicates a loop exceeded its step budget before reaching
	// its terminal condition.
	ErrNonTerminating = errors.New("sim: step limit reached before terminal condition")

	// ErrInvalidConfig indicates a parameter outside its valid range.
	ErrInvalidConfig = errors.New("sim: invalid configuration")
)

// SimError wraps an error with the loop context it occurred in.
type SimError struct {
	Phase   string
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("%s step %d (t=%.4f): %v", e.Phase, e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}

// Invalid returns an ErrInvalidConfig describing the offending field.
func Invalid(field string, value float64) error {
	return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, field, value)
}
