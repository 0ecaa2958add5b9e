package numerov

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrShortSequence indicates fewer than two coefficients.
	ErrShortSequence = errors.New("numerov: coefficient sequence needs at least two points")

	// ErrStepSize indicates a step size that is not positive and finite.
	ErrStepSize = errors.New("numerov: step size must be positive and finite")

	// ErrShapeMismatch indicates ragged lanes or seeds that do not match the lane count.
	ErrShapeMismatch = errors.New("numerov: batch shape mismatch")

	// ErrBreakdown indicates a vanishing recursion coefficient a_i.
	ErrBreakdown = errors.New("numerov: recursion coefficient vanished")
)

// BreakdownError locates a vanishing recursion coefficient.
type BreakdownError struct {
	Lane  int
	Index int
}

func (e *BreakdownError) Error() string {
	return fmt.Sprintf("%v at index %d (lane %d)", ErrBreakdown, e.Index, e.Lane)
}

func (e *BreakdownError) Unwrap() error {
	return ErrBreakdown
}

// LaneErrors holds one entry per lane of a batch; nil entries are healthy lanes.
type LaneErrors []error

func (e LaneErrors) Error() string {
	var parts []string
	for _, err := range e {
		if err != nil {
			parts = append(parts, err.Error())
		}
	}
	return fmt.Sprintf("numerov: %d of %d lanes failed: %s", len(parts), len(e), strings.Join(parts, "; "))
}

// Unwrap exposes the failed lanes to errors.Is and errors.As.
func (e LaneErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, err := range e {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Lane returns the error of lane j, or nil.
func (e LaneErrors) Lane(j int) error {
	if j < 0 || j >= len(e) {
		return nil
	}
	return e[j]
}
