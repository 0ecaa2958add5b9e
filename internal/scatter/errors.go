package scatter

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for scattering evaluations.
var (
	// ErrEmptyPotential indicates a potential without samples.
	ErrEmptyPotential = errors.New("scatter: potential has no samples")

	// ErrStepSize indicates a step size that is not positive and finite.
	ErrStepSize = errors.New("scatter: step size must be positive and finite")

	// ErrEnergy indicates a NaN or infinite energy.
	ErrEnergy = errors.New("scatter: energy is not finite")

	// ErrEmptyBatch indicates a batch call without energies.
	ErrEmptyBatch = errors.New("scatter: energy batch is empty")

	// ErrSide indicates an incidence side other than left or right.
	ErrSide = errors.New("scatter: unknown incidence side")

	// ErrDegenerateMatch indicates the plane-wave matching system is singular,
	// which happens when k·dx is a multiple of π.
	ErrDegenerateMatch = errors.New("scatter: plane-wave matching is singular")
)

// EvaluationError ties a failure to one energy of a call.
type EvaluationError struct {
	Index  int
	Energy float64
	Side   Side
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("energy %d (e=%g, %s incidence): %v", e.Index, e.Energy, e.Side, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// BatchError collects the energies of a batch that failed. Results at these
// indices are NaN; every other result is valid.
type BatchError struct {
	Total    int
	Failures []*EvaluationError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("scatter: %d of %d energies failed: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Failed reports whether energy i is among the failures.
func (e *BatchError) Failed(i int) bool {
	for _, f := range e.Failures {
		if f.Index == i {
			return true
		}
	}
	return false
}
