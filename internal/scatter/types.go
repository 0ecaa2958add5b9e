package scatter

import (
	"fmt"
	"math/cmplx"
	"strings"
)

// Side selects the lead the incident wave comes from.
type Side int

const (
	Right Side = iota
	Left
)

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide accepts "left" or "right" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "r":
		return Right, nil
	case "left", "l":
		return Left, nil
	}
	return Right, fmt.Errorf("%w: %q", ErrSide, s)
}

// Pair holds the reflection and transmission amplitudes normalized to a unit
// incident amplitude.
type Pair struct {
	R complex128
	T complex128
}

// Reflection is |r|².
func (p Pair) Reflection() float64 {
	a := cmplx.Abs(p.R)
	return a * a
}

// Transmission is |t|².
func (p Pair) Transmission() float64 {
	a := cmplx.Abs(p.T)
	return a * a
}

// Loss is the probability absorbed by the potential, 1 − |r|² − |t|².
func (p Pair) Loss() float64 {
	return 1 - p.Reflection() - p.Transmission()
}

// IsValid reports whether both amplitudes are finite.
func (p Pair) IsValid() bool {
	return !cmplx.IsNaN(p.R) && !cmplx.IsInf(p.R) && !cmplx.IsNaN(p.T) && !cmplx.IsInf(p.T)
}

func nanPair() Pair {
	return Pair{R: cmplx.NaN(), T: cmplx.NaN()}
}
