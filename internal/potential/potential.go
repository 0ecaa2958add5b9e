// Package potential samples scattering potentials on uniform position grids.
package potential

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrGridPoints = errors.New("potential: grid needs at least two points")
	ErrGridRange  = errors.New("potential: grid range must be finite and increasing")
)

// Shape is a potential profile v(x).
type Shape interface {
	Sample(x []float64) []complex128
	Name() string
}

// Grid returns points equally spaced positions from start to stop inclusive
// together with the spacing.
func Grid(start, stop float64, points int) ([]float64, float64, error) {
	if points < 2 {
		return nil, 0, fmt.Errorf("%w: got %d", ErrGridPoints, points)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(stop) || math.IsInf(stop, 0) || stop <= start {
		return nil, 0, fmt.Errorf("%w: [%g, %g]", ErrGridRange, start, stop)
	}
	x := floats.Span(make([]float64, points), start, stop)
	return x, (stop - start) / float64(points-1), nil
}

// Real widens a real-valued potential.
func Real(v []float64) []complex128 {
	out := make([]complex128, len(v))
	for i, vi := range v {
		out[i] = complex(vi, 0)
	}
	return out
}

// Rectangular is a constant barrier of the given height on [Start, End].
type Rectangular struct {
	Height     complex128
	Start, End float64
}

func (r Rectangular) Name() string { return "rectangular" }

func (r Rectangular) Sample(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, xi := range x {
		if xi >= r.Start && xi <= r.End {
			out[i] = r.Height
		}
	}
	return out
}

// Gaussian is v0·exp(−2(x/w)²).
type Gaussian struct {
	Height complex128
	Width  float64
}

func (g Gaussian) Name() string { return "gaussian" }

func (g Gaussian) Sample(x []float64) []complex128 {
	out := make([]complex128, len(x))
	for i, xi := range x {
		u := xi / g.Width
		out[i] = g.Height * complex(math.Exp(-2*u*u), 0)
	}
	return out
}

// Lattice is a finite chain of sin² wells, v0·sin²(πx/d) for 0 < x < cells·d.
type Lattice struct {
	Height complex128
	Period float64
	Cells  int
}

func (l Lattice) Name() string { return "lattice" }

func (l Lattice) Sample(x []float64) []complex128 {
	out := make([]complex128, len(x))
	end := float64(l.Cells) * l.Period
	for i, xi := range x {
		if xi > 0 && xi < end {
			s := math.Sin(math.Pi * xi / l.Period)
			out[i] = l.Height * complex(s*s, 0)
		}
	}
	return out
}

// MaxAbs returns the largest modulus of v, used to size energy windows.
func MaxAbs(v []complex128) float64 {
	m := 0.0
	for _, vi := range v {
		m = max(m, cmplx.Abs(vi))
	}
	return m
}
