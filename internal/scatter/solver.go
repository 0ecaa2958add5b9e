package scatter

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"slices"

	"github.com/samuehae/transport/internal/numerov"
)

const (
	// padding is the number of lead points added on each side of the
	// potential: two seed points on one end, two matching points on the other.
	padding = 2

	// DefaultTolerance bounds |exp(ik·dx) − exp(−ik·dx)| from below.
	DefaultTolerance = 1e-12

	// DefaultChunkSize is the number of energies propagated together.
	DefaultChunkSize = 32
)

// Solver evaluates scattering amplitudes and wave functions. The zero value
// is usable and equivalent to New().
type Solver struct {
	// Workers bounds the goroutines used by batch calls; <= 0 means GOMAXPROCS.
	Workers int
	// ChunkSize is the number of energies propagated in one pass.
	ChunkSize int
	// Tolerance is the smallest accepted matching determinant.
	Tolerance float64
}

func New() *Solver {
	return &Solver{
		Workers:   runtime.GOMAXPROCS(0),
		ChunkSize: DefaultChunkSize,
		Tolerance: DefaultTolerance,
	}
}

var defaultSolver = New()

// Amplitudes returns r and t for a particle of the given energy incident from
// side. See Solver.Amplitudes.
func Amplitudes(energy float64, potential []complex128, dx float64, side Side) (Pair, error) {
	return defaultSolver.Amplitudes(energy, potential, dx, side)
}

// Wavefunction returns the scattering state inside the scattering region.
// See Solver.Wavefunction.
func Wavefunction(energy float64, potential []complex128, dx float64, side Side) ([]complex128, error) {
	return defaultSolver.Wavefunction(energy, potential, dx, side)
}

// AmplitudesBatch evaluates Amplitudes for every energy.
func AmplitudesBatch(energies []float64, potential []complex128, dx float64, side Side) ([]Pair, error) {
	return defaultSolver.AmplitudesBatch(energies, potential, dx, side)
}

// WavefunctionBatch evaluates Wavefunction for every energy.
func WavefunctionBatch(energies []float64, potential []complex128, dx float64, side Side) ([][]complex128, error) {
	return defaultSolver.WavefunctionBatch(energies, potential, dx, side)
}

// Amplitudes returns the reflection and transmission amplitudes normalized to
// a unit incident amplitude. Only the last two propagated values are kept.
func (s *Solver) Amplitudes(energy float64, potential []complex128, dx float64, side Side) (Pair, error) {
	if err := validate(potential, dx); err != nil {
		return Pair{}, err
	}
	p, err := s.amplitudes(energy, potential, dx, side)
	if err != nil {
		return Pair{}, &EvaluationError{Energy: energy, Side: side, Err: err}
	}
	return p, nil
}

// Wavefunction returns y(x_m) for m = 0..n−1, normalized to a unit incident
// amplitude and aligned index for index with potential.
func (s *Solver) Wavefunction(energy float64, potential []complex128, dx float64, side Side) ([]complex128, error) {
	if err := validate(potential, dx); err != nil {
		return nil, err
	}
	y, err := s.wavefunction(energy, potential, dx, side)
	if err != nil {
		return nil, &EvaluationError{Energy: energy, Side: side, Err: err}
	}
	return y, nil
}

func (s *Solver) amplitudes(energy float64, potential []complex128, dx float64, side Side) (Pair, error) {
	k, err := s.wavevector(energy, dx)
	if err != nil {
		return Pair{}, err
	}

	y0, y1 := seeds(k, dx)
	t0, t1, err := numerov.Partial(coefficients(energy, potential, side), y0, y1, dx)
	if err != nil {
		return Pair{}, err
	}

	p, _, err := match(k, len(potential), dx, side, t0, t1)
	return p, err
}

func (s *Solver) wavefunction(energy float64, potential []complex128, dx float64, side Side) ([]complex128, error) {
	k, err := s.wavevector(energy, dx)
	if err != nil {
		return nil, err
	}

	y0, y1 := seeds(k, dx)
	y, err := numerov.Full(coefficients(energy, potential, side), y0, y1, dx)
	if err != nil {
		return nil, err
	}

	n := len(potential)
	_, incident, err := match(k, n, dx, side, y[n+padding], y[n+padding+1])
	if err != nil {
		return nil, err
	}

	for i := range y {
		y[i] /= incident
	}
	if side == Left {
		// Undo the mirroring applied in fillCoefficients.
		slices.Reverse(y)
	}

	return y[padding : padding+n : padding+n], nil
}

func validate(potential []complex128, dx float64) error {
	if len(potential) == 0 {
		return ErrEmptyPotential
	}
	if !(dx > 0) || math.IsInf(dx, 0) {
		return fmt.Errorf("%w: got %g", ErrStepSize, dx)
	}
	return nil
}

func (s *Solver) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultTolerance
}

func (s *Solver) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (s *Solver) chunkSize() int {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}
	return DefaultChunkSize
}

// wavevector returns k = sqrt(e) on the principal branch after checking that
// the plane-wave matching will not be singular.
func (s *Solver) wavevector(energy, dx float64) (complex128, error) {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0, ErrEnergy
	}
	k := cmplx.Sqrt(complex(energy, 0))
	ikdx := 1i * k * complex(dx, 0)
	det := cmplx.Exp(ikdx) - cmplx.Exp(-ikdx)
	if !(cmplx.Abs(det) > s.tolerance()) {
		return 0, fmt.Errorf("%w: |det| = %g at k·dx = %g", ErrDegenerateMatch, cmplx.Abs(det), k*complex(dx, 0))
	}
	return k, nil
}

// seeds starts a single wave b·exp(−ikx), b = exp(−ik·dx), at x = −2dx and
// x = −dx.
func seeds(k complex128, dx float64) (complex128, complex128) {
	return cmplx.Exp(1i * k * complex(dx, 0)), 1
}

// coefficients builds q = e − v padded with two lead points per side.
func coefficients(energy float64, potential []complex128, side Side) []complex128 {
	q := make([]complex128, len(potential)+2*padding)
	fillCoefficients(energy, potential, side, func(i int, v complex128) { q[i] = v })
	return q
}

// fillCoefficients emits q_i for i = 0..n+3. Left incidence is folded onto
// right incidence by mirroring the grid, so the recursion always runs from the
// transmission lead towards the incidence lead in index space. Outputs of a
// left-incidence propagation are mirrored back by the caller.
func fillCoefficients(energy float64, potential []complex128, side Side, set func(i int, q complex128)) {
	e := complex(energy, 0)
	n := len(potential)
	last := n + 2*padding - 1
	for i := 0; i <= last; i++ {
		m := i
		if side == Left {
			m = last - i
		}
		if m < padding || m >= n+padding {
			set(i, e)
			continue
		}
		set(i, e-potential[m-padding])
	}
}

// match decomposes the propagated values y0f, y1f at x = n·dx and (n+1)·dx
// into c·exp(ikx) + d·exp(−ikx). It returns the amplitudes together with the
// incident coefficient used to normalize wave functions.
//
// For left incidence the canonical frame is x' = l − x with l = (n−1)·dx, in
// which the incident wave d·exp(−ikx') reads d·exp(−ikl)·exp(ikx).
func match(k complex128, n int, dx float64, side Side, y0f, y1f complex128) (Pair, complex128, error) {
	ikdx := 1i * k * complex(dx, 0)
	fn := float64(n)

	det := cmplx.Exp(ikdx) - cmplx.Exp(-ikdx)
	d := (cmplx.Exp(ikdx*complex(fn+1, 0))*y0f - cmplx.Exp(ikdx*complex(fn, 0))*y1f) / det
	c := (-cmplx.Exp(-ikdx*complex(fn+1, 0))*y0f + cmplx.Exp(-ikdx*complex(fn, 0))*y1f) / det
	b := cmplx.Exp(-ikdx)

	if d == 0 || cmplx.IsNaN(d) || cmplx.IsInf(d) {
		return Pair{}, 0, fmt.Errorf("%w: incident coefficient is %v", ErrDegenerateMatch, d)
	}

	p := Pair{R: c / d, T: b / d}
	incident := d
	if side == Left {
		ikl := ikdx * complex(fn-1, 0)
		p.R *= cmplx.Exp(2 * ikl)
		incident = d * cmplx.Exp(-ikl)
	}
	if !p.IsValid() {
		return Pair{}, 0, fmt.Errorf("%w: amplitudes are not finite", ErrDegenerateMatch)
	}
	return p, incident, nil
}
