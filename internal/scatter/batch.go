package scatter

import (
	"errors"
	"math/cmplx"
	"slices"

	"github.com/samuehae/transport/internal/numerov"
)

// AmplitudesBatch evaluates Amplitudes for every energy, in input order.
// Energies are propagated together in chunks of ChunkSize lanes and the
// chunks are spread over Workers goroutines.
//
// A failing energy does not affect the others: its Pair is NaN and the
// returned *BatchError names it. Any other result is valid even when the
// error is non-nil.
func (s *Solver) AmplitudesBatch(energies []float64, potential []complex128, dx float64, side Side) ([]Pair, error) {
	if len(energies) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := validate(potential, dx); err != nil {
		return nil, err
	}

	pairs := make([]Pair, len(energies))
	errs := make([]error, len(energies))
	chunk := s.chunkSize()

	ParallelFor(len(energies), chunk, s.workers(), func(start, end int) {
		for lo := start; lo < end; lo += chunk {
			hi := min(lo+chunk, end)
			s.amplitudesChunk(energies[lo:hi], potential, dx, side, pairs[lo:hi], errs[lo:hi])
		}
	})

	return pairs, collect(energies, side, errs)
}

// WavefunctionBatch evaluates Wavefunction for every energy, in input order,
// with the same chunking as AmplitudesBatch. Failed energies get a NaN wave
// function and are named in a *BatchError.
func (s *Solver) WavefunctionBatch(energies []float64, potential []complex128, dx float64, side Side) ([][]complex128, error) {
	if len(energies) == 0 {
		return nil, ErrEmptyBatch
	}
	if err := validate(potential, dx); err != nil {
		return nil, err
	}

	waves := make([][]complex128, len(energies))
	errs := make([]error, len(energies))
	chunk := s.chunkSize()

	ParallelFor(len(energies), chunk, s.workers(), func(start, end int) {
		for lo := start; lo < end; lo += chunk {
			hi := min(lo+chunk, end)
			s.wavefunctionChunk(energies[lo:hi], potential, dx, side, waves[lo:hi], errs[lo:hi])
		}
	})

	return waves, collect(energies, side, errs)
}

// lanes is one chunk of energies laid out for a numerov batch. Energies
// rejected before propagation do not get a lane.
type lanes struct {
	index  []int
	ks     []complex128
	q      [][]complex128
	y0, y1 []complex128
}

func (s *Solver) newLanes(energies []float64, potential []complex128, dx float64, side Side, errs []error) *lanes {
	ln := &lanes{
		index: make([]int, 0, len(energies)),
		ks:    make([]complex128, len(energies)),
	}
	for j, e := range energies {
		k, err := s.wavevector(e, dx)
		if err != nil {
			errs[j] = err
			continue
		}
		ln.ks[j] = k
		ln.index = append(ln.index, j)
	}
	if len(ln.index) == 0 {
		return nil
	}

	width := len(ln.index)
	rows := len(potential) + 2*padding
	backing := make([]complex128, rows*width)
	ln.q = make([][]complex128, rows)
	for i := range ln.q {
		ln.q[i] = backing[i*width : (i+1)*width : (i+1)*width]
	}

	ln.y0 = make([]complex128, width)
	ln.y1 = make([]complex128, width)
	for l, j := range ln.index {
		fillCoefficients(energies[j], potential, side, func(i int, v complex128) { ln.q[i][l] = v })
		ln.y0[l], ln.y1[l] = seeds(ln.ks[j], dx)
	}
	return ln
}

// failures splits a batch error into per-lane errors. It reports false and
// marks every lane as failed when the batch was rejected as a whole.
func (ln *lanes) failures(err error, errs []error) (numerov.LaneErrors, bool) {
	var laneErrs numerov.LaneErrors
	if err != nil && !errors.As(err, &laneErrs) {
		for _, j := range ln.index {
			errs[j] = err
		}
		return nil, false
	}
	return laneErrs, true
}

// amplitudesChunk propagates one chunk of energies as lanes of a single
// partial numerov batch.
func (s *Solver) amplitudesChunk(energies []float64, potential []complex128, dx float64, side Side, out []Pair, errs []error) {
	for j := range out {
		out[j] = nanPair()
	}
	ln := s.newLanes(energies, potential, dx, side, errs)
	if ln == nil {
		return
	}

	t0, t1, err := numerov.PartialBatch(ln.q, ln.y0, ln.y1, dx)
	laneErrs, ok := ln.failures(err, errs)
	if !ok {
		return
	}

	for l, j := range ln.index {
		if err := laneErrs.Lane(l); err != nil {
			errs[j] = err
			continue
		}
		p, _, err := match(ln.ks[j], len(potential), dx, side, t0[l], t1[l])
		if err != nil {
			errs[j] = err
			continue
		}
		out[j] = p
	}
}

// wavefunctionChunk propagates one chunk of energies as lanes of a single
// full numerov batch and normalizes every lane by its incident coefficient.
func (s *Solver) wavefunctionChunk(energies []float64, potential []complex128, dx float64, side Side, out [][]complex128, errs []error) {
	n := len(potential)
	defer func() {
		for j := range out {
			if errs[j] != nil {
				out[j] = nanSlice(n)
			}
		}
	}()

	ln := s.newLanes(energies, potential, dx, side, errs)
	if ln == nil {
		return
	}

	y, err := numerov.FullBatch(ln.q, ln.y0, ln.y1, dx)
	laneErrs, ok := ln.failures(err, errs)
	if !ok {
		return
	}

	for l, j := range ln.index {
		if err := laneErrs.Lane(l); err != nil {
			errs[j] = err
			continue
		}
		_, incident, err := match(ln.ks[j], n, dx, side, y[n+padding][l], y[n+padding+1][l])
		if err != nil {
			errs[j] = err
			continue
		}
		w := make([]complex128, len(y))
		for i := range y {
			w[i] = y[i][l] / incident
		}
		if side == Left {
			slices.Reverse(w)
		}
		out[j] = w[padding : padding+n : padding+n]
	}
}

func collect(energies []float64, side Side, errs []error) error {
	var be *BatchError
	for i, err := range errs {
		if err == nil {
			continue
		}
		if be == nil {
			be = &BatchError{Total: len(energies)}
		}
		be.Failures = append(be.Failures, &EvaluationError{Index: i, Energy: energies[i], Side: side, Err: err})
	}
	if be == nil {
		return nil
	}
	return be
}

func nanSlice(n int) []complex128 {
	y := make([]complex128, n)
	for i := range y {
		y[i] = cmplx.NaN()
	}
	return y
}
