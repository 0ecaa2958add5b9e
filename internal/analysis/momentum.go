package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrTooShort = errors.New("analysis: need at least two samples")
	ErrStepSize = errors.New("analysis: step size must be positive and finite")
)

// MomentumSpectrum holds normalized power per wave number, K ascending.
type MomentumSpectrum struct {
	K     []float64
	Power []float64
}

// Momentum transforms psi sampled with spacing dx. Power sums to one unless
// psi is identically zero.
func Momentum(psi []complex128, dx float64) (*MomentumSpectrum, error) {
	n := len(psi)
	if n < 2 {
		return nil, ErrTooShort
	}
	if !(dx > 0) || math.IsInf(dx, 0) {
		return nil, ErrStepSize
	}

	coeffs := fft.FFT(psi)

	sp := &MomentumSpectrum{
		K:     make([]float64, n),
		Power: make([]float64, n),
	}
	total := 0.0
	half := (n + 1) / 2
	for j := 0; j < n; j++ {
		m := (j + half) % n
		freq := m
		if m >= half {
			freq = m - n
		}
		sp.K[j] = 2 * math.Pi * float64(freq) / (float64(n) * dx)
		a := cmplx.Abs(coeffs[m])
		sp.Power[j] = a * a
		total += sp.Power[j]
	}
	if total > 0 {
		for j := range sp.Power {
			sp.Power[j] /= total
		}
	}
	return sp, nil
}

// Dominant returns the wave number carrying the most power and that power.
func (sp *MomentumSpectrum) Dominant() (k, power float64) {
	best := -1
	for j, p := range sp.Power {
		if best < 0 || p > sp.Power[best] {
			best = j
		}
	}
	if best < 0 {
		return math.NaN(), 0
	}
	return sp.K[best], sp.Power[best]
}

// ForwardFraction is the share of power at k > 0.
func (sp *MomentumSpectrum) ForwardFraction() float64 {
	forward, total := 0.0, 0.0
	for j, p := range sp.Power {
		total += p
		if sp.K[j] > 0 {
			forward += p
		}
	}
	if total == 0 {
		return math.NaN()
	}
	return forward / total
}
