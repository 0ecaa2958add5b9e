// Package analytic provides closed-form scattering results used to check
// numerical spectra.
package analytic

import (
	"math"
	"math/cmplx"

	"github.com/samuehae/transport/internal/scatter"
)

// RectangularBarrier returns the exact amplitudes and the wave function at
// positions x for a constant potential v0 on [0, l], zero elsewhere.
// Normalization follows package scatter: unit incident amplitude from side.
func RectangularBarrier(e float64, v0 complex128, l float64, x []float64, side scatter.Side) (r, t complex128, y []complex128) {
	y = make([]complex128, len(x))

	if isClose(complex(e, 0), v0) {
		// e == v0: the solution inside the barrier is linear.
		k0 := cmplx.Sqrt(v0)
		kl := k0 * complex(l, 0)
		den := 2i + kl

		t = 2i * cmplx.Exp(-1i*kl) / den
		r = kl * cmplx.Exp(-2i*kl) / den

		if side == scatter.Left {
			r *= cmplx.Exp(2i * kl)
			for i, xi := range x {
				y[i] = (2i - 2*k0*complex(xi-l, 0)) / den
			}
		} else {
			for i, xi := range x {
				y[i] = (2i + 2*k0*complex(xi, 0)) * cmplx.Exp(-1i*kl) / den
			}
		}
		return r, t, y
	}

	k0 := cmplx.Sqrt(complex(e, 0))
	k1 := cmplx.Sqrt(complex(e, 0) - v0)
	lc := complex(l, 0)

	den := (k0+k1)*(k0+k1)*cmplx.Exp(-1i*k1*lc) - (k0-k1)*(k0-k1)*cmplx.Exp(1i*k1*lc)

	t = 4 * k0 * k1 * cmplx.Exp(-1i*k0*lc) / den
	r = (k1*k1 - k0*k0) * cmplx.Exp(-2i*k0*lc) * (cmplx.Exp(1i*k1*lc) - cmplx.Exp(-1i*k1*lc)) / den

	var beta0, beta1 complex128
	if side == scatter.Left {
		r *= cmplx.Exp(2i * k0 * lc)
		beta0 = 2 * k0 * (k0 + k1) * cmplx.Exp(-1i*k1*lc) / den
		beta1 = -2 * k0 * (k0 - k1) * cmplx.Exp(1i*k1*lc) / den
	} else {
		beta0 = -2 * k0 * (k0 - k1) * cmplx.Exp(-1i*k0*lc) / den
		beta1 = 2 * k0 * (k0 + k1) * cmplx.Exp(-1i*k0*lc) / den
	}

	for i, xi := range x {
		xc := complex(xi, 0)
		y[i] = beta0*cmplx.Exp(1i*k1*xc) + beta1*cmplx.Exp(-1i*k1*xc)
	}
	return r, t, y
}

// ParabolicTransmission is the transmission probability through the inverted
// parabola v0·(1 − 2x²), the small-width approximation of a gaussian barrier
// v0·exp(−2x²).
func ParabolicTransmission(e, v0 float64) float64 {
	arg := -math.Pi / math.Sqrt(2*v0) * (e - v0)
	return 1 / (1 + math.Exp(arg))
}

func isClose(a, b complex128) bool {
	return cmplx.Abs(a-b) <= 1e-8+1e-5*cmplx.Abs(b)
}
