package scatter_test

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/samuehae/transport/internal/analytic"
	"github.com/samuehae/transport/internal/scatter"
)

var sides = []scatter.Side{scatter.Right, scatter.Left}

var _ = Describe("Amplitudes", func() {
	Context("without a potential", func() {
		for _, side := range sides {
			for _, e := range []float64{0.1, 0.2, 1.0, 1.1} {
				It(fmt.Sprintf("neither reflects nor attenuates (%s, e=%g)", side, e), func() {
					_, dx := linspace(0, 10, 230)
					p, err := scatter.Amplitudes(e, make([]complex128, 230), dx, side)
					Expect(err).NotTo(HaveOccurred())
					Expect(p.R).To(BeCloseTo(0, 1e-6))
					Expect(p.T).To(BeCloseTo(1, 1e-6))
				})
			}
		}
	})

	Context("with a real potential", func() {
		x, dx := linspace(-5, 5, 500)
		v := make([]complex128, len(x))
		for i, xi := range x {
			v[i] = complex(2*math.Exp(-2*xi*xi), 0)
		}

		for _, side := range sides {
			It(fmt.Sprintf("conserves flux (%s)", side), func() {
				for e := 0.25; e <= 10; e += 0.25 {
					p, err := scatter.Amplitudes(e, v, dx, side)
					Expect(err).NotTo(HaveOccurred())
					Expect(p.Reflection()+p.Transmission()).To(BeNumerically("~", 1, 1e-6), "e=%g", e)
				}
			})
		}
	})

	Context("with an absorptive potential", func() {
		_, dx := linspace(0, 1, 500)
		v := full(500, 1-0.5i)

		for _, side := range sides {
			It(fmt.Sprintf("loses flux (%s)", side), func() {
				for e := 0.5; e <= 3; e += 0.5 {
					p, err := scatter.Amplitudes(e, v, dx, side)
					Expect(err).NotTo(HaveOccurred())
					Expect(p.Loss()).To(BeNumerically(">", 1e-3), "e=%g", e)
					Expect(p.Loss()).To(BeNumerically("<", 1), "e=%g", e)
				}
			})
		}
	})

	It("transmits equally from both sides of an asymmetric potential", func() {
		x, dx := linspace(0, 2, 800)
		v := make([]complex128, len(x))
		for i, xi := range x {
			v[i] = complex(1.5*xi, -0.3*xi*xi)
		}
		for _, e := range []float64{0.3, 1.2, 2.7, 5} {
			right, err := scatter.Amplitudes(e, v, dx, scatter.Right)
			Expect(err).NotTo(HaveOccurred())
			left, err := scatter.Amplitudes(e, v, dx, scatter.Left)
			Expect(err).NotTo(HaveOccurred())
			Expect(left.T).To(BeCloseTo(right.T, 1e-6), "e=%g", e)
		}
	})

	It("reports evanescent leads as finite amplitudes", func() {
		_, dx := linspace(0, 1, 100)
		p, err := scatter.Amplitudes(-0.5, full(100, 0.3), dx, scatter.Right)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.IsValid()).To(BeTrue())
	})
})

var _ = Describe("Wavefunction", func() {
	for _, side := range sides {
		for _, e := range []float64{0.1, 0.2, 1.0, 1.1} {
			It(fmt.Sprintf("is a plane wave without a potential (%s, e=%g)", side, e), func() {
				x, dx := linspace(0, 10, 230)
				y, err := scatter.Wavefunction(e, make([]complex128, len(x)), dx, side)
				Expect(err).NotTo(HaveOccurred())
				Expect(y).To(HaveLen(len(x)))

				k := math.Sqrt(e)
				if side == scatter.Right {
					k = -k
				}
				for i, xi := range x {
					Expect(y[i]).To(BeCloseTo(cmplx.Exp(complex(0, k*xi)), 1e-6), "x=%g", xi)
				}
			})
		}
	}

	It("keeps one value per potential sample", func() {
		for _, n := range []int{1, 2, 5, 64} {
			y, err := scatter.Wavefunction(0.7, full(n, 0.2), 0.05, scatter.Left)
			Expect(err).NotTo(HaveOccurred())
			Expect(y).To(HaveLen(n))
		}
	})

	It("does not modify the potential", func() {
		v := []complex128{0.1, 0.2 - 0.1i, 0.3}
		orig := append([]complex128(nil), v...)
		_, err := scatter.Wavefunction(1, v, 0.1, scatter.Left)
		Expect(err).NotTo(HaveOccurred())
		_, err = scatter.Amplitudes(1, v, 0.1, scatter.Left)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(orig))
	})
})

var _ = Describe("rectangular barrier", func() {
	const (
		n = 10000
		l = 1.0
	)

	for _, side := range sides {
		for _, v0 := range []complex128{1.0, -1i, 1.0 - 0.5i} {
			for i := 1; i <= 16; i++ {
				e := 0.1 * float64(i)

				It(fmt.Sprintf("matches the closed form (%s, v0=%v, e=%.1f)", side, v0, e), func() {
					x, dx := linspace(0, l, n)
					v := full(n, v0)
					rEx, tEx, yEx := analytic.RectangularBarrier(e, v0, l, x, side)

					p, err := scatter.Amplitudes(e, v, dx, side)
					Expect(err).NotTo(HaveOccurred())
					Expect(p.R).To(BeCloseTo(rEx, 1e-4))
					Expect(p.T).To(BeCloseTo(tEx, 1e-4))

					y, err := scatter.Wavefunction(e, v, dx, side)
					Expect(err).NotTo(HaveOccurred())
					Expect(y).To(HaveLen(n))
					m := firstMismatch(y, yEx, 1e-4)
					Expect(m).To(Equal(-1), "first mismatch at x=%g", x[max(m, 0)])
				})
			}
		}
	}
})

var _ = Describe("input validation", func() {
	It("rejects an empty potential", func() {
		_, err := scatter.Amplitudes(1, nil, 0.1, scatter.Right)
		Expect(err).To(MatchError(scatter.ErrEmptyPotential))
		_, err = scatter.Wavefunction(1, []complex128{}, 0.1, scatter.Left)
		Expect(err).To(MatchError(scatter.ErrEmptyPotential))
	})

	It("rejects non-positive step sizes", func() {
		for _, dx := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
			_, err := scatter.Amplitudes(1, full(3, 0), dx, scatter.Right)
			Expect(errors.Is(err, scatter.ErrStepSize)).To(BeTrue(), "dx=%g", dx)
		}
	})

	It("rejects non-finite energies", func() {
		_, err := scatter.Amplitudes(math.NaN(), full(3, 0), 0.1, scatter.Right)
		var ee *scatter.EvaluationError
		Expect(errors.As(err, &ee)).To(BeTrue())
		Expect(ee.Err).To(MatchError(scatter.ErrEnergy))
	})

	It("reports a singular matching instead of returning NaN", func() {
		dx := 0.1
		e := math.Pow(math.Pi/dx, 2)
		_, err := scatter.Amplitudes(e, full(10, 0.5), dx, scatter.Right)
		Expect(errors.Is(err, scatter.ErrDegenerateMatch)).To(BeTrue())

		_, err = scatter.Wavefunction(0, full(10, 0.5), dx, scatter.Left)
		Expect(errors.Is(err, scatter.ErrDegenerateMatch)).To(BeTrue())
	})
})

var _ = Describe("Side", func() {
	DescribeTable("parsing",
		func(in string, want scatter.Side) {
			got, err := scatter.ParseSide(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(got.String()).To(Equal(want.String()))
		},
		Entry("left", "left", scatter.Left),
		Entry("upper case", "RIGHT", scatter.Right),
		Entry("short", "l", scatter.Left),
	)

	It("rejects unknown sides", func() {
		_, err := scatter.ParseSide("up")
		Expect(err).To(MatchError(scatter.ErrSide))
		Expect(err.Error()).To(ContainSubstring(`"up"`))
	})
})
