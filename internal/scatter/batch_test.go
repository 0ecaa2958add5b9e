package scatter_test

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/samuehae/transport/internal/numerov"
	"github.com/samuehae/transport/internal/scatter"
)

var _ = Describe("batches", func() {
	var (
		solver   *scatter.Solver
		v        []complex128
		dx       float64
		energies []float64
	)

	BeforeEach(func() {
		solver = &scatter.Solver{Workers: 4, ChunkSize: 3}

		var x []float64
		x, dx = linspace(-3, 9, 300)
		v = make([]complex128, len(x))
		for i, xi := range x {
			if xi > 0 && xi < 6 {
				s := math.Sin(math.Pi * xi)
				v[i] = complex(10*s*s, -0.1)
			}
		}

		energies = nil
		for e := 0.1; e < 25; e += 0.9 {
			energies = append(energies, e)
		}
	})

	for _, side := range sides {
		It("matches scalar amplitudes in input order ("+side.String()+")", func() {
			pairs, err := solver.AmplitudesBatch(energies, v, dx, side)
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(HaveLen(len(energies)))

			for j, e := range energies {
				want, err := solver.Amplitudes(e, v, dx, side)
				Expect(err).NotTo(HaveOccurred())
				Expect(pairs[j]).To(Equal(want), "e=%g", e)
			}
		})

		It("matches scalar wave functions in input order ("+side.String()+")", func() {
			waves, err := solver.WavefunctionBatch(energies, v, dx, side)
			Expect(err).NotTo(HaveOccurred())
			Expect(waves).To(HaveLen(len(energies)))
			for j, e := range energies {
				want, err := solver.Wavefunction(e, v, dx, side)
				Expect(err).NotTo(HaveOccurred())
				Expect(waves[j]).To(Equal(want), "e=%g", e)
			}
		})
	}

	It("works through the package-level functions", func() {
		pairs, err := scatter.AmplitudesBatch(energies, v, dx, scatter.Left)
		Expect(err).NotTo(HaveOccurred())
		want, err := scatter.Amplitudes(energies[4], v, dx, scatter.Left)
		Expect(err).NotTo(HaveOccurred())
		Expect(pairs[4]).To(Equal(want))
	})

	It("isolates an energy whose recursion breaks down", func() {
		// dx = 1 and e − v = −12 make the recursion coefficient vanish for e = 2.
		pot := []complex128{14}
		in := []float64{1, 2, 3}

		pairs, err := solver.AmplitudesBatch(in, pot, 1, scatter.Right)
		var be *scatter.BatchError
		Expect(errors.As(err, &be)).To(BeTrue())
		Expect(be.Failures).To(HaveLen(1))
		Expect(be.Failed(1)).To(BeTrue())
		Expect(be.Failures[0].Energy).To(Equal(2.0))
		Expect(errors.Is(err, numerov.ErrBreakdown)).To(BeTrue())

		Expect(cmplx.IsNaN(pairs[1].R)).To(BeTrue())
		for _, j := range []int{0, 2} {
			want, err := solver.Amplitudes(in[j], pot, 1, scatter.Right)
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs[j]).To(Equal(want))
		}

		waves, err := solver.WavefunctionBatch(in, pot, 1, scatter.Left)
		Expect(errors.Is(err, numerov.ErrBreakdown)).To(BeTrue())
		Expect(cmplx.IsNaN(waves[1][0])).To(BeTrue())
		Expect(cmplx.IsNaN(waves[0][0])).To(BeFalse())
	})

	It("names singular energies", func() {
		in := []float64{0, 1, math.Inf(1)}
		pairs, err := solver.AmplitudesBatch(in, v, dx, scatter.Right)
		var be *scatter.BatchError
		Expect(errors.As(err, &be)).To(BeTrue())
		Expect(be.Total).To(Equal(3))
		Expect(be.Failed(0)).To(BeTrue())
		Expect(be.Failed(1)).To(BeFalse())
		Expect(be.Failed(2)).To(BeTrue())
		Expect(errors.Is(err, scatter.ErrDegenerateMatch)).To(BeTrue())
		Expect(errors.Is(err, scatter.ErrEnergy)).To(BeTrue())
		Expect(pairs[1].IsValid()).To(BeTrue())
	})

	It("names singular energies in wave function batches", func() {
		in := []float64{0, 1, math.Inf(1), 2}
		waves, err := solver.WavefunctionBatch(in, v, dx, scatter.Left)
		var be *scatter.BatchError
		Expect(errors.As(err, &be)).To(BeTrue())
		Expect(be.Failures).To(HaveLen(2))
		Expect(be.Failed(0)).To(BeTrue())
		Expect(be.Failed(2)).To(BeTrue())

		Expect(waves).To(HaveLen(len(in)))
		for _, j := range []int{0, 2} {
			Expect(waves[j]).To(HaveLen(len(v)))
			Expect(cmplx.IsNaN(waves[j][len(v)-1])).To(BeTrue())
		}
		for _, j := range []int{1, 3} {
			want, err := solver.Wavefunction(in[j], v, dx, scatter.Left)
			Expect(err).NotTo(HaveOccurred())
			Expect(waves[j]).To(Equal(want), "e=%g", in[j])
		}
	})

	It("rejects invalid batches", func() {
		_, err := solver.AmplitudesBatch(nil, v, dx, scatter.Right)
		Expect(err).To(MatchError(scatter.ErrEmptyBatch))
		_, err = solver.WavefunctionBatch([]float64{}, v, dx, scatter.Right)
		Expect(err).To(MatchError(scatter.ErrEmptyBatch))
		_, err = solver.AmplitudesBatch([]float64{1}, nil, dx, scatter.Right)
		Expect(err).To(MatchError(scatter.ErrEmptyPotential))
		_, err = solver.WavefunctionBatch([]float64{1}, v, -1, scatter.Right)
		Expect(errors.Is(err, scatter.ErrStepSize)).To(BeTrue())
	})

	It("runs concurrent calls independently", func() {
		var wg sync.WaitGroup
		results := make([][]scatter.Pair, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = solver.AmplitudesBatch(energies, v, dx, scatter.Right)
			}(i)
		}
		wg.Wait()
		for i := 1; i < len(results); i++ {
			Expect(results[i]).To(Equal(results[0]))
		}
	})
})

var _ = Describe("ParallelFor", func() {
	DescribeTable("visits every index exactly once",
		func(n, minChunk, workers int) {
			var mu sync.Mutex
			seen := make([]int, n)
			scatter.ParallelFor(n, minChunk, workers, func(start, end int) {
				mu.Lock()
				defer mu.Unlock()
				for i := start; i < end; i++ {
					seen[i]++
				}
			})
			for i := range seen {
				Expect(seen[i]).To(Equal(1), "index %d", i)
			}
		},
		Entry("serial", 10, 1, 1),
		Entry("small input", 3, 8, 4),
		Entry("even split", 64, 4, 4),
		Entry("uneven split", 101, 7, 6),
		Entry("more workers than items", 5, 1, 32),
	)

	It("does nothing for an empty range", func() {
		called := false
		scatter.ParallelFor(0, 1, 4, func(int, int) { called = true })
		Expect(called).To(BeFalse())
	})
})
