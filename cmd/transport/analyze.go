package main

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/samuehae/transport/internal/analytic"
	"github.com/samuehae/transport/internal/potential"
	"github.com/samuehae/transport/internal/scatter"
)

func compareAnalytic(cmd *cobra.Command, args []string) error {
	s, err := scatter.ParseSide(cmpSide)
	if err != nil {
		return err
	}
	if cmpEnergies < 2 {
		return fmt.Errorf("need at least two energies, got %d", cmpEnergies)
	}
	energies := floats.Span(make([]float64, cmpEnergies), cmpEMin, cmpEMax)

	var (
		x  []float64
		dx float64
		v  []complex128
	)
	switch shape {
	case "rectangular":
		if x, dx, err = potential.Grid(0, cmpLength, cmpPoints); err != nil {
			return err
		}
		v = potential.Rectangular{Height: complex(cmpHeight, -cmpAbsorption), Start: 0, End: cmpLength}.Sample(x)
	case "gaussian":
		if x, dx, err = potential.Grid(-5*cmpLength, 5*cmpLength, cmpPoints); err != nil {
			return err
		}
		v = potential.Gaussian{Height: complex(cmpHeight, 0), Width: cmpLength}.Sample(x)
	default:
		return fmt.Errorf("unknown shape: %s (rectangular or gaussian)", shape)
	}

	start := time.Now()
	pairs, err := scatter.AmplitudesBatch(energies, v, dx, s)
	var be *scatter.BatchError
	if errors.As(err, &be) {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d energies failed", len(be.Failures))))
	} else if err != nil {
		return err
	}
	elapsed := time.Since(start)

	numeric := make([]float64, len(pairs))
	reference := make([]float64, len(pairs))
	var maxR, maxT, maxP float64
	for i, e := range energies {
		numeric[i] = pairs[i].Transmission()
		if shape == "rectangular" {
			r, t, _ := analytic.RectangularBarrier(e, complex(cmpHeight, -cmpAbsorption), cmpLength, nil, s)
			reference[i] = cmplx.Abs(t) * cmplx.Abs(t)
			if pairs[i].IsValid() {
				maxR = math.Max(maxR, cmplx.Abs(pairs[i].R-r))
				maxT = math.Max(maxT, cmplx.Abs(pairs[i].T-t))
			}
		} else {
			// Rescaled to unit width.
			reference[i] = analytic.ParabolicTransmission(e*cmpLength*cmpLength, cmpHeight*cmpLength*cmpLength)
		}
		if pairs[i].IsValid() {
			maxP = math.Max(maxP, math.Abs(numeric[i]-reference[i]))
		}
	}

	graph := asciigraph.PlotMany([][]float64{numeric, reference},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("|t|² numerical (blue) vs reference (red), e in [%g, %g]", cmpEMin, cmpEMax)),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "shape\t%s (%s incidence)\n", shape, s)
	fmt.Fprintf(w, "grid\t%d points, dx=%.4g\n", len(v), dx)
	fmt.Fprintf(w, "solve time\t%v\n", elapsed)
	if shape == "rectangular" {
		fmt.Fprintf(w, "max |Δr|\t%.3e\n", maxR)
		fmt.Fprintf(w, "max |Δt|\t%.3e\n", maxT)
	}
	fmt.Fprintf(w, "max |Δ|t|²|\t%.3e\n", maxP)
	return w.Flush()
}

func benchSolver(cmd *cobra.Command, args []string) error {
	if benchEnergies < 1 {
		return fmt.Errorf("need at least one energy, got %d", benchEnergies)
	}
	energies := floats.Span(make([]float64, max(benchEnergies, 2)), 0.1, 10)[:benchEnergies]
	sizes := []int{500, 2000, 10000}

	fmt.Printf("benchmarking %d energies, %d cpus\n\n", len(energies), runtime.NumCPU())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tMODE\tTIME\tENERGIES/SEC")

	for _, n := range sizes {
		x, dx, err := potential.Grid(0, 1, n)
		if err != nil {
			return err
		}
		v := potential.Rectangular{Height: 1 - 0.5i, Start: 0, End: 1}.Sample(x)

		modes := []struct {
			name string
			run  func() error
		}{
			{"scalar", func() error {
				for _, e := range energies {
					if _, err := scatter.Amplitudes(e, v, dx, scatter.Right); err != nil {
						return err
					}
				}
				return nil
			}},
			{"batch/1", func() error {
				_, err := (&scatter.Solver{Workers: 1}).AmplitudesBatch(energies, v, dx, scatter.Right)
				return err
			}},
			{fmt.Sprintf("batch/%d", runtime.GOMAXPROCS(0)), func() error {
				_, err := scatter.AmplitudesBatch(energies, v, dx, scatter.Right)
				return err
			}},
		}

		for _, m := range modes {
			start := time.Now()
			if err := m.run(); err != nil {
				return err
			}
			elapsed := time.Since(start)
			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\n", n, m.name, elapsed, float64(len(energies))/elapsed.Seconds())
		}
	}

	return w.Flush()
}
