package main

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/samuehae/transport/internal/analysis"
	"github.com/samuehae/transport/internal/export"
	"github.com/samuehae/transport/internal/storage"
)

var waveColors = []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Blue, asciigraph.Red, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Cyan}

var svgColors = []string{"#96ceb4", "#ffcc5c", "#ff6f69", "#636bab", "#d6568f", "#f59a53"}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runArg(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energies, pairs, err := st.LoadSpectrum(runID)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("shape: %s, %s incidence\n", meta.Shape, meta.Side)
	fmt.Printf("energies: %d in [%g, %g]\n\n", len(energies), energies[0], energies[len(energies)-1])

	series := []struct {
		caption string
		value   func(int) float64
	}{
		{"transmission |t|²", func(i int) float64 { return pairs[i].Transmission() }},
		{"reflection |r|²", func(i int) float64 { return pairs[i].Reflection() }},
		{"loss 1 - |r|² - |t|²", func(i int) float64 { return pairs[i].Loss() }},
	}
	for _, s := range series {
		data := make([]float64, len(pairs))
		for i := range pairs {
			data[i] = s.value(i)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption+" vs energy"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func plotMomentum(psi []complex128, x []float64, energy float64, color asciigraph.AnsiColor) error {
	if len(x) < 2 {
		return fmt.Errorf("momentum needs at least two grid points, run has %d", len(x))
	}
	sp, err := analysis.Momentum(psi, x[1]-x[0])
	if err != nil {
		return err
	}
	k, p := sp.Dominant()
	graph := asciigraph.Plot(sp.Power,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.SeriesColors(color),
		asciigraph.Caption(fmt.Sprintf("power vs k in [%.3g, %.3g]", sp.K[0], sp.K[len(sp.K)-1])),
	)
	fmt.Println(graph)
	fmt.Printf("  dominant k=%.4g (%.1f%%), √e=%.4g, forward share %.4f\n\n",
		k, 100*p, math.Sqrt(energy), sp.ForwardFraction())
	return nil
}

func plotWaves(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runArg(st, args)
	if err != nil {
		return err
	}
	x, energies, waves, err := st.LoadWaves(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("x in [%g, %g], %d points\n\n", x[0], x[len(x)-1], len(x))

	for j, y := range waves {
		data := make([]float64, len(y))
		caption := "|ψ(x)|²"
		for i, yi := range y {
			if showReal {
				data[i] = real(yi)
			} else {
				a := cmplx.Abs(yi)
				data[i] = a * a
			}
		}
		if showReal {
			caption = "Re ψ(x)"
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(waveColors[j%len(waveColors)]),
			asciigraph.Caption(fmt.Sprintf("%s at e=%g", caption, energies[j])),
		)
		fmt.Println(graph)
		fmt.Println()

		if showMomentum {
			if err := plotMomentum(y, x, energies[j], waveColors[j%len(waveColors)]); err != nil {
				return err
			}
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runArg(st, args)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energies, pairs, err := st.LoadSpectrum(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, energies, pairs)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runArg(st, args)
	if err != nil {
		return err
	}
	energies, pairs, err := st.LoadSpectrum(runID)
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, energies, pairs)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := runArg(st, args)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if !svgWaves {
		energies, pairs, err := st.LoadSpectrum(runID)
		if err != nil {
			return err
		}
		return export.SpectrumSVG(out, energies, pairs, 800, 400)
	}

	x, _, waves, err := st.LoadWaves(runID)
	if err != nil {
		return err
	}
	series := make([][]float64, len(waves))
	for j, y := range waves {
		series[j] = make([]float64, len(y))
		for i, yi := range y {
			a := cmplx.Abs(yi)
			series[j][i] = a * a
		}
	}
	return export.CurvesSVG(out, x, series, svgColors, 800, 400)
}
