// Package export renders spectra and wave functions as standalone SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/samuehae/transport/internal/scatter"
)

const (
	transmitFill = "#636bab"
	reflectFill  = "#d6568f"
	lossFill     = "#f59a53"
	background   = "#ffffff"
)

// SpectrumSVG stacks loss, reflection and transmission probabilities as
// filled bands between 0 and 1. Failed energies leave a gap.
func SpectrumSVG(w io.Writer, energies []float64, pairs []scatter.Pair, width, height int) error {
	if len(energies) < 2 || len(energies) != len(pairs) {
		return fmt.Errorf("export: need at least two energies with matching amplitudes, got %d and %d", len(energies), len(pairs))
	}

	lo, hi := energies[0], energies[len(energies)-1]
	if hi <= lo {
		hi = lo + 1
	}
	sx := func(e float64) float64 { return (e - lo) / (hi - lo) * float64(width) }
	sy := func(p float64) float64 { return float64(height) * (1 - math.Max(0, math.Min(1, p))) }

	var sb strings.Builder
	header(&sb, width, height)

	// Bands [0, L], [L, L+R] and [L+R, 1], drawn per contiguous run of
	// valid energies.
	bands := []struct {
		fill     string
		low, top func(scatter.Pair) float64
	}{
		{lossFill, func(scatter.Pair) float64 { return 0 }, func(p scatter.Pair) float64 { return p.Loss() }},
		{reflectFill, func(p scatter.Pair) float64 { return p.Loss() }, func(p scatter.Pair) float64 { return p.Loss() + p.Reflection() }},
		{transmitFill, func(p scatter.Pair) float64 { return p.Loss() + p.Reflection() }, func(scatter.Pair) float64 { return 1 }},
	}
	for _, run := range validRuns(pairs) {
		for _, band := range bands {
			fmt.Fprintf(&sb, `<path fill="%s" d="M`, band.fill)
			for i := run[0]; i < run[1]; i++ {
				if i > run[0] {
					sb.WriteString(" L")
				}
				fmt.Fprintf(&sb, "%.1f,%.1f", sx(energies[i]), sy(band.top(pairs[i])))
			}
			for i := run[1] - 1; i >= run[0]; i-- {
				fmt.Fprintf(&sb, " L%.1f,%.1f", sx(energies[i]), sy(band.low(pairs[i])))
			}
			sb.WriteString(" Z\"/>\n")
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// CurvesSVG draws each series against x as a polyline, all sharing one
// vertical scale.
func CurvesSVG(w io.Writer, x []float64, series [][]float64, colors []string, width, height int) error {
	if len(x) < 2 {
		return fmt.Errorf("export: need at least two positions, got %d", len(x))
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, ys := range series {
		if len(ys) != len(x) {
			return fmt.Errorf("export: series of length %d for %d positions", len(ys), len(x))
		}
		for _, y := range ys {
			if !math.IsNaN(y) && !math.IsInf(y, 0) {
				minY, maxY = math.Min(minY, y), math.Max(maxY, y)
			}
		}
	}
	if math.IsInf(minY, 1) {
		minY, maxY = 0, 1
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	minX, rangeX := x[0], x[len(x)-1]-x[0]

	var sb strings.Builder
	header(&sb, width, height)

	for j, ys := range series {
		color := "#000000"
		if j < len(colors) {
			color = colors[j]
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		move := true
		for i, y := range ys {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				move = true
				continue
			}
			px := (x[i] - minX) / rangeX * float64(width)
			py := float64(height) - (y-minY)/rangeY*float64(height)
			cmd := " L"
			if move {
				cmd = " M"
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, px, py)
			move = false
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func header(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// validRuns returns [start, end) index ranges of consecutive valid pairs
// holding at least two points.
func validRuns(pairs []scatter.Pair) [][2]int {
	var runs [][2]int
	start := -1
	for i := 0; i <= len(pairs); i++ {
		ok := i < len(pairs) && pairs[i].IsValid()
		switch {
		case ok && start < 0:
			start = i
		case !ok && start >= 0:
			if i-start >= 2 {
				runs = append(runs, [2]int{start, i})
			}
			start = -1
		}
	}
	return runs
}
