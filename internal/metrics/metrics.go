// Package metrics reduces a scattering spectrum to scalar figures.
package metrics

import "github.com/samuehae/transport/internal/scatter"

// Metric accumulates observations of an amplitude spectrum, one energy at a
// time. Invalid pairs are skipped by every metric in this package.
type Metric interface {
	Name() string
	Observe(energy float64, p scatter.Pair)
	Value() float64
	Reset()
}

// Default returns the metrics reported for every run.
func Default() []Metric {
	return []Metric{
		NewMeanTransmission(),
		NewMaxLoss(),
		NewFluxDefect(),
		NewResonances(DefaultResonanceThreshold),
	}
}

// Evaluate feeds the spectrum through each metric and collects the values by name.
func Evaluate(energies []float64, pairs []scatter.Pair, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, p := range pairs {
			m.Observe(energies[i], p)
		}
		out[m.Name()] = m.Value()
	}
	return out
}
