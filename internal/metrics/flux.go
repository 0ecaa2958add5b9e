package metrics

import (
	"math"

	"github.com/samuehae/transport/internal/scatter"
)

// MaxLoss is the largest absorbed fraction 1 − |r|² − |t|² seen.
type MaxLoss struct {
	name    string
	maxLoss float64
}

func NewMaxLoss() *MaxLoss {
	return &MaxLoss{name: "max_loss"}
}

func (m *MaxLoss) Name() string { return m.name }

func (m *MaxLoss) Observe(energy float64, p scatter.Pair) {
	if !p.IsValid() {
		return
	}
	m.maxLoss = math.Max(m.maxLoss, p.Loss())
}

func (m *MaxLoss) Value() float64 { return m.maxLoss }

func (m *MaxLoss) Reset() { m.maxLoss = 0 }

// FluxDefect is the largest |(|r|² + |t|²) − 1|. It measures the
// discretization error for real potentials above the lead threshold.
type FluxDefect struct {
	name      string
	maxDefect float64
}

func NewFluxDefect() *FluxDefect {
	return &FluxDefect{name: "flux_defect"}
}

func (f *FluxDefect) Name() string { return f.name }

func (f *FluxDefect) Observe(energy float64, p scatter.Pair) {
	if !p.IsValid() || energy <= 0 {
		return
	}
	f.maxDefect = math.Max(f.maxDefect, math.Abs(p.Loss()))
}

func (f *FluxDefect) Value() float64 { return f.maxDefect }

func (f *FluxDefect) Reset() { f.maxDefect = 0 }
