package metrics

import (
	"math"

	"github.com/samuehae/transport/internal/scatter"
)

const DefaultResonanceThreshold = 0.9

type MeanTransmission struct {
	name    string
	sum     float64
	samples int
}

func NewMeanTransmission() *MeanTransmission {
	return &MeanTransmission{name: "mean_transmission"}
}

func (m *MeanTransmission) Name() string { return m.name }

func (m *MeanTransmission) Observe(energy float64, p scatter.Pair) {
	if !p.IsValid() {
		return
	}
	m.sum += p.Transmission()
	m.samples++
}

func (m *MeanTransmission) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanTransmission) Reset() {
	m.sum = 0
	m.samples = 0
}

// Resonances counts local maxima of |t|² that reach the threshold.
type Resonances struct {
	name      string
	threshold float64
	count     int
	prev      float64
	rising    bool
	samples   int
}

func NewResonances(threshold float64) *Resonances {
	return &Resonances{
		name:      "resonances",
		threshold: threshold,
	}
}

func (r *Resonances) Name() string { return r.name }

func (r *Resonances) Observe(energy float64, p scatter.Pair) {
	if !p.IsValid() {
		return
	}
	tt := p.Transmission()
	if r.samples > 0 {
		if tt < r.prev && r.rising && r.prev >= r.threshold {
			r.count++
		}
		r.rising = tt > r.prev
	}
	r.prev = tt
	r.samples++
}

func (r *Resonances) Value() float64 {
	return float64(r.count)
}

func (r *Resonances) Reset() {
	r.count = 0
	r.prev = math.NaN()
	r.rising = false
	r.samples = 0
}
