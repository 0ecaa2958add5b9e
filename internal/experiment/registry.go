package experiment

import (
	"fmt"
	"sort"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/metrics"
	"github.com/samuehae/transport/internal/potential"
)

type Registry struct {
	shapes map[string]func(config.PotentialConfig) (potential.Shape, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		shapes: make(map[string]func(config.PotentialConfig) (potential.Shape, error)),
	}

	r.shapes["rectangular"] = func(p config.PotentialConfig) (potential.Shape, error) {
		if p.End < p.Start {
			return nil, fmt.Errorf("rectangular: end %g before start %g", p.End, p.Start)
		}
		return potential.Rectangular{Height: p.ComplexHeight(), Start: p.Start, End: p.End}, nil
	}
	r.shapes["gaussian"] = func(p config.PotentialConfig) (potential.Shape, error) {
		if p.Width <= 0 {
			return nil, fmt.Errorf("gaussian: width must be positive, got %g", p.Width)
		}
		return potential.Gaussian{Height: p.ComplexHeight(), Width: p.Width}, nil
	}
	r.shapes["lattice"] = func(p config.PotentialConfig) (potential.Shape, error) {
		if p.Period <= 0 || p.Cells < 1 {
			return nil, fmt.Errorf("lattice: need positive period and cells, got %g and %d", p.Period, p.Cells)
		}
		return potential.Lattice{Height: p.ComplexHeight(), Period: p.Period, Cells: p.Cells}, nil
	}

	return r
}

// Register adds or replaces a shape constructor.
func (r *Registry) Register(name string, fn func(config.PotentialConfig) (potential.Shape, error)) {
	r.shapes[name] = fn
}

func (r *Registry) GetShape(p config.PotentialConfig) (potential.Shape, error) {
	fn, ok := r.shapes[p.Shape]
	if !ok {
		return nil, fmt.Errorf("unknown shape: %s", p.Shape)
	}
	return fn(p)
}

func (r *Registry) ListShapes() []string {
	names := make([]string, 0, len(r.shapes))
	for name := range r.shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	return metrics.Default()
}
