package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/metrics"
	"github.com/samuehae/transport/internal/potential"
	"github.com/samuehae/transport/internal/scatter"
)

// block is the number of energies solved between cancellation checks.
const block = 256

var ErrAllFailed = errors.New("experiment: every energy failed")

type Result struct {
	Name         string
	Side         scatter.Side
	X            []float64
	Dx           float64
	Potential    []complex128
	Energies     []float64
	Pairs        []scatter.Pair
	WaveEnergies []float64
	Waves        [][]complex128
	Metrics      map[string]float64
	Failures     []*scatter.EvaluationError
	WaveFailures []*scatter.EvaluationError
	Elapsed      time.Duration
}

type Experiment struct {
	cfg     *config.Config
	shape   potential.Shape
	side    scatter.Side
	solver  *scatter.Solver
	metrics []metrics.Metric
}

func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shape, err := reg.GetShape(cfg.Potential)
	if err != nil {
		return nil, err
	}
	side := scatter.Right
	if cfg.Side != "" {
		if side, err = scatter.ParseSide(cfg.Side); err != nil {
			return nil, err
		}
	}
	solver := scatter.New()
	if cfg.Workers > 0 {
		solver.Workers = cfg.Workers
	}
	if cfg.ChunkSize > 0 {
		solver.ChunkSize = cfg.ChunkSize
	}
	return &Experiment{
		cfg:     cfg,
		shape:   shape,
		side:    side,
		solver:  solver,
		metrics: reg.DefaultMetrics(),
	}, nil
}

func (e *Experiment) Side() scatter.Side { return e.side }

func (e *Experiment) Solver() *scatter.Solver { return e.solver }

// Sample returns the position grid, its spacing and the sampled potential.
func (e *Experiment) Sample() ([]float64, float64, []complex128, error) {
	g := e.cfg.Grid
	if g.Points == 1 {
		// A single sample has no spacing; use the unit box.
		return []float64{g.Start}, 1, e.shape.Sample([]float64{g.Start}), nil
	}
	x, dx, err := potential.Grid(g.Start, g.Stop, g.Points)
	if err != nil {
		return nil, 0, nil, err
	}
	return x, dx, e.shape.Sample(x), nil
}

// Energies returns the energy grid of the amplitude spectrum.
func (e *Experiment) Energies() []float64 {
	ec := e.cfg.Energies
	if ec.Points == 1 {
		return []float64{ec.Min}
	}
	return floats.Span(make([]float64, ec.Points), ec.Min, ec.Max)
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	x, dx, v, err := e.Sample()
	if err != nil {
		return nil, err
	}
	result := &Result{
		Name:         e.cfg.Name,
		Side:         e.side,
		X:            x,
		Dx:           dx,
		Potential:    v,
		Energies:     e.Energies(),
		WaveEnergies: append([]float64(nil), e.cfg.WaveEnergies...),
	}

	result.Pairs = make([]scatter.Pair, 0, len(result.Energies))
	for lo := 0; lo < len(result.Energies); lo += block {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		hi := min(lo+block, len(result.Energies))
		pairs, err := e.solver.AmplitudesBatch(result.Energies[lo:hi], v, dx, e.side)
		if err := result.keep(err, lo); err != nil {
			return result, err
		}
		result.Pairs = append(result.Pairs, pairs...)
	}
	if len(result.Failures) == len(result.Energies) {
		return result, fmt.Errorf("%w: %w", ErrAllFailed, result.Failures[0])
	}

	if len(result.WaveEnergies) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		waves, err := e.solver.WavefunctionBatch(result.WaveEnergies, v, dx, e.side)
		var be *scatter.BatchError
		if err != nil && !errors.As(err, &be) {
			return result, err
		}
		if be != nil {
			result.WaveFailures = be.Failures
		}
		result.Waves = waves
	}

	result.Metrics = metrics.Evaluate(result.Energies, result.Pairs, e.metrics...)
	result.Elapsed = time.Since(start)
	return result, nil
}

// keep records per-energy failures of a batch starting at offset and passes
// any other error through.
func (r *Result) keep(err error, offset int) error {
	if err == nil {
		return nil
	}
	var be *scatter.BatchError
	if !errors.As(err, &be) {
		return err
	}
	for _, f := range be.Failures {
		shifted := *f
		shifted.Index += offset
		r.Failures = append(r.Failures, &shifted)
	}
	return nil
}
