// Package optim searches potential parameters for extreme spectrum metrics.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no parameter set could be evaluated")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// ParseAxis parses "name=min:max:steps" into a parameter name and its values.
func ParseAxis(axis string) (string, []float64, error) {
	name, rng, ok := strings.Cut(axis, "=")
	parts := strings.Split(rng, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("optim: axis %q is not name=min:max:steps", axis)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("optim: axis %q: %w", axis, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("optim: axis %q: %w", axis, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("optim: axis %q: steps must be a positive integer", axis)
	}
	if n == 1 {
		return name, []float64{lo}, nil
	}
	return name, floats.Span(make([]float64, n), lo, hi), nil
}

// Search evaluates every point of the parameter grid on top of base and
// returns the parameters with the smallest metric value, or the largest when
// maximize is set. Candidates that fail to build or run are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
	maximize bool,
) (map[string]float64, float64, error) {
	s := &search{
		grid:   g,
		base:   base,
		reg:    reg,
		metric: metricName,
		sign:   1,
		best:   math.Inf(1),
	}
	if maximize {
		s.sign = -1
	}

	if err := s.recurse(ctx, 0, make(map[string]float64)); err != nil {
		return nil, 0, err
	}
	if s.bestParams == nil {
		if s.lastErr != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrNoCandidate, s.lastErr)
		}
		return nil, 0, ErrNoCandidate
	}
	return s.bestParams, s.sign * s.best, nil
}

type search struct {
	grid       *GridSearch
	base       *config.Config
	reg        *experiment.Registry
	metric     string
	sign       float64
	best       float64
	bestParams map[string]float64
	lastErr    error
}

func (s *search) recurse(ctx context.Context, depth int, current map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(s.grid.paramNames) {
		val, err := s.evaluate(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.lastErr = err
			return nil
		}
		if s.sign*val < s.best {
			s.best = s.sign * val
			s.bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				s.bestParams[k] = v
			}
		}
		return nil
	}

	paramName := s.grid.paramNames[depth]
	for _, val := range s.grid.ranges[depth] {
		current[paramName] = val
		if err := s.recurse(ctx, depth+1, current); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

func (s *search) evaluate(ctx context.Context, params map[string]float64) (float64, error) {
	cfg := *s.base
	cfg.WaveEnergies = nil
	for name, v := range params {
		if err := cfg.Potential.Set(name, v); err != nil {
			return 0, err
		}
	}

	exp, err := experiment.New(&cfg, s.reg)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	val, ok := result.Metrics[s.metric]
	if !ok {
		return 0, fmt.Errorf("optim: unknown metric %q", s.metric)
	}
	return val, nil
}
