package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPoints       = 500
	DefaultEnergyPoints = 300
	DefaultEMin         = 0.01
	DefaultEMax         = 5.0
	DefaultHeight       = 1.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Name         string          `yaml:"name"`
	Side         string          `yaml:"side"`
	Potential    PotentialConfig `yaml:"potential"`
	Grid         GridConfig      `yaml:"grid"`
	Energies     EnergyConfig    `yaml:"energies"`
	WaveEnergies []float64       `yaml:"wave_energies,omitempty"`
	Workers      int             `yaml:"workers,omitempty"`
	ChunkSize    int             `yaml:"chunk_size,omitempty"`
}

// PotentialConfig describes a potential shape. The complex height is
// Height − i·Absorption, so a positive absorption removes flux.
type PotentialConfig struct {
	Shape      string  `yaml:"shape"`
	Height     float64 `yaml:"height"`
	Absorption float64 `yaml:"absorption,omitempty"`
	Start      float64 `yaml:"start,omitempty"`
	End        float64 `yaml:"end,omitempty"`
	Width      float64 `yaml:"width,omitempty"`
	Period     float64 `yaml:"period,omitempty"`
	Cells      int     `yaml:"cells,omitempty"`
}

type GridConfig struct {
	Start  float64 `yaml:"start"`
	Stop   float64 `yaml:"stop"`
	Points int     `yaml:"points"`
}

type EnergyConfig struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points int     `yaml:"points"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "rectangular",
		Side: "right",
		Potential: PotentialConfig{
			Shape:  "rectangular",
			Height: DefaultHeight,
			Start:  0,
			End:    1,
		},
		Grid:     GridConfig{Start: 0, Stop: 1, Points: DefaultPoints},
		Energies: EnergyConfig{Min: DefaultEMin, Max: DefaultEMax, Points: DefaultEnergyPoints},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ComplexHeight returns the complex potential height.
func (p PotentialConfig) ComplexHeight() complex128 {
	return complex(p.Height, -p.Absorption)
}

// Set assigns a numeric parameter by its yaml name.
func (p *PotentialConfig) Set(name string, v float64) error {
	switch name {
	case "height":
		p.Height = v
	case "absorption":
		p.Absorption = v
	case "start":
		p.Start = v
	case "end":
		p.End = v
	case "width":
		p.Width = v
	case "period":
		p.Period = v
	case "cells":
		p.Cells = int(math.Round(v))
	default:
		return fmt.Errorf("%w: unknown potential parameter %q", ErrInvalid, name)
	}
	return nil
}

// Validate checks ranges only; unknown shapes are reported by the experiment
// registry.
func (c *Config) Validate() error {
	var problems []string
	if c.Potential.Shape == "" {
		problems = append(problems, "potential shape is empty")
	}
	if !finite(c.Potential.Height, c.Potential.Absorption) {
		problems = append(problems, "potential height is not finite")
	}
	switch strings.ToLower(c.Side) {
	case "", "right", "r", "left", "l":
	default:
		problems = append(problems, fmt.Sprintf("unknown side %q", c.Side))
	}
	if c.Grid.Points < 1 {
		problems = append(problems, "grid needs at least one point")
	}
	if !finite(c.Grid.Start, c.Grid.Stop) || (c.Grid.Points > 1 && c.Grid.Stop <= c.Grid.Start) {
		problems = append(problems, "grid range must be finite and increasing")
	}
	if c.Energies.Points < 1 {
		problems = append(problems, "energy grid needs at least one point")
	}
	if !finite(c.Energies.Min, c.Energies.Max) || c.Energies.Max < c.Energies.Min {
		problems = append(problems, "energy range must be finite and ordered")
	}
	if !finite(c.WaveEnergies...) {
		problems = append(problems, "wave energies must be finite")
	}
	if c.Workers < 0 || c.ChunkSize < 0 {
		problems = append(problems, "workers and chunk size must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
