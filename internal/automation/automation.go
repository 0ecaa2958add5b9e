package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/experiment"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the default config) and overlays
// every other key of the step onto it.
type ScenarioStep struct {
	Preset string
	SaveAs string
	Config *config.Config
}

func (s *ScenarioStep) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Preset string `yaml:"preset"`
		SaveAs string `yaml:"save_as"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if head.Preset != "" {
		if cfg = config.GetPreset(head.Preset); cfg == nil {
			return fmt.Errorf("line %d: unknown preset %q", node.Line, head.Preset)
		}
	}
	if err := node.Decode(cfg); err != nil {
		return err
	}
	if head.SaveAs != "" {
		cfg.Name = head.SaveAs
	}

	s.Preset = head.Preset
	s.SaveAs = head.SaveAs
	s.Config = cfg
	return nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// RunScenario executes all steps in order and reports progress to out.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, out io.Writer) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Fprintf(out, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), step.Config.Name)

		exp, err := experiment.New(step.Config, registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// ParameterSweep varies one potential parameter over a uniform range.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Failed     int
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, out io.Writer) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	values := []float64{sweep.ParamMin}
	if sweep.NumSteps > 1 {
		values = floats.Span(make([]float64, sweep.NumSteps), sweep.ParamMin, sweep.ParamMax)
	}

	results := make([]SweepResult, 0, len(values))
	for i, val := range values {
		cfg := *sweep.Base
		cfg.WaveEnergies = nil
		if err := cfg.Potential.Set(sweep.ParamName, val); err != nil {
			return nil, err
		}

		exp, err := experiment.New(&cfg, registry)
		if err != nil {
			return results, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue: val,
			Metrics:    result.Metrics,
			Failed:     len(result.Failures),
		})

		fmt.Fprintf(out, "Sweep %d/%d: %s=%.4f T=%.4f\n", i+1, len(values), sweep.ParamName, val,
			result.Metrics["mean_transmission"])
	}

	return results, nil
}
