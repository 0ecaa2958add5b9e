package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/samuehae/transport/internal/config"
	"github.com/samuehae/transport/internal/experiment"
)

const (
	metadataFile  = "metadata.json"
	spectrumFile  = "spectrum.csv"
	wavesFile     = "waves.csv"
	potentialFile = "potential.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Side      string             `json:"side"`
	Shape     string             `json:"shape"`
	Points    int                `json:"points"`
	Dx        float64            `json:"dx"`
	Energies  int                `json:"energies"`
	Waves     []float64          `json:"wave_energies,omitempty"`
	Failed    []int              `json:"failed,omitempty"`
	ElapsedMs float64            `json:"elapsed_ms"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(cfg *config.Config, result *experiment.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.createRunDir(cfg.Name, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      cfg.Name,
		Timestamp: now,
		Side:      result.Side.String(),
		Shape:     cfg.Potential.Shape,
		Points:    len(result.Potential),
		Dx:        result.Dx,
		Energies:  len(result.Energies),
		Waves:     result.WaveEnergies,
		ElapsedMs: float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:   result.Metrics,
		Config:    cfg,
	}
	for _, f := range result.Failures {
		meta.Failed = append(meta.Failed, f.Index)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, spectrumFile), func(f *os.File) error {
		return writeSpectrum(f, result.Energies, result.Pairs)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, potentialFile), func(f *os.File) error {
		return writePotential(f, result.X, result.Potential)
	}); err != nil {
		return "", err
	}
	if len(result.Waves) > 0 {
		if err := writeFile(filepath.Join(runDir, wavesFile), func(f *os.File) error {
			return writeWaves(f, result.X, result.WaveEnergies, result.Waves)
		}); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) createRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	if name == "" {
		name = "run"
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Latest returns the id of the most recent run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("storage: no runs")
	}
	return runs[len(runs)-1].ID, nil
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
