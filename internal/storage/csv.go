package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samuehae/transport/internal/scatter"
)

var spectrumHeader = []string{"energy", "re_r", "im_r", "re_t", "im_t", "R", "T", "L"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSpectrum(out io.Writer, energies []float64, pairs []scatter.Pair) error {
	w := csv.NewWriter(out)
	if err := w.Write(spectrumHeader); err != nil {
		return err
	}
	for i, p := range pairs {
		row := []string{
			formatFloat(energies[i]),
			formatFloat(real(p.R)), formatFloat(imag(p.R)),
			formatFloat(real(p.T)), formatFloat(imag(p.T)),
			formatFloat(p.Reflection()), formatFloat(p.Transmission()), formatFloat(p.Loss()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writePotential(out io.Writer, x []float64, v []complex128) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"x", "re_v", "im_v"}); err != nil {
		return err
	}
	for i, vi := range v {
		if err := w.Write([]string{formatFloat(x[i]), formatFloat(real(vi)), formatFloat(imag(vi))}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeWaves(out io.Writer, x, energies []float64, waves [][]complex128) error {
	w := csv.NewWriter(out)
	header := []string{"x"}
	for _, e := range energies {
		header = append(header, "re_"+formatFloat(e), "im_"+formatFloat(e))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, xi := range x {
		row[0] = formatFloat(xi)
		for j, y := range waves {
			row[1+2*j] = formatFloat(real(y[i]))
			row[2+2*j] = formatFloat(imag(y[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readTable parses a numeric CSV file with a header row.
func readTable(path string, minCols int) ([]string, [][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("storage: %s: missing header", filepath.Base(path))
	}
	if len(records[0]) < minCols {
		return nil, nil, fmt.Errorf("storage: %s: expected at least %d columns, got %d", filepath.Base(path), minCols, len(records[0]))
	}

	rows := make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s line %d: %w", filepath.Base(path), i+2, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return records[0], rows, nil
}

func (s *Store) LoadSpectrum(runID string) ([]float64, []scatter.Pair, error) {
	_, rows, err := readTable(filepath.Join(s.baseDir, runID, spectrumFile), 5)
	if err != nil {
		return nil, nil, err
	}
	energies := make([]float64, len(rows))
	pairs := make([]scatter.Pair, len(rows))
	for i, row := range rows {
		energies[i] = row[0]
		pairs[i] = scatter.Pair{R: complex(row[1], row[2]), T: complex(row[3], row[4])}
	}
	return energies, pairs, nil
}

// LoadWaves returns the positions, the wave energies and one wave function
// per energy.
func (s *Store) LoadWaves(runID string) ([]float64, []float64, [][]complex128, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(meta.Waves) == 0 {
		return nil, nil, nil, fmt.Errorf("storage: run %s has no wave functions", runID)
	}
	_, rows, err := readTable(filepath.Join(s.baseDir, runID, wavesFile), 1+2*len(meta.Waves))
	if err != nil {
		return nil, nil, nil, err
	}

	x := make([]float64, len(rows))
	waves := make([][]complex128, len(meta.Waves))
	for j := range waves {
		waves[j] = make([]complex128, len(rows))
	}
	for i, row := range rows {
		x[i] = row[0]
		for j := range waves {
			waves[j][i] = complex(row[1+2*j], row[2+2*j])
		}
	}
	return x, meta.Waves, waves, nil
}

func (s *Store) LoadPotential(runID string) ([]float64, []complex128, error) {
	_, rows, err := readTable(filepath.Join(s.baseDir, runID, potentialFile), 3)
	if err != nil {
		return nil, nil, err
	}
	x := make([]float64, len(rows))
	v := make([]complex128, len(rows))
	for i, row := range rows {
		x[i] = row[0]
		v[i] = complex(row[1], row[2])
	}
	return x, v, nil
}
