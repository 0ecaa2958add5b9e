package storage

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/samuehae/transport/internal/scatter"
)

// Number encodes NaN and infinities as null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type Complex struct {
	Re Number `json:"re"`
	Im Number `json:"im"`
}

type ExportData struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Side     string             `json:"side"`
	Energies []float64          `json:"energies"`
	R        []Complex          `json:"r"`
	T        []Complex          `json:"t"`
	Reflect  []Number           `json:"reflection"`
	Transmit []Number           `json:"transmission"`
	Loss     []Number           `json:"loss"`
	Failed   []int              `json:"failed,omitempty"`
	Metrics  map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, energies []float64, pairs []scatter.Pair) error {
	data := ExportData{
		ID:       meta.ID,
		Name:     meta.Name,
		Side:     meta.Side,
		Energies: energies,
		R:        make([]Complex, len(pairs)),
		T:        make([]Complex, len(pairs)),
		Reflect:  make([]Number, len(pairs)),
		Transmit: make([]Number, len(pairs)),
		Loss:     make([]Number, len(pairs)),
		Failed:   meta.Failed,
		Metrics:  meta.Metrics,
	}
	for i, p := range pairs {
		data.R[i] = Complex{Number(real(p.R)), Number(imag(p.R))}
		data.T[i] = Complex{Number(real(p.T)), Number(imag(p.T))}
		data.Reflect[i] = Number(p.Reflection())
		data.Transmit[i] = Number(p.Transmission())
		data.Loss[i] = Number(p.Loss())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the spectrum in the spectrum.csv layout.
func ExportCSV(w io.Writer, energies []float64, pairs []scatter.Pair) error {
	return writeSpectrum(w, energies, pairs)
}
