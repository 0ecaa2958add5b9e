package config

import "sort"

var Presets = map[string]*Config{
	"rectangular": {
		Name: "rectangular", Side: "right",
		Potential:    PotentialConfig{Shape: "rectangular", Height: 1, Start: 0, End: 1},
		Grid:         GridConfig{Start: 0, Stop: 1, Points: 500},
		Energies:     EnergyConfig{Min: 0.01, Max: 5, Points: 300},
		WaveEnergies: []float64{0.5, 1, 2},
	},
	"absorber": {
		Name: "absorber", Side: "right",
		Potential:    PotentialConfig{Shape: "rectangular", Height: 1, Absorption: 1, Start: 0, End: 1},
		Grid:         GridConfig{Start: 0, Stop: 1, Points: 500},
		Energies:     EnergyConfig{Min: 0.01, Max: 5, Points: 300},
		WaveEnergies: []float64{1},
	},
	"gaussian": {
		Name: "gaussian", Side: "right",
		Potential: PotentialConfig{Shape: "gaussian", Height: 10, Width: 1},
		Grid:      GridConfig{Start: -5, Stop: 5, Points: 500},
		Energies:  EnergyConfig{Min: 0.1, Max: 30, Points: 300},
	},
	"lattice": {
		Name: "lattice", Side: "left",
		Potential:    PotentialConfig{Shape: "lattice", Height: 10, Period: 1, Cells: 6},
		Grid:         GridConfig{Start: -3, Stop: 9, Points: 500},
		Energies:     EnergyConfig{Min: 0.1, Max: 25, Points: 700},
		WaveEnergies: []float64{2.4, 7.05, 12, 19.2},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.WaveEnergies = append([]float64(nil), p.WaveEnergies...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
