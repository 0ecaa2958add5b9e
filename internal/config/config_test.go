package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Potential.Shape != "rectangular" {
		t.Errorf("expected shape rectangular, got %s", cfg.Potential.Shape)
	}
	if cfg.Grid.Points < 2 {
		t.Error("grid should have points")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestComplexHeight(t *testing.T) {
	p := PotentialConfig{Height: 1, Absorption: 0.5}
	if got := p.ComplexHeight(); got != 1-0.5i {
		t.Errorf("expected 1-0.5i, got %v", got)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lattice")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Potential.Cells != 6 {
		t.Errorf("expected 6 cells, got %d", cfg.Potential.Cells)
	}
	if cfg.Side != "left" {
		t.Errorf("expected left incidence, got %s", cfg.Side)
	}

	cfg.WaveEnergies[0] = -1
	if Presets["lattice"].WaveEnergies[0] == -1 {
		t.Error("preset modified through returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty shape", func(c *Config) { c.Potential.Shape = "" }},
		{"bad side", func(c *Config) { c.Side = "up" }},
		{"no grid points", func(c *Config) { c.Grid.Points = 0 }},
		{"reversed grid", func(c *Config) { c.Grid.Start, c.Grid.Stop = 1, 0 }},
		{"no energies", func(c *Config) { c.Energies.Points = 0 }},
		{"reversed energies", func(c *Config) { c.Energies.Min, c.Energies.Max = 2, 1 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("absorber")
	cfg.Workers = 3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Potential.ComplexHeight() != 1-1i {
		t.Errorf("expected height 1-1i, got %v", loaded.Potential.ComplexHeight())
	}
	if loaded.Workers != 3 || loaded.Energies.Points != 300 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("potential:\n  shape: gaussian\n  height: 2\n  width: 0.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Potential.Shape != "gaussian" || cfg.Grid.Points != DefaultPoints {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("side: sideways\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestPotentialSet(t *testing.T) {
	var p PotentialConfig
	for name, v := range map[string]float64{"height": 2, "absorption": 0.5, "width": 3, "cells": 4.2} {
		if err := p.Set(name, v); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	if p.Height != 2 || p.Absorption != 0.5 || p.Width != 3 || p.Cells != 4 {
		t.Errorf("unexpected parameters: %+v", p)
	}
	if err := p.Set("colour", 1); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
