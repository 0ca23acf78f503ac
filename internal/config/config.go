// Package config holds yaml run configuration and named presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNpoints     = 10_000
	DefaultLength      = 2.0     // [m]
	DefaultCapacitance = 400e-12 // [F/m]
	DefaultInductance  = 1e-6    // [H/m]
	DefaultCourant     = 2.0
	DefaultFrequency   = 4e8 // [Hz]
	DefaultAmplitude   = 1.0 // [V]
	DefaultDuration    = 1e-7
)

// Config describes a complete run: line geometry and constants, source
// waveform, duration, and save behavior. Constants are uniform along the
// line; position-dependent profiles are built programmatically against the
// fdtd descriptors instead.
type Config struct {
	Line string `yaml:"line"` // "linear" or "ki"

	Npoints int     `yaml:"npoints"`
	Length  float64 `yaml:"length"`

	Capacitance float64 `yaml:"capacitance"`
	Inductance  float64 `yaml:"inductance"`
	Resistance  float64 `yaml:"resistance"`
	Conductance float64 `yaml:"conductance"`

	// KineticFraction is the share of the total inductance that is
	// kinetic; only read when Line is "ki".
	KineticFraction float64 `yaml:"kinetic_fraction"`
	CriticalCurrent float64 `yaml:"critical_current"`
	NewtonIters     int     `yaml:"newton_iters"`

	Courant   float64 `yaml:"courant"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	Duration  float64 `yaml:"duration"`

	Save SaveConfig `yaml:"save"`
}

type SaveConfig struct {
	Mode      string `yaml:"mode"` // "end" or "full"
	Overwrite bool   `yaml:"overwrite"`
}

func DefaultConfig() *Config {
	return &Config{
		Line:        "linear",
		Npoints:     DefaultNpoints,
		Length:      DefaultLength,
		Capacitance: DefaultCapacitance,
		Inductance:  DefaultInductance,
		Courant:     DefaultCourant,
		Frequency:   DefaultFrequency,
		Amplitude:   DefaultAmplitude,
		Duration:    DefaultDuration,
		Save:        SaveConfig{Mode: "end", Overwrite: true},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// Validate rejects configurations the fdtd descriptors cannot represent.
func (c *Config) Validate() error {
	if c.Line != "linear" && c.Line != "ki" {
		return fmt.Errorf("unknown line kind: %s", c.Line)
	}
	if c.Npoints < 2 {
		return fmt.Errorf("npoints must be at least 2, got %d", c.Npoints)
	}
	if c.Length <= 0 {
		return fmt.Errorf("length must be positive, got %g", c.Length)
	}
	if c.Capacitance <= 0 || c.Inductance <= 0 {
		return fmt.Errorf("capacitance and inductance must be positive")
	}
	if c.Courant <= 0 {
		return fmt.Errorf("courant must be positive, got %g", c.Courant)
	}
	if c.Line == "ki" {
		if c.KineticFraction <= 0 || c.KineticFraction > 1 {
			return fmt.Errorf("kinetic_fraction must be in (0, 1], got %g", c.KineticFraction)
		}
		if c.CriticalCurrent <= 0 {
			return fmt.Errorf("critical_current must be positive, got %g", c.CriticalCurrent)
		}
	}
	if c.Save.Mode != "end" && c.Save.Mode != "full" {
		return fmt.Errorf("unknown save mode: %s", c.Save.Mode)
	}
	return nil
}
