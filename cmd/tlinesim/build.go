package main

import (
	"math"

	"tlinesim/internal/config"
	"tlinesim/internal/fdtd"
	"tlinesim/internal/sim"
)

// buildLine assembles the configured line model with uniform coefficient
// functions; position-dependent profiles go through the fdtd descriptors
// directly.
func buildLine(cfg *config.Config) fdtd.Line {
	constant := func(v float64) func(float64) float64 {
		return func(float64) float64 { return v }
	}

	switch cfg.Line {
	case "ki":
		return fdtd.NewKiLine(fdtd.KiLineDescriptor{
			Npoints:           cfg.Npoints,
			Length:            cfg.Length,
			Capacitance:       constant(cfg.Capacitance),
			Inductance:        constant(cfg.Inductance * (1 - cfg.KineticFraction)),
			KineticInductance: constant(cfg.Inductance * cfg.KineticFraction),
			CriticalCurrent:   constant(cfg.CriticalCurrent),
			NewtonIters:       cfg.NewtonIters,
		})
	default:
		return fdtd.NewLinearLine(fdtd.LinearLineDescriptor{
			Npoints:     cfg.Npoints,
			Length:      cfg.Length,
			Capacitance: constant(cfg.Capacitance),
			Inductance:  constant(cfg.Inductance),
			Resistance:  constant(cfg.Resistance),
			Conductance: constant(cfg.Conductance),
		})
	}
}

// buildSimulation wires a matched source and terminator around the
// configured line, derives grid steps from the Courant number, and returns
// a ready simulation.
func buildSimulation(cfg *config.Config) (*sim.Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	line := buildLine(cfg)
	params := fdtd.CourantParameters(line, cfg.Courant)

	amplitude, frequency := cfg.Amplitude, cfg.Frequency
	solver := fdtd.NewSolver(fdtd.SolverDescriptor{
		Line: line,
		Source: &fdtd.MatchedSource{
			Waveform: func(t float64) float64 {
				return amplitude * math.Sin(2*math.Pi*frequency*t)
			},
			Inductance:  cfg.Inductance,
			Capacitance: cfg.Capacitance,
			Resistance:  cfg.Resistance,
			Conductance: cfg.Conductance,
		},
		Terminator: &fdtd.MatchedTerminator{
			Inductance:  cfg.Inductance,
			Capacitance: cfg.Capacitance,
			Resistance:  cfg.Resistance,
			Conductance: cfg.Conductance,
		},
	})

	return sim.New(sim.Descriptor{Solver: solver, Params: params})
}
