package fdtd

import (
	"math"
	"testing"
)

func uniformLinear(npoints int, length, c, l, r, g float64) *LinearLine {
	return NewLinearLine(LinearLineDescriptor{
		Npoints:     npoints,
		Length:      length,
		Capacitance: func(float64) float64 { return c },
		Inductance:  func(float64) float64 { return l },
		Resistance:  func(float64) float64 { return r },
		Conductance: func(float64) float64 { return g },
	})
}

func TestCoefficientSampledAtCellMidpoints(t *testing.T) {
	// Capacitance grows linearly with position, so each cell must hold
	// the value at (n+0.5)*deltaZ. Observed through the lossless voltage
	// update with deltaZ = deltaT = 1: nv = dI / cap.
	line := NewLinearLine(LinearLineDescriptor{
		Npoints:     4,
		Length:      4.0,
		Capacitance: func(z float64) float64 { return z },
		Inductance:  func(float64) float64 { return 1 },
		Resistance:  func(float64) float64 { return 0 },
		Conductance: func(float64) float64 { return 0 },
	})
	p := Parameters{DeltaZ: 1, DeltaT: 1}

	for cell := 0; cell < 4; cell++ {
		want := 1.0 / (float64(cell) + 0.5)
		got := line.NextVoltage(0, 1, 0, cell, p)
		if got != want {
			t.Errorf("cell %d: got %v, want %v", cell, got, want)
		}
	}
}

func TestMaxPhaseVelocityUniform(t *testing.T) {
	const (
		c = 400e-12
		l = 1e-6
	)
	want := 1 / math.Sqrt(l*c)

	for _, npoints := range []int{1, 2, 3, 50, 10_000} {
		line := uniformLinear(npoints, 2.0, c, l, 0, 0)
		if got := line.MaxPhaseVelocity(); got != want {
			t.Errorf("npoints=%d: got %v, want %v", npoints, got, want)
		}
	}
}

func TestMaxPhaseVelocityPicksFastestCell(t *testing.T) {
	// Half the line has a quarter of the inductance, doubling the phase
	// velocity there.
	line := NewLinearLine(LinearLineDescriptor{
		Npoints: 100,
		Length:  1.0,
		Inductance: func(z float64) float64 {
			if z > 0.5 {
				return 0.25e-6
			}
			return 1e-6
		},
		Capacitance: func(float64) float64 { return 400e-12 },
		Resistance:  func(float64) float64 { return 0 },
		Conductance: func(float64) float64 { return 0 },
	})

	want := 1 / math.Sqrt(0.25e-6*400e-12)
	if got := line.MaxPhaseVelocity(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCourantParameters(t *testing.T) {
	line := uniformLinear(1000, 2.0, 400e-12, 1e-6, 0, 0)
	p := CourantParameters(line, 2.0)

	wantDz := 2.0 / 1000
	if p.DeltaZ != wantDz {
		t.Errorf("DeltaZ: got %v, want %v", p.DeltaZ, wantDz)
	}
	wantDt := wantDz / (2.0 * line.MaxPhaseVelocity())
	if p.DeltaT != wantDt {
		t.Errorf("DeltaT: got %v, want %v", p.DeltaT, wantDt)
	}
}

func TestLossyUpdateDecays(t *testing.T) {
	line := uniformLinear(10, 1.0, 400e-12, 1e-6, 10.0, 1e-3)
	p := CourantParameters(line, 2.0)

	// With no neighbor contribution the update must shrink the value:
	// the (r*X - dz*Y/2)/(r*X + dz*Y/2) factor is strictly below 1 for
	// positive loss.
	v := line.NextVoltage(1.0, 0, 0, 0, p)
	if v >= 1.0 || v <= 0 {
		t.Errorf("lossy voltage update out of range: %v", v)
	}
	i := line.NextCurrent(0, 0, 1.0, 0, p)
	if i >= 1.0 || i <= 0 {
		t.Errorf("lossy current update out of range: %v", i)
	}
}

func TestEnergyConservedAwayFromBoundaries(t *testing.T) {
	const (
		npoints = 400
		c       = 400e-12
		l       = 1e-6
	)
	line := uniformLinear(npoints, 2.0, c, l, 0, 0)
	p := CourantParameters(line, 2.0)
	solver := newMatchedSolver(line, c, l, func(float64) float64 { return 0 })

	// A smooth voltage pulse in the middle of the line splits into two
	// counter-propagating waves; with zero loss and a silent source the
	// stored energy stays constant until the waves reach a boundary.
	state := NewState(npoints)
	for i := range state.Voltages {
		x := float64(i-npoints/2) / 20.0
		state.Voltages[i] = math.Exp(-x * x / 2)
	}

	before := line.Energy(state)

	voltages, currents := solver.Compute(state, p, 0, 200, nil)
	after := line.Energy(State{
		Voltages: voltages.RawRowView(200),
		Currents: currents.RawRowView(200),
	})

	if rel := math.Abs(after-before) / before; rel > 0.02 {
		t.Errorf("energy drift %.4f%% exceeds tolerance (before %v, after %v)", rel*100, before, after)
	}
}
