package fdtd

// Parameters holds the grid steps shared by every update equation.
//
// DeltaT should be derived from DeltaZ through a Courant number (see
// CourantParameters); violating the Courant condition makes the explicit
// scheme unstable but is not checked at runtime.
type Parameters struct {
	// DeltaZ is the physical size of each spatial step, in meters.
	DeltaZ float64
	// DeltaT is the length of each temporal step, in seconds.
	DeltaT float64
}

// State is the line state at a single point in simulation time.
//
// For a line of N cells, Voltages has N+2 entries and Currents has N+1.
type State struct {
	Time     float64
	Voltages []float64
	Currents []float64
}

// NewState returns a zero-filled state for a line of npoints cells.
func NewState(npoints int) State {
	totalPoints := 1 + npoints
	return State{
		Voltages: make([]float64, totalPoints+1),
		Currents: make([]float64, totalPoints),
	}
}

func (s State) Clone() State {
	c := State{
		Time:     s.Time,
		Voltages: make([]float64, len(s.Voltages)),
		Currents: make([]float64, len(s.Currents)),
	}
	copy(c.Voltages, s.Voltages)
	copy(c.Currents, s.Currents)
	return c
}

// Line is the constitutive model of the simulated transmission line.
//
// NextVoltage advances the voltage node behind cell (between currents
// leftCurr and rightCurr); NextCurrent advances the current node of cell
// from the two voltages flanking it. Both are total functions: NaN and Inf
// propagate rather than fail.
type Line interface {
	NextVoltage(prevVolt, leftCurr, rightCurr float64, cell int, p Parameters) float64
	NextCurrent(leftVolt, rightVolt, prevCurr float64, cell int, p Parameters) float64
	Npoints() int
	Length() float64
	MaxPhaseVelocity() float64
}

// Hamiltonian is implemented by lines that can report the discrete
// electromagnetic energy stored in a state.
type Hamiltonian interface {
	Energy(s State) float64
}

// Source produces the driving waveform and the voltage update at the
// line's first node from a Thevenin-equivalent source circuit.
type Source interface {
	NextVoltage(t, prevVolt, prevCurr float64, p Parameters) float64
	// Generate returns the instantaneous open-circuit source voltage; it
	// must be a pure function of time.
	Generate(t float64) float64
}

// Terminator computes the voltage and current updates at the line's last
// node from a Thevenin-equivalent load circuit.
type Terminator interface {
	NextVoltage(prevVolt, prevCurr float64, p Parameters) float64
	NextCurrent(leftVolt, rightVolt, prevCurr float64, p Parameters) float64
}

// Progress receives one Add(1) per completed time step. Implementations
// must not influence numeric results.
type Progress interface {
	Add(n int)
}

// CourantParameters derives grid steps from the line geometry and a
// Courant number: delta_z = length/npoints and
// delta_t = delta_z / (courant * maxPhaseVelocity).
func CourantParameters(line Line, courant float64) Parameters {
	deltaZ := line.Length() / float64(line.Npoints())
	return Parameters{
		DeltaZ: deltaZ,
		DeltaT: deltaZ / (courant * line.MaxPhaseVelocity()),
	}
}

// sampleCells evaluates fn at each cell midpoint (n+0.5)*deltaZ.
func sampleCells(fn func(z float64) float64, npoints int, deltaZ float64) []float64 {
	cells := make([]float64, npoints)
	for n := range cells {
		cells[n] = fn((float64(n) + 0.5) * deltaZ)
	}
	return cells
}

// maxPhaseVelocity returns the largest 1/sqrt(L*C) over all cells. The
// running maximum is only replaced by strictly greater candidates, so
// ties keep the first cell found.
func maxPhaseVelocity(ind, cap []float64) float64 {
	vmax := phaseVelocity(ind[0], cap[0])
	for i := 1; i < len(ind); i++ {
		if v := phaseVelocity(ind[i], cap[i]); v > vmax {
			vmax = v
		}
	}
	return vmax
}
