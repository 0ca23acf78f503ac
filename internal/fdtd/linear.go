package fdtd

import "math"

// LinearLineDescriptor describes an RLGC line. The coefficient functions
// give per-unit-length values as a function of position along the line and
// are sampled once, at cell midpoints, when the line is built.
type LinearLineDescriptor struct {
	Npoints int
	Length  float64

	Capacitance func(z float64) float64 // [F/m]
	Inductance  func(z float64) float64 // [H/m]
	Resistance  func(z float64) float64 // [Ohm/m]
	Conductance func(z float64) float64 // [S/m]
}

// LinearLine is a linear transmission line advanced by centered,
// semi-implicit leapfrog updates. Immutable after construction.
type LinearLine struct {
	cap  []float64
	ind  []float64
	res  []float64
	cond []float64

	npoints int
	length  float64
}

func NewLinearLine(desc LinearLineDescriptor) *LinearLine {
	deltaZ := desc.Length / float64(desc.Npoints)
	return &LinearLine{
		cap:     sampleCells(desc.Capacitance, desc.Npoints, deltaZ),
		ind:     sampleCells(desc.Inductance, desc.Npoints, deltaZ),
		res:     sampleCells(desc.Resistance, desc.Npoints, deltaZ),
		cond:    sampleCells(desc.Conductance, desc.Npoints, deltaZ),
		npoints: desc.Npoints,
		length:  desc.Length,
	}
}

func (l *LinearLine) NextVoltage(prevVolt, leftCurr, rightCurr float64, cell int, p Parameters) float64 {
	r := p.DeltaZ / p.DeltaT
	halfCond := p.DeltaZ * l.cond[cell] / 2
	return ((r*l.cap[cell]-halfCond)*prevVolt + (leftCurr - rightCurr)) /
		(r*l.cap[cell] + halfCond)
}

func (l *LinearLine) NextCurrent(leftVolt, rightVolt, prevCurr float64, cell int, p Parameters) float64 {
	r := p.DeltaZ / p.DeltaT
	halfRes := p.DeltaZ * l.res[cell] / 2
	return ((r*l.ind[cell]-halfRes)*prevCurr + (leftVolt - rightVolt)) /
		(r*l.ind[cell] + halfRes)
}

func (l *LinearLine) Npoints() int    { return l.npoints }
func (l *LinearLine) Length() float64 { return l.length }

func (l *LinearLine) MaxPhaseVelocity() float64 {
	return maxPhaseVelocity(l.ind, l.cap)
}

// Energy returns the discrete electromagnetic energy stored on the line:
// deltaZ/2 * sum over cells of C*V^2 + L*I^2, with each cell paired with
// the voltage node to its right and the current node on its left edge.
func (l *LinearLine) Energy(s State) float64 {
	deltaZ := l.length / float64(l.npoints)
	e := 0.0
	for i := 0; i < l.npoints; i++ {
		v := s.Voltages[i+1]
		c := s.Currents[i]
		e += l.cap[i]*v*v + l.ind[i]*c*c
	}
	return e * deltaZ / 2
}

func phaseVelocity(ind, cap float64) float64 {
	return 1 / math.Sqrt(ind*cap)
}
