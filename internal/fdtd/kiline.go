package fdtd

import "math"

// DefaultNewtonIters is the fixed number of Newton iterations used for the
// per-cell cubic solve when the descriptor does not override it.
const DefaultNewtonIters = 3

// KiLineDescriptor describes a superconducting line whose series inductance
// has a geometric and a current-dependent kinetic contribution.
type KiLineDescriptor struct {
	Npoints int
	Length  float64

	Capacitance       func(z float64) float64 // [F/m]
	Inductance        func(z float64) float64 // geometric part [H/m]
	KineticInductance func(z float64) float64 // zero-current kinetic part [H/m]
	CriticalCurrent   func(z float64) float64 // [A]

	// NewtonIters bounds the per-cell cubic solve; 0 means
	// DefaultNewtonIters. The count is fixed, never convergence-checked,
	// so results stay reproducible step for step.
	NewtonIters int
}

// KiLine is a lossless kinetic-inductance transmission line. The stored
// critical current is rescaled by sqrt(total/kinetic inductance) so the
// current update can work against the total inductance alone.
type KiLine struct {
	cap     []float64
	ind     []float64 // geometric + kinetic
	critCur []float64 // effective critical current

	npoints     int
	length      float64
	newtonIters int
}

func NewKiLine(desc KiLineDescriptor) *KiLine {
	deltaZ := desc.Length / float64(desc.Npoints)
	iters := desc.NewtonIters
	if iters <= 0 {
		iters = DefaultNewtonIters
	}

	geo := sampleCells(desc.Inductance, desc.Npoints, deltaZ)
	kin := sampleCells(desc.KineticInductance, desc.Npoints, deltaZ)
	crit := sampleCells(desc.CriticalCurrent, desc.Npoints, deltaZ)

	ind := make([]float64, desc.Npoints)
	for i := range ind {
		ind[i] = geo[i] + kin[i]
		crit[i] *= math.Sqrt(ind[i] / kin[i])
	}

	return &KiLine{
		cap:         sampleCells(desc.Capacitance, desc.Npoints, deltaZ),
		ind:         ind,
		critCur:     crit,
		npoints:     desc.Npoints,
		length:      desc.Length,
		newtonIters: iters,
	}
}

// NextVoltage is the lossless linear update; the nonlinearity lives
// entirely in the current equation.
func (l *KiLine) NextVoltage(prevVolt, leftCurr, rightCurr float64, cell int, p Parameters) float64 {
	r := p.DeltaZ / p.DeltaT
	return (r*l.cap[cell]*prevVolt + (leftCurr - rightCurr)) / (r * l.cap[cell])
}

// NextCurrent solves the cubic
//
//	I^3 + Ip*I^2 + (Ic^2 - Ip^2)*I + (Ic^2*dt*dV/(dz*L) - Ic^2*Ip - Ip^3) = 0
//
// with dV = rightVolt - leftVolt, by Newton iteration seeded at the
// previous current. The iteration count is fixed: near the critical
// current or for large steps the root may not be fully converged, which
// is a documented precision tradeoff of the scheme.
func (l *KiLine) NextCurrent(leftVolt, rightVolt, prevCurr float64, cell int, p Parameters) float64 {
	ind := l.ind[cell]
	ic2 := l.critCur[cell] * l.critCur[cell]
	dv := rightVolt - leftVolt

	b := prevCurr
	c := ic2 - prevCurr*prevCurr
	d := ic2*p.DeltaT*dv/(p.DeltaZ*ind) - ic2*prevCurr - prevCurr*prevCurr*prevCurr

	x := prevCurr
	for i := 0; i < l.newtonIters; i++ {
		f := x*x*x + b*x*x + c*x + d
		df := 3*x*x + 2*b*x + c
		x -= f / df
	}
	return x
}

func (l *KiLine) Npoints() int    { return l.npoints }
func (l *KiLine) Length() float64 { return l.length }

func (l *KiLine) MaxPhaseVelocity() float64 {
	return maxPhaseVelocity(l.ind, l.cap)
}

// EffectiveCriticalCurrent reports the rescaled critical current of a cell.
func (l *KiLine) EffectiveCriticalCurrent(cell int) float64 {
	return l.critCur[cell]
}
