package fdtd

import "math"

// MatchedTerminator absorbs at the last node: the load's characteristic
// admittance sqrt(C/L) is folded into the conductance term, giving a
// reflection-free termination for a line with the same L and C.
type MatchedTerminator struct {
	Inductance  float64
	Capacitance float64
	Resistance  float64
	Conductance float64
}

func (m *MatchedTerminator) NextVoltage(prevVolt, prevCurr float64, p Parameters) float64 {
	loadCond := math.Sqrt(m.Capacitance / m.Inductance)
	totalCond := p.DeltaZ*m.Conductance + loadCond
	r := p.DeltaZ / p.DeltaT

	return ((r*m.Capacitance-totalCond/2)*prevVolt + prevCurr) /
		(r*m.Capacitance + totalCond/2)
}

func (m *MatchedTerminator) NextCurrent(leftVolt, rightVolt, prevCurr float64, p Parameters) float64 {
	r := p.DeltaZ / p.DeltaT
	halfRes := p.DeltaZ * m.Resistance / 2

	return ((r*m.Inductance-halfRes)*prevCurr + (leftVolt - rightVolt)) /
		(r*m.Inductance + halfRes)
}
