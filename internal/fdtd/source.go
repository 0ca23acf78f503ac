package fdtd

import "math"

// MatchedSource drives the first voltage node from a Thevenin-equivalent
// circuit whose series impedance matches the line's characteristic
// impedance sqrt(L/C). Waveform is the open-circuit source voltage as a
// pure function of time; it is queried once per step.
type MatchedSource struct {
	Waveform func(t float64) float64

	Inductance  float64
	Capacitance float64
	Resistance  float64
	Conductance float64
}

func (s *MatchedSource) Generate(t float64) float64 { return s.Waveform(t) }

// NextVoltage first derives a fictitious source current from the lossy
// boundary equation against the instantaneous waveform, then folds it into
// the standard voltage update for the node's own C and G.
func (s *MatchedSource) NextVoltage(t, prevVolt, prevCurr float64, p Parameters) float64 {
	impedance := math.Sqrt(s.Inductance / s.Capacitance)
	totalRes := p.DeltaZ*s.Resistance + impedance
	r := p.DeltaZ / p.DeltaT

	sourceCurr := ((r*s.Inductance-totalRes/2)*prevCurr + (s.Generate(t) - prevVolt)) /
		(r*s.Inductance + totalRes/2)

	halfCond := p.DeltaZ * s.Conductance / 2
	return ((r*s.Capacitance-halfCond)*prevVolt + (sourceCurr - prevCurr)) /
		(r*s.Capacitance + halfCond)
}
