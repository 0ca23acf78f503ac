package fdtd

import "gonum.org/v1/gonum/mat"

// SolverDescriptor composes the pieces of a Solver.
type SolverDescriptor struct {
	Line       Line
	Source     Source
	Terminator Terminator
}

// Solver advances a line state with single-threaded CPU computations.
type Solver struct {
	line       Line
	source     Source
	terminator Terminator
}

func NewSolver(desc SolverDescriptor) *Solver {
	return &Solver{
		line:       desc.Line,
		source:     desc.Source,
		terminator: desc.Terminator,
	}
}

func (s *Solver) Npoints() int { return s.line.Npoints() }

// Line returns the solver's transmission line model.
func (s *Solver) Line() Line { return s.line }

// Compute advances state by nsteps and returns the dense voltage
// (nsteps+1 x N+2) and current (nsteps+1 x N+1) trajectories. Row 0 is the
// input state; row k is the state after k steps. The input state is not
// modified.
//
// state.Time is the time origin and startStep the number of steps already
// taken since it: step k drives the source at
// t = (startStep+k)*DeltaT + state.Time. Keeping the step count integral
// up to a single multiplication means a run split into batches samples the
// waveform at bitwise the same times as one unsplit call.
//
// Within each step voltages are fully advanced before any current: node 0
// from the source, interior nodes from the previous row, the last node
// from the terminator, and only then the currents against the freshly
// updated voltage row. progress, when non-nil, is incremented once per
// step.
func (s *Solver) Compute(state State, p Parameters, startStep, nsteps int, progress Progress) (*mat.Dense, *mat.Dense) {
	npoints := s.line.Npoints()
	totalPoints := 1 + npoints

	voltages := mat.NewDense(nsteps+1, totalPoints+1, nil)
	currents := mat.NewDense(nsteps+1, totalPoints, nil)
	voltages.SetRow(0, state.Voltages)
	currents.SetRow(0, state.Currents)

	for k := 0; k < nsteps; k++ {
		t := float64(startStep+k)*p.DeltaT + state.Time

		prevV := voltages.RawRowView(k)
		nextV := voltages.RawRowView(k + 1)
		prevI := currents.RawRowView(k)
		nextI := currents.RawRowView(k + 1)

		nextV[0] = s.source.NextVoltage(t, prevV[0], prevI[0], p)
		for cell := 0; cell < npoints; cell++ {
			nextV[cell+1] = s.line.NextVoltage(prevV[cell+1], prevI[cell], prevI[cell+1], cell, p)
		}
		nextV[totalPoints] = s.terminator.NextVoltage(prevV[totalPoints], prevI[totalPoints-1], p)

		for cell := 0; cell < npoints; cell++ {
			nextI[cell] = s.line.NextCurrent(nextV[cell], nextV[cell+1], prevI[cell], cell, p)
		}
		nextI[totalPoints-1] = s.terminator.NextCurrent(nextV[totalPoints-1], nextV[totalPoints], prevI[totalPoints-1], p)

		if progress != nil {
			progress.Add(1)
		}
	}

	return voltages, currents
}
