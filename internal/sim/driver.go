// Package sim runs transmission-line simulations over long time horizons,
// splitting work into memory-bounded batches and handing each batch to an
// optional persistence sink before folding its last row back into state.
package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"tlinesim/internal/fdtd"
)

// DefaultStoreBudget caps the number of trajectory elements a single batch
// may hold, bounding working memory independently of run length.
const DefaultStoreBudget = 100_000_000

// SaveMode selects what each batch persists.
type SaveMode int

const (
	// SaveEnd persists only the boundary-node voltage/current series.
	SaveEnd SaveMode = iota
	// SaveFull additionally persists every spatial point of every row.
	SaveFull
)

func (m SaveMode) String() string {
	if m == SaveFull {
		return "full"
	}
	return "end"
}

// Offsets are the row positions at which a run's first batch continues an
// existing destination; boundary and full series can differ when earlier
// runs saved end data only.
type Offsets struct {
	Boundary int
	Full     int
}

// Sink persists batch data. Begin is called once per run: with overwrite it
// (re)creates the destination and records the grid scalars; otherwise it
// reads the existing row counts and returns them as continuation offsets.
// Append calls carry the absolute row offset of their first row so a sink
// can reject double-counted batches after a retried run.
type Sink interface {
	Begin(nsteps, totalPoints int, mode SaveMode, overwrite bool, p fdtd.Parameters) (Offsets, error)
	AppendBoundary(offset int, startV, startI, endV, endI []float64) error
	AppendFull(offset int, voltages, currents mat.Matrix) error
}

// SaveSettings describes what, where and how a run persists.
type SaveSettings struct {
	Sink      Sink
	Mode      SaveMode
	Overwrite bool
}

// RunOptions describes one Run call.
type RunOptions struct {
	// Duration is how long, in simulation seconds, to advance the state.
	Duration float64
	// Save, when non-nil, persists each batch before state is updated.
	Save *SaveSettings
	// Progress, when non-nil, is incremented once per time step.
	Progress fdtd.Progress
}

// LengthError reports an initial state array whose length disagrees with
// the geometry implied by the line's cell count.
type LengthError struct {
	Array    string
	Length   int
	Expected int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("init %s array does not have expected length (%s array length: %d, expected length: %d)",
		e.Array, e.Array, e.Length, e.Expected)
}

// Descriptor describes a Simulation.
type Descriptor struct {
	Solver *fdtd.Solver
	Params fdtd.Parameters
	// InitState, when nil, means zero-filled arrays at time 0.
	InitState *fdtd.State
}

// Simulation owns the current state and advances it batch by batch.
type Simulation struct {
	solver *fdtd.Solver
	params fdtd.Parameters
	state  fdtd.State

	// StoreBudget overrides DefaultStoreBudget; tests shrink it to force
	// multi-batch runs.
	StoreBudget int
}

// New validates the initial state against the solver geometry and returns
// a ready simulation.
func New(desc Descriptor) (*Simulation, error) {
	totalPoints := 1 + desc.Solver.Npoints()

	var state fdtd.State
	if desc.InitState == nil {
		state = fdtd.NewState(desc.Solver.Npoints())
	} else {
		if len(desc.InitState.Voltages) != totalPoints+1 {
			return nil, &LengthError{
				Array:    "Voltage",
				Length:   len(desc.InitState.Voltages),
				Expected: totalPoints + 1,
			}
		}
		if len(desc.InitState.Currents) != totalPoints {
			return nil, &LengthError{
				Array:    "Current",
				Length:   len(desc.InitState.Currents),
				Expected: totalPoints,
			}
		}
		state = desc.InitState.Clone()
	}

	return &Simulation{
		solver:      desc.Solver,
		params:      desc.Params,
		state:       state,
		StoreBudget: DefaultStoreBudget,
	}, nil
}

// State returns a copy of the current simulation state.
func (s *Simulation) State() fdtd.State { return s.state.Clone() }

// Params returns the grid steps the simulation was built with.
func (s *Simulation) Params() fdtd.Parameters { return s.params }

// Solver returns the underlying solver.
func (s *Simulation) Solver() *fdtd.Solver { return s.solver }

// Run advances the state by ceil(duration/deltaT) steps. Work is split
// into batches of at most storeSize-1 steps, where storeSize keeps each
// batch's trajectory under StoreBudget elements. A batch's trajectory is
// persisted before state is advanced, so a failed save leaves the
// in-memory state on the last completed batch and the whole run can be
// retried without double-counting.
func (s *Simulation) Run(opts RunOptions) error {
	nsteps := int(math.Ceil(opts.Duration / s.params.DeltaT))
	if nsteps <= 0 {
		return nil
	}
	totalPoints := 1 + s.solver.Npoints()

	budget := s.StoreBudget
	if budget <= 0 {
		budget = DefaultStoreBudget
	}
	storeSize := nsteps + 1
	if limit := budget/totalPoints + 1; limit < storeSize {
		storeSize = limit
	}
	if storeSize < 2 {
		storeSize = 2
	}

	var offs Offsets
	if opts.Save != nil {
		var err error
		offs, err = opts.Save.Sink.Begin(nsteps, totalPoints, opts.Save.Mode, opts.Save.Overwrite, s.params)
		if err != nil {
			return fmt.Errorf("begin save: %w", err)
		}
	}

	// Every batch keeps the run start as its time origin and carries its
	// global step offset instead, so the source sees bitwise the same
	// times as a single unsplit call would produce.
	runStart := s.state.Time

	nloops := (nsteps-1)/(storeSize-1) + 1
	for i := 0; i < nloops; i++ {
		start := (storeSize - 1) * i
		end := (storeSize - 1) * (i + 1)
		if end > nsteps {
			end = nsteps
		}
		niters := end - start

		batch := s.state
		batch.Time = runStart
		voltages, currents := s.solver.Compute(batch, s.params, start, niters, opts.Progress)

		if opts.Save != nil {
			if err := persistBatch(opts.Save, voltages, currents, niters, offs, start); err != nil {
				return err
			}
		}

		s.state.Voltages = mat.Row(s.state.Voltages, niters, voltages)
		s.state.Currents = mat.Row(s.state.Currents, niters, currents)
		s.state.Time = runStart + float64(end)*s.params.DeltaT
	}

	return nil
}

// persistBatch hands rows 1..niters of a batch trajectory to the sink; row
// 0 repeats the previous batch's last row and is never written.
func persistBatch(save *SaveSettings, voltages, currents *mat.Dense, niters int, offs Offsets, start int) error {
	_, vcols := voltages.Dims()
	_, ccols := currents.Dims()

	startV := make([]float64, niters)
	startI := make([]float64, niters)
	endV := make([]float64, niters)
	endI := make([]float64, niters)
	for k := 1; k <= niters; k++ {
		startV[k-1] = voltages.At(k, 0)
		endV[k-1] = voltages.At(k, vcols-1)
		startI[k-1] = currents.At(k, 0)
		endI[k-1] = currents.At(k, ccols-1)
	}

	if err := save.Sink.AppendBoundary(offs.Boundary+start, startV, startI, endV, endI); err != nil {
		return fmt.Errorf("append boundary rows: %w", err)
	}

	if save.Mode == SaveFull {
		vRows := voltages.Slice(1, niters+1, 0, vcols)
		cRows := currents.Slice(1, niters+1, 0, ccols)
		if err := save.Sink.AppendFull(offs.Full+start, vRows, cRows); err != nil {
			return fmt.Errorf("append full rows: %w", err)
		}
	}

	return nil
}
