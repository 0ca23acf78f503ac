// Package fdtd implements an explicit finite-difference time-domain solver
// for one-dimensional transmission lines on a staggered voltage/current grid.
//
// A line of N cells carries N+2 voltage nodes (both boundaries plus one
// convention slot) and N+1 current nodes. Each step advances every voltage
// node from the previous row, then every current node from the freshly
// updated voltages; this leapfrog ordering is what makes the scheme stable
// and must not be reordered.
//
// Two line models are provided:
//
//   - [LinearLine]: RLGC line with closed-form semi-implicit updates
//   - [KiLine]: superconducting kinetic-inductance line whose current
//     update solves a cubic with a fixed-count Newton iteration
//
// Boundaries are Thevenin-equivalent circuits: a [MatchedSource] drives the
// first node and a [MatchedTerminator] absorbs at the last.
package fdtd
