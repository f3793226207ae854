// Package engine is the per-step driver (component C5): it sequences one
// worker's share of a step -- build this step's collision-time tables,
// drive the candidate-selection loop to a fixpoint via the transport's int
// collectives, apply every event this worker owns, then reconcile the full
// particle array with a state all-gather. Every exported function takes a
// context.Context because every call it makes into transport blocks on its
// peers; a caller that wants a deadline or cancellation plumbs it through
// here.
package engine

import (
	"context"
	"fmt"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/event"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/geometry"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/selection"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/transport"
)

// Step carries the per-worker, per-step inputs that do not change once a
// run starts: the box geometry and this worker's preallocated tables and
// scratch space.
type Step struct {
	Side, Radius float64
	Tables       selection.Tables
	Scratch      *selection.Scratch
}

// NewStep allocates the tables and scratch a worker needs to run steps for
// rank out of p workers sharing n real particles in an L-side box of
// radius r.
func NewStep(rank, p, n int, side, radius float64) *Step {
	s := selection.NewScratch(rank, p, n)
	return &Step{
		Side:    side,
		Radius:  radius,
		Tables:  selection.NewTables(s.End-s.Start, n),
		Scratch: s,
	}
}

// Run advances full (this worker's local copy of every particle, sized to
// the padded index space) by one unit step, using xport to reconcile state
// with every other worker. On return, full holds the start-of-next-step
// state for every rank -- identical across ranks for the real indices,
// spec.md section 8's determinism and P-independence properties.
func (st *Step) Run(ctx context.Context, full []particle.Particle, xport transport.Collective) error {
	sc := st.Scratch
	buildTables(full, st.Side, st.Radius, sc.Start, sc.End, sc.N, &st.Tables)
	sc.ResetForStep()

	for {
		selection.Round(sc, st.Tables)

		merged, err := xport.AllGatherInts(ctx, sc.PartnerBlock())
		if err != nil {
			return fmt.Errorf("engine: partner exchange: %w", err)
		}
		copy(sc.Partner, merged)

		selection.Resolve(sc)

		resolvedInts := boolsToInts(sc.ResolvedBlock())
		mergedResolved, err := xport.AllGatherInts(ctx, resolvedInts)
		if err != nil {
			return fmt.Errorf("engine: resolved exchange: %w", err)
		}
		intsToBools(mergedResolved, sc.Resolved)

		if selection.GlobalResolvedCount(sc.Resolved, sc.N) == sc.N {
			break
		}
	}

	for _, e := range sc.Chosen {
		event.Apply(e, full, sc.Start, sc.End, st.Side, st.Radius)
	}

	mine := full[sc.BlockStart:sc.BlockEnd]
	merged, err := xport.AllGatherState(ctx, mine)
	if err != nil {
		return fmt.Errorf("engine: state exchange: %w", err)
	}
	copy(full, merged)

	return nil
}

// buildTables fills t with the wall and pairwise collision times for every
// particle this worker owns, computed once against the state at the start
// of the step (spec.md section 4.2: tables are frozen for the duration of
// the selection loop, never recomputed mid-step).
func buildTables(full []particle.Particle, side, radius float64, start, end, n int, t *selection.Tables) {
	for local := 0; local < end-start; local++ {
		global := start + local
		t.WallTime[local] = geometry.WallTime(full[global], side, radius)
		for j := 0; j < n; j++ {
			if j == global {
				t.PairTime[local][j] = geometry.NoCollision
				continue
			}
			t.PairTime[local][j] = geometry.PairTime(full[global], full[j], radius)
		}
	}
}

func boolsToInts(b []bool) []int32 {
	out := make([]int32, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return out
}

func intsToBools(in []int32, out []bool) {
	for i, v := range in {
		out[i] = v != 0
	}
}
