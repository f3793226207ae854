// Package disksim assembles the per-step components (engine, transport,
// partition) into a runnable simulation: P workers, one goroutine each,
// stepping in lockstep behind a shared nursery, each with its own private
// copy of the particle array reconciled only through the transport
// collectives -- never a shared slice, by construction, so a data race in
// one worker's step logic cannot silently corrupt another's.
package disksim

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/engine"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/nursery"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/partition"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/transport"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/worldcfg"
)

// StepObserver is notified with the authoritative first-N particles at the
// start of each step, before that step advances them. Implementations must
// not retain state past the call; the slice is reused next step.
type StepObserver func(step int, state []particle.Particle)

// Simulation owns the P per-worker collectives and worker-local engines for
// one run. Build one with New, then call Run.
type Simulation struct {
	RunID string

	world   worldcfg.World
	workers int
	xport   []transport.Collective
	steps   []*engine.Step

	observe StepObserver
}

// New builds a Simulation for world over the given number of workers. A
// workers count of 1 uses transport.Sequential and never takes the
// goroutine/barrier machinery; workers > 1 uses an in-process collective
// group (spec.md section 3's single-process, many-goroutine adaptation of
// the original's many-process MPI group).
func New(world worldcfg.World, workers int) (*Simulation, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("disksim: workers must be >= 1, got %d", workers)
	}

	var xport []transport.Collective
	if workers == 1 {
		xport = []transport.Collective{transport.Sequential{}}
	} else {
		xport = transport.NewInProcessGroup(workers)
	}

	steps := make([]*engine.Step, workers)
	for rank := 0; rank < workers; rank++ {
		steps[rank] = engine.NewStep(rank, workers, world.N, world.Side(), world.Radius())
	}

	return &Simulation{
		RunID:   uuid.NewString(),
		world:   world,
		workers: workers,
		xport:   xport,
		steps:   steps,
	}, nil
}

// OnStep registers a callback invoked on the goroutine that called Run,
// with the start-of-step-i state, before step i advances it. Passing nil (the
// default) disables the hook.
func (s *Simulation) OnStep(fn StepObserver) { s.observe = fn }

// Run distributes the master's initial state to every worker (the
// spec.md section 4.4 initialBroadcast), then advances the full
// padded-size particle array through n steps, fanning each step out
// across every worker's goroutine inside a nursery (so a failure on any
// worker cancels the others' context instead of leaking goroutines) and
// reconciling back into full between steps. full must already be sized to
// partition.PaddedSize(world.N, workers); callers that use
// ioformat.Synthesize get this for free.
//
// The observer (if any) is called with the state at the top of each step,
// before that step runs -- matching the reference implementation's print
// loop (_examples/original_source/mpi-simulator.cpp), which prints
// start-of-step state for i in [0, S) and only the caller's separate
// final-state line covers time S.
func (s *Simulation) Run(ctx context.Context, full []particle.Particle, n int) error {
	paddedN := partition.PaddedSize(s.world.N, s.workers)
	if len(full) != paddedN {
		return fmt.Errorf("disksim: state has %d slots, want %d", len(full), paddedN)
	}

	if err := s.broadcastInitial(ctx, full); err != nil {
		return fmt.Errorf("disksim: run %s initial broadcast: %w", s.RunID, err)
	}

	for step := 0; step < n; step++ {
		if s.observe != nil {
			s.observe(step, full[:s.world.N])
		}
		if err := s.runStep(ctx, full); err != nil {
			return fmt.Errorf("disksim: run %s step %d: %w", s.RunID, step, err)
		}
	}
	return nil
}

// broadcastInitial performs the spec's named "broadcast for initial
// distribution" collective (spec.md section 4.4/6's initialBroadcast)
// once, before step 0: rank 0 contributes full as the root payload, every
// other worker contributes nothing, and every worker -- including rank
// 0 -- gets back the same root payload, establishing the byte-identical
// starting point the per-step state all-gather later maintains.
func (s *Simulation) broadcastInitial(ctx context.Context, full []particle.Particle) error {
	results := make([][]particle.Particle, s.workers)
	err := nursery.Run(ctx, func(ctx context.Context, n *nursery.Nursery) {
		for rank := 0; rank < s.workers; rank++ {
			rank := rank
			var payload []particle.Particle
			if rank == 0 {
				payload = full
			}
			n.Go(func() error {
				res, err := s.xport[rank].Broadcast(ctx, 0, payload)
				if err != nil {
					return err
				}
				results[rank] = res
				return nil
			})
		}
	})
	if err != nil {
		return err
	}
	copy(full, results[0])
	return nil
}

// runStep fans one step out across every worker. Each worker gets its own
// copy of full so that nothing is shared by reference across goroutines;
// AllGatherState inside engine.Step.Run is the only channel by which a
// worker's changes become visible to the others, mirroring the MPI
// original's process isolation.
func (s *Simulation) runStep(ctx context.Context, full []particle.Particle) error {
	copies := make([][]particle.Particle, s.workers)
	for rank := range copies {
		copies[rank] = append([]particle.Particle(nil), full...)
	}

	err := nursery.Run(ctx, func(ctx context.Context, n *nursery.Nursery) {
		for rank := 0; rank < s.workers; rank++ {
			rank := rank
			n.Go(func() error {
				return s.steps[rank].Run(ctx, copies[rank], s.xport[rank])
			})
		}
	})
	if err != nil {
		return err
	}

	// Every worker's copy agrees on the reconciled state after its own
	// AllGatherState; rank 0's copy is as good as any other's.
	copy(full, copies[0])
	return nil
}
