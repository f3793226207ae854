// Package transport is the collective message-passing layer (component
// C4). In the reference MPI implementation every worker is a separate OS
// process and every collective is an MPI_Allgather/MPI_Bcast barrier. Here
// the P workers are goroutines, and a Collective moves fixed-size buffers
// between them over a barrier that mimics MPI's synchronous semantics:
// every rank's contribution is copied into a freshly allocated result, and
// the handles from NewInProcessGroup return that one result slice to every
// rank, so callers copy out of it rather than writing into it.
package transport

import (
	"context"
	"fmt"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

// Collective is the set of collectives a worker calls once per round (the
// int all-gathers) or once per step (state all-gather, initial broadcast).
// Every method is a synchronous barrier: it does not return until every
// rank in the group has called it. All ranks must call every collective in
// the same order every step, exactly as spec.md section 4.4 requires of
// the MPI original -- a rank that skips or reorders a call deadlocks its
// peers, by design (spec.md section 5).
type Collective interface {
	// Rank returns this handle's worker rank in [0, Size()).
	Rank() int
	// Size returns the number of workers in the group (P).
	Size() int

	// AllGatherInts exchanges one int32 block per rank and returns the
	// concatenation of all blocks in rank order.
	AllGatherInts(ctx context.Context, mine []int32) ([]int32, error)

	// AllGatherState exchanges one particle block per rank and returns the
	// concatenation of all blocks in rank order.
	AllGatherState(ctx context.Context, mine []particle.Particle) ([]particle.Particle, error)

	// Broadcast distributes payload from root to every rank. Non-root
	// callers pass a nil or zero-value payload; all callers receive root's
	// payload back.
	Broadcast(ctx context.Context, root int, payload []particle.Particle) ([]particle.Particle, error)
}

// Sequential is the P==1 fast path: there is only one worker, so every
// collective is the identity function. It never blocks and never takes the
// barrier machinery InProcess needs, making P==1 runs a literal reference
// implementation for the P-independence property in spec.md section 8.
type Sequential struct{}

func (Sequential) Rank() int { return 0 }
func (Sequential) Size() int { return 1 }

func (Sequential) AllGatherInts(_ context.Context, mine []int32) ([]int32, error) {
	out := make([]int32, len(mine))
	copy(out, mine)
	return out, nil
}

func (Sequential) AllGatherState(_ context.Context, mine []particle.Particle) ([]particle.Particle, error) {
	out := make([]particle.Particle, len(mine))
	copy(out, mine)
	return out, nil
}

func (Sequential) Broadcast(_ context.Context, _ int, payload []particle.Particle) ([]particle.Particle, error) {
	out := make([]particle.Particle, len(payload))
	copy(out, payload)
	return out, nil
}

var _ Collective = Sequential{}
var _ Collective = (*inProcessHandle)(nil)

// inProcessHandle is one worker's view into a shared InProcess group.
type inProcessHandle struct {
	group *group
	rank  int
}

func (h *inProcessHandle) Rank() int { return h.rank }
func (h *inProcessHandle) Size() int { return h.group.p }

func (h *inProcessHandle) AllGatherInts(ctx context.Context, mine []int32) ([]int32, error) {
	res, err := h.group.ints.exchange(ctx, h.rank, mine, mergeInts)
	if err != nil {
		return nil, fmt.Errorf("transport: allgather ints (rank %d): %w", h.rank, err)
	}
	return res, nil
}

func (h *inProcessHandle) AllGatherState(ctx context.Context, mine []particle.Particle) ([]particle.Particle, error) {
	res, err := h.group.state.exchange(ctx, h.rank, mine, mergeState)
	if err != nil {
		return nil, fmt.Errorf("transport: allgather state (rank %d): %w", h.rank, err)
	}
	return res, nil
}

func (h *inProcessHandle) Broadcast(ctx context.Context, root int, payload []particle.Particle) ([]particle.Particle, error) {
	res, err := h.group.bcast.exchange(ctx, h.rank, broadcastInput{root: root, payload: payload}, mergeBroadcast)
	if err != nil {
		return nil, fmt.Errorf("transport: broadcast (rank %d): %w", h.rank, err)
	}
	return res, nil
}

// NewInProcessGroup creates p Collective handles, one per worker rank,
// that synchronize with each other over in-memory barriers. p must be >=
// 1; for p == 1 callers should generally prefer Sequential, but an
// InProcess group of size 1 is also correct (every collective is a
// single-rank barrier that completes immediately).
func NewInProcessGroup(p int) []Collective {
	if p <= 0 {
		panic("transport: NewInProcessGroup requires p >= 1")
	}
	g := &group{
		p:     p,
		ints:  newBarrier(p),
		state: newBarrier(p),
		bcast: newBarrier(p),
	}
	handles := make([]Collective, p)
	for r := 0; r < p; r++ {
		handles[r] = &inProcessHandle{group: g, rank: r}
	}
	return handles
}

type group struct {
	p     int
	ints  *barrier
	state *barrier
	bcast *barrier
}
