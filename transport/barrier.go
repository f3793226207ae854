package transport

import (
	"context"
	"sync"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

// barrier is a reusable, generation-counted rendezvous: p participants each
// call exchange with their own contribution; the last arriver runs merge
// over every contribution and wakes the others. It is the in-process stand-
// in for MPI_Allgather/MPI_Bcast's synchronous barrier semantics.
type barrier struct {
	p int

	mu    sync.Mutex
	slots []any
	count int
	done  chan struct{}

	lastResult any
	lastErr    error
}

func newBarrier(p int) *barrier {
	return &barrier{
		p:     p,
		slots: make([]any, p),
		done:  make(chan struct{}),
	}
}

// exchange registers rank's contribution for the current generation and
// blocks until all p ranks have registered theirs, then returns the value
// merge produced from every rank's contribution (the same value to every
// caller). It respects ctx cancellation while waiting so a genuine
// collective failure elsewhere in the group does not hang the test runner
// forever -- deliberate divergence (spec.md section 5) still blocks,
// because nothing cancels ctx in that case.
func (b *barrier) exchange(ctx context.Context, rank int, mine any, merge func([]any) (any, error)) (any, error) {
	b.mu.Lock()
	b.slots[rank] = mine
	b.count++

	if b.count == b.p {
		result, err := merge(b.slots)
		b.lastResult, b.lastErr = result, err

		doneCh := b.done
		b.slots = make([]any, b.p)
		b.count = 0
		b.done = make(chan struct{})
		b.mu.Unlock()

		close(doneCh)
		return result, err
	}

	doneCh := b.done
	b.mu.Unlock()

	select {
	case <-doneCh:
		b.mu.Lock()
		res, err := b.lastResult, b.lastErr
		b.mu.Unlock()
		return res, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func mergeInts(slots []any) (any, error) {
	total := 0
	for _, s := range slots {
		total += len(s.([]int32))
	}
	out := make([]int32, 0, total)
	for _, s := range slots {
		out = append(out, s.([]int32)...)
	}
	return out, nil
}

func mergeState(slots []any) (any, error) {
	total := 0
	for _, s := range slots {
		total += len(s.([]particle.Particle))
	}
	out := make([]particle.Particle, 0, total)
	for _, s := range slots {
		out = append(out, s.([]particle.Particle)...)
	}
	return out, nil
}

type broadcastInput struct {
	root    int
	payload []particle.Particle
}

func mergeBroadcast(slots []any) (any, error) {
	for rank, s := range slots {
		in := s.(broadcastInput)
		if rank == in.root {
			out := make([]particle.Particle, len(in.payload))
			copy(out, in.payload)
			return out, nil
		}
	}
	return nil, nil
}
