package transport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

func TestSequential_AllGatherIntsIsIdentity(t *testing.T) {
	s := Sequential{}
	mine := []int32{1, 2, 3}
	got, err := s.AllGatherInts(context.Background(), mine)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(mine, got); diff != "" {
		t.Errorf("Sequential.AllGatherInts mismatch (-want +got):\n%s", diff)
	}
}

func TestInProcess_AllGatherIntsConcatenatesInRankOrder(t *testing.T) {
	handles := NewInProcessGroup(3)
	results := make([][]int32, 3)

	var wg sync.WaitGroup
	for rank := 0; rank < 3; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()
			mine := []int32{int32(rank)}
			got, err := handles[rank].AllGatherInts(context.Background(), mine)
			if err != nil {
				t.Error(err)
				return
			}
			results[rank] = got
		}()
	}
	wg.Wait()

	want := []int32{0, 1, 2}
	for rank, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("rank %d result mismatch (-want +got):\n%s", rank, diff)
		}
	}
}

func TestInProcess_BroadcastDistributesRootPayload(t *testing.T) {
	handles := NewInProcessGroup(2)
	root := []particle.Particle{particle.New(0, 1, 2, 3, 4)}

	var wg sync.WaitGroup
	results := make([][]particle.Particle, 2)
	for rank := 0; rank < 2; rank++ {
		rank := rank
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload := []particle.Particle(nil)
			if rank == 0 {
				payload = root
			}
			got, err := handles[rank].Broadcast(context.Background(), 0, payload)
			if err != nil {
				t.Error(err)
				return
			}
			results[rank] = got
		}()
	}
	wg.Wait()

	for rank, got := range results {
		if diff := cmp.Diff(root, got); diff != "" {
			t.Errorf("rank %d broadcast mismatch (-want +got):\n%s", rank, diff)
		}
	}
}

func TestInProcess_ContextCancelUnblocksStragglers(t *testing.T) {
	handles := NewInProcessGroup(2)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := handles[0].AllGatherInts(ctx, []int32{1})
		errCh <- err
	}()

	// rank 1 never calls in -- cancel must unblock rank 0 rather than
	// hanging the test forever.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("want a context-cancellation error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for context cancellation to unblock the straggler")
	}
}

func TestInProcess_ReusableAcrossGenerations(t *testing.T) {
	handles := NewInProcessGroup(2)
	for gen := 0; gen < 3; gen++ {
		var wg sync.WaitGroup
		results := make([][]int32, 2)
		for rank := 0; rank < 2; rank++ {
			rank := rank
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := handles[rank].AllGatherInts(context.Background(), []int32{int32(gen*10 + rank)})
				if err != nil {
					t.Error(err)
					return
				}
				results[rank] = got
			}()
		}
		wg.Wait()
		want := []int32{int32(gen * 10), int32(gen*10 + 1)}
		for rank, got := range results {
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("generation %d rank %d mismatch (-want +got):\n%s", gen, rank, diff)
			}
		}
	}
}
