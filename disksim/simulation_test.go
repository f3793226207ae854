package disksim

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/worldcfg"
)

func TestSimulation_RunSingleParticleOneStep(t *testing.T) {
	world, err := worldcfg.New(1, 10, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	sim, err := New(world, 1)
	if err != nil {
		t.Fatal(err)
	}

	state := []particle.Particle{particle.New(0, 5, 5, 1, 0)}

	var steps []int
	sim.OnStep(func(step int, real []particle.Particle) {
		steps = append(steps, step)
	})

	if err := sim.Run(context.Background(), state, world.S); err != nil {
		t.Fatal(err)
	}

	want := particle.New(0, 6, 5, 1, 0)
	if diff := cmp.Diff(want, state[0]); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0}, steps); diff != "" {
		t.Errorf("OnStep call sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSimulation_PIndependenceAcrossMultipleSteps(t *testing.T) {
	world, err := worldcfg.New(4, 200, 1, 3)
	if err != nil {
		t.Fatal(err)
	}

	build := func() []particle.Particle {
		return []particle.Particle{
			particle.New(0, 10, 50, 1, 0),
			particle.New(1, 90, 50, -1, 0),
			particle.New(2, 50, 10, 0, 1),
			particle.New(3, 13, 50, -1, 0),
		}
	}

	runWith := func(workers int) []particle.Particle {
		sim, err := New(world, workers)
		if err != nil {
			t.Fatal(err)
		}
		state := build()
		// Pad to the collective buffer size; Run validates this.
		for len(state) < paddedSizeFor(world.N, workers) {
			state = append(state, particle.New(len(state), 0, 0, 0, 0))
		}
		if err := sim.Run(context.Background(), state, world.S); err != nil {
			t.Fatal(err)
		}
		return state[:world.N]
	}

	seq := runWith(1)
	par := runWith(2)

	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("P=1 vs P=2 mismatch (-want +got):\n%s", diff)
	}
}

func paddedSizeFor(n, p int) int {
	b := (n + p - 1) / p
	return p * b
}

func TestNew_RejectsZeroWorkers(t *testing.T) {
	world, err := worldcfg.New(1, 10, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(world, 0); err == nil {
		t.Fatal("want an error for workers=0")
	}
}
