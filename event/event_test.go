package event

import (
	"testing"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

func newFull() []particle.Particle {
	return []particle.Particle{
		particle.New(0, 1, 1, 1, 0),
		particle.New(1, 5, 1, -1, 0),
		particle.New(2, 9, 9, 0, 0),
		particle.New(3, 2, 2, 0, 0),
	}
}

func TestApply_NoneAdvancesFullStep(t *testing.T) {
	full := newFull()
	e := NewNone(0)
	if !Apply(e, full, 0, 1, 100, 1) {
		t.Fatal("want Apply to report a mutation")
	}
	if full[0].X != 2 || full[0].Y != 1 {
		t.Fatalf("want (2,1), got (%v,%v)", full[0].X, full[0].Y)
	}
}

func TestApply_WallAppliedByOwner(t *testing.T) {
	full := newFull()
	e := NewWall(2, 0)
	if !Apply(e, full, 2, 3, 10, 1) {
		t.Fatal("want Apply to report a mutation")
	}
	if full[2].WColl != 1 {
		t.Fatalf("want wColl=1, got %d", full[2].WColl)
	}
}

func TestApply_PairOwnedByMinIndexWorker(t *testing.T) {
	full := newFull()
	e := NewPair(0, 1, 0.5)

	// Worker owning [0,2) owns min(0,1)=0: applies.
	if !Apply(e, full, 0, 2, 100, 1) {
		t.Fatal("want the min-index owner to apply the pair event")
	}
	if full[0].PColl != 1 || full[1].PColl != 1 {
		t.Fatalf("want both participants' pColl incremented, got %d, %d", full[0].PColl, full[1].PColl)
	}
}

func TestApply_PairSkippedByNonOwner(t *testing.T) {
	full := newFull()
	e := NewPair(1, 0, 0.5)

	// Worker owning [0,2) holds both 0 and 1, but since 1 >= 0, this
	// worker is not responsible for the i=1,partner=0 orientation.
	if Apply(e, full, 0, 2, 100, 1) {
		t.Fatal("want a no-op when i >= j and both are local")
	}
	if full[0].PColl != 0 || full[1].PColl != 0 {
		t.Fatal("want no mutation from the skipped application")
	}
}

func TestApply_CrossWorkerPairAppliedByBothOwnReplicas(t *testing.T) {
	// Each worker holds an independent full replica and contributes only
	// its own block to the state all-gather (spec.md section 4.1's
	// Ownership note), so when a pair spans two workers' blocks, both
	// workers must apply the update to their own replica -- each is
	// authoritative only for the particle it owns, and the other side's
	// write is what makes that worker's own contributed slice correct.
	// The single-owner guard only matters when both particles are owned
	// by the *same* worker, preventing it from applying its own local
	// event list's two mirrored entries for the one pair twice.
	fullA := newFull()
	fullB := newFull()

	// Worker A owns [0,2) and resolved particle 1's partner as 2.
	eA := NewPair(1, 2, 0.3)
	// Worker B owns [2,4) and resolved particle 2's partner as 1.
	eB := NewPair(2, 1, 0.3)

	if !Apply(eA, fullA, 0, 2, 100, 1) {
		t.Fatal("want worker A to apply its own pair event")
	}
	if !Apply(eB, fullB, 2, 4, 100, 1) {
		t.Fatal("want worker B to apply its own pair event")
	}
	if fullA[1].PColl != 1 || fullB[2].PColl != 1 {
		t.Fatal("want each worker's owned participant to show the collision")
	}
}

func TestApply_SameWorkerPairAppliedOnceNotTwice(t *testing.T) {
	// Both 0 and 1 are owned by the same worker, so its own event list
	// contains both Pair(0,1) and Pair(1,0); only the i<j orientation
	// applies, preventing the same collision from being processed twice
	// by one worker.
	full := newFull()

	appliedLow := Apply(NewPair(0, 1, 0.3), full, 0, 2, 100, 1)
	appliedHigh := Apply(NewPair(1, 0, 0.3), full, 0, 2, 100, 1)

	if !appliedLow {
		t.Fatal("want the i<j orientation to apply")
	}
	if appliedHigh {
		t.Fatal("want the i>=j orientation to be a no-op")
	}
	if full[0].PColl != 1 || full[1].PColl != 1 {
		t.Fatalf("want exactly one application's worth of pColl, got %d, %d", full[0].PColl, full[1].PColl)
	}
}
