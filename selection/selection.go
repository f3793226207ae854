// Package selection implements the candidate-selection loop (component
// C3): the per-step iterative algorithm that converges on a mutually
// consistent set of events, one per particle, given pre-computed wall and
// pairwise collision time tables. It is pure: everything it needs comes in
// through arguments, and the caller (package engine) is responsible for
// exchanging partner/resolved arrays between workers between rounds.
package selection

import (
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/event"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/partition"
)

// Tables holds the per-step, per-owned-particle collision time tables
// computed once at the top of a step from the start-of-step state. WallTime
// is indexed by local (owned) slot; PairTime[local][j] is indexed by local
// slot and global particle index j.
type Tables struct {
	WallTime []float64
	PairTime [][]float64
}

// NewTables allocates a Tables for blockSize owned particles against n
// total particles.
func NewTables(blockSize, n int) Tables {
	pair := make([][]float64, blockSize)
	for i := range pair {
		pair[i] = make([]float64, n)
	}
	return Tables{
		WallTime: make([]float64, blockSize),
		PairTime: pair,
	}
}

// Scratch is the preallocated, per-step working state for one worker: the
// candidate event for each owned particle, the partner each owned particle
// proposes this round, and the global resolved flags. Allocate once per
// worker at startup and reuse every step (spec.md section 9's "replace
// scratch heap allocation per round with preallocated buffers" note).
type Scratch struct {
	Start, End           int // this worker's owned *real* index range [Start, End), clamped to N
	BlockStart, BlockEnd int // this worker's fixed-size collective block [BlockStart, BlockEnd), unclamped
	N                    int // total real particle count

	Chosen   []event.Event // one slot per owned real particle (index Start..End)
	Partner  []int32       // length paddedN, global index space, -1 = none
	Resolved []bool        // length paddedN, global index space
}

// NewScratch allocates a Scratch for worker rank out of p workers dividing n
// real particles, with collective buffers sized to the full padded index
// space so every worker's block contributes a uniform number of slots to
// the int and state collectives (spec.md section 4.4's fixed buffer-size
// requirement).
func NewScratch(rank, p, n int) *Scratch {
	start, end := partition.Block(n, p, rank)
	b := partition.BlockSize(n, p)
	paddedN := partition.PaddedSize(n, p)
	return &Scratch{
		Start:      start,
		End:        end,
		BlockStart: rank * b,
		BlockEnd:   rank*b + b,
		N:          n,
		Chosen:     make([]event.Event, end-start),
		Partner:    make([]int32, paddedN),
		Resolved:   make([]bool, paddedN),
	}
}

// PartnerBlock returns this worker's fixed-size slice of the partner array
// to contribute to the int all-gather: one slot per index in its padded
// block, including any trailing padding indices (always -1).
func (s *Scratch) PartnerBlock() []int32 { return s.Partner[s.BlockStart:s.BlockEnd] }

// ResolvedBlock returns this worker's fixed-size slice of the resolved
// array, parallel to PartnerBlock.
func (s *Scratch) ResolvedBlock() []bool { return s.Resolved[s.BlockStart:s.BlockEnd] }

// ResetForStep re-initializes the scratch state at the top of a step:
// every real index starts unresolved, every padding index starts resolved
// (so it never participates in the selection loop), and all partners start
// at -1.
func (s *Scratch) ResetForStep() {
	for i := range s.Resolved {
		s.Resolved[i] = i >= s.N
	}
	for i := range s.Partner {
		s.Partner[i] = -1
	}
}

// Round performs one local pass of the selection algorithm: for every owned,
// unresolved particle, it picks the earliest of {wall, pair} candidates
// using the tie-break rules from spec.md section 4.3 (strict less-than;
// wall considered before any pair at an equal time; ascending-j scan order
// keeps the first-found partner on an exact tie) and records the partner it
// proposes, if any, into s.Partner at the particle's global index.
//
// It does not exchange or resolve anything -- the caller must all-gather
// s.Partner across workers and then call Resolve.
func Round(s *Scratch, t Tables) {
	for local := 0; local < s.End-s.Start; local++ {
		global := s.Start + local
		if s.Resolved[global] {
			continue
		}

		chosen := event.NewNone(global)
		partner := int32(-1)

		if t.WallTime[local] < chosen.Time {
			chosen = event.NewWall(global, t.WallTime[local])
		}

		for j := 0; j < s.N; j++ {
			if j == global || s.Resolved[j] {
				continue
			}
			pt := t.PairTime[local][j]
			if pt > -1 && pt < chosen.Time && pt < 1 {
				chosen = event.NewPair(global, j, pt)
				partner = int32(j)
			}
		}

		s.Chosen[local] = chosen
		s.Partner[global] = partner
	}
}

// Resolve marks every owned, still-unresolved particle as resolved if its
// choice this round is self-consistent: either it chose no pair partner
// (wall or none), or its chosen partner chose it back (mutual consent). It
// must be called only after s.Partner has been all-gathered across every
// worker, so every worker sees the same, complete partner array.
func Resolve(s *Scratch) {
	for local := 0; local < s.End-s.Start; local++ {
		global := s.Start + local
		if s.Resolved[global] {
			continue
		}
		other := s.Partner[global]
		if other == -1 {
			s.Resolved[global] = true
			continue
		}
		if s.Partner[other] == int32(global) {
			s.Resolved[global] = true
		}
	}
}

// GlobalResolvedCount counts how many of the first n entries of the
// (all-gathered) resolved array are true. The selection loop terminates
// when this equals n.
func GlobalResolvedCount(resolved []bool, n int) int {
	count := 0
	for i := 0; i < n; i++ {
		if resolved[i] {
			count++
		}
	}
	return count
}
