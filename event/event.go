// Package event implements the step-event tagged variant (component C2):
// at most one event per owned particle per step, with a single contract for
// applying it to the shared particle state. This replaces the polymorphic
// CollisionEvent/WallCollisionEvent/ParticleCollisionEvent/NoCollisionEvent
// class hierarchy of the reference implementation with a flat struct and an
// explicit switch, per spec.md section 9's design note -- the events are
// small, fixed-shape, and never need to be stored polymorphically, so a
// tagged variant costs nothing and avoids a heap allocation per particle
// per round.
package event

import (
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/geometry"
	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

// Kind discriminates the three event shapes a particle can have in a step.
type Kind int

const (
	// None means no collision within the step: the particle gets the full
	// unit displacement.
	None Kind = iota
	// Wall means the particle reflects off the box boundary at Time.
	Wall
	// Pair means the particle collides with particle Partner at Time.
	Pair
)

// Event binds a candidate (or final) outcome to the owned particle at
// Index. Time and Partner are meaningful only for the Wall and Pair kinds
// respectively; Partner is -1 otherwise.
type Event struct {
	Kind    Kind
	Time    float64
	Index   int
	Partner int
}

// NewNone returns the default candidate for particle i: no collision.
func NewNone(i int) Event {
	return Event{Kind: None, Time: 1, Index: i, Partner: -1}
}

// NewWall returns a wall-collision candidate for particle i at time t.
func NewWall(i int, t float64) Event {
	return Event{Kind: Wall, Time: t, Index: i, Partner: -1}
}

// NewPair returns a pair-collision candidate between owned particle i and
// particle j at time t.
func NewPair(i, j int, t float64) Event {
	return Event{Kind: Pair, Time: t, Index: i, Partner: j}
}

// Apply applies e to the full particle array (every worker holds a full
// copy; start/end identify the calling worker's owned index range).
//
// Wall and None events are always applied by the owning worker. A Pair
// event whose two particles are both in [start, end) is applied once, from
// its Index < Partner orientation; the mirrored orientation is a no-op. A
// Pair event whose particles lie in different workers' blocks is applied by
// each of those workers to its own replica, and each contributes only its
// owned particle to the state all-gather. The rule is the named predicate
// ownsPair rather than an inline guard. Reports whether it mutated any
// state, so callers (and tests) can confirm which orientation applied.
func Apply(e Event, full []particle.Particle, start, end int, side, r float64) bool {
	switch e.Kind {
	case None:
		geometry.ApplyNone(&full[e.Index])
		return true
	case Wall:
		geometry.ApplyWall(&full[e.Index], e.Time, side, r)
		return true
	case Pair:
		if !ownsPair(e.Index, e.Partner, start, end) {
			return false
		}
		geometry.ApplyPair(&full[e.Index], &full[e.Partner], e.Time, side, r)
		return true
	default:
		return false
	}
}

// ownsPair reports whether the worker owning [start,end) applies the pair
// event between i and j: true unless both indices belong to this worker's
// block and i >= j, in which case the same worker applies the pair through
// its i < j orientation instead.
func ownsPair(i, j, start, end int) bool {
	iLocal := i >= start && i < end
	jLocal := j >= start && j < end
	if iLocal && jLocal && i >= j {
		return false
	}
	return true
}
