// Package geometry implements the closed-form collision times and the
// post-collision kinematics for pairwise and wall collisions (component C1
// of the simulator). Every function here is a pure function of its
// arguments -- no package state, no goroutines -- so it behaves identically
// regardless of which worker goroutine calls it, which is what the
// determinism property in spec.md section 5 rests on.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vastyellowNew/cs3210-parallel-particle-simulator/particle"
)

// NoCollision is the sentinel returned when two particles (or a particle and
// a wall) do not collide within the horizon the caller cares about. It is
// deliberately much larger than 1, the length of a step, so callers can
// compare it against 1 without a separate "did this even collide" flag.
const NoCollision = 1.0e5

// PairTime returns the smallest non-negative t at which particles a and b,
// moving at their current velocities, would have centers exactly 2*r apart.
//
// Solves a*t^2 + b*t + c = 0 for the closing distance. Two cases the caller
// must be aware of, both retained from the reference implementation on
// purpose (see DESIGN.md's Open Question notes):
//   - if the only positive root is the *second* root, the pair is already
//     overlapping; this function reports an immediate collision (t=0)
//     rather than "no collision", so an overlapping pair can pColl-increment
//     on every step with no displacement.
//   - a == 0 (the two particles have identical velocity, so the relative
//     motion is degenerate) is treated as "no collision" rather than
//     dividing by zero.
func PairTime(a, b particle.Particle, r float64) float64 {
	dvx := a.VX - b.VX
	dvy := a.VY - b.VY
	dx := a.X - b.X
	dy := a.Y - b.Y

	qa := dvx*dvx + dvy*dvy
	qb := 2 * (dx*dvx + dy*dvy)
	qc := dx*dx + dy*dy - 4*r*r

	if qa == 0 {
		return NoCollision
	}

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return NoCollision
	}

	sq := math.Sqrt(disc)
	t1 := (-qb - sq) / (2 * qa)
	if t1 > 0 {
		return t1
	}
	t2 := (-qb + sq) / (2 * qa)
	if t2 > 0 {
		return 0
	}
	return NoCollision
}

// WallTime returns the time at which the particle's center would cross the
// interior wall boundary of an L-side box with the given radius, following
// its current velocity with no reflection. The result may exceed 1; callers
// filter that (spec.md section 4.1).
func WallTime(p particle.Particle, side, r float64) float64 {
	tx := axisWallTime(p.X, p.VX, side, r)
	ty := axisWallTime(p.Y, p.VY, side, r)
	return math.Min(tx, ty)
}

func axisWallTime(pos, vel, side, r float64) float64 {
	if vel < 0 {
		return (pos - r) / -vel
	}
	return (side - pos - r) / vel
}

// ApplyPair advances a and b by the collision time t, performs an elastic,
// equal-mass velocity exchange along the line of centers, then advances
// each particle through the remainder of the step -- stopping at a wall if
// one is reached before the step ends, never reflecting off it (that trailing
// wall contact is resolved on a later step, as a fresh wall event). Both
// particles' PColl counters are incremented.
func ApplyPair(a, b *particle.Particle, t, side, r float64) {
	a.X += t * a.VX
	a.Y += t * a.VY
	b.X += t * b.VX
	b.Y += t * b.VY

	normal := mgl64.Vec2{a.X - b.X, a.Y - b.Y}.Normalize()
	tangent := mgl64.Vec2{-normal[1], normal[0]}

	aVel := mgl64.Vec2{a.VX, a.VY}
	bVel := mgl64.Vec2{b.VX, b.VY}

	aNormal, aTangent := normal.Dot(aVel), tangent.Dot(aVel)
	bNormal, bTangent := normal.Dot(bVel), tangent.Dot(bVel)

	// Equal-mass elastic collision along the normal simply swaps the normal
	// components; the tangential components are untouched.
	aNormal, bNormal = bNormal, aNormal

	a.VX = clampZero(aNormal*normal[0] + aTangent*tangent[0])
	a.VY = clampZero(aNormal*normal[1] + aTangent*tangent[1])
	b.VX = clampZero(bNormal*normal[0] + bTangent*tangent[0])
	b.VY = clampZero(bNormal*normal[1] + bTangent*tangent[1])

	advanceTrailing(a, t, side, r)
	advanceTrailing(b, t, side, r)

	a.PColl++
	b.PColl++
}

// advanceTrailing moves p through the remainder of the step (1-t) after a
// pair collision at time t, stopping at the wall without reflecting if the
// wall is reached first.
func advanceTrailing(p *particle.Particle, t, side, r float64) {
	remaining := 1 - t
	wt := WallTime(*p, side, r)
	move := remaining
	if wt < remaining {
		move = wt
	}
	p.X += move * p.VX
	p.Y += move * p.VY
}

// ApplyWall advances p to its first wall contact, reflects the velocity
// component(s) that hit the boundary, then moves on with the new velocity
// either to the end of the step or, if the other axis reaches its wall
// earlier, to that second contact, where it stops without reflecting.
// The contact times are recomputed from p's state; t is not read, and the
// result is the one a t taken from WallTime(p) describes. WColl is
// incremented.
func ApplyWall(p *particle.Particle, t, side, r float64) {
	tx := axisWallTime(p.X, p.VX, side, r)
	ty := axisWallTime(p.Y, p.VY, side, r)

	switch {
	case tx < ty:
		p.X += tx * p.VX
		p.Y += tx * p.VY
		p.VX = -p.VX
		if ty < 1 {
			p.X += (ty - tx) * p.VX
			p.Y += (ty - tx) * p.VY
		} else {
			p.X += (1 - tx) * p.VX
			p.Y += (1 - tx) * p.VY
		}
	case tx == ty:
		p.X += tx * p.VX
		p.Y += tx * p.VY
		p.VX = -p.VX
		p.VY = -p.VY
		p.X += (1 - tx) * p.VX
		p.Y += (1 - tx) * p.VY
	default:
		p.X += ty * p.VX
		p.Y += ty * p.VY
		p.VY = -p.VY
		if tx < 1 {
			p.X += (tx - ty) * p.VX
			p.Y += (tx - ty) * p.VY
		} else {
			p.X += (1 - ty) * p.VX
			p.Y += (1 - ty) * p.VY
		}
	}

	p.WColl++
}

// ApplyNone advances p by the full unit step: no collision occurs.
func ApplyNone(p *particle.Particle) {
	p.X += p.VX
	p.Y += p.VY
}

// clampZero normalizes negative zero to positive zero, keeping output
// bit-identical across workers (spec.md section 7).
func clampZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
