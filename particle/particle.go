// Package particle defines the disk state shared by every worker in the
// simulation.
package particle

import (
	"fmt"
	"math"
)

// Particle is a single hard disk. Index is its stable identity and must
// never change after construction; everything else evolves step by step.
type Particle struct {
	Index int

	X, Y   float64
	VX, VY float64

	PColl int
	WColl int
}

// New creates a particle with the given identity, position, and velocity.
// Collision counters start at zero.
func New(index int, x, y, vx, vy float64) Particle {
	return Particle{Index: index, X: x, Y: y, VX: vx, VY: vy}
}

// Speed returns the magnitude of the particle's velocity.
func (p Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// KineticEnergy returns 1/2 * |v|^2 (unit mass).
func (p Particle) KineticEnergy() float64 {
	return 0.5 * (p.VX*p.VX + p.VY*p.VY)
}

// InBounds reports whether the disk center lies within [r, side-r] on both
// axes, the containment invariant required at step boundaries.
func (p Particle) InBounds(side, radius float64) bool {
	return p.X >= radius && p.X <= side-radius && p.Y >= radius && p.Y <= side-radius
}

func (p Particle) String() string {
	return fmt.Sprintf("%d %.8f %.8f %.8f %.8f", p.Index, p.X, p.Y, p.VX, p.VY)
}

// FullString renders index, position, velocity, and both collision
// counters -- the format used for the final-state output line.
func (p Particle) FullString() string {
	return fmt.Sprintf("%d %.8f %.8f %.8f %.8f %d %d", p.Index, p.X, p.Y, p.VX, p.VY, p.PColl, p.WColl)
}
