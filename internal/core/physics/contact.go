package physics

import (
	"fmt"

	"github.com/planarkit/planarkit/internal/core/observability/log"
)

// reboundRestitution is the coefficient of restitution for bodies with
// rebound enabled. Bodies without it resolve perfectly inelastically.
const reboundRestitution = 0.9

// Contact is a first-contact event between two bodies, produced during
// one tick's resolve phase and discarded before the tick ends. A is the
// body whose motion is swept against B.
type Contact struct {
	A, B *Body

	// Filled in by the resolver.
	Normal Normal
	// T is the time of first contact relative to the start of the tick,
	// clamped into [0, dt].
	T float64
}

func (c *Contact) reset() {
	c.A, c.B = nil, nil
	c.Normal = 0
	c.T = 0
}

// Resolver turns a detected first contact into post-collision state:
// it determines the collided faces via a swept ray cast, back-solves the
// time of first contact, rewinds both bodies to that instant and
// redistributes velocity with an impulse consistent with mass ratio and
// restitution.
type Resolver struct {
	logger log.Log
}

func NewResolver(logger log.Log) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve mutates both bodies of the contact. The bodies must have been
// integrated with the same dt this tick, and their boxes must newly
// overlap. A new overlap implies nonzero relative motion, so
// ErrNoEnteringFace means that precondition was violated.
func (r *Resolver) Resolve(c *Contact, dt float64) error {
	a, b := c.A, c.B

	// Contact normal: ray from A's previous position along its motion
	// relative to B, cast against B's previous box expanded by A's
	// extents. The relative displacement keeps the test valid in B's
	// frame: a newly overlapping pair always has a nonzero relative
	// motion, whichever body of the pair moved.
	motion := a.Position().Sub(a.oldPosition).Sub(b.Position().Sub(b.oldPosition))
	combined := b.BoundsOld().Expand(a.Extents())
	normal, err := combined.EntryNormal(a.oldPosition, motion)
	if err != nil {
		return fmt.Errorf("resolving contact %s/%s: %w", a.ID(), b.ID(), err)
	}
	c.Normal = normal

	c.T = r.impactTime(a, b, normal, dt)

	// Rewind to the start of the tick, then replay both bodies up to the
	// exact moment of first contact.
	a.Revert()
	b.Revert()
	a.advance(c.T)
	b.advance(c.T)

	r.applyImpulse(a, b, normal)

	// Let both bodies run out the rest of the tick with their
	// post-collision velocities.
	remainder := dt - c.T
	a.advance(remainder)
	b.advance(remainder)

	return nil
}

// impactTime solves the 1-D closing equation p1 + v1*t = p2 + v2*t along
// the contact axis, using previous-tick edge positions and current
// velocities. A correct first contact yields t in [0, dt]; anything else
// (including a zero closing speed) is clamped with a diagnostic.
func (r *Resolver) impactTime(a, b *Body, normal Normal, dt float64) float64 {
	var p1, p2 float64
	switch normal {
	case NormalLeft: // A hits B's left face moving right
		p1, p2 = a.UROld().X, b.LLOld().X
	case NormalRight:
		p1, p2 = a.LLOld().X, b.UROld().X
	case NormalUp: // A hits B's top face falling down
		p1, p2 = a.LLOld().Y, b.UROld().Y
	case NormalDown:
		p1, p2 = a.UROld().Y, b.LLOld().Y
	}

	var v1, v2 float64
	if normal.Axis() == AxisX {
		v1, v2 = a.Velocity().X, b.Velocity().X
	} else {
		v1, v2 = a.Velocity().Y, b.Velocity().Y
	}

	closing := v1 - v2
	if closing == 0 {
		r.logger.Warn("contact with zero closing speed, using tick start",
			log.String("body_a", a.ID().String()),
			log.String("body_b", b.ID().String()),
			log.String("normal", normal.String()))
		return 0
	}

	t := (p2 - p1) / closing
	if t < 0 || t > dt {
		clamped := t
		if clamped < 0 {
			clamped = 0
		} else if clamped > dt {
			clamped = dt
		}
		r.logger.Warn("impact time outside tick, clamping",
			log.String("body_a", a.ID().String()),
			log.String("body_b", b.ID().String()),
			log.Float64("t", t),
			log.Float64("dt", dt),
			log.Float64("clamped", clamped))
		return clamped
	}
	return t
}

// applyImpulse redistributes velocity along the contact normal. The pair
// is elastic when either body rebounds, inelastic otherwise.
func (r *Resolver) applyImpulse(a, b *Body, normal Normal) {
	n := normal.Vec()

	closing := a.Velocity().Sub(b.Velocity()).Dot(n)
	invMassSum := 1/a.Mass() + 1/b.Mass()

	restitution := 0.0
	if a.Rebounds() || b.Rebounds() {
		restitution = reboundRestitution
	}

	deltaV := closing * (1 + restitution)
	impulse := deltaV / invMassSum

	a.SetVelocity(a.Velocity().Sub(n.Scale(impulse / a.Mass())))
	b.SetVelocity(b.Velocity().Add(n.Scale(impulse / b.Mass())))
}
