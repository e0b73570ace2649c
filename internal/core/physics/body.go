package physics

import (
	"math"

	"github.com/google/uuid"

	"github.com/planarkit/planarkit/internal/core/observability/log"
)

// DefaultGravityAccel is the acceleration applied along the up axis to
// bodies that obey gravity, unless the config overrides it.
const DefaultGravityAccel = -9.8

// defaultHalfExtent is the fallback half size used when no bounds
// provider is available.
const defaultHalfExtent = 0.5

// BodyConfig describes a body at creation time.
type BodyConfig struct {
	// Mass must be strictly positive; division by it is unguarded later.
	Mass float64
	// Rebounds selects the coefficient of restitution at resolution time:
	// 0.9 when set, 0.0 when not. No intermediate values exist.
	Rebounds bool
	// ObeysGravity adds GravityAccel along the up axis every integration.
	ObeysGravity bool
	// GravityAccel defaults to DefaultGravityAccel when zero.
	GravityAccel float64
	// MaxVelocity clamps each velocity axis independently on every write.
	// A zero component means unclamped on that axis.
	MaxVelocity Vec2
	// Position is the starting center of the body.
	Position Vec2
	// Bounds supplies the box extents. Nil or erroring providers fall
	// back to a defaultHalfExtent square with a logged diagnostic.
	Bounds BoundsProvider
	// Transform is the external sink Commit publishes into. Optional.
	Transform Transform
}

// Body is a rigid body: position, velocity, a force accumulator, mass
// and fixed box extents. All velocity writes route through the per-axis
// clamp. Bodies are not safe for concurrent use; see the package doc.
type Body struct {
	id  uuid.UUID
	seq uint64 // registration order within a World; the ordering key

	mass         float64
	rebounds     bool
	obeysGravity bool
	gravityAccel float64
	maxVelocity  Vec2

	position    Vec2
	oldPosition Vec2
	velocity    Vec2
	oldVelocity Vec2
	force       Vec2

	extents   Extents
	transform Transform
}

// NewBody validates the config and builds a body. Missing bounds are
// recoverable (diagnostic plus unit-box fallback); a non-positive mass
// is not. A nil logger discards the diagnostics.
func NewBody(cfg BodyConfig, logger log.Log) (*Body, error) {
	if cfg.Mass <= 0 {
		return nil, ErrNonPositiveMass
	}
	if logger == nil {
		logger = log.NewNop()
	}

	id := uuid.New()

	extents, ok := resolveBounds(cfg.Bounds, logger, id)
	if !ok {
		extents = Extents{
			Left:  defaultHalfExtent,
			Right: defaultHalfExtent,
			Down:  defaultHalfExtent,
			Up:    defaultHalfExtent,
		}
	}

	gravityAccel := cfg.GravityAccel
	if gravityAccel == 0 {
		gravityAccel = DefaultGravityAccel
	}

	maxVelocity := cfg.MaxVelocity
	if maxVelocity.X == 0 {
		maxVelocity.X = math.Inf(1)
	}
	if maxVelocity.Y == 0 {
		maxVelocity.Y = math.Inf(1)
	}

	return &Body{
		id:           id,
		mass:         cfg.Mass,
		rebounds:     cfg.Rebounds,
		obeysGravity: cfg.ObeysGravity,
		gravityAccel: gravityAccel,
		maxVelocity:  maxVelocity,
		position:     cfg.Position,
		oldPosition:  cfg.Position,
		extents:      extents,
		transform:    cfg.Transform,
	}, nil
}

func resolveBounds(provider BoundsProvider, logger log.Log, id uuid.UUID) (Extents, bool) {
	if provider == nil {
		logger.Warn("body has no bounds provider, using unit box",
			log.String("body", id.String()),
			log.Float64("half_extent", defaultHalfExtent))
		return Extents{}, false
	}
	extents, err := provider.Bounds()
	if err != nil {
		logger.Warn("bounds provider failed, using unit box",
			log.String("body", id.String()),
			log.Err(err))
		return Extents{}, false
	}
	return extents, true
}

// ID returns the body's stable identity for external collaborators.
// It is never used for ordering; Seq is.
func (b *Body) ID() uuid.UUID { return b.id }

// Seq returns the registration sequence number assigned by the owning
// World. Pair iteration and resolution order key off it.
func (b *Body) Seq() uint64 { return b.seq }

func (b *Body) Mass() float64     { return b.mass }
func (b *Body) Rebounds() bool    { return b.rebounds }
func (b *Body) Position() Vec2    { return b.position }
func (b *Body) Velocity() Vec2    { return b.velocity }
func (b *Body) Force() Vec2       { return b.force }
func (b *Body) Extents() Extents  { return b.extents }
func (b *Body) MaxVelocity() Vec2 { return b.maxVelocity }

// AddForce accumulates into the force accumulator. The accumulator is
// sustained: integration never clears it, so a force keeps acting every
// tick until ClearForce or Stop. One-shot pushes go through ApplyImpulse.
func (b *Body) AddForce(f Vec2) {
	b.force = b.force.Add(f)
}

// ClearForce resets the accumulator to zero.
func (b *Body) ClearForce() {
	b.force = Vec2{}
}

// ApplyImpulse changes velocity immediately, through the clamp. It does
// not touch the force accumulator.
func (b *Body) ApplyImpulse(dv Vec2) {
	b.SetVelocity(b.velocity.Add(dv))
}

// Stop cancels all motion state atomically: velocity and accumulated
// force both go to zero.
func (b *Body) Stop() {
	b.velocity = Vec2{}
	b.force = Vec2{}
}

// SetVelocity stores v with each axis independently clamped to the
// configured maximum magnitude, preserving the sign of the unclamped
// value. Every internal velocity mutation goes through here.
func (b *Body) SetVelocity(v Vec2) {
	b.velocity = Vec2{
		X: clampAxis(v.X, b.maxVelocity.X),
		Y: clampAxis(v.Y, b.maxVelocity.Y),
	}
}

func clampAxis(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}

// Integrate advances the body by dt using the accumulated force and
// gravity. Old-state snapshots are taken before any mutation, so Revert
// undoes exactly the most recent Integrate and nothing earlier.
func (b *Body) Integrate(dt float64) {
	accel := b.force.Scale(1 / b.mass)
	if b.obeysGravity {
		accel.Y += b.gravityAccel
	}

	b.oldVelocity = b.velocity
	b.oldPosition = b.position

	b.SetVelocity(b.velocity.Add(accel.Scale(dt)))
	b.position = b.position.Add(b.velocity.Scale(dt))
}

// Revert restores position and velocity to the snapshots taken by the
// most recent Integrate. Velocity goes back through the clamp.
func (b *Body) Revert() {
	b.position = b.oldPosition
	b.SetVelocity(b.oldVelocity)
}

// advance moves the body along its current velocity without touching
// the snapshots. The resolver uses it to replay motion up to the moment
// of first contact and for the post-impulse remainder of the tick.
func (b *Body) advance(t float64) {
	b.position = b.position.Add(b.velocity.Scale(t))
}

// Commit publishes the resolved position into the external transform.
// The plane's third axis is fixed at zero. No-op without a transform.
func (b *Body) Commit() {
	if b.transform == nil {
		return
	}
	b.transform.SetPosition3(b.position.X, b.position.Y, 0)
}

// LL is the lower-left corner of the current bounding box.
func (b *Body) LL() Vec2 {
	return Vec2{X: b.position.X - b.extents.Left, Y: b.position.Y - b.extents.Down}
}

// UR is the upper-right corner of the current bounding box.
func (b *Body) UR() Vec2 {
	return Vec2{X: b.position.X + b.extents.Right, Y: b.position.Y + b.extents.Up}
}

// LLOld and UROld use the previous-tick position with the same extents.

func (b *Body) LLOld() Vec2 {
	return Vec2{X: b.oldPosition.X - b.extents.Left, Y: b.oldPosition.Y - b.extents.Down}
}

func (b *Body) UROld() Vec2 {
	return Vec2{X: b.oldPosition.X + b.extents.Right, Y: b.oldPosition.Y + b.extents.Up}
}

// Bounds returns the current-tick AABB.
func (b *Body) Bounds() AABB {
	return AABB{Min: b.LL(), Max: b.UR()}
}

// BoundsOld returns the previous-tick AABB.
func (b *Body) BoundsOld() AABB {
	return AABB{Min: b.LLOld(), Max: b.UROld()}
}
