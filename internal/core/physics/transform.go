package physics

// Transform is the externally owned scene representation a body commits
// its position into once per tick. The simulation is planar, so the
// third axis is pinned to a constant by the caller's implementation.
type Transform interface {
	SetPosition3(x, y, z float64)
}

// BoundsProvider reports the visual-geometry extents for a body at
// creation time. Absence (nil provider or an error) is recoverable: the
// body falls back to a unit box with a diagnostic.
type BoundsProvider interface {
	Bounds() (Extents, error)
}

// Simple concrete implementations for convenience.

// Transform3D is a plain value sink for callers without a scene graph.
type Transform3D struct {
	X, Y, Z float64
}

func (t *Transform3D) SetPosition3(x, y, z float64) {
	t.X, t.Y, t.Z = x, y, z
}

// FixedBounds is a BoundsProvider with explicit, constant extents.
type FixedBounds struct {
	Extents Extents
}

func (f FixedBounds) Bounds() (Extents, error) {
	return f.Extents, nil
}

// SquareBounds is a FixedBounds shorthand for a box with the same half
// size on every side.
func SquareBounds(half float64) FixedBounds {
	return FixedBounds{Extents: Extents{Left: half, Right: half, Down: half, Up: half}}
}
