package physics

import "math"

// Extents are the distances from a body's position to each edge of its
// bounding box. They are fixed at body creation and never change.
type Extents struct {
	Left, Right, Down, Up float64
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec2
}

// Intersects reports whether the boxes overlap. Two boxes intersect
// unless one is entirely to the left, right, above, or below the other;
// the comparison is closed-interval, so touching edges count.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

// Expand grows the box outward by the given extents (Minkowski sum).
// A ray-vs-point test against the expanded box is then equivalent to a
// box-vs-box sweep: the box swallows the moving body's half sizes, with
// each side grown by the extent facing it.
func (a AABB) Expand(e Extents) AABB {
	return AABB{
		Min: Vec2{X: a.Min.X - e.Right, Y: a.Min.Y - e.Up},
		Max: Vec2{X: a.Max.X + e.Left, Y: a.Max.Y + e.Down},
	}
}

// EntryNormal casts a ray against the box using the standard slab test
// and returns the normal of the face the ray enters through. Per axis,
// the entry time is the smaller of the near/far edge times; the entering
// face belongs to whichever axis produced the larger of those minima.
// Equality is checked in the fixed order right, left, up, down, which
// also settles corner ties.
func (a AABB) EntryNormal(origin, dir Vec2) (Normal, error) {
	invX := 1 / dir.X
	invY := 1 / dir.Y

	t1x := (a.Min.X - origin.X) * invX
	t2x := (a.Max.X - origin.X) * invX
	t1y := (a.Min.Y - origin.Y) * invY
	t2y := (a.Max.Y - origin.Y) * invY

	nearX := math.Min(t1x, t2x)
	nearY := math.Min(t1y, t2y)
	enter := math.Max(nearX, nearY)

	switch {
	case enter == nearX && dir.X < 0:
		return NormalRight, nil
	case enter == nearX && dir.X > 0:
		return NormalLeft, nil
	case enter == nearY && dir.Y < 0:
		return NormalUp, nil
	case enter == nearY && dir.Y > 0:
		return NormalDown, nil
	}
	return 0, ErrNoEnteringFace
}

// Axis identifies one of the two coordinate axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Normal is one of the four unit axis directions a contact can point in.
// It is the normal of the face of the hit body, pointing back toward the
// moving body.
type Normal uint8

const (
	NormalUp Normal = iota
	NormalDown
	NormalLeft
	NormalRight
)

// Vec returns the unit vector for the normal.
func (n Normal) Vec() Vec2 {
	switch n {
	case NormalUp:
		return Vec2{Y: 1}
	case NormalDown:
		return Vec2{Y: -1}
	case NormalLeft:
		return Vec2{X: -1}
	default:
		return Vec2{X: 1}
	}
}

// Axis returns the coordinate axis the normal lies on.
func (n Normal) Axis() Axis {
	if n == NormalLeft || n == NormalRight {
		return AxisX
	}
	return AxisY
}

func (n Normal) String() string {
	switch n {
	case NormalUp:
		return "up"
	case NormalDown:
		return "down"
	case NormalLeft:
		return "left"
	default:
		return "right"
	}
}
