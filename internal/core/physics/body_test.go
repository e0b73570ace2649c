package physics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planarkit/planarkit/internal/core/observability/log"
)

type failingBounds struct{}

func (failingBounds) Bounds() (Extents, error) {
	return Extents{}, errors.New("no visual geometry")
}

func newTestBody(t *testing.T, cfg BodyConfig) *Body {
	t.Helper()
	if cfg.Mass == 0 {
		cfg.Mass = 1
	}
	b, err := NewBody(cfg, log.NewNop())
	require.NoError(t, err)
	return b
}

func TestNewBody_RejectsNonPositiveMass(t *testing.T) {
	for _, mass := range []float64{0, -1} {
		_, err := NewBody(BodyConfig{Mass: mass}, log.NewNop())
		require.ErrorIs(t, err, ErrNonPositiveMass)
	}
}

func TestNewBody_BoundsFromProvider(t *testing.T) {
	want := Extents{Left: 1, Right: 2, Down: 3, Up: 4}
	b := newTestBody(t, BodyConfig{Bounds: FixedBounds{Extents: want}})
	require.Equal(t, want, b.Extents())
}

func TestNewBody_MissingBoundsFallsBackToUnitBox(t *testing.T) {
	want := Extents{Left: 0.5, Right: 0.5, Down: 0.5, Up: 0.5}

	b := newTestBody(t, BodyConfig{})
	require.Equal(t, want, b.Extents())

	b = newTestBody(t, BodyConfig{Bounds: failingBounds{}})
	require.Equal(t, want, b.Extents())
}

func TestNewBody_NilLoggerDiscardsDiagnostics(t *testing.T) {
	// Nil logger plus missing bounds hits the diagnostic path; it must
	// fall back silently instead of panicking.
	b, err := NewBody(BodyConfig{Mass: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, Extents{Left: 0.5, Right: 0.5, Down: 0.5, Up: 0.5}, b.Extents())
}

func TestSetVelocity_ClampsMagnitudePreservingSign(t *testing.T) {
	b := newTestBody(t, BodyConfig{MaxVelocity: Vec2{X: 3, Y: 2}})

	b.SetVelocity(Vec2{X: 10, Y: -5})
	require.Equal(t, Vec2{X: 3, Y: -2}, b.Velocity())

	b.SetVelocity(Vec2{X: -1.5, Y: 0.5})
	require.Equal(t, Vec2{X: -1.5, Y: 0.5}, b.Velocity())
}

func TestVelocityClampHoldsUnderForcesAndGravity(t *testing.T) {
	b := newTestBody(t, BodyConfig{
		MaxVelocity:  Vec2{X: 4, Y: 4},
		ObeysGravity: true,
	})

	for i := 0; i < 100; i++ {
		b.AddForce(Vec2{X: 37, Y: -11})
		b.Integrate(0.1)
		v := b.Velocity()
		require.LessOrEqual(t, v.X, 4.0)
		require.GreaterOrEqual(t, v.X, -4.0)
		require.LessOrEqual(t, v.Y, 4.0)
		require.GreaterOrEqual(t, v.Y, -4.0)
	}
}

func TestIntegrate_AppliesForceAndGravity(t *testing.T) {
	b := newTestBody(t, BodyConfig{
		Mass:         2,
		ObeysGravity: true,
		GravityAccel: -10,
	})
	b.AddForce(Vec2{X: 4})

	b.Integrate(0.5)

	require.Equal(t, Vec2{X: 1, Y: -5}, b.Velocity())
	require.Equal(t, Vec2{X: 0.5, Y: -2.5}, b.Position())
}

func TestIntegrate_DoesNotClearForce(t *testing.T) {
	b := newTestBody(t, BodyConfig{Mass: 1})
	b.AddForce(Vec2{X: 2})

	b.Integrate(1)
	require.Equal(t, Vec2{X: 2}, b.Velocity())
	require.Equal(t, Vec2{X: 2}, b.Force())

	// The accumulator keeps acting until cleared.
	b.Integrate(1)
	require.Equal(t, Vec2{X: 4}, b.Velocity())

	b.ClearForce()
	b.Integrate(1)
	require.Equal(t, Vec2{X: 4}, b.Velocity())
}

func TestRevert_RestoresExactPreIntegrateState(t *testing.T) {
	b := newTestBody(t, BodyConfig{
		Mass:         3,
		ObeysGravity: true,
		Position:     Vec2{X: 0.1, Y: 0.2},
	})
	b.SetVelocity(Vec2{X: 1.0 / 3.0, Y: -2.0 / 7.0})
	b.AddForce(Vec2{X: 0.7, Y: 1.1})

	wantPos := b.Position()
	wantVel := b.Velocity()

	b.Integrate(1.0 / 60.0)
	b.Revert()

	// Bitwise equality, not approximate: Revert must restore the exact
	// snapshots.
	require.Equal(t, wantPos, b.Position())
	require.Equal(t, wantVel, b.Velocity())
}

func TestStop_ZeroesVelocityAndForce(t *testing.T) {
	b := newTestBody(t, BodyConfig{Mass: 1})
	b.SetVelocity(Vec2{X: 5, Y: 5})
	b.AddForce(Vec2{X: 1, Y: 1})

	b.Stop()

	require.Equal(t, Vec2{}, b.Velocity())
	require.Equal(t, Vec2{}, b.Force())
}

func TestApplyImpulse_GoesThroughClamp(t *testing.T) {
	b := newTestBody(t, BodyConfig{MaxVelocity: Vec2{X: 2, Y: 2}})

	b.ApplyImpulse(Vec2{X: 100, Y: -0.5})

	require.Equal(t, Vec2{X: 2, Y: -0.5}, b.Velocity())
}

func TestCommit_PublishesPositionToTransform(t *testing.T) {
	sink := &Transform3D{}
	b := newTestBody(t, BodyConfig{
		Position:  Vec2{X: 7, Y: -3},
		Transform: sink,
	})

	b.Commit()

	require.Equal(t, 7.0, sink.X)
	require.Equal(t, -3.0, sink.Y)
	require.Equal(t, 0.0, sink.Z)
}

func TestCommit_WithoutTransformIsNoop(t *testing.T) {
	b := newTestBody(t, BodyConfig{})
	require.NotPanics(t, func() { b.Commit() })
}

func TestBoundingBoxCorners(t *testing.T) {
	b := newTestBody(t, BodyConfig{
		Position: Vec2{X: 10, Y: 20},
		Bounds:   FixedBounds{Extents: Extents{Left: 1, Right: 2, Down: 3, Up: 4}},
	})

	require.Equal(t, Vec2{X: 9, Y: 17}, b.LL())
	require.Equal(t, Vec2{X: 12, Y: 24}, b.UR())

	// Old corners track the pre-integration position with the same
	// fixed extents.
	b.SetVelocity(Vec2{X: 1})
	b.Integrate(1)
	require.Equal(t, Vec2{X: 9, Y: 17}, b.LLOld())
	require.Equal(t, Vec2{X: 12, Y: 24}, b.UROld())
	require.Equal(t, Vec2{X: 10, Y: 17}, b.LL())
}
