package physics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planarkit/planarkit/internal/core/events/bus"
	"github.com/planarkit/planarkit/internal/core/observability/log"
)

func TestAddBody_AssignsRegistrationOrder(t *testing.T) {
	w := NewWorld(log.NewNop(), nil)
	a := newBoxBody(t, Vec2{}, Vec2{}, 0.5, 1, false)
	b := newBoxBody(t, Vec2{X: 5}, Vec2{}, 0.5, 1, false)
	c := newBoxBody(t, Vec2{X: 10}, Vec2{}, 0.5, 1, false)

	w.AddBody(a)
	w.AddBody(b)
	w.AddBody(c)

	require.Equal(t, uint64(0), a.Seq())
	require.Equal(t, uint64(1), b.Seq())
	require.Equal(t, uint64(2), c.Seq())
	require.Equal(t, []*Body{a, b, c}, w.Bodies())
}

func TestAddBody_NilPanics(t *testing.T) {
	w := NewWorld(log.NewNop(), nil)
	require.Panics(t, func() { w.AddBody(nil) })
}

func TestAddBody_UninitializedWorldPanics(t *testing.T) {
	var w World
	b := newBoxBody(t, Vec2{}, Vec2{}, 0.5, 1, false)
	require.Panics(t, func() { w.AddBody(b) })
}

// A first contact fires exactly once: on the tick the boxes start
// overlapping, not on ticks where the overlap merely persists.
func TestTick_FirstContactFiresOnce(t *testing.T) {
	events := bus.New()
	w := NewWorld(log.NewNop(), events)

	var contacts []ContactData
	_, err := events.Subscribe(EventTypeContact, func(e bus.Event) error {
		contacts = append(contacts, e.Data().(ContactData))
		return nil
	})
	require.NoError(t, err)

	a := newBoxBody(t, Vec2{}, Vec2{X: 2}, 0.1, 1, true)
	b := newBoxBody(t, Vec2{X: 0.45}, Vec2{X: -2}, 0.1, 1, true)
	w.AddBody(a)
	w.AddBody(b)

	require.NoError(t, w.Tick(0.1))
	require.Len(t, contacts, 1)
	require.Equal(t, a.ID(), contacts[0].BodyA)
	require.Equal(t, b.ID(), contacts[0].BodyB)
	require.Equal(t, NormalLeft, contacts[0].Normal)
	require.InDelta(t, 0.0625, contacts[0].T, 1e-12)

	// The elastic response separated the pair; no further contact.
	require.NoError(t, w.Tick(0.1))
	require.Len(t, contacts, 1)
}

// Bodies that already overlapped last tick never produce a contact,
// even while the overlap persists.
func TestTick_PersistentOverlapDoesNotFire(t *testing.T) {
	events := bus.New()
	w := NewWorld(log.NewNop(), events)

	var fired int
	_, err := events.Subscribe(EventTypeContact, func(e bus.Event) error {
		fired++
		return nil
	})
	require.NoError(t, err)

	a := newBoxBody(t, Vec2{}, Vec2{}, 0.5, 1, false)
	b := newBoxBody(t, Vec2{X: 0.3}, Vec2{}, 0.5, 1, false)
	w.AddBody(a)
	w.AddBody(b)

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Tick(0.1))
	}
	require.Equal(t, 0, fired)
}

func TestTick_CountsTicks(t *testing.T) {
	w := NewWorld(log.NewNop(), nil)
	require.Equal(t, uint64(0), w.Ticks())
	require.NoError(t, w.Tick(0.1))
	require.NoError(t, w.Tick(0.1))
	require.Equal(t, uint64(2), w.Ticks())
}

func TestGrounded(t *testing.T) {
	w := NewWorld(log.NewNop(), nil)
	platform := newBoxBody(t, Vec2{Y: -1}, Vec2{}, 1, 1e6, false)
	w.AddBody(platform) // top edge at y=0

	tests := []struct {
		name string
		pos  Vec2
		want bool
	}{
		{"resting on the edge", Vec2{Y: 0.5}, true},
		{"slightly embedded", Vec2{Y: 0.45}, true},
		{"gap within threshold", Vec2{Y: 0.6}, true},
		{"gap beyond threshold", Vec2{Y: 0.625}, false},
		{"no horizontal overlap", Vec2{X: 30, Y: 0.5}, false},
		{"far above", Vec2{Y: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBoxBody(t, tt.pos, Vec2{}, 0.5, 1, false)
			w.AddBody(b)
			require.Equal(t, tt.want, w.Grounded(b))
		})
	}
}

func TestGrounded_IgnoresSelf(t *testing.T) {
	w := NewWorld(log.NewNop(), nil)
	b := newBoxBody(t, Vec2{}, Vec2{}, 0.5, 1, false)
	w.AddBody(b)
	require.False(t, w.Grounded(b))
}

func Benchmark_WorldTick(b *testing.B) {
	w := NewWorld(log.NewNop(), nil)
	for i := 0; i < 32; i++ {
		body, err := NewBody(BodyConfig{
			Mass:     1,
			Rebounds: i%2 == 0,
			Position: Vec2{X: float64(i % 8), Y: float64(i / 8)},
			Bounds:   SquareBounds(0.4),
		}, log.NewNop())
		if err != nil {
			b.Fatal(err)
		}
		body.SetVelocity(Vec2{X: float64(i%3) - 1, Y: float64(i%5) - 2})
		w.AddBody(body)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.Tick(1.0 / 60.0)
	}
}

// Two worlds built from the same inputs stay digest-identical through
// ticks that include contact resolution; any state divergence shows.
func TestStateDigest_LockstepWorldsAgree(t *testing.T) {
	build := func() *World {
		w := NewWorld(log.NewNop(), nil)
		w.AddBody(newBoxBody(t, Vec2{}, Vec2{X: 2}, 0.1, 1, true))
		w.AddBody(newBoxBody(t, Vec2{X: 0.45}, Vec2{X: -2}, 0.1, 1, true))
		return w
	}
	w1, w2 := build(), build()

	for i := 0; i < 4; i++ {
		require.NoError(t, w1.Tick(0.1))
		require.NoError(t, w2.Tick(0.1))
		require.Equal(t, w1.StateDigest(), w2.StateDigest())
	}

	w2.Bodies()[0].ApplyImpulse(Vec2{X: 0.001})
	require.NotEqual(t, w1.StateDigest(), w2.StateDigest())
}
