package physics

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/planarkit/planarkit/internal/core/events/bus"
	"github.com/planarkit/planarkit/internal/core/observability/log"
	"github.com/planarkit/planarkit/pkg/generic"
)

// EventTypeContact is the bus routing key for contact events.
const EventTypeContact = "physics.contact"

// eventSource identifies the world as publisher on the bus.
const eventSource = "physics.world"

// groundedThreshold is the largest vertical gap, in length units,
// between a body's bottom edge and another body's top edge that still
// counts as resting contact.
const groundedThreshold = 0.1

// ContactData is the payload of an EventTypeContact event, published
// after a contact has been resolved.
type ContactData struct {
	BodyA, BodyB uuid.UUID
	Normal       Normal
	// T is the time of first contact within the tick.
	T float64
	// Tick is the tick counter value at resolution.
	Tick uint64
}

// World owns the set of registered bodies and drives the fixed-timestep
// tick: integrate all, detect new overlaps, resolve them in discovery
// order, commit all. One goroutine owns a World; see the package doc.
type World struct {
	bodies   []*Body
	resolver *Resolver
	logger   log.Log
	events   bus.EventBus // optional

	contactPool *generic.Pool[*Contact]

	nextSeq uint64
	ticks   uint64
}

// NewWorld builds an empty world. The event bus may be nil; contact
// events are then skipped.
func NewWorld(logger log.Log, events bus.EventBus) *World {
	return &World{
		bodies:      make([]*Body, 0, 16),
		resolver:    NewResolver(logger),
		logger:      logger,
		events:      events,
		contactPool: generic.NewHotPool(func() *Contact { return &Contact{} }, 8),
	}
}

// AddBody registers the body and assigns its registration sequence
// number, the deterministic ordering key for pair iteration and
// resolution. Registering a nil body, or adding to an uninitialized
// world, is a programmer error and panics.
func (w *World) AddBody(b *Body) {
	if b == nil {
		panic("physics: AddBody called with nil body")
	}
	if w.bodies == nil {
		panic("physics: AddBody on uninitialized world")
	}
	b.seq = w.nextSeq
	w.nextSeq++
	w.bodies = append(w.bodies, b)
}

// Bodies returns the registered bodies in registration order. The slice
// is the world's own; callers must not mutate it.
func (w *World) Bodies() []*Body { return w.bodies }

// Ticks returns the number of completed ticks.
func (w *World) Ticks() uint64 { return w.ticks }

// Tick advances the simulation by dt. Phases run strictly in order:
//
//  1. Integrate every body with the same dt.
//  2. Detect new collisions: pairs whose current boxes intersect while
//     their previous-tick boxes did not. Pairs are visited in ascending
//     (Seq i, Seq j) order.
//  3. Resolve each contact sequentially in discovery order. A body
//     mutated by one contact is seen mutated by later contacts in the
//     same tick.
//  4. Commit every body's final position to its external transform.
//
// The returned error is the resolver's invariant violation, wrapped; it
// signals a bug, not a recoverable condition.
func (w *World) Tick(dt float64) error {
	for _, b := range w.bodies {
		b.Integrate(dt)
	}

	contacts := w.detect()

	var firstErr error
	for _, c := range contacts {
		if err := w.resolver.Resolve(c, dt); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			w.logger.Error("contact resolution failed", log.Err(err))
			continue
		}
		w.publishContact(c)
	}
	for _, c := range contacts {
		c.reset()
		w.contactPool.Put(c)
	}

	for _, b := range w.bodies {
		b.Commit()
	}

	w.ticks++
	return firstErr
}

// detect collects first contacts for this tick. Detection completes
// before any resolution starts, so every pair is classified against the
// same post-integration state.
func (w *World) detect() []*Contact {
	var contacts []*Contact
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if !a.Bounds().Intersects(b.Bounds()) {
				continue
			}
			if a.BoundsOld().Intersects(b.BoundsOld()) {
				// Already overlapping last tick; only first contacts fire.
				continue
			}
			c := w.contactPool.Get()
			c.A, c.B = a, b
			contacts = append(contacts, c)
		}
	}
	return contacts
}

func (w *World) publishContact(c *Contact) {
	if w.events == nil {
		return
	}
	data := ContactData{
		BodyA:  c.A.ID(),
		BodyB:  c.B.ID(),
		Normal: c.Normal,
		T:      c.T,
		Tick:   w.ticks,
	}
	if err := w.events.Publish(bus.NewEvent(EventTypeContact, eventSource, data)); err != nil {
		w.logger.Warn("contact event handler failed", log.Err(err))
	}
}

// Grounded reports whether some other registered body sits directly
// beneath b: horizontal overlap, and the gap between b's bottom edge and
// the other body's top edge within the resting threshold. Stateless,
// read-only, no caching.
func (w *World) Grounded(b *Body) bool {
	for _, other := range w.bodies {
		if other == b {
			continue
		}
		if b.LL().X >= other.UR().X || b.UR().X <= other.LL().X {
			continue
		}
		if math.Abs(b.LL().Y-other.UR().Y) <= groundedThreshold {
			return true
		}
	}
	return false
}

// StateDigest hashes every body's registration key, position and
// velocity in registration order. Replicas that stepped identical
// inputs produce identical digests, so the sync layer can verify
// lockstep without shipping full state.
func (w *World) StateDigest() uint64 {
	digest := xxhash.New()
	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = digest.Write(buf[:])
	}
	for _, b := range w.bodies {
		writeU64(b.seq)
		writeU64(math.Float64bits(b.position.X))
		writeU64(math.Float64bits(b.position.Y))
		writeU64(math.Float64bits(b.velocity.X))
		writeU64(math.Float64bits(b.velocity.Y))
	}
	return digest.Sum64()
}
