// Package physics implements a minimal 2D rigid-body simulation over
// axis-aligned bounding boxes: fixed-timestep integration, swept
// (ray-vs-expanded-box) first-contact detection, and impulse-based
// collision response with time-of-impact back-solving.
//
// Execution model: the package is single-threaded by contract. A World
// and its bodies are owned by one goroutine driving Tick at a fixed
// interval; nothing here blocks, suspends, or performs I/O. Tick phases
// run strictly sequentially (integrate, detect, resolve, commit), and
// within the resolve phase a mutation made by one contact is visible to
// contacts processed after it. That ordering is load-bearing for
// deterministic output and must not be parallelized.
package physics
