package physics

import "errors"

// Core physics errors
var (
	// Body construction errors

	ErrNonPositiveMass = errors.New("body mass must be strictly positive")

	// Contact resolution errors

	// ErrNoEnteringFace fires when the swept ray cast finds no face of the
	// expanded box being entered. Detection guarantees a first contact
	// exists, so reaching it means the collision classification and the
	// resolver disagree. Callers must surface it, never swallow it.
	ErrNoEnteringFace = errors.New("contact ray cast found no entering face")
)
