// Package scene loads simulation scene descriptions from YAML or JSON
// and instantiates them into a physics world. Scene files are the
// external configuration surface of the core: gravity, restitution,
// velocity limits and bounds all arrive through here.
package scene

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/planarkit/planarkit/internal/core/observability/log"
	"github.com/planarkit/planarkit/internal/core/physics"
)

// Config is a unified scene description decodable from JSON or YAML.
type Config struct {
	Name     string     `json:"name" yaml:"name"`
	Timestep float64    `json:"timestep,omitempty" yaml:"timestep,omitempty"`
	Duration float64    `json:"duration,omitempty" yaml:"duration,omitempty"`
	Bodies   []BodySpec `json:"bodies" yaml:"bodies"`
}

// BodySpec describes one body. A nil Size exercises the default-bounds
// fallback of the physics core (unit box plus a diagnostic).
type BodySpec struct {
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	Mass         float64    `json:"mass" yaml:"mass"`
	Position     [2]float64 `json:"position" yaml:"position"`
	Velocity     [2]float64 `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Size         *SizeSpec  `json:"size,omitempty" yaml:"size,omitempty"`
	Rebounds     bool       `json:"rebounds,omitempty" yaml:"rebounds,omitempty"`
	Gravity      bool       `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	GravityAccel float64    `json:"gravity_accel,omitempty" yaml:"gravity_accel,omitempty"`
	MaxVelocity  [2]float64 `json:"max_velocity,omitempty" yaml:"max_velocity,omitempty"`
}

// SizeSpec gives box extents either as one half size for all four
// sides or as explicit per-side distances. Explicit sides win.
type SizeSpec struct {
	Half  float64 `json:"half,omitempty" yaml:"half,omitempty"`
	Left  float64 `json:"left,omitempty" yaml:"left,omitempty"`
	Right float64 `json:"right,omitempty" yaml:"right,omitempty"`
	Down  float64 `json:"down,omitempty" yaml:"down,omitempty"`
	Up    float64 `json:"up,omitempty" yaml:"up,omitempty"`
}

func (s *SizeSpec) extents() physics.Extents {
	e := physics.Extents{Left: s.Left, Right: s.Right, Down: s.Down, Up: s.Up}
	if e == (physics.Extents{}) {
		e = physics.Extents{Left: s.Half, Right: s.Half, Down: s.Half, Up: s.Half}
	}
	return e
}

// LoadJSON loads a scene config from a JSON reader.
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadYAML loads a scene config from a YAML reader.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Build instantiates every body of the scene into the world, in file
// order, so registration sequence matches the file. It returns the
// bodies it created.
func (c *Config) Build(w *physics.World, logger log.Log) ([]*physics.Body, error) {
	bodies := make([]*physics.Body, 0, len(c.Bodies))
	for i, spec := range c.Bodies {
		cfg := physics.BodyConfig{
			Mass:         spec.Mass,
			Rebounds:     spec.Rebounds,
			ObeysGravity: spec.Gravity,
			GravityAccel: spec.GravityAccel,
			MaxVelocity:  physics.Vec2{X: spec.MaxVelocity[0], Y: spec.MaxVelocity[1]},
			Position:     physics.Vec2{X: spec.Position[0], Y: spec.Position[1]},
		}
		if spec.Size != nil {
			cfg.Bounds = physics.FixedBounds{Extents: spec.Size.extents()}
		}

		body, err := physics.NewBody(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("scene %q body %d (%s): %w", c.Name, i, spec.Name, err)
		}
		body.SetVelocity(physics.Vec2{X: spec.Velocity[0], Y: spec.Velocity[1]})

		w.AddBody(body)
		bodies = append(bodies, body)
	}
	return bodies, nil
}
