package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/planarkit/planarkit/internal/core/events/bus"
	"github.com/planarkit/planarkit/internal/core/observability/log"
	"github.com/planarkit/planarkit/internal/core/physics"
	"github.com/planarkit/planarkit/internal/core/scene"
	"github.com/planarkit/planarkit/pkg/concurrent"
	"github.com/planarkit/planarkit/pkg/sequence"
)

func main() {
	var (
		scenePath     = flag.String("scene", "", "scene file to load (.yaml, .yml or .json)")
		timestep      = flag.Float64("dt", 1.0/60.0, "fixed timestep in seconds")
		duration      = flag.Float64("duration", 0, "simulation duration in seconds (0 = run until interrupted)")
		worlds        = flag.Int("worlds", 1, "number of independent worlds to step concurrently")
		statsInterval = flag.Duration("stats-interval", 2*time.Second, "interval between stats log lines")
		logLevel      = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := log.New(parseLevel(*logLevel))

	cfg, err := loadScene(*scenePath)
	if err != nil {
		logger.Fatal("failed to load scene", log.Err(err))
	}
	dt := *timestep
	if cfg.Timestep > 0 {
		dt = cfg.Timestep
	}
	runFor := *duration
	if cfg.Duration > 0 {
		runFor = cfg.Duration
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if runFor > 0 {
		ctx, cancel = context.WithTimeout(ctx, time.Duration(runFor*float64(time.Second)))
		defer cancel()
	}

	logger.Info("starting simulation",
		log.String("scene", cfg.Name),
		log.Float64("dt", dt),
		log.Int("worlds", *worlds))

	indices := make([]int, *worlds)
	for i := range indices {
		indices[i] = i
	}

	err = concurrent.Concurrent(sequence.From(indices), func(i int) error {
		return runWorld(ctx, cfg, dt, *statsInterval, logger.With(log.Int("world", i)))
	})
	if err != nil {
		logger.Fatal("simulation failed", log.Err(err))
	}
	logger.Info("simulation finished")
}

// runWorld builds one world from the scene and steps it on a fixed
// interval until the context ends.
func runWorld(ctx context.Context, cfg *scene.Config, dt float64, statsEvery time.Duration, logger log.Log) error {
	events := bus.New()
	world := physics.NewWorld(logger, events)

	var contacts uint64
	_, err := events.Subscribe(physics.EventTypeContact, func(e bus.Event) error {
		data := e.Data().(physics.ContactData)
		contacts++
		logger.Debug("contact",
			log.String("body_a", data.BodyA.String()),
			log.String("body_b", data.BodyB.String()),
			log.String("normal", data.Normal.String()),
			log.Float64("t", data.T))
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribing contact events: %w", err)
	}

	if _, err = cfg.Build(world, logger); err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()
	stats := time.NewTicker(statsEvery)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("world stopped",
				log.Uint64("ticks", world.Ticks()),
				log.Uint64("contacts", contacts),
				log.Uint64("digest", world.StateDigest()))
			return nil
		case <-stats.C:
			logger.Info("stats",
				log.Uint64("ticks", world.Ticks()),
				log.Uint64("contacts", contacts),
				log.Uint64("digest", world.StateDigest()))
		case <-ticker.C:
			if err := world.Tick(dt); err != nil {
				return fmt.Errorf("tick %d: %w", world.Ticks(), err)
			}
		}
	}
}

func loadScene(path string) (*scene.Config, error) {
	if path == "" {
		return defaultScene(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return scene.LoadJSON(f)
	case ".yaml", ".yml":
		return scene.LoadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported scene format %q", filepath.Ext(path))
	}
}

// defaultScene is a small drop test: three bouncy boxes falling onto a
// heavy platform that ignores gravity.
func defaultScene() *scene.Config {
	bodies := []scene.BodySpec{{
		Name:     "platform",
		Mass:     1e6,
		Position: [2]float64{0, 0},
		Size:     &scene.SizeSpec{Left: 20, Right: 20, Down: 1, Up: 1},
	}}
	for i := 0; i < 3; i++ {
		bodies = append(bodies, scene.BodySpec{
			Name:        fmt.Sprintf("box-%d", i),
			Mass:        1,
			Position:    [2]float64{float64(i*3 - 3), 10 + float64(i)*2},
			Size:        &scene.SizeSpec{Half: 0.5},
			Rebounds:    true,
			Gravity:     true,
			MaxVelocity: [2]float64{50, 50},
		})
	}
	return &scene.Config{Name: "drop-test", Bodies: bodies}
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
