package hunt

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"egg-hunt/internal/metrics"
	"egg-hunt/internal/scene"
)

// Generator produces a fresh scene for every page load.
type Generator struct {
	Layout  scene.Config
	Catalog scene.Catalog
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Random generates a scene from a random seed.
func (g *Generator) Random() scene.Scene {
	return g.Seeded(rand.Uint64())
}

// Seeded generates the scene for seed and records how long it took.
func (g *Generator) Seeded(seed uint64) scene.Scene {
	return g.SeededWidth(seed, 0)
}

// SeededWidth is Seeded with the canvas width overridden when width > 0.
func (g *Generator) SeededWidth(seed uint64, width float64) scene.Scene {
	cfg := g.Layout
	if width > 0 {
		cfg.ViewportWidth = width
	}
	start := time.Now()
	sc := scene.GenerateSeeded(cfg, g.Catalog, seed)
	elapsed := time.Since(start)

	g.Metrics.SceneGenerated(elapsed, sc.Relaxed)
	if g.Logger != nil {
		g.Logger.Debug("scene generated",
			"seed", seed,
			"elements", len(sc.Elements),
			"relaxed", sc.Relaxed,
			"duration", elapsed,
		)
	}
	return sc
}
