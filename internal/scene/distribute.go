package scene

import "math"

// Point is a top/left canvas coordinate in pixels.
type Point struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.Top-o.Top, p.Left-o.Left)
}

// Bounds is the canvas rectangle rewards are spread over.
type Bounds struct {
	Width  float64
	Height float64
}

// DistributionConfig controls reward spreading.
type DistributionConfig struct {
	// GridSize is k in the k×k cell partition.
	GridSize int `toml:"grid_size"`
	// FillRatio is the share of each cell's height and width candidates land in.
	FillRatio float64 `toml:"fill_ratio"`
	// Strict enables minimum-distance rejection sampling.
	Strict      bool    `toml:"strict"`
	MinDistance float64 `toml:"min_distance"`
	// MaxAttempts bounds redraws per reward; the last draw is then kept.
	MaxAttempts int `toml:"max_attempts"`
}

// DefaultDistribution returns a strict 4×4 grid with 150px separation.
func DefaultDistribution() DistributionConfig {
	return DistributionConfig{
		GridSize:    4,
		FillRatio:   0.8,
		Strict:      true,
		MinDistance: 150,
		MaxAttempts: 10,
	}
}

// Normalize clamps the config to usable values.
func (d DistributionConfig) Normalize() DistributionConfig {
	if d.GridSize < 1 {
		d.GridSize = 1
	}
	if !(d.FillRatio > 0) || d.FillRatio > 1 {
		d.FillRatio = DefaultDistribution().FillRatio
	}
	if !(d.MinDistance > 0) || math.IsInf(d.MinDistance, 0) {
		d.MinDistance = 0
	}
	if d.MaxAttempts < 0 {
		d.MaxAttempts = 0
	}
	return d
}

// Cells returns the number of grid cells.
func (d DistributionConfig) Cells() int {
	return d.GridSize * d.GridSize
}

// Slot is one distributed reward position.
type Slot struct {
	Point
	Cell     int `json:"cell"`
	Attempts int `json:"attempts"`
	// Relaxed is set when the retry bound was hit and the last candidate
	// was kept even though it sits too close to another reward.
	Relaxed bool `json:"relaxed"`
}

// Distribute returns n reward positions spread over a k×k grid. Slot i lands
// in cell i mod k². In strict mode each candidate is checked against every
// earlier slot and the occupied points; a candidate closer than MinDistance
// is redrawn inside the same cell, at most MaxAttempts times.
func Distribute(n int, b Bounds, cfg DistributionConfig, occupied []Point, rng Rand) []Slot {
	if n <= 0 {
		return nil
	}
	cfg = cfg.Normalize()
	k := cfg.GridSize
	cellW := b.Width / float64(k)
	cellH := b.Height / float64(k)

	placed := make([]Point, 0, len(occupied)+n)
	placed = append(placed, occupied...)
	slots := make([]Slot, n)

	for i := 0; i < n; i++ {
		cell := i % cfg.Cells()
		row, col := cell/k, cell%k
		draw := func() Point {
			top := float64(row)*cellH + rng.Float64()*cellH*cfg.FillRatio
			left := float64(col)*cellW + rng.Float64()*cellW*cfg.FillRatio
			return Point{Top: below(top, b.Height), Left: below(left, b.Width)}
		}

		p := draw()
		attempts := 0
		relaxed := false
		if cfg.Strict {
			for tooClose(p, placed, cfg.MinDistance) {
				if attempts >= cfg.MaxAttempts {
					relaxed = true
					break
				}
				p = draw()
				attempts++
			}
		}

		placed = append(placed, p)
		slots[i] = Slot{Point: p, Cell: cell, Attempts: attempts, Relaxed: relaxed}
	}
	return slots
}

func tooClose(p Point, placed []Point, minDist float64) bool {
	for _, q := range placed {
		if p.Distance(q) < minDist {
			return true
		}
	}
	return false
}
