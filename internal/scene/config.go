package scene

import "math"

const (
	// GuaranteedBand is the share of the page height the guaranteed egg lands in.
	GuaranteedBand = 0.1
	// GuaranteedMargin keeps the guaranteed egg off the left and right edges.
	GuaranteedMargin = 50.0
	// MaxRewardMultiplier caps how far the catalog and spoiled counts expand.
	MaxRewardMultiplier = 20.0
)

// GuaranteedScale is the scale band of the guaranteed egg. Distributed eggs
// use RewardStyle.Scale.
var GuaranteedScale = Range{Min: 0.8, Max: 1.2}

// DecorativeStyle holds the ranges decorative elements are drawn from.
type DecorativeStyle struct {
	Size     Range `toml:"size"`
	Scale    Range `toml:"scale"`
	Opacity  Range `toml:"opacity"`
	Rotation Range `toml:"rotation"`
}

// RewardStyle holds the ranges reward eggs are drawn from. Pixel size comes
// from the band matching the payload's size hint.
type RewardStyle struct {
	Scale    Range `toml:"scale"`
	Opacity  Range `toml:"opacity"`
	Rotation Range `toml:"rotation"`
	Small    Range `toml:"small"`
	Medium   Range `toml:"medium"`
	Large    Range `toml:"large"`
}

// SizeFor returns the pixel band for a size hint. Unknown hints use Medium.
func (s RewardStyle) SizeFor(h SizeHint) Range {
	switch h {
	case SizeSmall:
		return s.Small
	case SizeLarge:
		return s.Large
	default:
		return s.Medium
	}
}

// Motion holds the ranges animation parameters are drawn from.
type Motion struct {
	Duration    Range `toml:"duration"`
	Delay       Range `toml:"delay"`
	MoveRange   Range `toml:"move_range"`
	RotateRange Range `toml:"rotate_range"`
}

// Config drives one run of the layout generator.
type Config struct {
	DecorativeCount  int     `toml:"decorative_count"`
	PageHeight       float64 `toml:"page_height"`
	ViewportWidth    float64 `toml:"viewport_width"`
	RewardMultiplier float64 `toml:"reward_multiplier"`
	SpoiledCount     int     `toml:"spoiled_count"`

	// DecorativeWeights maps visual names to relative weights.
	DecorativeWeights  map[string]float64 `toml:"decorative_weights"`
	DecorativeAnimated float64            `toml:"decorative_animated"`
	RewardAnimated     float64            `toml:"reward_animated"`
	Shuffle            bool               `toml:"shuffle"`

	Decorative   DecorativeStyle    `toml:"decorative"`
	Reward       RewardStyle        `toml:"reward"`
	Motion       Motion             `toml:"motion"`
	Distribution DistributionConfig `toml:"distribution"`
}

// DefaultConfig returns the stock layout: a 100 000px page, 1 500
// decorative elements and rewards expanded by half again.
func DefaultConfig() Config {
	return Config{
		DecorativeCount:  1500,
		PageHeight:       100000,
		ViewportWidth:    1280,
		RewardMultiplier: 1.5,
		SpoiledCount:     30,
		DecorativeWeights: map[string]float64{
			string(VisualLeaf):     30,
			string(VisualPlant):    28,
			string(VisualMountain): 21,
			string(VisualWater):    12.6,
			string(VisualCloud):    5.88,
			string(VisualCircle):   2.016,
			string(VisualStar):     0.504,
		},
		DecorativeAnimated: 0.2,
		RewardAnimated:     1,
		Shuffle:            true,
		Decorative: DecorativeStyle{
			Size:     Range{Min: 5, Max: 35},
			Scale:    Range{Min: 0.2, Max: 1.4},
			Opacity:  Range{Min: 0.8, Max: 1},
			Rotation: Range{Min: 0, Max: 360},
		},
		Reward: RewardStyle{
			Scale:    Range{Min: 0.2, Max: 1.4},
			Opacity:  Range{Min: 1, Max: 1},
			Rotation: Range{Min: 0, Max: 360},
			Small:    Range{Min: 10, Max: 20},
			Medium:   Range{Min: 20, Max: 30},
			Large:    Range{Min: 30, Max: 40},
		},
		Motion: Motion{
			Duration:    Range{Min: 8, Max: 12},
			Delay:       Range{Min: -5, Max: 0},
			MoveRange:   Range{Min: 5, Max: 20},
			RotateRange: Range{Min: 3, Max: 9},
		},
		Distribution: DefaultDistribution(),
	}
}

// Normalize clamps out-of-range values instead of failing: there is no
// recovery path for a visitor if generation refuses to run.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.DecorativeCount < 0 {
		c.DecorativeCount = 0
	}
	if c.SpoiledCount < 0 {
		c.SpoiledCount = 0
	}
	if !(c.PageHeight > 0) || math.IsInf(c.PageHeight, 0) {
		c.PageHeight = def.PageHeight
	}
	if !(c.ViewportWidth > 0) || math.IsInf(c.ViewportWidth, 0) {
		c.ViewportWidth = def.ViewportWidth
	}
	switch m := c.RewardMultiplier; {
	case !finite(m):
		c.RewardMultiplier = def.RewardMultiplier
	case m < 1:
		c.RewardMultiplier = 1
	case m > MaxRewardMultiplier:
		c.RewardMultiplier = MaxRewardMultiplier
	}
	if c.DecorativeWeights == nil {
		c.DecorativeWeights = def.DecorativeWeights
	}
	c.DecorativeAnimated = clamp01(c.DecorativeAnimated)
	c.RewardAnimated = clamp01(c.RewardAnimated)

	c.Decorative.Size = positive(c.Decorative.Size, def.Decorative.Size)
	c.Decorative.Scale = c.Decorative.Scale.orDefault(def.Decorative.Scale)
	c.Decorative.Opacity = unit(c.Decorative.Opacity, def.Decorative.Opacity)
	c.Decorative.Rotation = c.Decorative.Rotation.orDefault(def.Decorative.Rotation)

	c.Reward.Scale = c.Reward.Scale.orDefault(def.Reward.Scale)
	c.Reward.Opacity = unit(c.Reward.Opacity, def.Reward.Opacity)
	c.Reward.Rotation = c.Reward.Rotation.orDefault(def.Reward.Rotation)
	c.Reward.Small = positive(c.Reward.Small, def.Reward.Small)
	c.Reward.Medium = positive(c.Reward.Medium, def.Reward.Medium)
	c.Reward.Large = positive(c.Reward.Large, def.Reward.Large)

	c.Motion.Duration = positive(c.Motion.Duration, def.Motion.Duration)
	c.Motion.Delay = c.Motion.Delay.orDefault(def.Motion.Delay)
	c.Motion.MoveRange = c.Motion.MoveRange.orDefault(def.Motion.MoveRange)
	c.Motion.RotateRange = c.Motion.RotateRange.orDefault(def.Motion.RotateRange)

	c.Distribution = c.Distribution.Normalize()
	return c
}

// DecorativeSampler builds the weighted visual distribution in canonical
// visual order. Unknown names in DecorativeWeights are ignored.
func (c Config) DecorativeSampler() *Weighted[Visual] {
	choices := make([]Choice[Visual], 0, len(DecorativeVisuals))
	for _, v := range DecorativeVisuals {
		choices = append(choices, Choice[Visual]{Value: v, Weight: c.DecorativeWeights[string(v)]})
	}
	return NewWeighted(choices)
}

// clamp01 maps NaN to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unit(r, fallback Range) Range {
	r = r.orDefault(fallback)
	return Range{Min: clamp01(r.Min), Max: clamp01(r.Max)}
}

// positive orders r and falls back when it cannot produce a value > 0.
func positive(r, fallback Range) Range {
	r = r.orDefault(fallback)
	if r.Min <= 0 {
		if r.Max <= 0 {
			return fallback
		}
		r.Min = r.Max
	}
	return r
}
