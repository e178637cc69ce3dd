package render

import (
	"math"

	"github.com/tanema/gween/ease"

	"egg-hunt/internal/scene"
)

// swayEase shapes every keyframe segment.
var swayEase ease.TweenFunc = ease.InOutQuad

// Sway returns the pixel displacement of an animated element t seconds into
// the session. Over one cycle y goes 0 → −move → 0 while x goes
// −move/2 → move/2 → −move/2. A negative delay starts the cycle partway
// through; a positive one holds the first keyframe until it elapses.
func Sway(a *scene.Animation, t float64) (dx, dy float64) {
	if a == nil {
		return 0, 0
	}
	m := a.MoveRangePx
	local := t - a.DelaySec
	if a.DurationSec <= 0 || local < 0 {
		return -m / 2, 0
	}
	phase := math.Mod(local, a.DurationSec) / a.DurationSec
	if phase < 0.5 {
		u := float32(phase * 2)
		dx = float64(swayEase(u, float32(-m/2), float32(m), 1))
		dy = float64(swayEase(u, 0, float32(-m), 1))
	} else {
		u := float32((phase - 0.5) * 2)
		dx = float64(swayEase(u, float32(m/2), float32(-m), 1))
		dy = float64(swayEase(u, float32(-m), float32(m), 1))
	}
	return dx, dy
}
