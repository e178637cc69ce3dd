package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

var glyphs = map[scene.Visual]rune{
	scene.VisualLeaf:     '♣',
	scene.VisualPlant:    'ψ',
	scene.VisualMountain: '▲',
	scene.VisualWater:    '≈',
	scene.VisualCloud:    '☁',
	scene.VisualCircle:   '●',
	scene.VisualStar:     '★',
	scene.VisualEgg:      '█',
}

// eggSingle is used when an egg fits in one cell.
const eggSingle = 'Θ'

// Glyph returns the rune an element is drawn with.
func Glyph(v scene.Visual) rune {
	if r, ok := glyphs[v]; ok {
		return r
	}
	return '·'
}

var (
	black   = colorful.Color{}
	devRing = theme.MustHex("#EF4444")
)

// shade darkens c toward black by amount in [0,1].
func shade(c theme.RGB, amount float64) theme.RGB {
	return fromColorful(c.Colorful().BlendRgb(black, amount))
}

// blend mixes fg over bg with the given opacity.
func blend(bg, fg theme.RGB, opacity float64) theme.RGB {
	if opacity >= 1 {
		return fg
	}
	if opacity <= 0 {
		return bg
	}
	return fromColorful(bg.Colorful().BlendRgb(fg.Colorful(), opacity))
}

func fromColorful(c colorful.Color) theme.RGB {
	r, g, b := c.Clamped().RGB255()
	return theme.RGB{R: r, G: g, B: b}
}
