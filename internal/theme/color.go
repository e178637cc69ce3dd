// Package theme maps a scroll offset to the background color pair shown
// behind the hunt.
package theme

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ParseHex reads "#rgb" or "#rrggbb". The leading '#' is optional.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGB{}, fmt.Errorf("parse color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustHex is ParseHex for literals; it panics on malformed input.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as upper-case "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// MarshalText encodes the color as hex so JSON and TOML carry "#RRGGBB".
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts anything ParseHex does.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Colorful converts to a go-colorful value for blending.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Lerp blends a toward b by p in [0,1] channel by channel. Results round to
// nearest with halves going down, so a 50% black/white blend is #7F7F7F.
func Lerp(a, b RGB, p float64) RGB {
	if p <= 0 {
		return a
	}
	if p >= 1 {
		return b
	}
	return RGB{
		R: lerpChannel(a.R, b.R, p),
		G: lerpChannel(a.G, b.G, p),
		B: lerpChannel(a.B, b.B, p),
	}
}

func lerpChannel(a, b uint8, p float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*p
	v = math.Ceil(v - 0.5)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
