package theme

import "math"

// Engine maps a scroll offset in pixels to a Pair.
//
// Below BufferPx the first pair is shown unchanged. Past it the page is cut
// into sections of SectionPx; inside section i the pair blends from
// palette[i] to palette[i+1], wrapping at the end of the palette.
type Engine struct {
	Palette   Palette
	BufferPx  float64
	SectionPx float64
}

// At returns the pair for offset. It is pure: the same offset always yields
// the same pair.
func (e Engine) At(offset float64) Pair {
	pal := e.Palette.Normalize()
	if !finite(offset) || !finite(e.BufferPx) || !finite(e.SectionPx) ||
		offset < e.BufferPx || len(pal) == 1 || e.SectionPx <= 0 {
		return pal[0]
	}
	adjusted := offset - e.BufferPx
	n := len(pal)
	section := math.Floor(adjusted / e.SectionPx)
	i := int(math.Mod(section, float64(n)))
	if i < 0 || i >= n {
		i = 0
	}
	progress := math.Mod(adjusted, e.SectionPx) / e.SectionPx
	return LerpPair(pal[i], pal[(i+1)%n], progress)
}

// Settings sizes the engine in viewport heights so it scales with the
// visitor's window.
type Settings struct {
	BufferViewports  float64 `toml:"buffer_viewports"`
	SectionViewports float64 `toml:"section_viewports"`
	Palette          Palette `toml:"palette"`
}

// DefaultSettings holds the first pair for six viewports, then spends thirty
// viewports on each transition.
func DefaultSettings() Settings {
	return Settings{
		BufferViewports:  6,
		SectionViewports: 30,
		Palette:          DefaultPalette(),
	}
}

// Normalize fills in defaults for missing or negative values.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if !finite(s.BufferViewports) {
		s.BufferViewports = def.BufferViewports
	}
	if s.BufferViewports < 0 {
		s.BufferViewports = 0
	}
	if !(s.SectionViewports > 0) || math.IsInf(s.SectionViewports, 0) {
		s.SectionViewports = def.SectionViewports
	}
	s.Palette = s.Palette.Normalize()
	return s
}

// Engine builds an engine for a viewport viewportPx pixels tall.
func (s Settings) Engine(viewportPx float64) Engine {
	s = s.Normalize()
	if !(viewportPx > 0) || math.IsInf(viewportPx, 0) {
		viewportPx = 1
	}
	return Engine{
		Palette:   s.Palette,
		BufferPx:  s.BufferViewports * viewportPx,
		SectionPx: s.SectionViewports * viewportPx,
	}
}

// Tracker caches the pair for the last offset seen. The hunt loop calls
// Update once per frame, which throttles recomputation to the frame rate.
type Tracker struct {
	engine  Engine
	offset  float64
	current Pair
}

// NewTracker starts at offset 0.
func NewTracker(e Engine) *Tracker {
	return &Tracker{engine: e, current: e.At(0)}
}

// Current returns the cached pair.
func (t *Tracker) Current() Pair { return t.current }

// Update recomputes the pair if offset moved and reports whether it changed.
func (t *Tracker) Update(offset float64) bool {
	if offset == t.offset {
		return false
	}
	t.offset = offset
	next := t.engine.At(offset)
	changed := next != t.current
	t.current = next
	return changed
}

// SetEngine swaps the engine, e.g. after a resize, and recomputes.
func (t *Tracker) SetEngine(e Engine) bool {
	t.engine = e
	next := e.At(t.offset)
	changed := next != t.current
	t.current = next
	return changed
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
