package render

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

// FallbackMessage is drawn when a session hits an unrecoverable error.
const FallbackMessage = "Something went wrong. Please try reconnecting."

// Cell represents a single terminal cell with full RGB color.
type Cell struct {
	Ch     rune
	Fg, Bg theme.RGB
	Bold   bool
}

var sentinel = Cell{Ch: '\x00', Fg: theme.RGB{R: 255}, Bg: theme.RGB{B: 255}, Bold: true}

// Banner is the studio copy shown in the header and at the top of the page.
type Banner struct {
	Title string
	Links []string
	Intro []string
}

// DefaultBanner returns the stock studio copy.
func DefaultBanner() Banner {
	return Banner{
		Title: "@PotteryChicago Easter Egg Hunt",
		Links: []string{"thepotteryloop.com", "instagram.com/potterychicago", "potterchicago@gmail.com"},
		Intro: []string{
			"Find Hidden Easter Eggs!",
			"Open the hidden eggs to discover special discounts for pottery classes!",
			"Valid for 48 hours only.",
		},
	}
}

// Status is the HUD summary for one visitor.
type Status struct {
	Found   int
	Total   int
	DevMode bool
}

// View is everything needed to draw one frame for one visitor.
type View struct {
	Scene    *scene.Scene
	Viewport Viewport
	Offset   float64
	Pair     theme.Pair
	// Elapsed is seconds since the session started; it drives sway.
	Elapsed float64
	// CursorCol and CursorRow are content-relative.
	CursorCol, CursorRow int
	Modal                *Modal
	Status               Status
	Banner               Banner
	Failed               bool
}

// Engine is a per-session double-buffer diff renderer.
type Engine struct {
	width, height int
	current       [][]Cell
	next          [][]Cell
	firstFrame    bool
	lastFailed    bool
}

// NewEngine creates a renderer for the given terminal dimensions.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		width:      width,
		height:     height,
		firstFrame: true,
	}
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	return e
}

// Resize adjusts the renderer for a new terminal size.
func (e *Engine) Resize(width, height int) {
	e.width = width
	e.height = height
	e.current = e.makeBuffer(sentinel)
	e.next = e.makeBuffer(Cell{})
	e.firstFrame = true
}

func (e *Engine) makeBuffer(fill Cell) [][]Cell {
	buf := make([][]Cell, e.height)
	for y := 0; y < e.height; y++ {
		buf[y] = make([]Cell, e.width)
		for x := 0; x < e.width; x++ {
			buf[y][x] = fill
		}
	}
	return buf
}

// Render produces the ANSI byte output for the current frame.
func (e *Engine) Render(v View) string {
	vp := v.Viewport
	if vp.Cols != e.width || vp.Rows != e.height {
		e.Resize(vp.Cols, vp.Rows)
	}
	if v.Failed != e.lastFailed {
		e.firstFrame = true
		e.lastFailed = v.Failed
	}

	if v.Failed || v.Scene == nil {
		e.drawFallback()
		return e.flush()
	}

	e.drawGradient(v)
	e.drawIntro(v)
	e.drawElements(v)
	e.drawCursor(v)
	if v.Modal != nil {
		e.drawModal(v, *v.Modal)
	}
	e.drawHeader(v)
	e.drawHUD(v)
	return e.flush()
}

// RenderFallback draws only the error screen.
func (e *Engine) RenderFallback() string {
	if !e.lastFailed {
		e.firstFrame = true
		e.lastFailed = true
	}
	e.drawFallback()
	return e.flush()
}

// flush diffs next against current, emits only changed cells, then swaps.
func (e *Engine) flush() string {
	var sb strings.Builder
	sb.Grow(16384)

	lastRow, lastCol := -1, -1
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			nc := e.next[y][x]
			if e.firstFrame || nc != e.current[y][x] {
				// Only emit cursor position if not consecutive
				if y != lastRow || x != lastCol {
					sb.WriteString(MoveTo(y+1, x+1))
				}
				WriteCellSGR(&sb, nc)
				lastRow = y
				lastCol = x + 1
			}
		}
	}

	if sb.Len() > 0 {
		sb.WriteString(Reset)
	}

	e.current, e.next = e.next, e.current
	e.firstFrame = false

	return sb.String()
}

func (e *Engine) set(x, y int, c Cell) {
	if x >= 0 && x < e.width && y >= 0 && y < e.height {
		e.next[y][x] = c
	}
}

func (e *Engine) at(x, y int) Cell {
	if x >= 0 && x < e.width && y >= 0 && y < e.height {
		return e.next[y][x]
	}
	return Cell{}
}

// drawGradient fills the content area with a 135° blend from the primary
// color at the top left to the secondary at the bottom right.
func (e *Engine) drawGradient(v View) {
	vp := v.Viewport
	colPx, rowPx := vp.ColPx(), vp.RowPx()
	span := vp.CanvasWidth + vp.HeightPx()
	for row := 0; row < vp.ContentRows(); row++ {
		y := HeaderRows + row
		for col := 0; col < vp.Cols; col++ {
			t := ((float64(col)+0.5)*colPx + (float64(row)+0.5)*rowPx) / span
			bg := theme.Lerp(v.Pair.Primary, v.Pair.Secondary, t)
			e.set(col, y, Cell{Ch: ' ', Bg: bg})
		}
	}
}

// drawIntro writes the page heading into the first canvas rows; it scrolls
// away with the page.
func (e *Engine) drawIntro(v View) {
	vp := v.Viewport
	first := -int(math.Floor(v.Offset / vp.RowPx()))
	for i, line := range v.Banner.Intro {
		row := first + 1 + i
		if row < 0 || row >= vp.ContentRows() {
			continue
		}
		col := max(0, (vp.Cols-utf8.RuneCountInString(line))/2)
		e.writeOver(HeaderRows+row, col, vp.Cols, line, theme.RGB{}, i == 0)
	}
}

func (e *Engine) drawElements(v View) {
	vp := v.Viewport
	fg := shade(v.Pair.Primary, 0.35)
	eggFg := shade(v.Pair.Primary, 0.2)

	// Decorative elements sit under rewards regardless of collection order.
	for pass := 0; pass < 2; pass++ {
		for _, el := range v.Scene.Elements {
			if el.IsReward() != (pass == 1) {
				continue
			}
			r := vp.Footprint(el, v.Offset, v.Elapsed)
			if !vp.Visible(r) {
				continue
			}
			if el.IsReward() {
				e.drawEgg(r, eggFg, el.Placement.Opacity, v.Status.DevMode, vp)
			} else {
				e.drawGlyph(r, Glyph(el.Visual), fg, el.Placement.Opacity, vp)
			}
		}
	}
}

func (e *Engine) drawGlyph(r Rect, ch rune, fg theme.RGB, opacity float64, vp Viewport) {
	// Decorations stay one glyph wide; large ones just anchor at their center.
	col := r.Col + r.W/2
	row := r.Row + r.H/2
	if row < 0 || row >= vp.ContentRows() || col < 0 || col >= vp.Cols {
		return
	}
	y := HeaderRows + row
	under := e.at(col, y)
	e.set(col, y, Cell{Ch: ch, Fg: blend(under.Bg, fg, opacity), Bg: under.Bg})
}

func (e *Engine) drawEgg(r Rect, fg theme.RGB, opacity float64, dev bool, vp Viewport) {
	for dy := 0; dy < r.H; dy++ {
		row := r.Row + dy
		if row < 0 || row >= vp.ContentRows() {
			continue
		}
		y := HeaderRows + row
		for dx := 0; dx < r.W; dx++ {
			col := r.Col + dx
			if col < 0 || col >= vp.Cols {
				continue
			}
			under := e.at(col, y)
			ch := Glyph(scene.VisualEgg)
			switch {
			case r.W == 1 && r.H == 1:
				ch = eggSingle
			case r.H > 1 && dy == 0:
				ch = '▄'
			case r.H > 1 && dy == r.H-1:
				ch = '▀'
			}
			bg := under.Bg
			if dev {
				bg = devRing
			}
			e.set(col, y, Cell{Ch: ch, Fg: blend(under.Bg, fg, opacity), Bg: bg, Bold: true})
		}
	}
}

func (e *Engine) drawCursor(v View) {
	vp := v.Viewport
	if v.CursorRow < 0 || v.CursorRow >= vp.ContentRows() || v.CursorCol < 0 || v.CursorCol >= vp.Cols {
		return
	}
	y := HeaderRows + v.CursorRow
	c := e.at(v.CursorCol, y)
	if c.Ch == ' ' {
		c.Ch = '+'
		c.Fg = theme.RGB{}
	}
	c.Fg, c.Bg = c.Bg, c.Fg
	c.Bold = true
	e.set(v.CursorCol, y, c)
}

var (
	modalBg     = theme.RGB{R: 255, G: 255, B: 255}
	modalText   = theme.RGB{}
	modalMuted  = theme.RGB{R: 90, G: 90, B: 100}
	modalBorder = theme.RGB{R: 160, G: 110, B: 90}
	terracotta  = theme.MustHex("#C66B3D")
	confirmed   = theme.MustHex("#22C55E")
	sage        = theme.MustHex("#7D8F69")
)

func (e *Engine) drawModal(v View, m Modal) {
	vp := v.Viewport

	// Dim everything behind the dialog.
	for row := 0; row < vp.ContentRows(); row++ {
		y := HeaderRows + row
		for col := 0; col < vp.Cols; col++ {
			c := e.at(col, y)
			c.Fg = shade(c.Fg, 0.5)
			c.Bg = shade(c.Bg, 0.5)
			e.set(col, y, c)
		}
	}

	l := m.Layout(vp)
	box := l.Box
	top := HeaderRows + box.Row
	for dy := 0; dy < box.H; dy++ {
		for dx := 0; dx < box.W; dx++ {
			ch := ' '
			switch {
			case dy == 0 && dx == 0:
				ch = '╭'
			case dy == 0 && dx == box.W-1:
				ch = '╮'
			case dy == box.H-1 && dx == 0:
				ch = '╰'
			case dy == box.H-1 && dx == box.W-1:
				ch = '╯'
			case dy == 0 || dy == box.H-1:
				ch = '─'
			case dx == 0 || dx == box.W-1:
				ch = '│'
			}
			e.set(box.Col+dx, top+dy, Cell{Ch: ch, Fg: modalBorder, Bg: modalBg})
		}
	}
	right := box.Col + box.W - 1
	e.writeText(top+l.Close.Row-box.Row, l.Close.Col, right, "[x]", modalMuted, modalBg, false)

	e.writeText(top+1, box.Col+2, right-1, m.Title, modalText, modalBg, true)
	for i, line := range m.Lines {
		fg := modalText
		if i == len(m.Lines)-1 {
			fg = modalMuted
		}
		e.writeText(top+3+i, box.Col+2, right-1, line, fg, modalBg, false)
	}
	row := top + 3 + len(m.Lines) + 1
	if m.Button != "" {
		bg := terracotta
		label := m.Button
		if m.Pressed {
			bg = confirmed
			label = "✓ " + label
		}
		btn := l.Button
		for dx := 0; dx < btn.W; dx++ {
			e.set(btn.Col+dx, row, Cell{Ch: ' ', Bg: bg})
		}
		col := btn.Col + max(0, (btn.W-utf8.RuneCountInString(label))/2)
		e.writeText(row, col, btn.Col+btn.W, label, modalBg, bg, true)
		row++
	}
	if m.Link != "" && row < top+box.H-1 {
		e.writeText(row, box.Col+2, right-1, m.Link, sage, modalBg, true)
	}
}

var (
	barBg    = theme.RGB{R: 250, G: 250, B: 250}
	barText  = theme.RGB{R: 20, G: 20, B: 20}
	barMuted = theme.RGB{R: 110, G: 110, B: 120}
	hudBg    = theme.RGB{R: 15, G: 18, B: 30}
	hudText  = theme.RGB{R: 180, G: 180, B: 195}
	hudSep   = theme.RGB{R: 60, G: 65, B: 85}
	hudFound = theme.RGB{R: 100, G: 220, B: 140}
)

func (e *Engine) drawHeader(v View) {
	for x := 0; x < e.width; x++ {
		e.set(x, 0, Cell{Ch: ' ', Bg: barBg})
	}
	title := v.Banner.Title
	links := strings.Join(v.Banner.Links, "  ·  ")
	tw, lw := utf8.RuneCountInString(title), utf8.RuneCountInString(links)
	if tw+lw+4 <= e.width {
		e.writeText(0, 1, e.width, title, barText, barBg, true)
		e.writeText(0, e.width-lw-1, e.width, links, barMuted, barBg, false)
		return
	}
	e.writeText(0, max(0, (e.width-tw)/2), e.width, title, barText, barBg, true)
}

func (e *Engine) drawHUD(v View) {
	hudY := e.height - HUDRows
	if hudY < HeaderRows {
		return
	}
	for row := 0; row < HUDRows; row++ {
		for x := 0; x < e.width; x++ {
			e.set(x, hudY+row, Cell{Ch: ' ', Bg: hudBg})
		}
	}

	st := v.Status
	pct := 0
	if maxOff := v.Viewport.MaxOffset(v.Scene.Height); maxOff > 0 {
		pct = int(math.Round(100 * v.Offset / maxOff))
	}
	col := e.writeText(hudY, 1, e.width, fmt.Sprintf("Eggs found: %d/%d", st.Found, st.Total), hudFound, hudBg, true)
	col = e.writeText(hudY, col, e.width, "  │  ", hudSep, hudBg, false)
	col = e.writeText(hudY, col, e.width, fmt.Sprintf("Scrolled %d%%", pct), hudText, hudBg, false)
	if st.DevMode {
		col = e.writeText(hudY, col, e.width, "  │  ", hudSep, hudBg, false)
		e.writeText(hudY, col, e.width, "DEV", devRing, hudBg, true)
	}

	controls := "←↑↓→ Move  │  PgUp/PgDn Scroll  │  Enter Open  │  C Copy  │  Esc Close  │  Q Quit"
	if v.Modal != nil {
		controls = "Enter/C Copy code  │  Esc/X Close  │  Q Quit"
	}
	e.writeText(hudY+1, 1, e.width, controls, hudText, hudBg, false)
}

func (e *Engine) drawFallback() {
	bg := theme.RGB{R: 18, G: 18, B: 24}
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			e.next[y][x] = Cell{Ch: ' ', Bg: bg}
		}
	}
	mid := e.height / 2
	msg := FallbackMessage
	e.writeText(mid-1, max(0, (e.width-utf8.RuneCountInString(msg))/2), e.width, msg,
		theme.RGB{R: 240, G: 230, B: 200}, bg, true)
	hint := "Press Q to disconnect."
	e.writeText(mid+1, max(0, (e.width-utf8.RuneCountInString(hint))/2), e.width, hint,
		theme.RGB{R: 130, G: 130, B: 145}, bg, false)
}

// writeText writes colored text into a bounded region [col, maxCol). Returns the next column position.
func (e *Engine) writeText(row, col, maxCol int, text string, fg, bg theme.RGB, bold bool) int {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		e.set(col, row, Cell{Ch: r, Fg: fg, Bg: bg, Bold: bold})
		col++
	}
	return col
}

// writeOver writes text keeping each cell's existing background.
func (e *Engine) writeOver(row, col, maxCol int, text string, fg theme.RGB, bold bool) {
	for _, r := range text {
		if col >= maxCol || col >= e.width {
			break
		}
		e.set(col, row, Cell{Ch: r, Fg: fg, Bg: e.at(col, row).Bg, Bold: bold})
		col++
	}
}
