package hunt

import (
	"time"

	"egg-hunt/internal/render"
	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

// CopiedFor is how long the copy button shows its confirmed state.
const CopiedFor = 2 * time.Second

// scrollRows is how far one wheel notch or J/K press moves the page.
const scrollRows = 3

// Session is one visitor's page load. It is owned by the loop goroutine;
// nothing else may touch it after AddSession.
type Session struct {
	ID       string
	Username string
	Scene    scene.Scene
	Found    *FoundSet

	settings theme.Settings
	tracker  *theme.Tracker
	view     render.Viewport
	banner   render.Banner

	offset     float64
	cursorCol  int
	cursorRow  int
	present    *Presentation
	copiedAt   time.Time
	clipboard  string
	devMode    bool
	devAllowed bool
	failed     bool
	started    time.Time
	discounts  int
}

// SessionOptions are the per-visitor knobs that do not come from the scene.
type SessionOptions struct {
	Theme        theme.Settings
	Banner       render.Banner
	AllowDevMode bool
}

// NewSession starts a visitor at the top of sc with the first palette pair.
func NewSession(id, username string, sc scene.Scene, cols, rows int, opts SessionOptions, now time.Time) *Session {
	view := render.NewViewport(cols, rows, sc.Width)
	s := &Session{
		ID:         id,
		Username:   username,
		Scene:      sc,
		Found:      NewFoundSet(),
		settings:   opts.Theme,
		tracker:    theme.NewTracker(opts.Theme.Engine(view.HeightPx())),
		view:       view,
		banner:     opts.Banner,
		devAllowed: opts.AllowDevMode,
		started:    now,
	}
	for _, el := range sc.Elements {
		if el.Discount != nil {
			s.discounts++
		}
	}
	s.cursorCol = view.Cols / 2
	s.cursorRow = view.ContentRows() / 2
	return s
}

// Effect reports what an input did, for logging and metrics.
type Effect struct {
	Opened *Presentation
	Copied string
}

// Handle applies one input event.
func (s *Session) Handle(ev InputEvent, now time.Time) Effect {
	if s.failed {
		return Effect{}
	}
	if ev.Action == ActionResize {
		s.Resize(ev.Col, ev.Row)
		return Effect{}
	}
	if s.present != nil {
		return s.handleModal(ev, now)
	}

	switch ev.Action {
	case ActionUp:
		s.MoveCursor(0, -1)
	case ActionDown:
		s.MoveCursor(0, 1)
	case ActionLeft:
		s.MoveCursor(-1, 0)
	case ActionRight:
		s.MoveCursor(1, 0)
	case ActionScrollUp:
		s.ScrollBy(-scrollRows * s.view.RowPx())
	case ActionScrollDown:
		s.ScrollBy(scrollRows * s.view.RowPx())
	case ActionPageUp:
		s.ScrollBy(-s.pagePx())
	case ActionPageDown:
		s.ScrollBy(s.pagePx())
	case ActionHome:
		s.ScrollTo(0)
	case ActionEnd:
		s.ScrollTo(s.Scene.Height)
	case ActionActivate:
		return s.activateAt(s.cursorCol, s.cursorRow, now)
	case ActionClick:
		if ev.Col < 0 || ev.Col >= s.view.Cols || ev.Row < 0 || ev.Row >= s.view.ContentRows() {
			return Effect{}
		}
		s.cursorCol, s.cursorRow = ev.Col, ev.Row
		return s.activateAt(ev.Col, ev.Row, now)
	case ActionDevMode:
		if s.devAllowed {
			s.devMode = !s.devMode
		}
	}
	return Effect{}
}

func (s *Session) handleModal(ev InputEvent, now time.Time) Effect {
	switch ev.Action {
	case ActionClose:
		s.present = nil
	case ActionCopy, ActionActivate:
		if s.present.Copyable() {
			return s.copyCode(now)
		}
		if ev.Action == ActionActivate {
			s.present = nil
		}
	case ActionClick:
		l := s.present.Modal(s.CodeCopied(now)).Layout(s.view)
		switch {
		case l.Close.Contains(ev.Col, ev.Row):
			s.present = nil
		case l.Button.W > 0 && l.Button.Contains(ev.Col, ev.Row):
			return s.copyCode(now)
		case !l.Box.Contains(ev.Col, ev.Row):
			s.present = nil
		}
	}
	return Effect{}
}

func (s *Session) copyCode(now time.Time) Effect {
	s.copiedAt = now
	s.clipboard = s.present.Code
	return Effect{Copied: s.present.Code}
}

func (s *Session) activateAt(col, row int, now time.Time) Effect {
	el, ok := s.HitTest(col, row, now)
	if !ok {
		return Effect{}
	}
	p, ok := Activate(el, s.Found)
	if !ok {
		return Effect{}
	}
	s.present = &p
	s.copiedAt = time.Time{}
	return Effect{Opened: &p}
}

// HitTest returns the topmost reward covering a content cell at now.
// Rewards are drawn after decorations in collection order, so the last
// match wins.
func (s *Session) HitTest(col, row int, now time.Time) (scene.Element, bool) {
	t := s.elapsed(now)
	for i := len(s.Scene.Elements) - 1; i >= 0; i-- {
		el := s.Scene.Elements[i]
		if !el.IsReward() {
			continue
		}
		if s.view.Footprint(el, s.offset, t).Contains(col, row) {
			return el, true
		}
	}
	return scene.Element{}, false
}

// MoveCursor shifts the cursor; stepping past the top or bottom row scrolls.
func (s *Session) MoveCursor(dc, dr int) {
	col, row := s.cursorCol+dc, s.cursorRow+dr
	if row < 0 {
		s.ScrollBy(float64(row) * s.view.RowPx())
	} else if last := s.view.ContentRows() - 1; row > last {
		s.ScrollBy(float64(row-last) * s.view.RowPx())
	}
	s.cursorCol, s.cursorRow = s.clampCursor(col, row)
}

func (s *Session) clampCursor(col, row int) (int, int) {
	return min(max(col, 0), s.view.Cols-1), min(max(row, 0), s.view.ContentRows()-1)
}

// ScrollBy moves the page by px, clamped to the canvas.
func (s *Session) ScrollBy(px float64) {
	s.ScrollTo(s.offset + px)
}

// ScrollTo jumps to offset, clamped to the canvas.
func (s *Session) ScrollTo(offset float64) {
	s.offset = s.view.ClampOffset(offset, s.Scene.Height)
}

func (s *Session) pagePx() float64 {
	return s.view.HeightPx() * 0.9
}

// Offset returns the scroll position in canvas pixels.
func (s *Session) Offset() float64 { return s.offset }

// Cursor returns the content-relative cursor cell.
func (s *Session) Cursor() (int, int) { return s.cursorCol, s.cursorRow }

// Presentation returns the open dialog, if any.
func (s *Session) Presentation() *Presentation { return s.present }

// DevMode reports whether reward outlines are shown.
func (s *Session) DevMode() bool { return s.devMode }

// Resize adapts to a new terminal size and rebuilds the theme engine,
// whose sections are measured in screen heights.
func (s *Session) Resize(cols, rows int) {
	s.view = render.NewViewport(cols, rows, s.Scene.Width)
	s.tracker.SetEngine(s.settings.Engine(s.view.HeightPx()))
	s.offset = s.view.ClampOffset(s.offset, s.Scene.Height)
	s.cursorCol, s.cursorRow = s.clampCursor(s.cursorCol, s.cursorRow)
}

// CodeCopied reports whether the copy confirmation is still showing.
func (s *Session) CodeCopied(now time.Time) bool {
	return !s.copiedAt.IsZero() && now.Sub(s.copiedAt) < CopiedFor
}

// Fail switches the session to the static error screen for good.
func (s *Session) Fail() {
	s.failed = true
	s.present = nil
}

// Failed reports whether Fail was called.
func (s *Session) Failed() bool { return s.failed }

func (s *Session) elapsed(now time.Time) float64 {
	return now.Sub(s.started).Seconds()
}

// Frame updates the theme for the current offset and captures everything the
// renderer needs, including any clipboard payload not yet delivered.
func (s *Session) Frame(now time.Time) Frame {
	s.tracker.Update(s.offset)
	f := Frame{
		View: render.View{
			Scene:     &s.Scene,
			Viewport:  s.view,
			Offset:    s.offset,
			Pair:      s.tracker.Current(),
			Elapsed:   s.elapsed(now),
			CursorCol: s.cursorCol,
			CursorRow: s.cursorRow,
			Status: render.Status{
				Found:   s.Found.Len(),
				Total:   s.discounts,
				DevMode: s.devMode,
			},
			Banner: s.banner,
			Failed: s.failed,
		},
		Clipboard: s.clipboard,
	}
	if s.present != nil {
		m := s.present.Modal(s.CodeCopied(now))
		f.View.Modal = &m
	}
	return f
}

// delivered clears the clipboard payload once a frame carrying it was sent.
func (s *Session) delivered(f Frame) {
	if f.Clipboard != "" && f.Clipboard == s.clipboard {
		s.clipboard = ""
	}
}
