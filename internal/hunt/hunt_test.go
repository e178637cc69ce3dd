package hunt

import (
	"testing"
	"time"

	"egg-hunt/internal/render"
	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

var t0 = time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)

// testScene is a 1000px wide canvas. With a 100×23 terminal each column is
// 10px and each row 20px, so egg A covers content cells (50..51, 10).
func testScene() scene.Scene {
	return scene.Scene{
		Width:  1000,
		Height: 5000,
		Elements: []scene.Element{
			{ID: "decor-0", Kind: scene.KindDecorative, Visual: scene.VisualLeaf,
				Placement: scene.Placement{Top: 200, Left: 500, SizePx: 20, Scale: 1, Opacity: 1}},
			{ID: "egg-A", Kind: scene.KindReward, Visual: scene.VisualEgg,
				Discount:  &scene.DiscountPayload{Code: "A", DisplayValue: "$5 off", Rarity: scene.RarityRare},
				Placement: scene.Placement{Top: 200, Left: 500, SizePx: 20, Scale: 1, Opacity: 1}},
			{ID: "spoiled-0", Kind: scene.KindReward, Visual: scene.VisualEgg,
				Spoiled:   &scene.SpoiledPayload{Message: scene.DefaultSpoiledMessage},
				Placement: scene.Placement{Top: 600, Left: 100, SizePx: 20, Scale: 1, Opacity: 1}},
		},
	}
}

func newTestSession() *Session {
	return NewSession("s1", "visitor", testScene(), 100, 23, SessionOptions{
		Theme:  theme.DefaultSettings(),
		Banner: render.DefaultBanner(),
	}, t0)
}

func TestFoundSet(t *testing.T) {
	f := NewFoundSet()
	if !f.Mark("B") || !f.Mark("A") {
		t.Fatal("first marks should be new")
	}
	if f.Mark("B") || f.Mark("") {
		t.Error("repeat or empty code reported as new")
	}
	if f.Len() != 2 || !f.Has("A") || f.Has("C") {
		t.Errorf("unexpected contents: %v", f.Codes())
	}
	if got := f.Codes(); got[0] != "B" || got[1] != "A" {
		t.Errorf("codes not in discovery order: %v", got)
	}
}

func TestActivateSameCodeTwice(t *testing.T) {
	found := NewFoundSet()
	egg := testScene().Elements[1]

	p, ok := Activate(egg, found)
	if !ok || p.Kind != PresentDiscount || p.Code != "A" {
		t.Fatalf("unexpected presentation %+v", p)
	}
	if found.Len() != 1 {
		t.Fatalf("expected 1 code, got %d", found.Len())
	}

	if _, ok := Activate(egg, found); !ok {
		t.Fatal("second activation should still present")
	}
	if found.Len() != 1 {
		t.Errorf("set grew on repeat activation: %v", found.Codes())
	}
}

func TestActivateSpoiledAndDecorative(t *testing.T) {
	found := NewFoundSet()
	sc := testScene()

	p, ok := Activate(sc.Elements[2], found)
	if !ok || p.Kind != PresentSpoiled || p.Title != "Oops!" || p.Copyable() {
		t.Errorf("spoiled presentation wrong: %+v", p)
	}
	if _, ok := Activate(sc.Elements[0], found); ok {
		t.Error("decorative element should not activate")
	}
	if found.Len() != 0 {
		t.Errorf("found set changed: %v", found.Codes())
	}
}

func TestPresentationModal(t *testing.T) {
	p, _ := Activate(testScene().Elements[1], NewFoundSet())
	m := p.Modal(false)
	if m.Button != "Copy Code" || m.Pressed {
		t.Errorf("button %q pressed=%v", m.Button, m.Pressed)
	}
	if m.Link != "Book Class: "+scene.DefaultRedemptionLink {
		t.Errorf("link %q", m.Link)
	}
	if m := p.Modal(true); m.Button != "Code Copied" || !m.Pressed {
		t.Errorf("copied state not shown: %+v", m)
	}
}

func TestSessionClickOpensEgg(t *testing.T) {
	s := newTestSession()

	eff := s.Handle(InputEvent{Action: ActionClick, Col: 51, Row: 10}, t0)
	if eff.Opened == nil || eff.Opened.Code != "A" {
		t.Fatalf("click should open egg A, got %+v", eff)
	}
	if s.Presentation() == nil || !s.Found.Has("A") {
		t.Fatal("presentation not open or code not found")
	}

	s.Handle(InputEvent{Action: ActionClose}, t0)
	if s.Presentation() != nil {
		t.Fatal("close should dismiss the dialog")
	}

	s.Handle(InputEvent{Action: ActionClick, Col: 50, Row: 10}, t0)
	if s.Found.Len() != 1 {
		t.Errorf("found set should still hold one code, got %v", s.Found.Codes())
	}
}

func TestSessionMissDoesNothing(t *testing.T) {
	s := newTestSession()
	eff := s.Handle(InputEvent{Action: ActionClick, Col: 5, Row: 2}, t0)
	if eff.Opened != nil || s.Presentation() != nil {
		t.Errorf("click on empty canvas opened %+v", eff.Opened)
	}
	if c, r := s.Cursor(); c != 5 || r != 2 {
		t.Errorf("cursor should follow the click, at (%d,%d)", c, r)
	}
}

func TestSessionClickOutsideModalCloses(t *testing.T) {
	s := newTestSession()
	s.Handle(InputEvent{Action: ActionClick, Col: 50, Row: 10}, t0)
	s.Handle(InputEvent{Action: ActionClick, Col: 0, Row: 0}, t0)
	if s.Presentation() != nil {
		t.Error("click outside the dialog should close it")
	}
}

func TestSessionCopyCode(t *testing.T) {
	s := newTestSession()
	s.Handle(InputEvent{Action: ActionClick, Col: 50, Row: 10}, t0)

	eff := s.Handle(InputEvent{Action: ActionCopy}, t0)
	if eff.Copied != "A" {
		t.Fatalf("copy effect %+v", eff)
	}
	if !s.CodeCopied(t0.Add(time.Second)) {
		t.Error("confirmation should show for 2s")
	}
	if s.CodeCopied(t0.Add(CopiedFor)) {
		t.Error("confirmation should reset after 2s")
	}

	f := s.Frame(t0)
	if f.Clipboard != "A" || f.View.Modal == nil || !f.View.Modal.Pressed {
		t.Fatalf("frame should carry clipboard and pressed button: %+v", f)
	}
	s.delivered(f)
	if f := s.Frame(t0); f.Clipboard != "" {
		t.Errorf("clipboard delivered twice")
	}
}

func TestSessionSpoiledHasNoCopy(t *testing.T) {
	s := newTestSession()
	s.ScrollTo(400) // spoiled egg now at row 10
	eff := s.Handle(InputEvent{Action: ActionClick, Col: 10, Row: 10}, t0)
	if eff.Opened == nil || eff.Opened.Kind != PresentSpoiled {
		t.Fatalf("expected spoiled egg, got %+v", eff)
	}
	if eff := s.Handle(InputEvent{Action: ActionCopy}, t0); eff.Copied != "" {
		t.Error("spoiled eggs have nothing to copy")
	}
	s.Handle(InputEvent{Action: ActionActivate}, t0)
	if s.Presentation() != nil {
		t.Error("enter on a spoiled dialog should close it")
	}
}

func TestSessionScrolling(t *testing.T) {
	s := newTestSession()
	tests := []struct {
		action Action
		want   float64
	}{
		{ActionPageUp, 0},
		{ActionScrollDown, 60},
		{ActionPageDown, 60 + 360},
		{ActionEnd, 5000 - 400},
		{ActionScrollDown, 5000 - 400},
		{ActionHome, 0},
	}
	for _, tt := range tests {
		s.Handle(InputEvent{Action: tt.action}, t0)
		if got := s.Offset(); got != tt.want {
			t.Errorf("after %s: offset %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestSessionCursorScrollsAtEdges(t *testing.T) {
	s := newTestSession()
	for i := 0; i < 15; i++ {
		s.Handle(InputEvent{Action: ActionDown}, t0)
	}
	if _, row := s.Cursor(); row != 19 {
		t.Errorf("cursor row %d, want last row", row)
	}
	// Nine steps reach the last row; the remaining six scroll.
	if got := s.Offset(); got != 120 {
		t.Errorf("offset %v, want 6 rows scrolled", got)
	}

	for i := 0; i < 200; i++ {
		s.Handle(InputEvent{Action: ActionLeft}, t0)
	}
	if col, _ := s.Cursor(); col != 0 {
		t.Errorf("cursor col %d", col)
	}
}

func TestSessionEnterAtCursor(t *testing.T) {
	s := newTestSession()
	s.Handle(InputEvent{Action: ActionClick, Col: 0, Row: 0}, t0)
	for i := 0; i < 50; i++ {
		s.Handle(InputEvent{Action: ActionRight}, t0)
	}
	for i := 0; i < 10; i++ {
		s.Handle(InputEvent{Action: ActionDown}, t0)
	}
	eff := s.Handle(InputEvent{Action: ActionActivate}, t0)
	if eff.Opened == nil || eff.Opened.Code != "A" {
		t.Errorf("enter at (50,10) should open egg A, got %+v", eff)
	}
}

func TestFrameTracksTheme(t *testing.T) {
	black, white := theme.RGB{}, theme.RGB{R: 255, G: 255, B: 255}
	s := NewSession("s1", "v", testScene(), 100, 23, SessionOptions{
		Theme: theme.Settings{
			BufferViewports:  0,
			SectionViewports: 1,
			Palette:          theme.Palette{{Primary: black, Secondary: black}, {Primary: white, Secondary: white}},
		},
	}, t0)

	if got := s.Frame(t0).View.Pair.Primary; got != black {
		t.Fatalf("first frame should use the first pair, got %s", got)
	}
	s.ScrollTo(200)
	if got := s.Frame(t0).View.Pair.Primary.Hex(); got != "#7F7F7F" {
		t.Errorf("halfway through the first section: %s", got)
	}
}

func TestSessionResize(t *testing.T) {
	s := newTestSession()
	s.Handle(InputEvent{Action: ActionEnd}, t0)
	s.Handle(InputEvent{Action: ActionResize, Col: 50, Row: 43}, t0)

	// 50 columns → 20px per col, 40px per row, 40 content rows = 1600px.
	if got := s.Offset(); got != 5000-1600 {
		t.Errorf("offset not re-clamped: %v", got)
	}
	if col, row := s.Cursor(); col >= 50 || row >= 40 {
		t.Errorf("cursor outside new view: (%d,%d)", col, row)
	}
}

func TestDevModeNeedsPermission(t *testing.T) {
	s := newTestSession()
	s.Handle(InputEvent{Action: ActionDevMode}, t0)
	if s.DevMode() {
		t.Error("dev mode toggled without permission")
	}

	s = NewSession("s2", "v", testScene(), 100, 23, SessionOptions{AllowDevMode: true}, t0)
	s.Handle(InputEvent{Action: ActionDevMode}, t0)
	if !s.DevMode() || !s.Frame(t0).View.Status.DevMode {
		t.Error("dev mode should toggle on")
	}
}

func TestLoopDeliversFrames(t *testing.T) {
	l := NewLoop(nil, nil)
	l.now = func() time.Time { return t0 }
	s := newTestSession()
	frames := l.AddSession(s)

	l.InputChan() <- InputEvent{SessionID: "s1", Action: ActionClick, Col: 50, Row: 10}
	l.InputChan() <- InputEvent{SessionID: "nobody", Action: ActionClick, Col: 50, Row: 10}
	l.tick()

	select {
	case f := <-frames:
		if f.Tick != 1 {
			t.Errorf("tick %d", f.Tick)
		}
		if f.View.Modal == nil || f.View.Status.Found != 1 || f.View.Status.Total != 1 {
			t.Errorf("frame does not reflect the opened egg: %+v", f.View.Status)
		}
	default:
		t.Fatal("no frame delivered")
	}

	if l.Len() != 1 {
		t.Errorf("sessions %d", l.Len())
	}
	l.RemoveSession("s1")
	if _, ok := <-frames; ok {
		t.Error("frame channel should be closed")
	}
	l.RemoveSession("s1")
}

func TestLoopDropsFramesForSlowClients(t *testing.T) {
	l := NewLoop(nil, nil)
	l.now = func() time.Time { return t0 }
	frames := l.AddSession(newTestSession())
	for i := 0; i < frameChanSize+3; i++ {
		l.tick()
	}
	if len(frames) != frameChanSize {
		t.Errorf("buffered %d frames", len(frames))
	}
}

func TestLoopRecoversFromSessionPanic(t *testing.T) {
	l := NewLoop(nil, nil)
	l.now = func() time.Time { return t0 }
	s := newTestSession()
	s.Found = nil // activating an egg now panics
	frames := l.AddSession(s)

	l.InputChan() <- InputEvent{SessionID: "s1", Action: ActionClick, Col: 50, Row: 10}
	l.tick()

	if !s.Failed() {
		t.Fatal("session should be marked failed")
	}
	f := <-frames
	if !f.View.Failed {
		t.Error("failed session should receive the fallback frame")
	}

	// Further input is ignored and the loop keeps running.
	l.InputChan() <- InputEvent{SessionID: "s1", Action: ActionDown}
	l.tick()
	if f := <-frames; !f.View.Failed {
		t.Error("session recovered unexpectedly")
	}
}

func TestActionString(t *testing.T) {
	if ActionPageDown.String() != "page-down" || Action(99).String() != "unknown" {
		t.Errorf("names: %s %s", ActionPageDown, Action(99))
	}
}

func TestSessionClickBelowContentIgnored(t *testing.T) {
	s := newTestSession()
	s.ScrollTo(200) // egg A sits on row 0, spoiled egg on row 20
	if eff := s.Handle(InputEvent{Action: ActionClick, Col: 10, Row: 20}, t0); eff.Opened != nil {
		t.Errorf("click on the status bar opened %+v", eff.Opened)
	}
	if c, r := s.Cursor(); c != 50 || r != 10 {
		t.Errorf("cursor moved to (%d,%d)", c, r)
	}
}
