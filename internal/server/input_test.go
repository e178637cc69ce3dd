package server

import (
	"testing"

	"egg-hunt/internal/hunt"
	"egg-hunt/internal/render"
)

func actions(evs []hunt.InputEvent) []hunt.Action {
	out := make([]hunt.Action, len(evs))
	for i, ev := range evs {
		out[i] = ev.Action
	}
	return out
}

func TestParseInputKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []hunt.Action
	}{
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", []hunt.Action{hunt.ActionUp, hunt.ActionDown, hunt.ActionRight, hunt.ActionLeft}},
		{"wasd", "wAsD", []hunt.Action{hunt.ActionUp, hunt.ActionLeft, hunt.ActionDown, hunt.ActionRight}},
		{"paging", "\x1b[5~\x1b[6~ ", []hunt.Action{hunt.ActionPageUp, hunt.ActionPageDown, hunt.ActionPageDown}},
		{"home end", "\x1b[H\x1b[F\x1b[1~\x1b[4~\x1bOH", []hunt.Action{hunt.ActionHome, hunt.ActionEnd, hunt.ActionHome, hunt.ActionEnd, hunt.ActionHome}},
		{"vi scroll", "jkgG", []hunt.Action{hunt.ActionScrollDown, hunt.ActionScrollUp, hunt.ActionHome, hunt.ActionEnd}},
		{"dialog keys", "\rcx\x1b", []hunt.Action{hunt.ActionActivate, hunt.ActionCopy, hunt.ActionClose, hunt.ActionClose}},
		{"dev mode", "`", []hunt.Action{hunt.ActionDevMode}},
		{"quit", "q\x03", []hunt.Action{hunt.ActionQuit, hunt.ActionQuit}},
		{"unknown csi", "\x1b[2~z", []hunt.Action{}},
		{"truncated csi", "\x1b[", []hunt.Action{hunt.ActionClose}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := actions(parseInput([]byte(tt.in)))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseInputMouse(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   hunt.Action
		col    int
		row    int
		ignore bool
	}{
		{name: "left press", in: "\x1b[<0;11;6M", want: hunt.ActionClick, col: 10, row: 5 - render.HeaderRows},
		{name: "ctrl click", in: "\x1b[<16;1;3M", want: hunt.ActionClick, col: 0, row: 2 - render.HeaderRows},
		{name: "wheel up", in: "\x1b[<64;5;5M", want: hunt.ActionScrollUp},
		{name: "wheel down", in: "\x1b[<65;5;5M", want: hunt.ActionScrollDown},
		{name: "release", in: "\x1b[<0;11;6m", ignore: true},
		{name: "right button", in: "\x1b[<2;11;6M", ignore: true},
		{name: "drag", in: "\x1b[<32;11;6M", ignore: true},
		{name: "header row", in: "\x1b[<0;11;1M", ignore: true},
		{name: "garbage", in: "\x1b[<0;x;6M", ignore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs := parseInput([]byte(tt.in))
			if tt.ignore {
				if len(evs) != 0 {
					t.Fatalf("expected no events, got %v", actions(evs))
				}
				return
			}
			if len(evs) != 1 {
				t.Fatalf("expected one event, got %v", actions(evs))
			}
			ev := evs[0]
			if ev.Action != tt.want {
				t.Errorf("action %s, want %s", ev.Action, tt.want)
			}
			if tt.want == hunt.ActionClick && (ev.Col != tt.col || ev.Row != tt.row) {
				t.Errorf("cell (%d,%d), want (%d,%d)", ev.Col, ev.Row, tt.col, tt.row)
			}
		})
	}
}

func TestParseInputMixed(t *testing.T) {
	evs := parseInput([]byte("j\x1b[<0;3;4Mc"))
	got := actions(evs)
	want := []hunt.Action{hunt.ActionScrollDown, hunt.ActionClick, hunt.ActionCopy}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSafeRenderFailedView(t *testing.T) {
	e := render.NewEngine(60, 10)
	out, err := safeRender(e, render.View{Viewport: render.NewViewport(60, 10, 1280), Failed: true})
	if err != nil {
		t.Fatal(err)
	}
	if out == "" {
		t.Error("expected the fallback screen to be drawn")
	}
}
