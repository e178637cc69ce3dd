package server

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"egg-hunt/internal/hunt"
	"egg-hunt/internal/render"
)

const esc = 0x1b

// parseInput converts raw bytes into visitor events.
// Handles arrows, paging keys, SGR mouse reports and the single-key
// commands. Mouse rows are made content-relative; clicks on the header are
// dropped.
func parseInput(data []byte) []hunt.InputEvent {
	var events []hunt.InputEvent
	add := func(a hunt.Action) {
		events = append(events, hunt.InputEvent{Action: a})
	}

	i := 0
	for i < len(data) {
		if data[i] == esc {
			if i+1 < len(data) && (data[i+1] == '[' || data[i+1] == 'O') {
				params, final, next, ok := readCSI(data, i+2)
				if ok {
					if data[i+1] == '[' && strings.HasPrefix(params, "<") {
						if ev, ok := parseMouse(params[1:], final); ok {
							events = append(events, ev)
						}
					} else if a := csiAction(params, final); a != hunt.ActionNone {
						add(a)
					}
					i = next
					continue
				}
			}
			// A lone escape closes the dialog.
			add(hunt.ActionClose)
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			add(hunt.ActionUp)
		case 's', 'S':
			add(hunt.ActionDown)
		case 'a', 'A':
			add(hunt.ActionLeft)
		case 'd', 'D':
			add(hunt.ActionRight)
		case 'j', 'J':
			add(hunt.ActionScrollDown)
		case 'k', 'K':
			add(hunt.ActionScrollUp)
		case ' ':
			add(hunt.ActionPageDown)
		case 'g':
			add(hunt.ActionHome)
		case 'G':
			add(hunt.ActionEnd)
		case '\r', '\n':
			add(hunt.ActionActivate)
		case 'c', 'C':
			add(hunt.ActionCopy)
		case 'x', 'X':
			add(hunt.ActionClose)
		case '`':
			add(hunt.ActionDevMode)
		case 'q', 'Q':
			add(hunt.ActionQuit)
		case 3: // Ctrl-C
			add(hunt.ActionQuit)
		}
		i += size
	}
	return events
}

// readCSI scans parameter bytes from i up to the final byte.
func readCSI(data []byte, i int) (params string, final byte, next int, ok bool) {
	start := i
	for i < len(data) {
		b := data[i]
		if b >= 0x40 && b <= 0x7e {
			return string(data[start:i]), b, i + 1, true
		}
		if b < 0x20 {
			return "", 0, i, false
		}
		i++
	}
	return "", 0, i, false
}

func csiAction(params string, final byte) hunt.Action {
	switch final {
	case 'A':
		return hunt.ActionUp
	case 'B':
		return hunt.ActionDown
	case 'C':
		return hunt.ActionRight
	case 'D':
		return hunt.ActionLeft
	case 'H':
		return hunt.ActionHome
	case 'F':
		return hunt.ActionEnd
	case '~':
		switch params {
		case "1", "7":
			return hunt.ActionHome
		case "4", "8":
			return hunt.ActionEnd
		case "5":
			return hunt.ActionPageUp
		case "6":
			return hunt.ActionPageDown
		}
	}
	return hunt.ActionNone
}

// parseMouse decodes an SGR report "b;x;y" with final 'M' (press) or 'm'
// (release). Only left presses and the wheel are used.
func parseMouse(params string, final byte) (hunt.InputEvent, bool) {
	parts := strings.Split(params, ";")
	if len(parts) != 3 {
		return hunt.InputEvent{}, false
	}
	b, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || final != 'M' {
		return hunt.InputEvent{}, false
	}

	switch {
	case b == 64:
		return hunt.InputEvent{Action: hunt.ActionScrollUp}, true
	case b == 65:
		return hunt.InputEvent{Action: hunt.ActionScrollDown}, true
	case b&0b11100011 == 0: // left button, any modifier, no motion
		row := y - 1 - render.HeaderRows
		if row < 0 {
			return hunt.InputEvent{}, false
		}
		return hunt.InputEvent{Action: hunt.ActionClick, Col: x - 1, Row: row}, true
	}
	return hunt.InputEvent{}, false
}
