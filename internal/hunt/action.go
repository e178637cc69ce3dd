package hunt

// Action is a visitor input the loop understands.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionScrollUp
	ActionScrollDown
	ActionPageUp
	ActionPageDown
	ActionHome
	ActionEnd
	ActionActivate
	ActionClick
	ActionCopy
	ActionClose
	ActionDevMode
	ActionResize
	ActionQuit
)

var actionNames = [...]string{
	"none", "up", "down", "left", "right", "scroll-up", "scroll-down",
	"page-up", "page-down", "home", "end", "activate", "click", "copy",
	"close", "dev-mode", "resize", "quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// InputEvent carries a visitor action into the loop. Col and Row hold the
// content cell for ActionClick and the new terminal size for ActionResize.
type InputEvent struct {
	SessionID string
	Action    Action
	Col, Row  int
}
