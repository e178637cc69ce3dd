package hunt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"egg-hunt/internal/metrics"
	"egg-hunt/internal/render"
)

const (
	TickRate      = 20 // ticks per second
	InputChanSize = 256
	frameChanSize = 2
)

// Frame is a snapshot sent to one session for rendering.
type Frame struct {
	View      render.View
	Clipboard string
	Tick      uint64
}

// FrameChan is the per-session channel that receives frames.
type FrameChan chan Frame

// Loop is the single goroutine that owns every session. Input arrives on a
// shared channel; on each tick the loop applies it and fans out frames.
type Loop struct {
	inputCh   chan InputEvent
	tickCount uint64

	mu       sync.RWMutex
	sessions map[string]*Session
	frames   map[string]FrameChan

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLoop creates a loop. A nil logger uses slog.Default; m may be nil.
func NewLoop(logger *slog.Logger, m *metrics.Metrics) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		inputCh:  make(chan InputEvent, InputChanSize),
		sessions: make(map[string]*Session),
		frames:   make(map[string]FrameChan),
		logger:   logger.With("component", "loop"),
		metrics:  m,
		now:      time.Now,
	}
}

// InputChan returns the shared input channel for sessions to send events.
func (l *Loop) InputChan() chan<- InputEvent {
	return l.inputCh
}

// AddSession hands s to the loop and returns its frame channel.
func (l *Loop) AddSession(s *Session) FrameChan {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(FrameChan, frameChanSize)
	l.sessions[s.ID] = s
	l.frames[s.ID] = ch
	l.metrics.SessionOpened()
	return ch
}

// RemoveSession unregisters a session and closes its frame channel.
func (l *Loop) RemoveSession(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sessions[id]; ok {
		delete(l.sessions, id)
		l.metrics.SessionClosed()
	}
	if ch, ok := l.frames[id]; ok {
		close(ch)
		delete(l.frames, id)
	}
}

// Len returns the number of connected sessions.
func (l *Loop) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.tick()
		}
	}
}

func (l *Loop) tick() {
	now := l.now()

	// Drain all pending input events
	for {
		select {
		case ev := <-l.inputCh:
			l.processInput(ev, now)
		default:
			goto drained
		}
	}
drained:

	l.tickCount++

	l.mu.RLock()
	defer l.mu.RUnlock()
	for id, s := range l.sessions {
		f := l.frame(s, now)
		f.Tick = l.tickCount

		// Non-blocking send; a slow client just misses this frame.
		select {
		case l.frames[id] <- f:
			s.delivered(f)
		default:
		}
	}
}

func (l *Loop) processInput(ev InputEvent, now time.Time) {
	l.mu.RLock()
	s, ok := l.sessions[ev.SessionID]
	l.mu.RUnlock()
	if !ok {
		return
	}

	var effect Effect
	err := l.guard(s, func() {
		effect = s.Handle(ev, now)
	})
	if err != nil {
		return
	}

	if p := effect.Opened; p != nil {
		l.metrics.RewardActivated(string(p.Kind), string(p.Rarity))
		l.logger.Info("egg opened",
			"session", s.ID,
			"kind", p.Kind,
			"code", p.Code,
			"found", s.Found.Len(),
		)
	}
	if effect.Copied != "" {
		l.metrics.CodeCopied()
		l.logger.Debug("code copied", "session", s.ID, "code", effect.Copied)
	}
}

func (l *Loop) frame(s *Session, now time.Time) (f Frame) {
	err := l.guard(s, func() {
		f = s.Frame(now)
	})
	if err != nil {
		return Frame{View: render.View{Viewport: s.view, Failed: true}}
	}
	return f
}

// guard runs fn, turning a panic into a failed session.
func (l *Loop) guard(s *Session, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session %s: %v", s.ID, r)
			s.Fail()
			l.metrics.SessionPanicked()
			l.logger.Error("session failed", "session", s.ID, "error", err)
		}
	}()
	fn()
	return nil
}
