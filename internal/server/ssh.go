package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"egg-hunt/internal/config"
	"egg-hunt/internal/hunt"
	"egg-hunt/internal/metrics"
	"egg-hunt/internal/render"
	"egg-hunt/internal/theme"
)

// SSHServer serves one egg hunt per SSH session.
type SSHServer struct {
	loop    *hunt.Loop
	gen     *hunt.Generator
	cfg     config.Server
	theme   theme.Settings
	banner  render.Banner
	logger  *slog.Logger
	metrics *metrics.Metrics
	srv     *ssh.Server
}

// Options carries the collaborators an SSHServer needs besides the loop.
type Options struct {
	Generator *hunt.Generator
	Theme     theme.Settings
	Banner    render.Banner
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// NewSSHServer creates a server for cfg that feeds sessions into loop.
func NewSSHServer(cfg config.Server, loop *hunt.Loop, opts Options) *SSHServer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &SSHServer{
		loop:    loop,
		gen:     opts.Generator,
		cfg:     cfg,
		theme:   opts.Theme,
		banner:  opts.Banner,
		logger:  logger.With("component", "ssh"),
		metrics: opts.Metrics,
	}
	s.srv = &ssh.Server{
		Addr:    cfg.ListenAddr,
		Handler: s.handleSession,
	}
	return s
}

// Start listens for SSH connections until Shutdown is called.
func (s *SSHServer) Start() error {
	if err := s.srv.SetOption(ssh.HostKeyFile(s.cfg.HostKeyPath)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.logger.Info("ssh server listening", "addr", s.cfg.ListenAddr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return fmt.Errorf("ssh serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for open sessions to end
// or ctx to expire.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	id := uuid.NewString()
	hs := hunt.NewSession(id, username, s.gen.Random(), ptyReq.Window.Width, ptyReq.Window.Height,
		hunt.SessionOptions{
			Theme:        s.theme,
			Banner:       s.banner,
			AllowDevMode: s.cfg.AllowDevMode,
		}, time.Now())
	frames := s.loop.AddSession(hs)

	log := s.logger.With("session", id, "user", username, "remote", sess.RemoteAddr().String())
	log.Info("visitor connected", "seed", hs.Scene.Seed, "rewards", len(hs.Scene.Rewards()))
	defer func() {
		s.loop.RemoveSession(id)
		log.Info("visitor disconnected")
	}()

	engine := render.NewEngine(ptyReq.Window.Width, ptyReq.Window.Height)

	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.EnableMouse())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.DisableMouse())
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	inputCh := s.loop.InputChan()
	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	limiter := rate.NewLimiter(rate.Limit(s.cfg.InputRate), s.cfg.InputBurst)

	// Goroutine: read input
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				quit()
				return
			}
			for _, ev := range parseInput(buf[:n]) {
				if ev.Action == hunt.ActionQuit {
					quit()
					return
				}
				if !limiter.Allow() {
					s.metrics.InputDropped("rate_limited")
					continue
				}
				ev.SessionID = id
				select {
				case inputCh <- ev:
				default:
					s.metrics.InputDropped("queue_full")
				}
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			ev := hunt.InputEvent{SessionID: id, Action: hunt.ActionResize, Col: win.Width, Row: win.Height}
			select {
			case inputCh <- ev:
			case <-quitCh:
				return
			}
		}
	}()

	failed := false
	for {
		select {
		case <-quitCh:
			return
		case <-sess.Context().Done():
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if failed {
				continue
			}
			out, err := safeRender(engine, f.View)
			if err != nil {
				failed = true
				log.Error("render failed", "error", err)
				s.metrics.SessionPanicked()
			}
			if len(out) > 0 {
				io.WriteString(sess, out)
			}
			if f.Clipboard != "" && !failed {
				io.WriteString(sess, render.CopyToClipboard(f.Clipboard))
			}
		}
	}
}

// safeRender draws v, falling back to the static error screen if drawing
// panics.
func safeRender(e *render.Engine, v render.View) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render: %v", r)
			out = render.ClearScreen() + safeFallback(e)
		}
	}()
	return e.Render(v), nil
}

func safeFallback(e *render.Engine) (out string) {
	defer func() {
		if recover() != nil {
			out = render.FallbackMessage
		}
	}()
	return e.RenderFallback()
}
