// Package api serves the read-only HTTP side of the hunt: scene previews,
// theme lookups, the discount catalog, health and metrics.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"egg-hunt/internal/hunt"
	"egg-hunt/internal/metrics"
	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

var (
	// ErrBadParam is returned for a query parameter that does not parse.
	ErrBadParam = errors.New("invalid query parameter")
	// ErrOutOfRange is returned for a parameter outside its allowed range.
	ErrOutOfRange = errors.New("parameter out of range")
)

const (
	maxWidth          = 10000
	defaultViewportPx = 800
	maxViewportPx     = 10000
)

// Config wires the handlers to the running daemon.
type Config struct {
	Generator *hunt.Generator
	Catalog   scene.Catalog
	Theme     theme.Settings
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Limiter   *RateLimiter
	Sessions  func() int
}

type handlers struct {
	cfg Config
}

// New builds the router.
func New(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	h := &handlers{cfg: cfg}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(observe(cfg.Metrics))

	r.Get("/healthz", h.health)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(sr chi.Router) {
		if cfg.Limiter != nil {
			sr.Use(cfg.Limiter.Middleware)
		}
		sr.Get("/scene", h.scene)
		sr.Get("/theme", h.theme)
		sr.Get("/catalog", h.catalog)
	})
	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if h.cfg.Sessions != nil {
		resp["sessions"] = h.cfg.Sessions()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) scene(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seed := rand.Uint64()
	if v := q.Get("seed"); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, fmt.Errorf("seed: %w", ErrBadParam))
			return
		}
		seed = s
	}
	width, err := floatParam(q.Get("width"), 0, maxWidth)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, fmt.Errorf("width: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, h.cfg.Generator.SeededWidth(seed, width))
}

type themeResponse struct {
	Offset     float64   `json:"offset"`
	ViewportPx float64   `json:"viewportPx"`
	Primary    theme.RGB `json:"primary"`
	Secondary  theme.RGB `json:"secondary"`
}

func (h *handlers) theme(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, err := floatParam(q.Get("offset"), 0, -1)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, fmt.Errorf("offset: %w", err))
		return
	}
	viewport, err := floatParam(q.Get("viewport"), 0, maxViewportPx)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, fmt.Errorf("viewport: %w", err))
		return
	}
	if viewport == 0 {
		viewport = defaultViewportPx
	}

	pair := h.cfg.Theme.Engine(viewport).At(offset)
	writeJSON(w, http.StatusOK, themeResponse{
		Offset:     offset,
		ViewportPx: viewport,
		Primary:    pair.Primary,
		Secondary:  pair.Secondary,
	})
}

func (h *handlers) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cfg.Catalog)
}

// floatParam parses v as a float in [lo, hi]. An empty v is 0; hi < 0
// means unbounded.
func floatParam(v string, lo, hi float64) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrBadParam
	}
	if f < lo || (hi >= 0 && f > hi) {
		return 0, ErrOutOfRange
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.cfg.Logger.Debug("bad request", "path", r.URL.Path, "query", r.URL.RawQuery, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// observe records request counts and latency by route pattern.
func observe(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(route, r.Method, status, time.Since(start))
		})
	}
}
