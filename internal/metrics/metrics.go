// Package metrics holds the Prometheus collectors for the hunt daemon.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "egghunt"

// Metrics is a set of collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	activations    *prometheus.CounterVec
	codesCopied    prometheus.Counter
	inputDropped   *prometheus.CounterVec
	sceneDuration  prometheus.Histogram
	relaxed        prometheus.Counter
	panics         prometheus.Counter

	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Visitors currently connected.",
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Visitors connected since start.",
		}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewards_activated_total",
			Help:      "Reward eggs opened, by payload kind and rarity.",
		}, []string{"kind", "rarity"}),
		codesCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_copied_total",
			Help:      "Copy-code requests sent to visitor terminals.",
		}),
		inputDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_dropped_total",
			Help:      "Input events discarded before reaching the loop.",
		}, []string{"reason"}),
		sceneDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scene_generation_seconds",
			Help:      "Time spent generating one scene.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		relaxed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relaxed_placements_total",
			Help:      "Rewards placed after the distance retry bound was hit.",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_panics_total",
			Help:      "Sessions that hit the error fallback screen.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	m.registry.MustRegister(
		m.sessionsActive, m.sessionsTotal, m.activations, m.codesCopied,
		m.inputDropped, m.sceneDuration, m.relaxed, m.panics,
		m.requests, m.durations,
	)
	return m
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
	m.sessionsTotal.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// RewardActivated counts an opened egg. rarity is empty for spoiled eggs.
func (m *Metrics) RewardActivated(kind, rarity string) {
	if m == nil {
		return
	}
	if rarity == "" {
		rarity = "none"
	}
	m.activations.WithLabelValues(kind, rarity).Inc()
}

func (m *Metrics) CodeCopied() {
	if m == nil {
		return
	}
	m.codesCopied.Inc()
}

// InputDropped counts a discarded input event; reason is e.g. "rate" or "full".
func (m *Metrics) InputDropped(reason string) {
	if m == nil {
		return
	}
	m.inputDropped.WithLabelValues(reason).Inc()
}

// SceneGenerated records generation time and the relaxed placement count.
func (m *Metrics) SceneGenerated(d time.Duration, relaxed int) {
	if m == nil {
		return
	}
	m.sceneDuration.Observe(d.Seconds())
	m.relaxed.Add(float64(relaxed))
}

func (m *Metrics) SessionPanicked() {
	if m == nil {
		return
	}
	m.panics.Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(route, method).Observe(d.Seconds())
}
