package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionGauge(t *testing.T) {
	m := New()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsTotal))
}

func TestRewardActivatedLabels(t *testing.T) {
	m := New()
	m.RewardActivated("discount", "rare")
	m.RewardActivated("discount", "rare")
	m.RewardActivated("spoiled", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.activations.WithLabelValues("discount", "rare")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activations.WithLabelValues("spoiled", "none")))
}

func TestSceneGenerated(t *testing.T) {
	m := New()
	m.SceneGenerated(3*time.Millisecond, 4)
	m.SceneGenerated(time.Millisecond, 0)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.relaxed))
	assert.Equal(t, 1, testutil.CollectAndCount(m.sceneDuration))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SessionOpened()
		m.SessionClosed()
		m.RewardActivated("discount", "common")
		m.CodeCopied()
		m.InputDropped("rate")
		m.SceneGenerated(time.Second, 1)
		m.SessionPanicked()
		m.ObserveRequest("/x", "GET", 200, time.Second)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.CodeCopied()
	m.ObserveRequest("/api/scene", http.MethodGet, http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "egghunt_codes_copied_total 1"))
	assert.Contains(t, body, `egghunt_http_requests_total{method="GET",route="/api/scene",status="200"} 1`)
}
