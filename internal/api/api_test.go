package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egg-hunt/internal/catalog"
	"egg-hunt/internal/hunt"
	"egg-hunt/internal/metrics"
	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

func testConfig() Config {
	layout := scene.DefaultConfig()
	layout.DecorativeCount = 40
	layout.SpoiledCount = 4
	layout.PageHeight = 5000

	m := metrics.New()
	cat := catalog.Default()
	return Config{
		Generator: &hunt.Generator{Layout: layout, Catalog: cat, Metrics: m},
		Catalog:   cat,
		Theme:     theme.DefaultSettings(),
		Metrics:   m,
		Sessions:  func() int { return 3 },
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, New(testConfig()), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["sessions"])
}

func TestSceneIsDeterministic(t *testing.T) {
	h := New(testConfig())

	first := get(t, h, "/api/scene?seed=42&width=800")
	second := get(t, h, "/api/scene?seed=42&width=800")
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var sc scene.Scene
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &sc))
	assert.EqualValues(t, 42, sc.Seed)
	assert.Equal(t, 800.0, sc.Width)
	assert.NotEmpty(t, sc.Rewards())
}

func TestSceneRandomSeed(t *testing.T) {
	rec := get(t, New(testConfig()), "/api/scene")
	require.Equal(t, http.StatusOK, rec.Code)

	var sc scene.Scene
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sc))
	assert.Equal(t, 1280.0, sc.Width)
}

func TestBadParams(t *testing.T) {
	h := New(testConfig())
	tests := []struct {
		target string
		want   string
	}{
		{"/api/scene?seed=-1", ErrBadParam.Error()},
		{"/api/scene?seed=abc", ErrBadParam.Error()},
		{"/api/scene?width=-5", ErrOutOfRange.Error()},
		{"/api/scene?width=NaN", ErrBadParam.Error()},
		{"/api/scene?width=Inf", ErrBadParam.Error()},
		{"/api/theme?offset=x", ErrBadParam.Error()},
		{"/api/theme?offset=Inf", ErrBadParam.Error()},
		{"/api/theme?offset=-Inf", ErrBadParam.Error()},
		{"/api/theme?offset=1e400", ErrBadParam.Error()},
		{"/api/theme?viewport=NaN", ErrBadParam.Error()},
		{"/api/theme?viewport=99999", ErrOutOfRange.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestTheme(t *testing.T) {
	h := New(testConfig())
	pal := theme.DefaultPalette()

	var resp themeResponse
	rec := get(t, h, "/api/theme?offset=100&viewport=1000")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pal[0].Primary, resp.Primary)
	assert.Equal(t, pal[0].Secondary, resp.Secondary)

	// Six viewports of buffer, then exactly one section further.
	rec = get(t, h, "/api/theme?offset=36000&viewport=1000")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pal[1].Primary, resp.Primary)

	rec = get(t, h, "/api/theme")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(defaultViewportPx), resp.ViewportPx)
}

func TestCatalog(t *testing.T) {
	rec := get(t, New(testConfig()), "/api/catalog")
	require.Equal(t, http.StatusOK, rec.Code)

	var cat scene.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Equal(t, catalog.Default(), cat)
}

func TestRequestMetrics(t *testing.T) {
	cfg := testConfig()
	h := New(cfg)
	get(t, h, "/api/catalog")
	get(t, h, "/api/scene?seed=x")
	get(t, h, "/nope")

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `route="/api/catalog"`), "catalog route not recorded")
	assert.True(t, strings.Contains(body, `status="400"`), "bad request not recorded")

	n, err := testutil.GatherAndCount(cfg.Metrics.Registry(), "egghunt_http_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 3)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Limiter = NewRateLimiter(1, 2)
	h := New(cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(t, h, "/api/catalog").Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Health checks are outside the limited group.
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
}

func TestRateLimitPerClient(t *testing.T) {
	l := NewRateLimiter(1, 1)
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"))

	start := time.Now()
	l.now = func() time.Time { return start.Add(idleAfter + time.Minute) }
	assert.Equal(t, 2, l.Sweep())
}

func TestClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientID(req))

	req.Header.Set("X-Forwarded-For", "192.0.2.7, 10.0.0.2")
	assert.Equal(t, "192.0.2.7", clientID(req))

	req.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", clientID(req))
}
