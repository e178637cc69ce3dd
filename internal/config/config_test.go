package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egg-hunt/internal/theme"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Normalize(), cfg)
}

func TestLoadExampleFile(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join("..", "..", "config.example.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Normalize(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "")
	path := writeConfig(t, `
[server]
listen_addr = ":3000"

[layout]
decorative_count = 10
reward_multiplier = 2.0

[layout.distribution]
grid_size = 2
strict = false

[theme]
section_viewports = 10

[[theme.palette]]
primary = "#000000"
secondary = "#ffffff"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.ListenAddr)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 10, cfg.Layout.DecorativeCount)
	assert.Equal(t, 2.0, cfg.Layout.RewardMultiplier)
	assert.Equal(t, 30, cfg.Layout.SpoiledCount)
	assert.Equal(t, 2, cfg.Layout.Distribution.GridSize)
	assert.False(t, cfg.Layout.Distribution.Strict)
	assert.Equal(t, 150.0, cfg.Layout.Distribution.MinDistance)
	assert.Equal(t, 10.0, cfg.Theme.SectionViewports)
	assert.Equal(t, 6.0, cfg.Theme.BufferViewports)
	require.Len(t, cfg.Theme.Palette, 1)
	assert.Equal(t, theme.Pair{Primary: theme.RGB{}, Secondary: theme.RGB{R: 255, G: 255, B: 255}}, cfg.Theme.Palette[0])
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[server]
listen_adr = ":1"

[layout]
spoilt_count = 3
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnknownKeys)
	assert.Contains(t, err.Error(), "server.listen_adr")
	assert.Contains(t, err.Error(), "layout.spoilt_count")
}

func TestLoadRejectsBadColor(t *testing.T) {
	path := writeConfig(t, `
[[theme.palette]]
primary = "#zzzzzz"
secondary = "#000000"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestPortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "2323")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":2323", cfg.Server.ListenAddr)
}

func TestNormalizeClamps(t *testing.T) {
	var cfg Config
	cfg.Layout.RewardMultiplier = 0.5
	cfg.Layout.DecorativeCount = -3
	cfg.Server.InputBurst = -1

	n := cfg.Normalize()
	assert.Equal(t, 1.0, n.Layout.RewardMultiplier)
	assert.Equal(t, 0, n.Layout.DecorativeCount)
	assert.Equal(t, Default().Server.InputBurst, n.Server.InputBurst)
	assert.Equal(t, "info", n.Log.Level)
	assert.Len(t, n.Theme.Palette, 6)
}
