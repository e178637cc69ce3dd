// Package config loads the daemon's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"egg-hunt/internal/scene"
	"egg-hunt/internal/theme"
)

// ErrUnknownKeys is returned when the file sets keys no section defines.
var ErrUnknownKeys = errors.New("unknown config keys")

// Server holds listener and per-session settings.
type Server struct {
	ListenAddr  string `toml:"listen_addr"`
	HostKeyPath string `toml:"host_key_path"`
	HTTPAddr    string `toml:"http_addr"`
	CatalogPath string `toml:"catalog_path"`
	// InputRate is the sustained number of input events a session may send
	// per second; InputBurst is the bucket size.
	InputRate  float64 `toml:"input_rate"`
	InputBurst int     `toml:"input_burst"`
	// APIRate and APIBurst limit HTTP requests per client address.
	APIRate  float64 `toml:"api_rate"`
	APIBurst int     `toml:"api_burst"`
	// AllowDevMode lets visitors toggle reward outlines with the backtick key.
	AllowDevMode bool `toml:"allow_dev_mode"`
}

// Log selects level and destination. An empty File logs to stdout.
type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Env        string `toml:"env"`
}

// Config is the full file.
type Config struct {
	Server Server         `toml:"server"`
	Log    Log            `toml:"log"`
	Layout scene.Config   `toml:"layout"`
	Theme  theme.Settings `toml:"theme"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Server: Server{
			ListenAddr:  ":2222",
			HostKeyPath: "host_key",
			HTTPAddr:    ":8080",
			CatalogPath: "assets/catalog.yaml",
			InputRate:   60,
			InputBurst:  30,
			APIRate:     5,
			APIBurst:    10,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Layout: scene.DefaultConfig(),
		Theme:  theme.DefaultSettings(),
	}
}

// Load reads path on top of Default. A missing file is not an error.
// PORT, when set, overrides the SSH listen port.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := decodeFile(path, &cfg); err != nil {
				return Config{}, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config: %w", err)
		}
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Server.ListenAddr = ":" + port
	}
	return cfg.Normalize(), nil
}

func decodeFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("%s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return nil
}

// Normalize fills empty fields with defaults and clamps the layout and theme.
func (c Config) Normalize() Config {
	def := Default()
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = def.Server.ListenAddr
	}
	if c.Server.HostKeyPath == "" {
		c.Server.HostKeyPath = def.Server.HostKeyPath
	}
	if c.Server.CatalogPath == "" {
		c.Server.CatalogPath = def.Server.CatalogPath
	}
	if c.Server.InputRate <= 0 {
		c.Server.InputRate = def.Server.InputRate
	}
	if c.Server.InputBurst <= 0 {
		c.Server.InputBurst = def.Server.InputBurst
	}
	if c.Server.APIRate <= 0 {
		c.Server.APIRate = def.Server.APIRate
	}
	if c.Server.APIBurst <= 0 {
		c.Server.APIBurst = def.Server.APIBurst
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	c.Layout = c.Layout.Normalize()
	c.Theme = c.Theme.Normalize()
	return c
}
