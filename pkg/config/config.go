// Package config resolves evodash client configuration: backend base URL,
// request timeout, and polling cadences. Values come from an optional TOML
// file under the evodash home directory with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EvodashDir is the per-user state directory name under $HOME.
const EvodashDir = ".evodash"

// DefaultBaseURL is used when neither the config file nor EVODASH_BASE_URL
// provides a backend address.
const DefaultBaseURL = "http://localhost:8000"

// Config holds client-side settings for talking to the auto-evolve backend.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string `toml:"base_url"`

	// RequestTimeoutSec bounds a single HTTP request (default 30).
	RequestTimeoutSec int `toml:"request_timeout_sec"`

	// PollIntervalMS is the job poller cadence in milliseconds (default 2000).
	PollIntervalMS int `toml:"poll_interval_ms"`

	// PollTimeoutMS bounds a job poll loop in milliseconds (default 300000).
	PollTimeoutMS int `toml:"poll_timeout_ms"`

	// TailIntervalMS is the live tail refresh cadence (default 1000).
	TailIntervalMS int `toml:"tail_interval_ms"`

	// SnapshotIntervalMS is the coarse events/metrics refresh cadence (default 2000).
	SnapshotIntervalMS int `toml:"snapshot_interval_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		RequestTimeoutSec:  30,
		PollIntervalMS:     2000,
		PollTimeoutMS:      300000,
		TailIntervalMS:     1000,
		SnapshotIntervalMS: 2000,
	}
}

// Home returns the evodash state directory, respecting EVODASH_HOME.
func Home() (string, error) {
	if v := os.Getenv("EVODASH_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, EvodashDir), nil
}

// DefaultPath returns the default config file path under the evodash home.
func DefaultPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.toml"), nil
}

// Load reads the TOML config at path. A missing file is not an error: the
// defaults are returned so a fresh install works without any setup.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from Home()/flag, not remote input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the config as TOML, creating the parent directory if needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config is not secret material
		return fmt.Errorf("write config %s: %w", path, err)
	}

	return nil
}

// Resolve loads the config from the default path and applies environment
// overrides. EVODASH_BASE_URL wins over the file value.
func Resolve() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), err
	}

	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}

	if v := os.Getenv("EVODASH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}

	return cfg, nil
}

// fillDefaults replaces zero values with the built-in defaults so a partial
// config file does not zero out a cadence.
func (c *Config) fillDefaults() {
	def := Default()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = def.RequestTimeoutSec
	}
	if c.PollIntervalMS <= 0 {
		c.PollIntervalMS = def.PollIntervalMS
	}
	if c.PollTimeoutMS <= 0 {
		c.PollTimeoutMS = def.PollTimeoutMS
	}
	if c.TailIntervalMS <= 0 {
		c.TailIntervalMS = def.TailIntervalMS
	}
	if c.SnapshotIntervalMS <= 0 {
		c.SnapshotIntervalMS = def.SnapshotIntervalMS
	}
}

// RequestTimeout returns RequestTimeoutSec as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// PollInterval returns PollIntervalMS as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// PollTimeout returns PollTimeoutMS as a duration.
func (c Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutMS) * time.Millisecond
}

// TailInterval returns TailIntervalMS as a duration.
func (c Config) TailInterval() time.Duration {
	return time.Duration(c.TailIntervalMS) * time.Millisecond
}

// SnapshotInterval returns SnapshotIntervalMS as a duration.
func (c Config) SnapshotInterval() time.Duration {
	return time.Duration(c.SnapshotIntervalMS) * time.Millisecond
}
