// Package config loads scanner settings from an optional YAML file, applying
// defaults for anything left unset. CLI flags override file values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is probed when no --config flag is given.
const DefaultConfigPath = "webaudit.yml"

// Config holds the tunable parameters of a scan.
type Config struct {
	// Viewport dimensions for the browser session. The tall fixed viewport
	// stabilizes element geometry across runs.
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	// SettleDelayMs is how long to wait after navigation for async rendering.
	SettleDelayMs int `yaml:"settle_delay_ms"`

	// SampleLimit caps how many text-bearing elements get style samples.
	SampleLimit int `yaml:"sample_limit"`

	// LivenessTimeoutMs bounds each link/image liveness probe.
	LivenessTimeoutMs int `yaml:"liveness_timeout_ms"`

	// AllOffenders reports every offending element per rule instead of
	// stopping at the first.
	AllOffenders bool `yaml:"all_offenders"`

	// SlowPageMs is the navigation-duration threshold for the slow-page rule.
	SlowPageMs float64 `yaml:"slow_page_ms"`

	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ViewportWidth:     1280,
		ViewportHeight:    1500,
		SettleDelayMs:     1500,
		SampleLimit:       80,
		LivenessTimeoutMs: 5000,
		SlowPageMs:        3000,
		OutputDir:         "",
		LogLevel:          "info",
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file at
// the default path is fine; a missing file at an explicit path is an error.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.SampleLimit <= 0 {
		return fmt.Errorf("sample_limit must be positive, got %d", c.SampleLimit)
	}
	if c.LivenessTimeoutMs <= 0 {
		return fmt.Errorf("liveness_timeout_ms must be positive, got %d", c.LivenessTimeoutMs)
	}
	return nil
}

// SettleDelay returns the settle delay as a duration.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

// LivenessTimeout returns the liveness probe timeout as a duration.
func (c Config) LivenessTimeout() time.Duration {
	return time.Duration(c.LivenessTimeoutMs) * time.Millisecond
}
