// Package config defines the YAML run configuration for queuewatch.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/queuewatch/pkg/browser"
	"github.com/entrhq/queuewatch/pkg/queue"
)

// Config represents one monitoring run. Flags override file values, so
// every field has a usable default.
type Config struct {
	// Target page to open in every tab
	TargetURL string `yaml:"target_url" json:"target_url"`

	// Number of tabs to open
	Tabs int `yaml:"tabs" json:"tabs"`

	// Pattern extracting the queue position, exactly one capturing group
	Pattern string `yaml:"pattern" json:"pattern"`

	// Monitoring loop
	CheckInterval   time.Duration `yaml:"check_interval" json:"check_interval"`
	MaxAttempts     int           `yaml:"max_attempts" json:"max_attempts"` // 0 = unbounded
	StopOnFirstFind bool          `yaml:"stop_on_first_find" json:"stop_on_first_find"`
	MinConverged    int           `yaml:"min_converged" json:"min_converged"` // 0 = all tabs

	// Browser behavior
	Headless           bool          `yaml:"headless" json:"headless"`
	ProbeTimeout       time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
	RefreshStagger     time.Duration `yaml:"refresh_stagger" json:"refresh_stagger"`
	ClearBeforeRefresh bool          `yaml:"clear_before_refresh" json:"clear_before_refresh"`
}

// DefaultConfig returns a configuration suitable for most waiting rooms.
func DefaultConfig() *Config {
	return &Config{
		Tabs:               5,
		Pattern:            queue.DefaultPatternExpr,
		CheckInterval:      5 * time.Second,
		MaxAttempts:        60,
		StopOnFirstFind:    false,
		Headless:           false,
		ProbeTimeout:       browser.DefaultProbeTimeout,
		RefreshStagger:     browser.DefaultRefreshStagger,
		ClearBeforeRefresh: true,
	}
}

// Load reads a YAML configuration file over the defaults. Fields the file
// omits keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration before a run starts. The pattern itself
// is validated separately by queue.CompilePattern.
func (c *Config) Validate() error {
	if c.TargetURL == "" {
		return fmt.Errorf("target URL is required")
	}

	if c.Tabs <= 0 {
		return fmt.Errorf("tab count must be positive, got %d", c.Tabs)
	}

	if c.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}

	if c.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive, got %s", c.CheckInterval)
	}

	if c.MaxAttempts < 0 {
		return fmt.Errorf("max attempts cannot be negative, got %d", c.MaxAttempts)
	}

	if c.MinConverged < 0 {
		return fmt.Errorf("min converged cannot be negative, got %d", c.MinConverged)
	}

	if c.MinConverged > c.Tabs {
		return fmt.Errorf("min converged (%d) cannot exceed tab count (%d)", c.MinConverged, c.Tabs)
	}

	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout)
	}

	if c.RefreshStagger < 0 {
		return fmt.Errorf("refresh stagger cannot be negative, got %s", c.RefreshStagger)
	}

	return nil
}

// MonitorParams maps the configuration onto the monitoring engine's
// parameters.
func (c *Config) MonitorParams() queue.Params {
	return queue.Params{
		CheckInterval:   c.CheckInterval,
		MaxAttempts:     c.MaxAttempts,
		StopOnFirstFind: c.StopOnFirstFind,
		MinConverged:    c.MinConverged,
	}
}

// BrowserOptions maps the configuration onto the tab fleet options.
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Headless:     c.Headless,
		ProbeTimeout: c.ProbeTimeout,
	}
}

// RefreshOptions maps the configuration onto the fleet refresh options.
func (c *Config) RefreshOptions() browser.RefreshOptions {
	return browser.RefreshOptions{
		Stagger:            c.RefreshStagger,
		ClearBeforeRefresh: c.ClearBeforeRefresh,
	}
}
