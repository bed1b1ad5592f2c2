// Package config loads modeldiff configuration: logging verbosity, the
// section dimension tolerance, importance policies and history settings.
// A missing config file means defaults, never an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrison/modeldiff/internal/summary"
)

// ToleranceConfig is the section dimension equivalence window.
type ToleranceConfig struct {
	// Abs is the absolute window in model units.
	Abs float64 `yaml:"abs"`

	// Rel is the relative window as a fraction (0.001 = 0.1%).
	Rel float64 `yaml:"rel"`
}

// HistoryConfig controls the comparison-run archive.
type HistoryConfig struct {
	// Enabled enables recording runs to the history database.
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database.
	DBPath string `yaml:"db_path"`

	// KeepRuns is how many most recent runs to retain when pruning.
	KeepRuns int `yaml:"keep_runs"`
}

// Config represents modeldiff configuration options.
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Tolerance is the section dimension equivalence window.
	Tolerance ToleranceConfig `yaml:"tolerance"`

	// Policy names the active importance policy.
	Policy string `yaml:"policy"`

	// Policies holds the named importance policies available to runs.
	Policies map[string]summary.ImportancePolicy `yaml:"policies"`

	// History contains comparison-run archive configuration.
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values, including the
// built-in S2 and S4 importance policies.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		Tolerance: ToleranceConfig{Abs: 0.01, Rel: 0.001},
		Policy:    "S2",
		Policies: map[string]summary.ImportancePolicy{
			// S2: every attribute matters equally.
			"S2": {Name: "S2", Default: 1},
			// S4: structural placement and section identity dominate;
			// cosmetic attributes barely register.
			"S4": {
				Name:    "S4",
				Default: 0.25,
				Weights: map[string]float64{
					"offset_X":   2,
					"offset_Y":   2,
					"offset_Z":   2,
					"rotation":   2,
					"section_id": 3,
					"story_name": 3,
				},
			},
		},
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   ".modeldiff/history.db",
			KeepRuns: 50,
		},
	}
}

// LoadConfig loads configuration from the specified file path. If the file
// doesn't exist, returns default configuration without error. If the file
// exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks field-level constraints.
func (c *Config) validate() error {
	if c.Tolerance.Abs < 0 || c.Tolerance.Rel < 0 {
		return fmt.Errorf("tolerance windows must be non-negative, got abs=%g rel=%g",
			c.Tolerance.Abs, c.Tolerance.Rel)
	}
	if c.History.KeepRuns < 0 {
		return fmt.Errorf("history.keep_runs must be non-negative, got %d", c.History.KeepRuns)
	}
	return nil
}

// PolicyByName resolves a named importance policy. The name "neutral" is
// always available; an unknown name is an error rather than a silent
// fallback.
func (c *Config) PolicyByName(name string) (summary.ImportancePolicy, error) {
	if name == "" {
		name = c.Policy
	}
	if name == "neutral" || name == "" {
		return summary.NeutralPolicy(), nil
	}
	if p, ok := c.Policies[name]; ok {
		if p.Name == "" {
			p.Name = name
		}
		return p, nil
	}
	return summary.ImportancePolicy{}, fmt.Errorf("unknown importance policy %q", name)
}
