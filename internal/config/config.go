// Package config loads the agent core configuration from YAML with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all agent core configuration.
type Config struct {
	Name string `yaml:"name"`

	// Interpreter settings
	Engine EngineConfig `yaml:"engine"`

	// Belief store backend
	BeliefBase BeliefBaseConfig `yaml:"beliefbase"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures unification and rule search.
type EngineConfig struct {
	Parallelism     int                   `yaml:"parallelism"`    // worker bound for parallel search, 0 = GOMAXPROCS
	Defuzzification DefuzzificationConfig `yaml:"defuzzification"`
	SlowThreshold   string                `yaml:"slow_threshold"` // warn when a goal takes longer
}

// DefuzzificationConfig selects how graded results become decisions.
type DefuzzificationConfig struct {
	Strategy  string  `yaml:"strategy"`  // crisp, threshold
	Threshold float64 `yaml:"threshold"` // minimum degree for the threshold strategy
}

// BeliefBaseConfig configures the belief store.
type BeliefBaseConfig struct {
	Backend   string `yaml:"backend"`    // memory, mangle
	FactLimit int    `yaml:"fact_limit"` // 0 = unbounded
}

var (
	// ValidStrategies lists the supported defuzzification strategies.
	ValidStrategies = []string{"crisp", "threshold"}
	// ValidBackends lists the supported belief store backends.
	ValidBackends = []string{"memory", "mangle"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "agentcore",

		Engine: EngineConfig{
			Parallelism: 0,
			Defuzzification: DefuzzificationConfig{
				Strategy:  "crisp",
				Threshold: 0.5,
			},
			SlowThreshold: "250ms",
		},

		BeliefBase: BeliefBaseConfig{
			Backend:   "memory",
			FactLimit: 1000000,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Malformed numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AGENTCORE_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.Parallelism = n
		}
	}
	if v := os.Getenv("AGENTCORE_DEFUZZIFICATION"); v != "" {
		c.Engine.Defuzzification.Strategy = strings.ToLower(v)
	}
	if v := os.Getenv("AGENTCORE_BELIEFBASE"); v != "" {
		c.BeliefBase.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("AGENTCORE_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("AGENTCORE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
}

// Workers returns the effective worker bound for parallel search.
func (c *Config) Workers() int {
	if c.Engine.Parallelism <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Engine.Parallelism
}

// GetSlowThreshold returns the slow-goal threshold as a duration.
func (c *Config) GetSlowThreshold() time.Duration {
	d, err := time.ParseDuration(c.Engine.SlowThreshold)
	if err != nil {
		return 250 * time.Millisecond
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine.Parallelism < 0 {
		return fmt.Errorf("engine.parallelism must be >= 0, got %d", c.Engine.Parallelism)
	}
	if !slices.Contains(ValidStrategies, c.Engine.Defuzzification.Strategy) {
		return fmt.Errorf("invalid defuzzification strategy: %s (valid: %v)", c.Engine.Defuzzification.Strategy, ValidStrategies)
	}
	if t := c.Engine.Defuzzification.Threshold; t < 0 || t > 1 {
		return fmt.Errorf("engine.defuzzification.threshold must be within [0,1], got %v", t)
	}
	if !slices.Contains(ValidBackends, c.BeliefBase.Backend) {
		return fmt.Errorf("invalid belief base backend: %s (valid: %v)", c.BeliefBase.Backend, ValidBackends)
	}
	if c.BeliefBase.FactLimit < 0 {
		return fmt.Errorf("beliefbase.fact_limit must be >= 0, got %d", c.BeliefBase.FactLimit)
	}
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	return nil
}
