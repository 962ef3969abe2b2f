package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Engine(t *testing.T) {
	t.Run("AGENTCORE_PARALLELISM sets the worker bound", func(t *testing.T) {
		t.Setenv("AGENTCORE_PARALLELISM", "3")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 3, cfg.Engine.Parallelism)
		assert.Equal(t, 3, cfg.Workers())
	})

	t.Run("malformed AGENTCORE_PARALLELISM is ignored", func(t *testing.T) {
		t.Setenv("AGENTCORE_PARALLELISM", "many")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 0, cfg.Engine.Parallelism)
	})

	t.Run("AGENTCORE_DEFUZZIFICATION is lower-cased", func(t *testing.T) {
		t.Setenv("AGENTCORE_DEFUZZIFICATION", "THRESHOLD")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "threshold", cfg.Engine.Defuzzification.Strategy)
	})
}

func TestEnvOverrides_BeliefBaseAndLogging(t *testing.T) {
	t.Setenv("AGENTCORE_BELIEFBASE", "mangle")
	t.Setenv("AGENTCORE_LOG_LEVEL", "Debug")
	t.Setenv("AGENTCORE_DEBUG", "true")

	cfg := &Config{}
	cfg.applyEnvOverrides()

	assert.Equal(t, "mangle", cfg.BeliefBase.Backend)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestEnvOverrides_UnsetLeavesConfig(t *testing.T) {
	t.Setenv("AGENTCORE_DEBUG", "")
	t.Setenv("AGENTCORE_BELIEFBASE", "")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, DefaultConfig(), cfg)
}
