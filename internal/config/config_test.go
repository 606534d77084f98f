package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ORCHESTRATOR_ENV", "ORCHESTRATOR_DEBUG", "ORCHESTRATOR_LOG_LEVEL",
		"ORCHESTRATOR_ENABLE_METRICS", "ORCHESTRATOR_SNAPSHOT_DSN",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.EnableMetrics)
	assert.Empty(t, cfg.SnapshotDSN)
}

func TestLoad_ReadsOverrides(t *testing.T) {
	t.Setenv("ORCHESTRATOR_ENV", "production")
	t.Setenv("ORCHESTRATOR_ENABLE_METRICS", "true")
	t.Setenv("ORCHESTRATOR_LLM_MAX_TOKENS", "2048")
	t.Setenv("ORCHESTRATOR_LLM_TEMPERATURE", "0.2")

	cfg := Load()
	assert.Equal(t, EnvProduction, cfg.Env)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, 2048, cfg.LLMMaxTokens)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 0.0001)
}
