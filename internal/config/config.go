// Package config reads every ORCHESTRATOR_* environment variable named in
// SPEC_FULL.md §6/§6a exactly once into an immutable Config struct,
// generalized from the teacher's per-binary inline os.Getenv reads (see
// cmd/automata-*/main.go) into a single shared loader. Outside this package,
// only the cmd binaries call os.Getenv, each to read its own listen port
// (API_PORT, ORCH_PORT).
package config

import (
	"os"
	"strconv"
)

// Environment is the closed set of deployment environments (§6).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config is the immutable, fully-resolved set of environment variables the
// orchestrator and its adapters consume.
type Config struct {
	Env   Environment
	Debug bool

	LLMProvider    string
	LLMModel       string
	LLMAPIKey      string
	LLMMaxTokens   int
	LLMTemperature float64

	LogLevel      string
	EnableMetrics bool
	EnableTracing bool

	EnableCLIAdapter bool
	EnableAPIAdapter bool
	EnableVCSAdapter bool

	SnapshotDSN      string
	EventsAMQPURL    string
	RegistryRedisURL string
}

// Load reads every ORCHESTRATOR_* variable once and returns a Config.
// Missing booleans default to false. ORCHESTRATOR_ENV defaults to
// development, ORCHESTRATOR_LOG_LEVEL to info, ORCHESTRATOR_LLM_MAX_TOKENS
// to 1024 and ORCHESTRATOR_LLM_TEMPERATURE to 0.7; other missing strings
// default to "".
func Load() *Config {
	cfg := &Config{
		Env:   Environment(getOr("ORCHESTRATOR_ENV", string(EnvDevelopment))),
		Debug: getBool("ORCHESTRATOR_DEBUG", false),

		LLMProvider:    os.Getenv("ORCHESTRATOR_LLM_PROVIDER"),
		LLMModel:       os.Getenv("ORCHESTRATOR_LLM_MODEL"),
		LLMAPIKey:      os.Getenv("ORCHESTRATOR_LLM_API_KEY"),
		LLMMaxTokens:   getInt("ORCHESTRATOR_LLM_MAX_TOKENS", 1024),
		LLMTemperature: getFloat("ORCHESTRATOR_LLM_TEMPERATURE", 0.7),

		LogLevel:      getOr("ORCHESTRATOR_LOG_LEVEL", "info"),
		EnableMetrics: getBool("ORCHESTRATOR_ENABLE_METRICS", false),
		EnableTracing: getBool("ORCHESTRATOR_ENABLE_TRACING", false),

		EnableCLIAdapter: getBool("ORCHESTRATOR_ENABLE_CLI_ADAPTER", false),
		EnableAPIAdapter: getBool("ORCHESTRATOR_ENABLE_API_ADAPTER", false),
		EnableVCSAdapter: getBool("ORCHESTRATOR_ENABLE_VCS_ADAPTER", false),

		SnapshotDSN:      os.Getenv("ORCHESTRATOR_SNAPSHOT_DSN"),
		EventsAMQPURL:    os.Getenv("ORCHESTRATOR_EVENTS_AMQP_URL"),
		RegistryRedisURL: os.Getenv("ORCHESTRATOR_REGISTRY_REDIS_URL"),
	}
	return cfg
}

func getOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
