// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	OllamaURL   string
	OllamaModel string

	RiskLexiconPath   string
	CounsellorSeedPath string

	SessionDriver string // "memory" or "redis"
	RedisAddr     string
	SessionTTL    time.Duration

	GenerateTimeout time.Duration
	IntentThreshold float64
	DriftThreshold  float64
	DriftEnabled    bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/pulsebot.db"),

		OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "llama3.2"),

		RiskLexiconPath:    getEnv("RISK_LEXICON_PATH", "./data/risk_lexicon.json"),
		CounsellorSeedPath: getEnv("COUNSELLOR_SEED_PATH", "./data/counsellors.json"),

		SessionDriver: getEnv("SESSION_DRIVER", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 60*time.Minute),

		GenerateTimeout: getEnvDuration("GENERATE_TIMEOUT", 8*time.Second),
		IntentThreshold: getEnvFloat("INTENT_THRESHOLD", 0.55),
		DriftThreshold:  getEnvFloat("DRIFT_THRESHOLD", 0.5),
		DriftEnabled:    getEnvBool("DRIFT_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL cannot be empty")
	}
	if c.OllamaModel == "" {
		return fmt.Errorf("OLLAMA_MODEL cannot be empty")
	}
	if c.SessionDriver == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR required when SESSION_DRIVER=redis")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("GENERATE_TIMEOUT must be > 0")
	}
	if c.IntentThreshold <= 0 || c.IntentThreshold > 1 {
		return fmt.Errorf("INTENT_THRESHOLD must be in (0, 1]")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
