package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries process configuration, loaded from the environment.
type Config struct {
	// Server
	Addr string

	// Model
	ModelID     string
	APIKey      string
	Temperature float64

	// Trace sink (optional; empty addr disables it)
	RedisAddr     string
	RedisDB       int
	RedisPassword string

	// Retrieval corpus (optional; empty path uses the built-in corpus)
	CorpusFile string

	// Logging
	LogLevel string
}

// Load reads configuration from the environment with defaults.
func Load() *Config {
	return &Config{
		Addr:          getEnv("GRAFT_ADDR", ":8080"),
		ModelID:       getEnv("GRAFT_MODEL_ID", "models/gemini-3-flash-preview"),
		APIKey:        getEnv("GOOGLE_API_KEY", ""),
		Temperature:   getEnvFloat("GRAFT_TEMPERATURE", 0.7),
		RedisAddr:     getEnv("GRAFT_REDIS_ADDR", ""),
		RedisDB:       getEnvInt("GRAFT_REDIS_DB", 0),
		RedisPassword: getEnv("GRAFT_REDIS_PASSWORD", ""),
		CorpusFile:    getEnv("GRAFT_CORPUS_FILE", ""),
		LogLevel:      getEnv("GRAFT_LOG_LEVEL", "info"),
	}
}

// LoadCorpus reads a YAML corpus file: a flat mapping of topic key to
// reference snippet.
func LoadCorpus(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus file: %w", err)
	}
	var entries map[string]string
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("corpus file %s: %w", path, err)
	}
	return entries, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
