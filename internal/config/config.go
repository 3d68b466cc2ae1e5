// Package config loads runtime configuration for the vector database
// service from environment variables, applying sensible defaults and
// validating the result before it is handed to the rest of the
// application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures all runtime configuration for the application.
type Config struct {
	Address      string
	Embedder     EmbedderConfig
	Ollama       OllamaConfig
	DefaultIndex DefaultIndexConfig
}

// EmbedderKind selects which Embedder implementation the service wires up.
type EmbedderKind string

const (
	EmbedderKindFake   EmbedderKind = "fake"
	EmbedderKindOllama EmbedderKind = "ollama"
)

// EmbedderConfig describes the embedding provider settings.
type EmbedderConfig struct {
	Kind      EmbedderKind
	Model     string
	Dimension int
}

// OllamaConfig groups the settings required to talk to an Ollama server,
// used only when Embedder.Kind is "ollama".
type OllamaConfig struct {
	Host string
}

// DefaultIndexConfig supplies the defaults the create-index HTTP handler
// fills in when a client's request omits LSH parameters, mirroring the
// reference implementation's factory defaults (num_bits=8, num_tables=3).
type DefaultIndexConfig struct {
	NumBits   int
	NumTables int
}

// FromEnv builds a Config by reading environment variables and applying
// sensible defaults. The resulting configuration is validated before it is
// returned.
func FromEnv() (Config, error) {
	cfg := Config{
		Address: getEnv("SERVER_ADDR", "127.0.0.1:8080"),
		Embedder: EmbedderConfig{
			Kind:      EmbedderKind(getEnv("EMBEDDER_KIND", string(EmbedderKindFake))),
			Model:     getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			Dimension: getEnvInt("EMBEDDING_DIMENSION", 768),
		},
		Ollama: OllamaConfig{
			Host: getEnv("OLLAMA_HOST", "http://localhost:11434"),
		},
		DefaultIndex: DefaultIndexConfig{
			NumBits:   getEnvInt("DEFAULT_LSH_NUM_BITS", 8),
			NumTables: getEnvInt("DEFAULT_LSH_NUM_TABLES", 3),
		},
	}

	if cfg.Embedder.Kind != EmbedderKindFake && cfg.Embedder.Kind != EmbedderKindOllama {
		return Config{}, fmt.Errorf("EMBEDDER_KIND must be %q or %q, got %q", EmbedderKindFake, EmbedderKindOllama, cfg.Embedder.Kind)
	}

	if cfg.Embedder.Model == "" {
		return Config{}, fmt.Errorf("EMBEDDING_MODEL must not be empty")
	}

	if cfg.Embedder.Dimension <= 0 {
		return Config{}, fmt.Errorf("EMBEDDING_DIMENSION must be positive")
	}

	if cfg.DefaultIndex.NumBits <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_LSH_NUM_BITS must be positive")
	}

	if cfg.DefaultIndex.NumTables <= 0 {
		return Config{}, fmt.Errorf("DEFAULT_LSH_NUM_TABLES must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
