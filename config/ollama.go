package config

import (
	"os"

	"github.com/aschepis/backscratcher/blocks/llm/ollama"
	"github.com/rs/zerolog"
)

// NewOllamaClient creates the inference client described by cfg.
func NewOllamaClient(cfg *Config, logger zerolog.Logger) (*ollama.Client, error) {
	host := cfg.Ollama.Host
	if host == "" {
		host = DefaultOllamaHost
	}
	return ollama.NewClient(host, cfg.RequestTimeout(), logger)
}

// getOllamaHostFromEnv gets the Ollama host from environment variable.
func getOllamaHostFromEnv() string {
	return os.Getenv("OLLAMA_HOST")
}
