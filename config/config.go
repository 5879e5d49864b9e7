package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// DefaultOllamaHost is the inference endpoint used when none is configured.
const DefaultOllamaHost = "https://ollama.chargedcloud.com.br"

// OllamaConfig represents configuration for the Ollama inference endpoint.
type OllamaConfig struct {
	Host    string `yaml:"host,omitempty"` // Endpoint base URL
	Timeout int    `yaml:"timeout"`        // Request timeout in seconds, 0 disables it
}

// RetryConfig represents configuration shared by retried block calls.
type RetryConfig struct {
	Delay time.Duration `yaml:"delay,omitempty"` // Pause between attempts, e.g. "500ms"
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	File   string `yaml:"file,omitempty"`   // Empty logs to stdout
	Pretty bool   `yaml:"pretty,omitempty"` // Console output instead of JSON
}

// Config represents the block runner configuration.
type Config struct {
	Ollama OllamaConfig `yaml:"ollama,omitempty"`
	Retry  RetryConfig  `yaml:"retry,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// RequestTimeout returns the configured request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Ollama.Timeout) * time.Second
}

// Defaults returns the configuration used when no file overrides it.
func Defaults() Config {
	return Config{
		Ollama: OllamaConfig{
			Host:    DefaultOllamaHost,
			Timeout: 120,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetConfigPath returns the default config file path.
// Can be overridden via BLOCKRUN_CONFIG_PATH environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("BLOCKRUN_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.blockrun/config.yaml"
	}
	return filepath.Join(homeDir, ".blockrun", "config.yaml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// LoadConfig loads the configuration at path merged over the defaults.
// Returns defaults if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	cfg := Defaults()

	expandedPath := expandPath(path)
	if _, err := os.Stat(expandedPath); err == nil {
		data, err := os.ReadFile(expandedPath) //#nosec 304 -- intentional file read for config
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
		}

		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}

		if err := mergo.Merge(&cfg, fileConfig, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}

		// mergo skips zero values, so an explicit "timeout: 0" is read separately
		var explicit struct {
			Ollama struct {
				Timeout *int `yaml:"timeout"`
			} `yaml:"ollama"`
		}
		if err := yaml.Unmarshal(data, &explicit); err == nil && explicit.Ollama.Timeout != nil {
			cfg.Ollama.Timeout = *explicit.Ollama.Timeout
		}
	}

	if envHost := getOllamaHostFromEnv(); envHost != "" {
		cfg.Ollama.Host = envHost
	}
	if cfg.Ollama.Timeout < 0 {
		return nil, fmt.Errorf("ollama.timeout must not be negative, got %d", cfg.Ollama.Timeout)
	}
	if cfg.Retry.Delay < 0 {
		return nil, fmt.Errorf("retry.delay must not be negative, got %s", cfg.Retry.Delay)
	}

	return &cfg, nil
}

// Save saves the configuration to the specified path.
func Save(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
