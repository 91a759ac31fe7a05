package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file and environment variables.
// An empty path yields the defaults.
func Load(configPath string) (*Config, *Secrets, error) {
	var cfg Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Finalize(); err != nil {
		return nil, nil, err
	}

	secrets, err := LoadSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	return &cfg, secrets, nil
}

// Finalize runs both validation passes. Callers that override fields after
// Load (CLI flags) call it again.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.ValidateInputs(); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}
	return nil
}

// applyDefaults sets default values for optional configuration fields.
// Booleans cannot be told apart from unset in TOML and keep their zero value.
func applyDefaults(cfg *Config) {
	// Generation defaults
	if cfg.Generation.Style == "" {
		cfg.Generation.Style = DefaultStyle
	}
	if cfg.Generation.Stanzas == 0 {
		cfg.Generation.Stanzas = DefaultStanzas
	}
	if cfg.Generation.LinesPerStanza == 0 {
		cfg.Generation.LinesPerStanza = DefaultLinesPerStanza
	}
	if cfg.Generation.Count == 0 {
		cfg.Generation.Count = 1
	}
	if cfg.Generation.Concurrency == 0 {
		cfg.Generation.Concurrency = DefaultConcurrency
	}
	if cfg.Generation.CheckpointInterval == 0 {
		cfg.Generation.CheckpointInterval = DefaultCheckpointInterval
	}

	// Output defaults
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Output.TitleTemplate == "" {
		cfg.Output.TitleTemplate = DefaultTitleTemplate
	}

	// Counter defaults
	if cfg.Counter.Backend == "" {
		cfg.Counter.Backend = CounterBackendFile
	}
	if cfg.Counter.RedisAddr == "" {
		cfg.Counter.RedisAddr = DefaultRedisAddr
	}
	if cfg.Counter.RedisKey == "" {
		cfg.Counter.RedisKey = DefaultRedisKey
	}

	// Server defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.RateLimitPerMinute == 0 {
		cfg.Server.RateLimitPerMinute = DefaultRateLimitPerMinute
	}
	if cfg.Server.BurstPercent == 0 {
		cfg.Server.BurstPercent = 15
	}
}

// Save writes the configuration as TOML
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
