package config

import "github.com/lamim/poetforge/pkg/models"

const (
	DefaultStyle              = string(models.StyleQuiet)
	DefaultStanzas            = 1
	DefaultLinesPerStanza     = 4
	DefaultConcurrency        = 4
	DefaultCheckpointInterval = 10

	DefaultOutputDir     = "output"
	DefaultTitleTemplate = "第{{.Number}}首"

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisKey  = "poetforge:poem_counter"

	DefaultServerAddr         = ":8080"
	DefaultRateLimitPerMinute = 120
)

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}
