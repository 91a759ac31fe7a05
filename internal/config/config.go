package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/lamim/poetforge/internal/grammar"
	"github.com/lamim/poetforge/internal/poet"
	"github.com/lamim/poetforge/pkg/models"
)

// Config represents the complete application configuration
type Config struct {
	Generation GenerationConfig `toml:"generation"`
	Lexicon    LexiconConfig    `toml:"lexicon"`
	Output     OutputConfig     `toml:"output"`
	Counter    CounterConfig    `toml:"counter"`
	Server     ServerConfig     `toml:"server"`
}

// GenerationConfig contains poem generation parameters
type GenerationConfig struct {
	Style          string `toml:"style"`
	Stanzas        int    `toml:"stanzas"`
	LinesPerStanza int    `toml:"lines_per_stanza"`
	UseRhyme       bool   `toml:"use_rhyme"`
	RhymeScheme    string `toml:"rhyme_scheme"`
	Count          int    `toml:"count"`
	Concurrency    int    `toml:"concurrency"`
	Seed           uint64 `toml:"seed"` // 0 = entropy

	// Checkpoint/resume
	EnableCheckpointing bool   `toml:"enable_checkpointing"`
	CheckpointInterval  int    `toml:"checkpoint_interval"` // Save every N completed poems
	ResumeFromSession   string `toml:"resume_from_session"` // Session dir name to resume
}

// LexiconConfig points at the vocabulary and structure tables
type LexiconConfig struct {
	Path string `toml:"path"` // "" = built-in lexicon
}

// OutputConfig controls where sessions and the file counter live
type OutputConfig struct {
	Dir           string `toml:"dir"`
	TitleTemplate string `toml:"title_template"`
}

// CounterConfig selects the poem counter backend
type CounterConfig struct {
	Backend   string `toml:"backend"` // "file" or "redis"
	RedisAddr string `toml:"redis_addr"`
	RedisKey  string `toml:"redis_key"`
	RedisDB   int    `toml:"redis_db"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr               string   `toml:"addr"`
	AllowedOrigins     []string `toml:"allowed_origins"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
	BurstPercent       int      `toml:"burst_percent"` // Burst capacity as % of rate limit
}

// Counter backends
const (
	CounterBackendFile  = "file"
	CounterBackendRedis = "redis"
)

// Secrets holds sensitive credentials loaded from environment variables
type Secrets struct {
	RedisPassword string
}

const (
	// MaxConcurrency is the maximum allowed number of batch workers
	MaxConcurrency = 256
	// MaxCount is the maximum number of poems in one batch
	MaxCount = 100000
	// MaxRateLimitPerMinute caps the per-client API rate
	MaxRateLimitPerMinute = 60000
)

// Options converts the generation section into engine options
func (g GenerationConfig) Options() poet.Options {
	return poet.Options{
		Style:          models.Style(g.Style),
		Stanzas:        g.Stanzas,
		LinesPerStanza: g.LinesPerStanza,
		UseRhyme:       g.UseRhyme,
		Scheme:         grammar.Rhyme(g.RhymeScheme),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	opts := c.Generation.Options()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	c.Generation.RhymeScheme = opts.Scheme.String()

	if c.Generation.Count < 1 {
		return fmt.Errorf("generation.count must be at least 1")
	}
	if c.Generation.Count > MaxCount {
		return fmt.Errorf("generation.count must not exceed %d (got %d)", MaxCount, c.Generation.Count)
	}
	if c.Generation.Concurrency < 1 {
		return fmt.Errorf("generation.concurrency must be at least 1")
	}
	if c.Generation.Concurrency > MaxConcurrency {
		return fmt.Errorf("generation.concurrency must not exceed %d (got %d)", MaxConcurrency, c.Generation.Concurrency)
	}
	if c.Generation.EnableCheckpointing && c.Generation.CheckpointInterval < 1 {
		return fmt.Errorf("generation.checkpoint_interval must be at least 1 when checkpointing is enabled")
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	switch c.Counter.Backend {
	case CounterBackendFile:
	case CounterBackendRedis:
		if c.Counter.RedisAddr == "" {
			return fmt.Errorf("counter.redis_addr is required for the redis backend")
		}
		if c.Counter.RedisKey == "" {
			return fmt.Errorf("counter.redis_key is required for the redis backend")
		}
	default:
		return fmt.Errorf("counter.backend must be %q or %q (got %q)", CounterBackendFile, CounterBackendRedis, c.Counter.Backend)
	}

	if c.Server.RateLimitPerMinute < 1 || c.Server.RateLimitPerMinute > MaxRateLimitPerMinute {
		return fmt.Errorf("server.rate_limit_per_minute must be between 1 and %d (got %d)", MaxRateLimitPerMinute, c.Server.RateLimitPerMinute)
	}
	if c.Server.BurstPercent < 1 || c.Server.BurstPercent > 50 {
		return fmt.Errorf("server.burst_percent must be between 1 and 50 (got %d)", c.Server.BurstPercent)
	}

	return nil
}

// LoadSecrets loads sensitive credentials from environment variables
func LoadSecrets() (*Secrets, error) {
	return &Secrets{
		RedisPassword: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
	}, nil
}
