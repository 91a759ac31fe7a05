package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/lamim/poetforge/internal/config"
	"github.com/lamim/poetforge/internal/counter"
)

const defaultConfigPath = "config.toml"

// resolveConfigPath returns the --config value. The default config.toml is
// optional: when it does not exist and the flag was not given, the built-in
// defaults are used.
func resolveConfigPath(cmd *cobra.Command, path string) string {
	if cmd.Flags().Changed("config") {
		return path
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadEnv loads the env file if present. A missing file is not an error.
func loadEnv(path string, verbose bool) {
	if path == "" {
		return
	}
	if err := loadEnvFile(path); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load env file: %v\n", err)
		}
	} else if verbose {
		fmt.Fprintf(os.Stderr, "Loaded env file: %s\n", path)
	}
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// openCounter opens the poem counter backend named in the configuration
func openCounter(ctx context.Context, cfg *config.Config, secrets *config.Secrets) (counter.Counter, error) {
	switch cfg.Counter.Backend {
	case config.CounterBackendRedis:
		var password string
		if secrets != nil {
			password = secrets.RedisPassword
		}
		c, err := counter.NewRedisCounter(ctx, &redis.Options{
			Addr:     cfg.Counter.RedisAddr,
			Password: password,
			DB:       cfg.Counter.RedisDB,
		}, cfg.Counter.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis counter: %w", err)
		}
		return c, nil
	default:
		c, err := counter.NewFileCounter(cfg.Output.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file counter: %w", err)
		}
		return c, nil
	}
}
