// Package counter hands out sequential poem numbers that survive restarts.
package counter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Counter issues monotonically increasing poem numbers
type Counter interface {
	// Next increments the counter and returns the new value
	Next(ctx context.Context) (int64, error)
	// Current returns the last issued value without incrementing
	Current(ctx context.Context) (int64, error)
	Close() error
}

// FileName is the counter document inside the output directory
const FileName = "poem_counter.json"

type fileState struct {
	Count int64 `json:"count"`
}

// FileCounter persists the count as a JSON document. Writes go through a temp
// file and rename so a crash never leaves a truncated document.
type FileCounter struct {
	path string
	mu   sync.Mutex
}

// NewFileCounter creates a counter stored in dir, creating dir if needed
func NewFileCounter(dir string) (*FileCounter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create counter directory: %w", err)
	}
	return &FileCounter{path: filepath.Join(dir, FileName)}, nil
}

// Path returns the counter document path
func (c *FileCounter) Path() string {
	return c.path
}

func (c *FileCounter) read() (int64, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return 0, fmt.Errorf("failed to parse counter %s: %w", c.path, err)
	}
	return state.Count, nil
}

// Next increments and persists the count
func (c *FileCounter) Next(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.read()
	if err != nil {
		return 0, err
	}
	n++

	data, err := json.Marshal(fileState{Count: n})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal counter: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write counter: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return 0, fmt.Errorf("failed to rename counter: %w", err)
	}
	return n, nil
}

// Current returns the persisted count, 0 if nothing was issued yet
func (c *FileCounter) Current(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Close is a no-op
func (c *FileCounter) Close() error {
	return nil
}

// RedisCounter keeps the count in a Redis string key so several processes can
// share one sequence
type RedisCounter struct {
	client *redis.Client
	key    string
}

// NewRedisCounter connects to Redis and verifies the connection with PING
func NewRedisCounter(ctx context.Context, opts *redis.Options, key string) (*RedisCounter, error) {
	if key == "" {
		return nil, errors.New("redis counter key must not be empty")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return &RedisCounter{client: client, key: key}, nil
}

// Next increments the key atomically
func (c *RedisCounter) Next(ctx context.Context) (int64, error) {
	n, err := c.client.Incr(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", c.key, err)
	}
	return n, nil
}

// Current reads the key, treating a missing key as 0
func (c *RedisCounter) Current(ctx context.Context) (int64, error) {
	n, err := c.client.Get(ctx, c.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", c.key, err)
	}
	return n, nil
}

// Close closes the Redis client
func (c *RedisCounter) Close() error {
	return c.client.Close()
}
