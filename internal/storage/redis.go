package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/redis/go-redis/v9"
)

// Redis stores keys as plain Redis strings under a common prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis store. prefix is prepended to every key so several
// installations can share one Redis database.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Get returns the value stored under key and whether it was present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key without expiration.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// SetAll writes every entry in a single MULTI/EXEC transaction.
func (r *Redis) SetAll(ctx context.Context, entries map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range sortedKeys(entries) {
			pipe.Set(ctx, r.prefix+key, entries[key], 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set all: %w", err)
	}
	return nil
}

func sortedKeys(entries map[string][]byte) []string {
	return slices.Sorted(maps.Keys(entries))
}
