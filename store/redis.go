package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces relay state in a shared Redis instance.
const keyPrefix = "relay:"

// RedisAdapter stores values in Redis. Values have no expiry: the queue and
// statistics must survive until explicitly consumed or reset.
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter creates a Redis-backed adapter on an existing client.
func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Get retrieves a value by key. A missing key is not an error.
func (r *RedisAdapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: redis get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores a value by key.
func (r *RedisAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := r.client.Set(ctx, keyPrefix+key, []byte(value), 0).Err(); err != nil {
		return fmt.Errorf("store: redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (r *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("store: redis del %q: %w", key, err)
	}
	return nil
}
