// Package store provides pluggable durable storage for the offline queue
// and usage statistics.
//
// The [Adapter] interface is deliberately narrow so the durability mechanism
// is swappable without touching routing or dispatch logic. Three
// implementations are provided:
//
//   - [MemoryAdapter]: in-memory, for tests and ephemeral use
//   - [FileAdapter]: one JSON file per key, written atomically
//   - [RedisAdapter]: Redis-backed, for state shared across processes
//
// A missing key is reported as found == false, never as an error; callers
// treat it as an empty default on cold start.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Adapter defines the interface for persistence backends.
// Implementations must be thread-safe.
type Adapter interface {
	// Get retrieves a value by key. Returns nil, false, nil if not found.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Set stores a value by key.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes a key. No error if key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// SerializationError wraps JSON marshaling/unmarshaling errors with context.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("store: serialization error for key %q: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// LoadJSON reads a key and unmarshals it into v.
// A missing key leaves v untouched and returns found == false.
func LoadJSON(ctx context.Context, a Adapter, key string, v any) (bool, error) {
	raw, ok, err := a.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &SerializationError{Key: key, Err: err}
	}
	return true, nil
}

// SaveJSON marshals v and stores it under key.
func SaveJSON(ctx context.Context, a Adapter, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return a.Set(ctx, key, raw)
}
