package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when nothing was ever stored under key.
var ErrKeyNotFound = errors.New("key not found")

// ErrUnavailable is returned while a backend is being skipped after
// repeated failures.
var ErrUnavailable = errors.New("storage unavailable")

// KeyValue is whole-value key to JSON-string persistence. The stores keep
// one key per collection and always rewrite it completely; there is no
// partial update and no transaction across keys.
type KeyValue interface {
	// Get returns the value stored under key or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key, value string) error
}

// Backend is a KeyValue that holds resources.
type Backend interface {
	KeyValue

	// Close releases connections held by the backend
	Close() error
}
