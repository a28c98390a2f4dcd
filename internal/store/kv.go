// Package store persists TaskNest's three records (projects, tasks and
// settings) as JSON documents in a key-value backend.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when no value is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// KV is a minimal byte-oriented key-value store.
type KV interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	Put(ctx context.Context, key string, value []byte) error

	// PutMany writes every entry or none of them.
	PutMany(ctx context.Context, entries map[string][]byte) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	Close() error
}
