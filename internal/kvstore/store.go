// Package kvstore provides the durable key-value backends that hold the
// persisted invoice books, sessions and organization profile.
package kvstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("kv_key_not_found")
	// ErrCorruptValue means the stored bytes exist but cannot be decoded.
	ErrCorruptValue = errors.New("kv_value_corrupt")
)

// Store is a flat byte-oriented key-value store. Values are opaque blobs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
