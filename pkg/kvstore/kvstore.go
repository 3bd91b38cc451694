// Package kvstore is the durable device storage used by the cart: opaque text values
// addressed by key, with file, memory, Redis and SQL backends.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the key-value contract. Implementations do not coordinate concurrent
// writers across processes; the last Set wins.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
