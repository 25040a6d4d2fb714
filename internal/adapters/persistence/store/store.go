// Package store is the key-value contract the entity layer is built on,
// with gorm, redis and in-memory backends.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record is stored under the key
var ErrNotFound = errors.New("record not found")

// Store persists JSON documents by key and keeps ordered id indexes.
// No operation is transactional across keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete reports whether the key existed
	Delete(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)

	// IndexAdd appends id to the index; adding an id twice keeps its first position
	IndexAdd(ctx context.Context, index, id string) error
	IndexRemove(ctx context.Context, index, id string) error
	// IndexIDs returns the ids of an index in insertion order
	IndexIDs(ctx context.Context, index string) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}

// Driver names accepted by STORE_DRIVER
const (
	DriverGorm   = "gorm"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)
