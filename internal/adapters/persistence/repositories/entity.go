package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"keytrack/internal/adapters/persistence/store"
)

// ErrNotFound is returned when an entity is absent
var ErrNotFound = store.ErrNotFound

// Entity stores one document per id under "<name>:<id>"
type Entity[T any] struct {
	store store.Store
	name  string
}

// NewEntity creates an entity accessor for the given entity name
func NewEntity[T any](s store.Store, name string) *Entity[T] {
	return &Entity[T]{store: s, name: name}
}

// Name returns the entity name used as key prefix
func (e *Entity[T]) Name() string {
	return e.name
}

func (e *Entity[T]) key(id string) string {
	return e.name + ":" + id
}

// Get loads the entity, wrapping ErrNotFound when it is absent
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := e.store.Get(ctx, e.key(id))
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", e.name, id, err)
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode %s %q: %w", e.name, id, err)
	}
	return &rec, nil
}

// Put overwrites the entity
func (e *Entity[T]) Put(ctx context.Context, id string, rec *T) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s %q: %w", e.name, id, err)
	}
	if err := e.store.Put(ctx, e.key(id), raw); err != nil {
		return fmt.Errorf("put %s %q: %w", e.name, id, err)
	}
	return nil
}

// Patch loads the entity, applies mutate and writes it back.
// The read and the write are separate store calls.
func (e *Entity[T]) Patch(ctx context.Context, id string, mutate func(*T)) (*T, error) {
	rec, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(rec)
	if err := e.Put(ctx, id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the entity and reports whether it existed
func (e *Entity[T]) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := e.store.Delete(ctx, e.key(id))
	if err != nil {
		return false, fmt.Errorf("delete %s %q: %w", e.name, id, err)
	}
	return existed, nil
}

// Exists checks if the entity is stored
func (e *Entity[T]) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := e.store.Exists(ctx, e.key(id))
	if err != nil {
		return false, fmt.Errorf("exists %s %q: %w", e.name, id, err)
	}
	return ok, nil
}
