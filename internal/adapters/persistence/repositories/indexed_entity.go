package repositories

import (
	"context"
	"errors"
	"fmt"

	"keytrack/internal/adapters/persistence/store"

	"github.com/google/uuid"
)

// Record is implemented by entities that carry their own id
type Record interface {
	GetID() string
	SetID(id string)
}

// Page is one window of an indexed listing.
// Next is the id to pass as cursor for the following page, nil when exhausted.
type Page[T any] struct {
	Items []*T    `json:"items"`
	Next  *string `json:"next"`
}

// IndexedEntity is an Entity whose ids are also kept in an ordered index
type IndexedEntity[T any, PT interface {
	*T
	Record
}] struct {
	*Entity[T]
	index string
}

// NewIndexedEntity creates an indexed entity accessor
func NewIndexedEntity[T any, PT interface {
	*T
	Record
}](s store.Store, name, index string) *IndexedEntity[T, PT] {
	return &IndexedEntity[T, PT]{
		Entity: NewEntity[T](s, name),
		index:  index,
	}
}

// Create writes rec and appends its id to the index.
// An empty id is replaced with a new UUID. An existing id is overwritten.
func (e *IndexedEntity[T, PT]) Create(ctx context.Context, rec PT) (PT, error) {
	if rec.GetID() == "" {
		rec.SetID(uuid.New().String())
	}
	var zero PT
	if err := e.Put(ctx, rec.GetID(), (*T)(rec)); err != nil {
		return zero, err
	}
	if err := e.store.IndexAdd(ctx, e.index, rec.GetID()); err != nil {
		return zero, fmt.Errorf("index %s %q: %w", e.index, rec.GetID(), err)
	}
	return rec, nil
}

// Update overwrites an existing record in place
func (e *IndexedEntity[T, PT]) Update(ctx context.Context, rec PT) error {
	return e.Put(ctx, rec.GetID(), (*T)(rec))
}

// List returns up to limit records that follow cursor in index order.
// An empty cursor starts at the beginning, limit <= 0 returns everything.
// An unknown cursor yields an empty page. Ids whose record is gone are skipped,
// and Next is only set when a readable record follows the page.
func (e *IndexedEntity[T, PT]) List(ctx context.Context, cursor string, limit int) (*Page[T], error) {
	ids, err := e.store.IndexIDs(ctx, e.index)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.index, err)
	}

	start := 0
	if cursor != "" {
		start = len(ids)
		for i, id := range ids {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}

	page := &Page[T]{Items: make([]*T, 0)}
	pos := start
	for ; pos < len(ids); pos++ {
		if limit > 0 && len(page.Items) == limit {
			break
		}
		rec, err := e.Get(ctx, ids[pos])
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		page.Items = append(page.Items, rec)
	}

	if len(page.Items) == 0 {
		return page, nil
	}
	for ; pos < len(ids); pos++ {
		exists, err := e.Exists(ctx, ids[pos])
		if err != nil {
			return nil, err
		}
		if exists {
			next := PT(page.Items[len(page.Items)-1]).GetID()
			page.Next = &next
			break
		}
	}
	return page, nil
}

// All returns every indexed record
func (e *IndexedEntity[T, PT]) All(ctx context.Context) ([]*T, error) {
	page, err := e.List(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Count returns the number of ids in the index
func (e *IndexedEntity[T, PT]) Count(ctx context.Context) (int, error) {
	ids, err := e.store.IndexIDs(ctx, e.index)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", e.index, err)
	}
	return len(ids), nil
}

// Delete removes the record and its index entry and reports whether the record existed
func (e *IndexedEntity[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := e.Entity.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if err := e.store.IndexRemove(ctx, e.index, id); err != nil {
		return existed, fmt.Errorf("unindex %s %q: %w", e.index, id, err)
	}
	return existed, nil
}

// DeleteMany deletes ids one after another and returns how many existed.
// It stops at the first store error; earlier deletions are kept.
func (e *IndexedEntity[T, PT]) DeleteMany(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		existed, err := e.Delete(ctx, id)
		if err != nil {
			return deleted, err
		}
		if existed {
			deleted++
		}
	}
	return deleted, nil
}

// EnsureSeed creates every seed record when the index is empty
func (e *IndexedEntity[T, PT]) EnsureSeed(ctx context.Context, seed []T) error {
	n, err := e.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for i := range seed {
		rec := seed[i]
		if _, err := e.Create(ctx, PT(&rec)); err != nil {
			return err
		}
	}
	return nil
}
