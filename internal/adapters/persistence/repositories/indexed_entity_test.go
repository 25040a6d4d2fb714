package repositories

import (
	"context"
	"testing"

	"keytrack/internal/adapters/persistence/store"
	"keytrack/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(keys []*domain.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.ID
	}
	return out
}

func TestEntity_GetMissing(t *testing.T) {
	repo := NewKeyRepository(store.NewMemoryStore())

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Patch(context.Background(), "nope", func(k *domain.Key) { k.Status = domain.KeyStatusLost })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIndexedEntity_CreateGeneratesID(t *testing.T) {
	ctx := context.Background()
	repo := NewKeyRepository(store.NewMemoryStore())

	created, err := repo.Create(ctx, &domain.Key{KeyNumber: "M-101"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "M-101", got.KeyNumber)
}

func TestIndexedEntity_CreateOverwritesWithoutDuplicatingIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewKeyRepository(store.NewMemoryStore())

	_, err := repo.Create(ctx, &domain.Key{ID: "k1", KeyNumber: "old"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Key{ID: "k1", KeyNumber: "new"})
	require.NoError(t, err)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new", all[0].KeyNumber)
}

func TestIndexedEntity_ListPaging(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := NewKeyRepository(s)

	for _, id := range []string{"k1", "k2", "k3", "k4", "k5"} {
		_, err := repo.Create(ctx, &domain.Key{ID: id})
		require.NoError(t, err)
	}
	// dangling index entry
	_, err := repo.Entity.Delete(ctx, "k2")
	require.NoError(t, err)

	page, err := repo.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k3"}, ids(page.Items))
	require.NotNil(t, page.Next)
	assert.Equal(t, "k3", *page.Next)

	page, err = repo.List(ctx, *page.Next, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"k4", "k5"}, ids(page.Items))
	assert.Nil(t, page.Next)

	page, err = repo.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k3", "k4", "k5"}, ids(page.Items))
	assert.Nil(t, page.Next)

	page, err = repo.List(ctx, "unknown", 2)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestIndexedEntity_ListNoCursorPastDanglingTail(t *testing.T) {
	ctx := context.Background()
	repo := NewKeyRepository(store.NewMemoryStore())

	for _, id := range []string{"k1", "k2", "k3", "k4"} {
		_, err := repo.Create(ctx, &domain.Key{ID: id})
		require.NoError(t, err)
	}
	// index still lists k3 and k4
	for _, id := range []string{"k3", "k4"} {
		_, err := repo.Entity.Delete(ctx, id)
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, ids(page.Items))
	assert.Nil(t, page.Next)

	page, err = repo.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, ids(page.Items))
	require.NotNil(t, page.Next)
	assert.Equal(t, "k1", *page.Next)
}

func TestIndexedEntity_DeleteAndDeleteMany(t *testing.T) {
	ctx := context.Background()
	repo := NewKeyRepository(store.NewMemoryStore())

	for _, id := range []string{"k1", "k2", "k3"} {
		_, err := repo.Create(ctx, &domain.Key{ID: id})
		require.NoError(t, err)
	}

	existed, err := repo.Delete(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = repo.Delete(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, existed)

	n, err := repo.DeleteMany(ctx, []string{"k2", "missing", "k3"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexedEntity_EnsureSeed(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore())

	require.NoError(t, repo.EnsureSeed(ctx, domain.SeedUsers))
	require.NoError(t, repo.EnsureSeed(ctx, domain.SeedUsers))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(domain.SeedUsers))
	assert.Equal(t, "admin-seed", all[0].ID)

	// seeding never runs on a non-empty index
	_, err = repo.Delete(ctx, "admin-seed")
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSeed(ctx, domain.SeedUsers))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
