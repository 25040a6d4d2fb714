package store

import (
	"context"
	"testing"

	"keytrack/internal/adapters/persistence/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	s := NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newMiniredisStore(t *testing.T) Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := NewRedisStore(client, "keytrack:")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		DriverMemory: func(*testing.T) Store { return NewMemoryStore() },
		DriverGorm:   newSQLiteStore,
		DriverRedis:  newMiniredisStore,
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("records", func(t *testing.T) { testRecords(t, open(t)) })
			t.Run("index", func(t *testing.T) { testIndex(t, open(t)) })
		})
	}
}

func testRecords(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, "key:missing")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Exists(ctx, "key:k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "key:k1", []byte(`{"id":"k1","status":"Available"}`)))
	require.NoError(t, s.Put(ctx, "key:k1", []byte(`{"id":"k1","status":"Issued"}`)))

	value, err := s.Get(ctx, "key:k1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"k1","status":"Issued"}`, string(value))

	ok, err = s.Exists(ctx, "key:k1")
	require.NoError(t, err)
	assert.True(t, ok)

	existed, err := s.Delete(ctx, "key:k1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.Delete(ctx, "key:k1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func testIndex(t *testing.T, s Store) {
	ctx := context.Background()

	ids, err := s.IndexIDs(ctx, "keys")
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, id := range []string{"c", "a", "b", "a"} {
		require.NoError(t, s.IndexAdd(ctx, "keys", id))
	}
	require.NoError(t, s.IndexAdd(ctx, "users", "a"))

	ids, err = s.IndexIDs(ctx, "keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	require.NoError(t, s.IndexRemove(ctx, "keys", "a"))
	require.NoError(t, s.IndexRemove(ctx, "keys", "missing"))

	ids, err = s.IndexIDs(ctx, "keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids)

	ids, err = s.IndexIDs(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}
