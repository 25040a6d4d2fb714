package store

import (
	"context"
	"errors"
	"time"

	"keytrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore implements Store on the kv_records and kv_index_entries tables
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store backed by a relational database.
// The tables must already exist (see models.AutoMigrate).
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Get loads the document stored under key
func (s *gormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record models.KVRecord
	err := s.db.WithContext(ctx).
		Where("record_key = ?", key).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record.Value, nil
}

// Put inserts or replaces the document stored under key
func (s *gormStore) Put(ctx context.Context, key string, value []byte) error {
	record := models.KVRecord{
		RecordKey: key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
}

// Delete removes the document and reports whether it existed
func (s *gormStore) Delete(ctx context.Context, key string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("record_key = ?", key).
		Delete(&models.KVRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists checks if a document is stored under key
func (s *gormStore) Exists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.KVRecord{}).
		Where("record_key = ?", key).
		Count(&count).Error
	return count > 0, err
}

// IndexAdd appends id to the index unless it is already there
func (s *gormStore) IndexAdd(ctx context.Context, index, id string) error {
	entry := models.KVIndexEntry{
		IndexName: index,
		RecordID:  id,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

// IndexRemove drops id from the index
func (s *gormStore) IndexRemove(ctx context.Context, index, id string) error {
	return s.db.WithContext(ctx).
		Where("index_name = ? AND record_id = ?", index, id).
		Delete(&models.KVIndexEntry{}).Error
}

// IndexIDs lists the index in insertion order
func (s *gormStore) IndexIDs(ctx context.Context, index string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.KVIndexEntry{}).
		Where("index_name = ?", index).
		Order("id ASC").
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Ping checks the database connection
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
