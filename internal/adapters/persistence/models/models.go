package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Key-value tables
// ============================================================

// KVRecord represents kv_records table.
// One row per entity, keyed "<entityName>:<id>", value is the JSON document.
type KVRecord struct {
	RecordKey string         `gorm:"column:record_key;primaryKey;size:191" json:"key"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}

// KVIndexEntry represents kv_index_entries table.
// The autoincrement ID preserves insertion order within an index.
type KVIndexEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	IndexName string    `gorm:"size:64;not null;uniqueIndex:idx_kv_index_record" json:"index_name"`
	RecordID  string    `gorm:"size:191;not null;uniqueIndex:idx_kv_index_record" json:"record_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (KVIndexEntry) TableName() string {
	return "kv_index_entries"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates the key-value tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&KVRecord{},
		&KVIndexEntry{},
	)
}
