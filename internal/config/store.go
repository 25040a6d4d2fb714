package config

import (
	"fmt"
	"log"

	"keytrack/internal/adapters/persistence/models"
	"keytrack/internal/adapters/persistence/store"
)

// OpenStore connects the key-value backend chosen by STORE_DRIVER
func OpenStore(cfg *Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case store.DriverGorm:
		db, err := ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		log.Println("✅ Database migration completed")
		return store.NewGormStore(db), nil

	case store.DriverRedis:
		client, err := ConnectRedis(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, cfg.Redis.Prefix), nil

	case store.DriverMemory:
		log.Println("⚠️ Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
