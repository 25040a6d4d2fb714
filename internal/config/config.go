package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	Store    StoreConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Overdue  OverdueConfig
	Storage  StorageConfig
	Mail     MailConfig
}

// DatabaseConfig holds database configuration for the gorm store
type DatabaseConfig struct {
	Driver     string // mysql, postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// StoreConfig selects the key-value backend
type StoreConfig struct {
	Driver string // gorm, redis or memory
}

// RedisConfig holds redis configuration for the redis store
type RedisConfig struct {
	URL    string
	Prefix string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// AuthConfig controls whether API routes require a bearer token
type AuthConfig struct {
	Required bool
}

// OverdueConfig controls when the overdue sweep runs
type OverdueConfig struct {
	Schedule    string // cron spec, empty disables the scheduled sweep
	SweepOnRead bool
}

// StorageConfig holds MinIO configuration for reset snapshots
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether snapshots should be uploaded
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// MailConfig holds Resend configuration for notification e-mails
type MailConfig struct {
	ResendAPIKey string
	From         string
	BaseURL      string // empty uses the Resend default
}

// Enabled reports whether e-mails can be sent
func (m MailConfig) Enabled() bool {
	return m.ResendAPIKey != "" && m.From != ""
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		Store:    StoreConfig{Driver: strings.ToLower(getEnv("STORE_DRIVER", "gorm"))},
		Redis: RedisConfig{
			URL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Prefix: getEnv("REDIS_PREFIX", "keytrack:"),
		},
		JWT:     loadJWTConfig(appMode),
		Auth:    AuthConfig{Required: getBool("AUTH_REQUIRED", false)},
		Overdue: loadOverdueConfig(),
		Storage: StorageConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "keytrack"),
			UseSSL:    getBool("MINIO_USE_SSL", false),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("MAIL_FROM", ""),
			BaseURL:      getEnv("RESEND_BASE_URL", ""),
		},
	}

	switch config.Store.Driver {
	case "gorm", "redis", "memory":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be 'gorm', 'redis' or 'memory')", config.Store.Driver)
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, config.Store.Driver)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	driver := strings.ToLower(getEnv(prefix+"DB_DRIVER", "mysql"))
	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	return DatabaseConfig{
		Driver:     driver,
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", defaultPort),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "keytrack"),
		SQLitePath: getEnv(prefix+"SQLITE_PATH", "keytrack.db"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

func loadOverdueConfig() OverdueConfig {
	schedule, ok := os.LookupEnv("OVERDUE_SWEEP_SCHEDULE")
	if !ok {
		schedule = "@every 5m"
	}

	return OverdueConfig{
		Schedule:    strings.TrimSpace(schedule),
		SweepOnRead: getBool("OVERDUE_SWEEP_ON_READ", true),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		return "*"
	}
	return origins
}
