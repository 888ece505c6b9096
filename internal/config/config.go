package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"list-app-go/pkg/logger"
)

type Config struct {
	HTTPPort string
	Env      string
	DB       DBConfig
	Cache    CacheConfig
	Realtime RealtimeConfig
	Sync     SyncConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type CacheConfig struct {
	// Path to the local SQLite mirror. Empty means in-memory only
	// (state does not survive a restart).
	Path string
}

type RealtimeConfig struct {
	Enabled           bool
	ListChannel       string
	ItemChannel       string
	MinReconnect      time.Duration
	MaxReconnect      time.Duration
	PingInterval      time.Duration
	NotifyDSNOverride string
}

type SyncConfig struct {
	RetryInterval time.Duration
	RetryAttempts int
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "list_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", "list-app-cache.db"),
		},
		Realtime: RealtimeConfig{
			Enabled:           getEnvBool("REALTIME_ENABLED", true),
			ListChannel:       getEnv("REALTIME_LIST_CHANNEL", "lists_changes"),
			ItemChannel:       getEnv("REALTIME_ITEM_CHANNEL", "items_changes"),
			MinReconnect:      getEnvDuration("REALTIME_MIN_RECONNECT", 500*time.Millisecond),
			MaxReconnect:      getEnvDuration("REALTIME_MAX_RECONNECT", 30*time.Second),
			PingInterval:      getEnvDuration("REALTIME_PING_INTERVAL", 90*time.Second),
			NotifyDSNOverride: getEnv("REALTIME_DSN", ""),
		},
		Sync: SyncConfig{
			RetryInterval: getEnvDuration("SYNC_RETRY_INTERVAL", 200*time.Millisecond),
			RetryAttempts: getEnvInt("SYNC_RETRY_ATTEMPTS", 3),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

// NotifyDSN is the connection string handed to the LISTEN/NOTIFY listener.
// It defaults to the main database DSN but can be pointed elsewhere, e.g.
// at a replica with the notify triggers installed.
func (c Config) NotifyDSN() string {
	if c.Realtime.NotifyDSNOverride != "" {
		return c.Realtime.NotifyDSNOverride
	}
	return c.DB.GetDSN()
}
