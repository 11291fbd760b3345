package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Admin    AdminConfig
	Storage  StorageConfig
	Weather  WeatherConfig
	Voice    VoiceConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AdminConfig defines the admin session subsystem parameters. The signing
// secret and master secret are read once at startup and injected into the
// token codec and access gate; business logic never consults the
// environment directly.
type AdminConfig struct {
	// MasterSecret is the pre-shared break-glass secret. Empty disables
	// both the login exchange and the bypass path.
	MasterSecret string
	// MasterSecretHash optionally holds a bcrypt hash of the master
	// secret; when set it takes precedence over MasterSecret.
	MasterSecretHash string
	// SessionSecret signs self-contained admin tokens. Empty means only
	// opaque session ids are issued; signed tokens fail closed.
	// Rotating it invalidates every outstanding signed token.
	SessionSecret           string
	SessionTTLMinutes       int
	RevocationRetentionDays int
	CleanupIntervalSeconds  int
	AuditLogPath            string
}

// StorageConfig locates on-disk project files, snapshots, and the
// settings document.
type StorageConfig struct {
	DataDir      string
	SettingsPath string
}

// WeatherConfig points at the external weather API.
type WeatherConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// VoiceConfig points at the external speech engine used for transcription
// and synthesis.
type VoiceConfig struct {
	EngineURL      string
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "assistant-backend"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Admin: AdminConfig{
			MasterSecret:            os.Getenv("ADMIN_MASTER_SECRET"),
			MasterSecretHash:        os.Getenv("ADMIN_MASTER_SECRET_HASH"),
			SessionSecret:           os.Getenv("ADMIN_SESSION_SECRET"),
			SessionTTLMinutes:       getEnvAsInt("ADMIN_SESSION_TTL_MINUTES", 60),
			RevocationRetentionDays: getEnvAsInt("ADMIN_REVOCATION_RETENTION_DAYS", 30),
			CleanupIntervalSeconds:  getEnvAsInt("ADMIN_CLEANUP_INTERVAL_SECONDS", 300),
			AuditLogPath:            getEnv("ADMIN_AUDIT_LOG_PATH", "data/audit.log"),
		},
		Storage: StorageConfig{
			DataDir:      getEnv("STORAGE_DATA_DIR", "data"),
			SettingsPath: getEnv("STORAGE_SETTINGS_PATH", "data/settings.json"),
		},
		Weather: WeatherConfig{
			BaseURL:        getEnv("WEATHER_API_URL", "https://api.open-meteo.com/v1/forecast"),
			TimeoutSeconds: getEnvAsInt("WEATHER_TIMEOUT_SECONDS", 10),
		},
		Voice: VoiceConfig{
			EngineURL:      os.Getenv("VOICE_ENGINE_URL"),
			TimeoutSeconds: getEnvAsInt("VOICE_TIMEOUT_SECONDS", 30),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the default TTL for issued admin sessions.
func (a AdminConfig) SessionTTL() time.Duration {
	if a.SessionTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// RevocationRetention returns how long revocation records are kept before
// the retention sweep prunes them.
func (a AdminConfig) RevocationRetention() time.Duration {
	if a.RevocationRetentionDays <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(a.RevocationRetentionDays) * 24 * time.Hour
}

// CleanupInterval returns the period between background sweep runs.
func (a AdminConfig) CleanupInterval() time.Duration {
	if a.CleanupIntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.CleanupIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
