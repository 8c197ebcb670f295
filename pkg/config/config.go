package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Snapshot store drivers for the local record persistence.
const (
	SnapshotDriverFile     = "file"
	SnapshotDriverPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	School   SchoolConfig
	Snapshot SnapshotConfig
	Database DatabaseConfig
	Remote   RemoteConfig
	Sync     SyncConfig
	CORS     CORSConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// SchoolConfig fixes the shape of the teaching day and the core
// subject keywords used by the ranking policy.
type SchoolConfig struct {
	TotalPeriods int
	CoreSubjects []string
}

// SnapshotConfig selects where the two local records are persisted.
type SnapshotConfig struct {
	Driver string
	Dir    string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RemoteConfig describes the optional remote document store. When
// disabled the service runs local-only.
type RemoteConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	SnapshotKey string
}

// SyncConfig tunes the debounced remote write.
type SyncConfig struct {
	Debounce time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig gates the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.School = SchoolConfig{
		TotalPeriods: v.GetInt("SCHOOL_TOTAL_PERIODS"),
		CoreSubjects: splitAndTrim(v.GetString("SCHOOL_CORE_SUBJECTS")),
	}

	cfg.Snapshot = SnapshotConfig{
		Driver: strings.ToLower(v.GetString("SNAPSHOT_DRIVER")),
		Dir:    v.GetString("SNAPSHOT_DIR"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Remote = RemoteConfig{
		Enabled:     v.GetBool("REMOTE_SYNC_ENABLED"),
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		SnapshotKey: v.GetString("REMOTE_SNAPSHOT_KEY"),
	}

	cfg.Sync = SyncConfig{
		Debounce: parseDuration(v.GetString("SYNC_DEBOUNCE"), 2*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SCHOOL_TOTAL_PERIODS", 9)
	v.SetDefault("SCHOOL_CORE_SUBJECTS", "中文,英文,數學,CHI,ENG,MATH,CHINESE,ENGLISH,MATHEMATICS")

	v.SetDefault("SNAPSHOT_DRIVER", SnapshotDriverFile)
	v.SetDefault("SNAPSHOT_DIR", "./data")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "classcover")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REMOTE_SYNC_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REMOTE_SNAPSHOT_KEY", "classcover:snapshot")

	v.SetDefault("SYNC_DEBOUNCE", "2s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
