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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Sessions SessionsConfig
	Uploads  UploadsConfig
	Stats    StatsConfig
	Insights InsightsConfig
	Exports  ExportsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SessionsConfig controls lifetime of uploaded datasets.
type SessionsConfig struct {
	TTL time.Duration
}

// UploadsConfig bounds inbound spreadsheet files.
type UploadsConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// StatsConfig governs cache behaviour for statistics endpoints.
type StatsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// InsightsConfig configures the outbound narrative-generator call.
type InsightsConfig struct {
	Enabled        bool
	GatewayURL     string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
	MaxElapsed     time.Duration
	Workers        int
}

// ExportsConfig tunes CSV/PDF export rendering.
type ExportsConfig struct {
	Enabled  bool
	MaxRows  int
	PDFTitle string
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

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sessions = SessionsConfig{
		TTL: parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
	}

	maxUploadSize := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		MaxFileSizeBytes: maxUploadSize,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOAD_ALLOWED_MIME_TYPES")),
	}

	cfg.Stats = StatsConfig{
		CacheEnabled: v.GetBool("ENABLE_STATS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("STATS_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Insights = InsightsConfig{
		Enabled:        v.GetBool("ENABLE_INSIGHTS"),
		GatewayURL:     v.GetString("INSIGHTS_GATEWAY_URL"),
		APIKey:         v.GetString("INSIGHTS_API_KEY"),
		Model:          v.GetString("INSIGHTS_MODEL"),
		RequestTimeout: parseDuration(v.GetString("INSIGHTS_REQUEST_TIMEOUT"), 60*time.Second),
		MaxElapsed:     parseDuration(v.GetString("INSIGHTS_MAX_ELAPSED"), 90*time.Second),
		Workers:        v.GetInt("INSIGHTS_WORKERS"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:  v.GetBool("ENABLE_EXPORTS"),
		MaxRows:  v.GetInt("EXPORT_MAX_ROWS"),
		PDFTitle: v.GetString("EXPORT_PDF_TITLE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SESSION_TTL", "12h")

	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("UPLOAD_ALLOWED_MIME_TYPES", "text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,application/vnd.ms-excel")

	v.SetDefault("ENABLE_STATS_CACHE", false)
	v.SetDefault("STATS_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_INSIGHTS", false)
	v.SetDefault("INSIGHTS_GATEWAY_URL", "")
	v.SetDefault("INSIGHTS_API_KEY", "")
	v.SetDefault("INSIGHTS_MODEL", "")
	v.SetDefault("INSIGHTS_REQUEST_TIMEOUT", "60s")
	v.SetDefault("INSIGHTS_MAX_ELAPSED", "90s")
	v.SetDefault("INSIGHTS_WORKERS", 1)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_MAX_ROWS", 5000)
	v.SetDefault("EXPORT_PDF_TITLE", "Student Result Analysis Report")
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
