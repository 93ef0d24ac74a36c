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

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Editor   EditorConfig
	Solver   SolverConfig
	Export   ExportConfig
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

// EditorConfig shapes the in-memory timetable editor: grid dimensions per
// education level and how many generated variants are retained.
type EditorConfig struct {
	Days            int
	BlocksPerDay    int
	GradesPerLevel  int
	VariantCapacity int
	CacheTTL        time.Duration
	PersistWorkers  int
	PersistRetries  int
}

// SolverConfig points at the external constraint-solving service.
type SolverConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ExportConfig gates the read-only grid export endpoints.
type ExportConfig struct {
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

	cfg.Editor = EditorConfig{
		Days:            v.GetInt("EDITOR_DAYS"),
		BlocksPerDay:    v.GetInt("EDITOR_BLOCKS_PER_DAY"),
		GradesPerLevel:  v.GetInt("EDITOR_GRADES_PER_LEVEL"),
		VariantCapacity: v.GetInt("EDITOR_VARIANT_CAPACITY"),
		CacheTTL:        parseDuration(v.GetString("EDITOR_CACHE_TTL"), 5*time.Minute),
		PersistWorkers:  v.GetInt("EDITOR_PERSIST_WORKERS"),
		PersistRetries:  v.GetInt("EDITOR_PERSIST_RETRIES"),
	}

	cfg.Solver = SolverConfig{
		BaseURL: v.GetString("SOLVER_BASE_URL"),
		Timeout: parseDuration(v.GetString("SOLVER_TIMEOUT"), 30*time.Second),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable_editor")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EDITOR_DAYS", 5)
	v.SetDefault("EDITOR_BLOCKS_PER_DAY", 6)
	v.SetDefault("EDITOR_GRADES_PER_LEVEL", 4)
	v.SetDefault("EDITOR_VARIANT_CAPACITY", 3)
	v.SetDefault("EDITOR_CACHE_TTL", "5m")
	v.SetDefault("EDITOR_PERSIST_WORKERS", 1)
	v.SetDefault("EDITOR_PERSIST_RETRIES", 3)

	v.SetDefault("SOLVER_BASE_URL", "http://localhost:9090")
	v.SetDefault("SOLVER_TIMEOUT", "30s")

	v.SetDefault("ENABLE_EXPORT", true)
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
