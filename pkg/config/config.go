package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Backend drivers for the session store.
const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Backend   BackendConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Booking   BookingConfig
	Directory DirectoryConfig
	Reports   ReportsConfig
}

// BackendConfig selects and configures the session store adapter.
type BackendConfig struct {
	Driver  string
	BaseURL string
	Timeout time.Duration
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

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// BookingConfig tunes the slot validator.
type BookingConfig struct {
	HorizonDays int
	OpenHour    int
	CloseHour   int
	Timezone    string
	LenientEnd  bool

	location *time.Location
}

// DirectoryConfig controls caching of the counselor directory.
type DirectoryConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ReportsConfig toggles file export of session reports.
type ReportsConfig struct {
	ExportEnabled bool
}

// Location returns the booking time zone resolved at load time, or UTC when none is set.
func (b BookingConfig) Location() *time.Location {
	if b.location == nil {
		return time.UTC
	}
	return b.location
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Backend = BackendConfig{
		Driver:  strings.ToLower(v.GetString("BACKEND_DRIVER")),
		BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
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

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Booking = BookingConfig{
		HorizonDays: v.GetInt("BOOKING_HORIZON_DAYS"),
		OpenHour:    v.GetInt("BOOKING_OPEN_HOUR"),
		CloseHour:   v.GetInt("BOOKING_CLOSE_HOUR"),
		Timezone:    v.GetString("BOOKING_TIMEZONE"),
		LenientEnd:  v.GetBool("BOOKING_LENIENT_END"),
	}

	cfg.Directory = DirectoryConfig{
		CacheEnabled: v.GetBool("ENABLE_DIRECTORY_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DIRECTORY_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Reports = ReportsConfig{
		ExportEnabled: v.GetBool("ENABLE_REPORT_EXPORT"),
	}

	if cfg.Booking.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Booking.Timezone)
		if err != nil {
			return nil, fmt.Errorf("BOOKING_TIMEZONE %q: %w", cfg.Booking.Timezone, err)
		}
		cfg.Booking.location = loc
	}

	switch cfg.Backend.Driver {
	case BackendHTTP:
		if cfg.Backend.BaseURL == "" {
			return nil, errors.New("BACKEND_BASE_URL is required for the http backend")
		}
	case BackendPostgres:
	default:
		return nil, errors.New("BACKEND_DRIVER must be http or postgres")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("BACKEND_DRIVER", BackendHTTP)
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("BACKEND_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "tutorias")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("BOOKING_HORIZON_DAYS", 30)
	v.SetDefault("BOOKING_OPEN_HOUR", 7)
	v.SetDefault("BOOKING_CLOSE_HOUR", 18)
	v.SetDefault("BOOKING_TIMEZONE", "America/Mexico_City")
	v.SetDefault("BOOKING_LENIENT_END", false)

	v.SetDefault("ENABLE_DIRECTORY_CACHE", false)
	v.SetDefault("DIRECTORY_CACHE_TTL", "10m")

	v.SetDefault("ENABLE_REPORT_EXPORT", true)
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
