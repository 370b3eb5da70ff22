package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

const (
	defaultRateProviderURL     = "https://api.frankfurter.app"
	defaultRateProviderTimeout = 10 * time.Second
	defaultRateCacheTTL        = time.Hour
	defaultHistoryLimit        = 10
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string
	LogLevel       string

	// Rate provider and cache
	RateProviderURL     string
	RateProviderTimeout time.Duration
	RateCacheTTL        time.Duration

	ConversionHistoryLimit int

	// HTTP surface
	JWTSecret          string // empty disables authentication
	JWTIssuer          string
	CORSAllowedOrigins []string
	RateLimit          string `mapstructure:"RATE_LIMIT"` // ulule/limiter format, e.g. "120-M"
	PosthogAPIKey      string `mapstructure:"POSTHOG_API_KEY"`
}

// AuthEnabled reports whether bearer tokens are required on the API routes.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RATE_PROVIDER_URL", defaultRateProviderURL)
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", defaultRateProviderTimeout.String())
	viper.SetDefault("RATE_CACHE_TTL", defaultRateCacheTTL.String())
	viper.SetDefault("CONVERSION_HISTORY_LIMIT", defaultHistoryLimit)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "currency-conversion-app")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("POSTHOG_API_KEY", "")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(viper.GetString("STORAGE_DRIVER")))
	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		log.Printf("Warning: Invalid value for STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StorageDriver == StorageDriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.RateProviderURL = strings.TrimRight(viper.GetString("RATE_PROVIDER_URL"), "/")
	if cfg.RateProviderURL == "" {
		cfg.RateProviderURL = defaultRateProviderURL
	}
	cfg.RateProviderTimeout = durationOrDefault("RATE_PROVIDER_TIMEOUT", defaultRateProviderTimeout)
	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", defaultRateCacheTTL)

	cfg.ConversionHistoryLimit = viper.GetInt("CONVERSION_HISTORY_LIMIT")
	if cfg.ConversionHistoryLimit <= 0 {
		log.Printf("Warning: Invalid value for CONVERSION_HISTORY_LIMIT. Defaulting to %d.\n", defaultHistoryLimit)
		cfg.ConversionHistoryLimit = defaultHistoryLimit
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. API routes are served without authentication.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}

// durationOrDefault parses key as a duration, warning and falling back to def
// when the value is unset, malformed or not positive.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
