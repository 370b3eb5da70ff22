package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "https://api.frankfurter.app", cfg.RateProviderURL)
	assert.Equal(t, 10*time.Second, cfg.RateProviderTimeout)
	assert.Equal(t, time.Hour, cfg.RateCacheTTL)
	assert.Equal(t, 10, cfg.ConversionHistoryLimit)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "120-M", cfg.RateLimit)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("RATE_CACHE_TTL", "15m")
	t.Setenv("RATE_PROVIDER_TIMEOUT", "not-a-duration")
	t.Setenv("RATE_PROVIDER_URL", "http://rates.local/")
	t.Setenv("CONVERSION_HISTORY_LIMIT", "25")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 15*time.Minute, cfg.RateCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.RateProviderTimeout, "invalid durations fall back to the default")
	assert.Equal(t, "http://rates.local", cfg.RateProviderURL)
	assert.Equal(t, 25, cfg.ConversionHistoryLimit)
	assert.True(t, cfg.AuthEnabled())
}

func TestLoadConfig_UnknownStorageDriver(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "mongo")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
}
