package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Setenv("TOKEN_SYMMETRIC_KEY", testKey)
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverREST, cfg.StoreDriver)
	assert.Equal(t, 8*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.True(t, cfg.RequireAuthOnRecords)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadRejectsShortKey(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_SYMMETRIC_KEY", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestLoadRequiresStoreCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("SUPABASE_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadPostgresDriverNeedsDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("DB_URL", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("DB_URL", "postgres://localhost/odonto")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
}

func TestLoadStoreIgnoresServerSettings(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("DB_URL", "postgres://localhost/odonto")

	cfg, err := LoadStore()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/odonto", cfg.DBURL)
}

func TestLoadDashboardTrimsURL(t *testing.T) {
	t.Setenv("API_URL", "http://api:8000/")

	cfg, err := LoadDashboard()
	require.NoError(t, err)
	assert.Equal(t, "http://api:8000", cfg.APIURL)
	assert.Equal(t, "8501", cfg.Port)
}
