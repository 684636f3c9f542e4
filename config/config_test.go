package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, loaded, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.False(t, loaded)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.EventsEnabled)
	assert.False(t, cfg.EnforceSession)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/doctrack?sslmode=disable")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ENFORCE_SESSION", "true")
	t.Setenv("SESSION_TTL", "90m")

	cfg, _, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.True(t, cfg.EnforceSession)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=memory\nHTTP_ADDR=:9090\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("HTTP_ADDR")
	})

	cfg, loaded, err := Load(path)
	require.NoError(t, err)

	assert.True(t, loaded)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
}

func TestValidate(t *testing.T) {
	base := Config{StoreDriver: DriverMemory, SessionTTL: time.Hour}

	c := base
	require.NoError(t, c.Validate())

	c = base
	c.StoreDriver = "mongo"
	assert.Error(t, c.Validate())

	c = base
	c.StoreDriver = DriverPostgres
	assert.Error(t, c.Validate())

	c = base
	c.EnforceSession = true
	assert.Error(t, c.Validate())

	c = base
	c.SessionTTL = 0
	assert.Error(t, c.Validate())
}
