package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DASHBOARD_SESSION_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "config: session secret required")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DASHBOARD_SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTPAddress())
	assert.Equal(t, "http://localhost:8001/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: "8088"
api:
  baseUrl: http://api.internal/api/v1
  timeout: 3s
session:
  secret: from-file
  store: REDIS
feed:
  pollInterval: 15s
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DASHBOARD_SESSION_SECRET", "")
	require.NoError(t, os.Unsetenv("DASHBOARD_SESSION_SECRET"))
	t.Setenv("DASHBOARD_ALLOWED_ORIGINS", "http://a.local, http://b.local")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.HTTPAddress())
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, 15*time.Second, cfg.Feed.PollInterval)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "from-file", cfg.Session.Secret)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Session.Secret = "x"
	require.NoError(t, cfg.Validate())

	cfg.Session.Store = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.Session.Store = StorePostgres
	assert.EqualError(t, cfg.Validate(), "config: postgres dsn required for postgres session store")
	cfg.Postgres.DSN = "postgres://localhost/dash"
	assert.NoError(t, cfg.Validate())

	cfg.Security.CSRFKey = "short"
	assert.Error(t, cfg.Validate())
	cfg.Security.CSRFKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.Schedule.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}
