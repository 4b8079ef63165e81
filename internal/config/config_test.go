package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  sqlite_path: test.db
jwt:
  secret: short
  expire_hours: 2
storage:
  type: minio
cors:
  allowed_origins: [http://a.test]
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.SQLitePath)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, []string{"http://a.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "console", cfg.Email.Provider)
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path)
	assert.False(t, cfg.OAuth.GoogleEnabled())
	assert.Equal(t, "logs/skillify.log", cfg.Log.File)
	assert.Equal(t, 50, cfg.Redis.PoolSize)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "jwt:\n  secret: from-file\nstorage:\n  type: minio\n")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoadConfig_ReleaseRequiresLongSecret(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: release\njwt:\n  secret: tooshort\nstorage:\n  type: minio\n")

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}
