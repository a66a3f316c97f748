package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  read_timeout: 3s
database:
  dsn: /tmp/catalog.db
log:
  level: debug
aws:
  region: eu-west-1
  s3_bucket: catalog-backups
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.Database.DSN)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "catalog-backups", cfg.AWS.S3Bucket)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, log.LevelDebug, cfg.LogLevel())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("VIDEOS_SERVER_ADDR", ":7000")
	t.Setenv("VIDEOS_EXPORT_PREFIX", "nightly/")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "nightly/", cfg.Export.Prefix)
}

func TestLoadRejectsUnknownLevel(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
