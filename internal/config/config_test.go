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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  environment: development
  port: "9090"
postgres:
  host: db
  port: "5432"
redis:
  enabled: true
  addr: cache:6379
  calendar_ttl: 2m
booking:
  notify_timeout: 3s
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, "db", conf.Postgres.Host)
	assert.Equal(t, "disable", conf.Postgres.SSLMode)
	assert.True(t, conf.Redis.Enabled)
	assert.Equal(t, 2*time.Minute, conf.Redis.CalendarTTL)
	assert.Equal(t, "campsite.events", conf.RabbitMQ.Exchange)
	assert.Equal(t, 3*time.Second, conf.Booking.Timeout())
	assert.Equal(t, time.UTC, conf.Booking.Location())
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
postgres:
  host: db
`)
	t.Setenv("POSTGRES_HOST", "override")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "override", conf.Postgres.Host)
}

func TestLoad_RequiresSigningKeyOutsideDevelopment(t *testing.T) {
	path := writeConfig(t, `
api:
  environment: production
  port: "8080"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSigningKey")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
