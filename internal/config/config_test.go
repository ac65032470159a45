package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aytoleon_scraper/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database:\n  dbname: aytoleon\n"))
	require.NoError(t, err)

	assert.Equal(t, "aytoleon", cfg.Database.DBName)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://www.aytoleon.es", cfg.Source.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, domain.AllContentTypes, cfg.Sync.ContentTypes)
	assert.Equal(t, time.Duration(0), cfg.Sync.Interval)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	cfg, err := Load(writeConfig(t, `
database:
  user: scraper
  password: ${TEST_DB_PASSWORD}
sync:
  interval: 1h
  content_types: [agenda, noticias]
source:
  paths:
    agenda: /es/agenda.aspx
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, time.Hour, cfg.Sync.Interval)
	assert.Equal(t, []domain.ContentType{domain.ContentAgenda, domain.ContentNews}, cfg.Sync.ContentTypes)
	assert.Equal(t, "/es/agenda.aspx", cfg.Source.Paths[domain.ContentAgenda])
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestLoad_UnknownContentType(t *testing.T) {
	_, err := Load(writeConfig(t, "sync:\n  content_types: [eventos, blog]\n"))

	assert.ErrorIs(t, err, domain.ErrUnknownContentType)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}
