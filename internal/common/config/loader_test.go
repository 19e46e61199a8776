package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: laserquote
  environment: test
services:
  analysis:
    base_url: "http://analysis.local"
  pricing:
    base_url: "http://pricing.local"
    timeout: 15
database:
  postgres:
    host: db.local
    database: quotes
    user: quotes
    password: secret
  redis:
    address: "redis.local:6379"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "http://analysis.local", cfg.Services.Analysis.BaseURL)
	assert.Equal(t, 15, cfg.Services.Pricing.Timeout)

	// defaults fill the gaps
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 30, cfg.Services.Analysis.Timeout)
	assert.Equal(t, int64(10*1024*1024), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 60, cfg.Database.Redis.SessionTTL)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_RequiresServiceURLs(t *testing.T) {
	path := writeConfigFile(t, `
services:
  analysis:
    base_url: "http://analysis.local"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "services.pricing.base_url")
}

func TestLoadFromFile_EnvOverrideForEmptyValues(t *testing.T) {
	t.Setenv("QUOTE_CALCULATOR_URL", "http://pricing.env")

	path := writeConfigFile(t, `
services:
  analysis:
    base_url: "http://analysis.local"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://pricing.env", cfg.Services.Pricing.BaseURL)
}

func TestGetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.local",
		Port:     5432,
		Database: "quotes",
		User:     "quotes",
		Password: "secret",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db.local port=5432 user=quotes password=secret dbname=quotes sslmode=disable", cfg.GetDSN())
}
