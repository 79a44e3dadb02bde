package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
server:
  port: 9090
database:
  dsn: "test.db"
logger:
  level: "debug"
  format: "json"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test.db", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Logger.Level)

	// Unset values fall back to defaults.
	assert.Equal(t, 300, cfg.Reports.CacheTTLSeconds)
	assert.Equal(t, 7, cfg.Reports.ForecastDays)
	assert.Equal(t, "http://localhost:8080", cfg.Exporter.BaseURL)
}

func TestLoadConfig_MissingDSNIsFatal(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
server:
  port: 8080
`)

	_, err := LoadConfig(dir)
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	viper.Reset()
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrMissingDSN)
	assert.ErrorIs(t, Config{Database: Database{DSN: "   "}}.Validate(), ErrMissingDSN)
	assert.NoError(t, Config{Database: Database{DSN: "store.db"}}.Validate())
}
