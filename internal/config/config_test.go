package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
postgres:
  host: db.internal
  port: "5432"
  user: harvester
  password: secret
  dbname: articles
  sslmode: disable
redis:
  enabled: true
  url: redis://localhost:6379/0
harvester:
  timeout: 12
  dedup_required: false
  resources_dir: /opt/newsharvest/resources
  user_agents_file: useragents.txt
  stopwords_dir: text
  cache_dir: /var/cache/newsharvest
logger:
  level: debug
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "newsharvest.yaml"), []byte(yaml), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, sampleYAML)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "articles", cfg.Postgres.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 12, cfg.Harvester.Timeout)
	assert.False(t, cfg.Harvester.DedupRequired)
	assert.Equal(t, "/opt/newsharvest/resources", cfg.Harvester.ResourcesDir)
	assert.Equal(t, "useragents.txt", cfg.Harvester.UserAgentsFile)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, "postgres:\n  host: localhost\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Harvester.Timeout)
	assert.True(t, cfg.Harvester.DedupRequired, "dedup should be required by default")
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	cfg := Settings{}
	cfg.Harvester.Timeout = 7
	cfg.Postgres.Port = "5432"

	err := cfg.Apply(map[string]any{
		"harvester": map[string]any{"timeout": 30},
		"postgres":  map[string]any{"host": "override.internal"},
		"unknown":   "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Harvester.Timeout)
	assert.Equal(t, "override.internal", cfg.Postgres.Host)
	// Fields absent from the override map keep their values.
	assert.Equal(t, "5432", cfg.Postgres.Port)

	require.NoError(t, cfg.Apply(nil))
}
