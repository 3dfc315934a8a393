package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "supago.yaml")
	yaml := `
project:
  url: https://proj.supabase.co
  key: anon-key
  schema: tenants
  timeout: 10s
metrics:
  enabled: true
  listenAddr: ":9100"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co", cfg.Project.URL)
	assert.Equal(t, "anon-key", cfg.Project.Key)
	assert.Equal(t, "tenants", cfg.Project.Schema)
	assert.Equal(t, 10*time.Second, cfg.Project.Timeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.ListenAddr)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "supago.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project:\n  url: http://x\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Project.Schema)
	assert.Equal(t, 5*time.Second, cfg.Project.Timeout)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_KEY", "env-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "supago.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.supabase.co", cfg.Project.URL)
	assert.Equal(t, "env-key", cfg.Project.Key)
}

func TestLoadMissingFileIgnored(t *testing.T) {
	// no config file anywhere is not an error; env and defaults still apply
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
