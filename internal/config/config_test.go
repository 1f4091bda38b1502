package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Interval())
	assert.Equal(t, "host", cfg.Source.Kind)
	assert.Equal(t, "unix:///var/run/docker.sock", cfg.Docker.Host)
	assert.Equal(t, 30*time.Second, cfg.DockerTimeout())
	assert.Equal(t, 168*time.Hour, cfg.Retention())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
sampler:
  interval_ms: 500
source:
  kind: Container
  container: web
  interfaces: [eth0, wlan0]
metrics:
  enabled: true
  listen: ":9999"
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Interval())
	assert.Equal(t, "container", cfg.Source.Kind)
	assert.Equal(t, "web", cfg.Source.Container)
	assert.Equal(t, []string{"eth0", "wlan0"}, cfg.Source.Interfaces)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9999", cfg.Metrics.Listen)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfig_SanitizesInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampler:\n  interval_ms: 5\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Interval())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("NETSPEED_SAMPLER_INTERVAL_MS", "2000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Interval())
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampler: [\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
