// File: config/config_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

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
	path := filepath.Join(t.TempDir(), "nanonet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "0.0.0.0", cfg.Server.Address)
	assert.Equal(t, uint16(DefaultPort), cfg.Server.Port)
	assert.Equal(t, DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	assert.Equal(t, CoreGo, cfg.Core.Type)
	assert.Equal(t, -1, cfg.Dispatch.CPU)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsListen, cfg.Metrics.Listen)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
server:
  address: 127.0.0.1
  port: 9000
  shutdown_timeout: 5s
core:
  type: go
  go:
    buffer_size: 1024
    echo: true
    read_timeout: 1m
dispatch:
  cpu: 0
  recycle_buffers: true
metrics:
  enabled: true
  listen: 127.0.0.1:9191
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1", cfg.Server.Address)
	assert.Equal(t, uint16(9000), cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 0, cfg.Dispatch.CPU)
	assert.True(t, cfg.Dispatch.RecycleBuffers)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9191", cfg.Metrics.Listen)

	opts, err := cfg.Core.GoOptions()
	require.NoError(t, err)
	assert.Equal(t, 1024, opts.BufferSize)
	assert.True(t, opts.Echo)
	assert.Equal(t, time.Minute, opts.ReadTimeout)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)
	t.Setenv("NANONET_SERVER_PORT", "9100")
	t.Setenv("NANONET_LOGGING_LEVEL", "warn")
	t.Setenv("NANONET_CORE_TYPE", "native")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(9100), cfg.Server.Port)
	assert.Equal(t, "WARN", cfg.Logging.Level)
	assert.Equal(t, CoreNative, cfg.Core.Type)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "TRACE" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"address not an ip", func(c *Config) { c.Server.Address = "example.com" }},
		{"nul in address", func(c *Config) { c.Server.Address = "127.0.0.1\x00" }},
		{"non-positive timeout", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }},
		{"unknown core", func(c *Config) { c.Core.Type = "rust" }},
		{"bad core options", func(c *Config) { c.Core.Go = map[string]any{"buffer_size": 0} }},
		{"cpu below -1", func(c *Config) { c.Dispatch.CPU = -2 }},
		{"bad metrics listen", func(c *Config) { c.Metrics.Listen = "nowhere" }},
	}

	require.NoError(t, Validate(Default()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestNativeCoreSkipsGoOptions(t *testing.T) {
	cfg := Default()
	cfg.Core.Type = CoreNative
	cfg.Core.Go = map[string]any{"buffer_size": 0}
	assert.NoError(t, Validate(cfg))
}
