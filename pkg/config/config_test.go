package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mcp-gateway", cfg.ServerName)
	assert.Equal(t, "0.1.0", cfg.ServerVersion)
	assert.Empty(t, cfg.Transport)
	assert.Equal(t, ":8137", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "workspace", cfg.WorkspaceDir)
	assert.Zero(t, cfg.RateLimit)
	assert.Equal(t, 16, cfg.RateBurst)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MCP_SERVER_NAME", "custom-gateway")
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("MCP_LOG_LEVEL", "debug")
	t.Setenv("MCP_RATE_LIMIT", "25")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "custom-gateway", cfg.ServerName)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 25.0, cfg.RateLimit)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	yaml := `
server_name: file-gateway
transport: stdio
rate_limit: 10
rate_burst: 4
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-gateway", cfg.ServerName)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, 10.0, cfg.RateLimit)
	assert.Equal(t, 4, cfg.RateBurst)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadTransport(t *testing.T) {
	t.Setenv("MCP_TRANSPORT", "telepathy")
	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidTransport)
}

func TestValidateRejectsNegativeRates(t *testing.T) {
	t.Setenv("MCP_RATE_LIMIT", "-1")
	_, err := Load("")
	assert.Error(t, err)
}
