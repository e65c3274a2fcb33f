// Package config loads the gateway configuration. Sources in priority order:
// environment variables (MCP_ prefix), an optional YAML config file, then
// built-in defaults. Configuration is read once at startup; nothing in the
// core reads the environment afterwards.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Transport selection values. Empty means "not set": the transport factory
// then falls through to environment override and auto-detection.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ErrInvalidTransport indicates a transport value outside the known set.
var ErrInvalidTransport = errors.New("invalid transport type")

// Config is the gateway's startup configuration.
type Config struct {
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`

	// Transport is the explicit transport selection; empty defers to
	// MCP_TRANSPORT and auto-detection.
	Transport string `mapstructure:"transport"`
	HTTPAddr  string `mapstructure:"http_addr"`
	DevMode   bool   `mapstructure:"dev_mode"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json

	WorkspaceDir     string `mapstructure:"workspace_dir"`
	InstructionsPath string `mapstructure:"instructions_path"`

	// RateLimit is the sustained requests-per-second budget; 0 disables
	// throttling. RateBurst is the token bucket depth.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`

	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// MetricsConfig controls the Prometheus endpoint on the HTTP transport.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TracingConfig controls OTLP trace export.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Endpoint   string  `mapstructure:"endpoint"`
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Load reads configuration from the optional file at path (empty path means
// file-less operation) plus MCP_-prefixed environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_name", "mcp-gateway")
	v.SetDefault("server_version", "0.1.0")
	v.SetDefault("transport", "")
	v.SetDefault("http_addr", ":8137")
	v.SetDefault("dev_mode", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("workspace_dir", "workspace")
	v.SetDefault("instructions_path", "workspace/.instructions")
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("rate_burst", 16)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_rate", 1.0)

	v.SetEnvPrefix("MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Transport {
	case "", TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Transport)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("rate_burst must not be negative, got %d", c.RateBurst)
	}
	return nil
}
