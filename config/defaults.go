// File: config/defaults.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config

import (
	"strings"
	"time"
)

const (
	DefaultPort            = 8080
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsListen   = "127.0.0.1:9090"
	DefaultNamespace       = "nanonet"
)

func defaultValues() map[string]any {
	return map[string]any{
		"logging.level":            "INFO",
		"logging.format":           "text",
		"logging.output":           "stdout",
		"server.address":           "0.0.0.0",
		"server.port":              DefaultPort,
		"server.shutdown_timeout":  DefaultShutdownTimeout,
		"core.type":                CoreGo,
		"dispatch.cpu":             -1,
		"dispatch.recycle_buffers": false,
		"metrics.enabled":          false,
		"metrics.listen":           DefaultMetricsListen,
		"metrics.namespace":        DefaultNamespace,
	}
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	cfg := &Config{Dispatch: DispatchConfig{CPU: -1}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero values and normalizes the log level.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Core.Type == "" {
		cfg.Core.Type = CoreGo
	}
	cfg.Core.Type = strings.ToLower(cfg.Core.Type)

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
}
