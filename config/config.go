// File: config/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server configuration loaded from a file, NANONET_* environment variables
// and defaults.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/momentics/nanonet/gocore"
)

// Core types selectable in CoreConfig.Type.
const (
	CoreGo     = "go"
	CoreNative = "native"
)

// Config is the complete nanonet server configuration.
//
// Precedence, highest first: environment variables (NANONET_*), the
// configuration file, defaults.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Core     CoreConfig     `mapstructure:"core"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig names the listening endpoint handed to the core.
type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"omitempty,ip"`
	Port            uint16        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// CoreConfig selects the networking core. Only the section matching Type
// is used.
type CoreConfig struct {
	Type string         `mapstructure:"type" validate:"required,oneof=go native"`
	Go   map[string]any `mapstructure:"go"`
}

// DispatchConfig tunes the dispatch thread.
type DispatchConfig struct {
	// CPU to pin the dispatch thread to, -1 leaves it unpinned
	CPU            int  `mapstructure:"cpu" validate:"gte=-1"`
	RecycleBuffers bool `mapstructure:"recycle_buffers"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Listen    string `mapstructure:"listen" validate:"required,hostname_port"`
	Namespace string `mapstructure:"namespace" validate:"required"`
}

// GoOptions decodes the "go" section into gocore options.
func (c CoreConfig) GoOptions() (gocore.Options, error) {
	return gocore.DecodeOptions(c.Go)
}

// Load reads configuration from configPath (optional), the environment and
// defaults, then validates it.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// setupViper wires environment lookup. Every key gets a default so that
// AutomaticEnv can see it during Unmarshal.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("NANONET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("nanonet")
		v.SetConfigType("yaml")
	}
}

// readConfigFile tolerates a missing default file but not a missing
// explicit one.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}
