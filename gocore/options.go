// File: gocore/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package gocore

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Options tunes the core. Field tags name the keys accepted by DecodeOptions.
type Options struct {
	BufferSize  int           `mapstructure:"buffer_size"`  // per-connection read buffer
	Echo        bool          `mapstructure:"echo"`         // write every read back to the peer
	ReadTimeout time.Duration `mapstructure:"read_timeout"` // idle limit per read, 0 = none
	ReuseAddr   bool          `mapstructure:"reuse_addr"`   // SO_REUSEADDR on the listener
}

// DefaultOptions matches the native core's 4 KiB buffers. Echo is off: the
// native core always echoes, here it is opt-in.
func DefaultOptions() Options {
	return Options{
		BufferSize: 4096,
		ReuseAddr:  true,
	}
}

// DecodeOptions overlays m on DefaultOptions. Durations may be given as
// strings such as "5s".
func DecodeOptions(m map[string]any) (Options, error) {
	opts := DefaultOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &opts,
	})
	if err != nil {
		return opts, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return opts, fmt.Errorf("failed to decode gocore options: %w", err)
	}
	if err := opts.validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (o Options) validate() error {
	if o.BufferSize <= 0 || o.BufferSize > math.MaxInt32 {
		return fmt.Errorf("gocore: buffer_size must be in (0, %d], got %d", math.MaxInt32, o.BufferSize)
	}
	if o.ReadTimeout < 0 {
		return fmt.Errorf("gocore: read_timeout must not be negative, got %s", o.ReadTimeout)
	}
	return nil
}

// CoreOption customizes a Core beyond its Options.
type CoreOption func(*Core)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) CoreOption {
	return func(c *Core) {
		if logger != nil {
			c.logger = logger
		}
	}
}
