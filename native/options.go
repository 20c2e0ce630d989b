// File: native/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package native

import "log/slog"

// StatusBusy is returned by Initialize when another native core owns the
// process-wide trampoline.
const StatusBusy int32 = -1

// Option customizes a native core.
type Option func(*settings)

type settings struct {
	logger *slog.Logger
}

func defaultSettings() settings {
	return settings{logger: slog.Default()}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
