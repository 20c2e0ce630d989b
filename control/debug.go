// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Probe registry for runtime inspection of a bridge.

package control

import (
	"log/slog"
	"sync"

	"github.com/momentics/nanonet/api"
)

// Ensure compile-time interface compliance.
var _ api.Debug = (*DebugProbes)(nil)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
	logger *slog.Logger
}

// NewDebugProbes creates a probe registry. logger may be nil.
func NewDebugProbes(logger *slog.Logger) *DebugProbes {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugProbes{
		probes: make(map[string]func() any),
		logger: logger,
	}
}

// RegisterProbe inserts or replaces a named debug hook.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// DumpState returns the output of all probes. A panicking probe reports
// nil instead of taking the caller down.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = dp.call(k, fn)
	}
	return out
}

func (dp *DebugProbes) call(name string, fn func() any) (v any) {
	defer func() {
		if r := recover(); r != nil {
			dp.logger.Warn("debug probe panicked", "probe", name, "panic", r)
			v = nil
		}
	}()
	return fn()
}
