// control/snapshot.go
// Author: momentics <momentics@gmail.com>
//
// Read-only configuration snapshot and the api.Control implementation that
// combines it with counters and probes.

package control

import (
	"maps"

	"github.com/momentics/nanonet/api"
)

// Ensure compile-time interface compliance.
var _ api.Control = (*Controller)(nil)

// Controller implements api.Control for one bridge.
type Controller struct {
	config   map[string]any
	counters *Counters
	debug    *DebugProbes
}

// NewController copies cfg so later mutation by the caller is not observed.
func NewController(cfg map[string]any, counters *Counters, debug *DebugProbes) *Controller {
	if counters == nil {
		counters = NewCounters()
	}
	if debug == nil {
		debug = NewDebugProbes(nil)
	}
	return &Controller{config: maps.Clone(cfg), counters: counters, debug: debug}
}

// GetConfig returns a copy of the configuration the bridge was built with.
func (c *Controller) GetConfig() map[string]any {
	return maps.Clone(c.config)
}

// Stats merges counters with the debug probe output under "debug.".
func (c *Controller) Stats() map[string]any {
	combined := c.counters.GetSnapshot()
	for k, v := range c.debug.DumpState() {
		combined["debug."+k] = v
	}
	return combined
}

// RegisterDebugProbe implements api.Control.
func (c *Controller) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// Counters exposes the underlying counter set.
func (c *Controller) Counters() *Counters {
	return c.counters
}
