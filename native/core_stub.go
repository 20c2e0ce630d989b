//go:build !(cgo && nanonet_native)

// File: native/core_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package native

import (
	"fmt"

	"github.com/momentics/nanonet/api"
)

// Core is unavailable in this build.
type Core struct{}

// NewCore always fails without the nanonet_native build tag.
func NewCore(opts ...Option) (*Core, error) {
	return nil, fmt.Errorf("native core requires cgo and the nanonet_native build tag: %w", api.ErrNotSupported)
}

// Initialize reports StatusBusy; a stub core can never bind.
func (c *Core) Initialize(string, uint16, api.Trampoline) int32 { return StatusBusy }

// Start is a no-op.
func (c *Core) Start() {}

// Shutdown is a no-op.
func (c *Core) Shutdown() {}
