// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package gocore is a portable networking core written in Go that honours the
// api.Core contract: Initialize binds a TCP listener, Start runs the accept
// loop, and every read on an accepted connection is reported through the
// registered trampoline with a pointer into the connection's read buffer.
// The buffer is reused for the next read as soon as the trampoline returns.
//
// Unlike the native core, which writes every read back to the peer, echo is
// opt-in (Options.Echo, or "echo: true" in the core.go config section).
//
// Status codes returned by Initialize mirror the native core where the
// failure exists in both: see the Status constants.
package gocore
