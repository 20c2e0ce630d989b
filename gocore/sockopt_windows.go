//go:build windows

// File: gocore/sockopt_windows.go
// Author: momentics <momentics@gmail.com>
//
// Listener socket options for Windows. SO_REUSEADDR there allows port
// hijacking, so the listener uses SO_EXCLUSIVEADDRUSE semantics instead.

package gocore

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// SO_EXCLUSIVEADDRUSE is defined by winsock as ~SO_REUSEADDR.
const soExclusiveAddrUse = ^windows.SO_REUSEADDR

func reuseAddrControl(network, address string, rc syscall.RawConn) error {
	var serr error
	if err := rc.Control(func(fd uintptr) {
		serr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, soExclusiveAddrUse, 1)
	}); err != nil {
		return err
	}
	return serr
}
