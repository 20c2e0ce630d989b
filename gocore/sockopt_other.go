//go:build !unix && !windows

// File: gocore/sockopt_other.go
// Author: momentics <momentics@gmail.com>

package gocore

import "syscall"

func reuseAddrControl(network, address string, rc syscall.RawConn) error {
	return nil
}
