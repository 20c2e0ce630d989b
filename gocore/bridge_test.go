// File: gocore/bridge_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package gocore_test

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/nanonet/api"
	"github.com/momentics/nanonet/facade"
	"github.com/momentics/nanonet/gocore"
)

// TestBridgeOverLoopback drives the full path: TCP client, gocore, trampoline,
// event queue, dispatch thread and handler.
func TestBridgeOverLoopback(t *testing.T) {
	opts := gocore.DefaultOptions()
	opts.Echo = true
	core := gocore.New(opts)

	var (
		mu  sync.Mutex
		got []byte
	)
	handler := func(conn api.ConnectionHandle, data []byte) {
		assert.False(t, conn.IsZero())
		mu.Lock()
		got = append(got, data...)
		mu.Unlock()
	}

	n, err := facade.New("127.0.0.1", 0, handler, facade.WithCore(core))
	require.NoError(t, err)
	assert.Equal(t, api.StateReady, n.State())

	runErr := make(chan error, 1)
	go func() { runErr <- n.Run() }()
	assert.Eventually(t, func() bool { return n.State() == api.StateRunning }, time.Second, 5*time.Millisecond)

	conn, err := net.Dial("tcp", core.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("over the wire"))
	require.NoError(t, err)

	echoed := make([]byte, len("over the wire"))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = io.ReadFull(conn, echoed)
	require.NoError(t, err)
	assert.Equal(t, "over the wire", string(echoed))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return string(got) == "over the wire"
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, n.Shutdown())
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
	assert.Equal(t, api.StateShutdown, n.State())
	assert.EqualValues(t, 13, n.Stats()["bytes_received"])
}

func TestBridgeReportsCoreStatus(t *testing.T) {
	first := gocore.New(gocore.DefaultOptions())
	n, err := facade.New("127.0.0.1", 0, func(api.ConnectionHandle, []byte) {}, facade.WithCore(first))
	require.NoError(t, err)
	defer n.Shutdown()
	port := first.Addr().(*net.TCPAddr).Port

	_, err = facade.New("127.0.0.1", uint16(port), func(api.ConnectionHandle, []byte) {},
		facade.WithCore(gocore.New(gocore.DefaultOptions())))
	var initErr *api.InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, gocore.StatusListenFailed, initErr.Status)
}
