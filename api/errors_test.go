package api_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/nanonet/api"
)

func TestCodeOfWrappedErrors(t *testing.T) {
	err := fmt.Errorf("construct: %w", &api.InitializationError{Status: 5})

	code, ok := api.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, api.ErrCodeInitialization, code)

	var initErr *api.InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, int32(5), initErr.Status)
}

func TestCodeOfNilAndPlainErrors(t *testing.T) {
	code, ok := api.CodeOf(nil)
	assert.True(t, ok)
	assert.Equal(t, api.ErrCodeOK, code)

	_, ok = api.CodeOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestAddressEncodingErrorMessage(t *testing.T) {
	err := &api.AddressEncodingError{Address: "127.0\x00.0.1", Index: 5}
	assert.Contains(t, err.Error(), "offset 5")
	assert.Equal(t, "address_encoding", err.Code().String())
}

func TestConnectionHandle(t *testing.T) {
	h := api.NewConnectionHandle(0xbeef)
	assert.Equal(t, uintptr(0xbeef), h.Raw())
	assert.False(t, h.IsZero())
	assert.Equal(t, "conn(0xbeef)", h.String())
	assert.True(t, api.ConnectionHandle{}.IsZero())
}

func TestEventReleaseRunsOnce(t *testing.T) {
	calls := 0
	ev := api.NewEvent(api.NewConnectionHandle(1), []byte("x"), func([]byte) { calls++ })
	ev.Release()
	ev.Release()
	assert.Equal(t, 1, calls)
	assert.Nil(t, ev.Data)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", api.StateUninitialized.String())
	assert.Equal(t, "ready", api.StateReady.String())
	assert.Equal(t, "running", api.StateRunning.String())
	assert.Equal(t, "shutdown", api.StateShutdown.String())
}
