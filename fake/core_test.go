package fake

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestCoreRecordsAndEmits(t *testing.T) {
	c := NewCore()
	assert.False(t, c.Emit(1, []byte("x")), "no trampoline before Initialize")

	var got string
	var token uintptr
	status := c.Initialize("0.0.0.0", 80, func(tok uintptr, data unsafe.Pointer, n int32) {
		token = tok
		got = string(unsafe.Slice((*byte)(data), n))
	})
	assert.Zero(t, status)
	assert.True(t, c.Emit(7, []byte("hi")))
	assert.Equal(t, "hi", got)
	assert.Equal(t, uintptr(7), token)

	c.Shutdown()
	c.Shutdown()
	assert.False(t, c.Emit(7, []byte("late")))
	assert.Nil(t, c.Trampoline())
	assert.Equal(t, []string{"initialize", "shutdown", "shutdown"}, c.Calls())
}

func TestCoreFailingStatusKeepsNoTrampoline(t *testing.T) {
	c := NewCore().WithStatus(3)
	assert.Equal(t, int32(3), c.Initialize("", 1, func(uintptr, unsafe.Pointer, int32) {}))
	assert.Nil(t, c.Trampoline())
}

func TestStartReturnsOnShutdown(t *testing.T) {
	c := NewCore()
	done := make(chan struct{})
	go func() {
		c.Start()
		close(done)
	}()
	c.Shutdown()
	<-done
}
