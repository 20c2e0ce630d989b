// File: cmd/nanonet/main_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/nanonet/api"
	"github.com/momentics/nanonet/config"
	"github.com/momentics/nanonet/gocore"
)

func TestNewCoreGo(t *testing.T) {
	cfg := config.Default()
	cfg.Core.Go = map[string]any{"echo": true}

	core, err := newCore(cfg, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &gocore.Core{}, core)
}

func TestNewCoreGoBadOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Core.Go = map[string]any{"buffer_size": "large"}

	_, err := newCore(cfg, slog.Default())
	assert.Error(t, err)
}

func TestRunRejectsInvalidFlags(t *testing.T) {
	err := run([]string{"--core", "rust"})
	assert.Error(t, err)

	err = run([]string{"--address", "not-an-ip"})
	assert.Error(t, err)
}

func TestRunHelp(t *testing.T) {
	assert.NoError(t, run([]string{"--help"}))
}

func TestLogEventsHandler(t *testing.T) {
	h := logEvents(slog.Default())
	assert.NotPanics(t, func() { h(api.NewConnectionHandle(1), []byte("x")) })
}
