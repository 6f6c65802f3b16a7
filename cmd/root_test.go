// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/config"
)

func TestSetupTracingEmptyEndpointReturnsNoopCleanup(t *testing.T) {
	t.Parallel()
	cfg := config.Config{}

	cleanup, err := setupTracing(cfg)
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	assert.NoError(t, cleanup(t.Context()))
}

func TestInitTracerValidEndpointReturnsCleanup(t *testing.T) {
	t.Parallel()
	cfg := config.Config{OTLPEndpoint: "localhost:4317"}

	// gRPC connections are lazy, so a well-formed endpoint won't fail at
	// creation time.
	cleanup, err := initTracer(cfg)
	require.NoError(t, err)
	assert.NotNil(t, cleanup)
}

func TestSetupTracingWithEndpointReturnsCleanupAndNoError(t *testing.T) {
	t.Parallel()
	cfg := config.Config{OTLPEndpoint: "localhost:4317"}

	cleanup, err := setupTracing(cfg)
	require.NoError(t, err)
	assert.NotNil(t, cleanup)
}

func TestDiscoverRuntimeDirFallsBackToHome(t *testing.T) {
	t.Setenv("PULSE_RUNTIME_PATH", "")
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("HOME", "/home/test")
	assert.Equal(t, "/home/test/.pulse", discoverRuntimeDir())
}

func TestDiscoverRuntimeDirPrefersPulseRuntimePath(t *testing.T) {
	t.Setenv("PULSE_RUNTIME_PATH", "/run/user/1000/pulse")
	assert.Equal(t, "/run/user/1000/pulse", discoverRuntimeDir())
}
