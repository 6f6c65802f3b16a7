// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nativesound/pulsewired/internal/config"
	"github.com/nativesound/pulsewired/internal/logging"
)

func TestSetupReturnsNonNilForEveryLevel(t *testing.T) {
	t.Parallel()
	levels := []config.LogLevel{
		config.LogLevelDebug,
		config.LogLevelInfo,
		config.LogLevelWarn,
		config.LogLevelError,
		config.LogLevel("unknown"),
	}
	for _, level := range levels {
		logger := logging.Setup(level)
		assert.NotNil(t, logger)
	}
}
