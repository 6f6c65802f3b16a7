// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package logging wraps log/slog the way the teacher's cmd/root.go
// setupLogger does, swapping the teacher's bespoke file-relay logger
// for a single tint-handled slog.Logger: structured fields carry
// connection/opcode/error-code context (spec.md §7) instead of the
// printf-style prefix the teacher's getPrefix built by reflection.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/nativesound/pulsewired/internal/config"
)

// Setup builds a *slog.Logger at level, writing info/debug to stdout
// and warn/error to stderr exactly like the teacher's setupLogger, and
// installs it as the process default.
func Setup(level config.LogLevel) *slog.Logger {
	var logger *slog.Logger
	switch level {
	case config.LogLevelDebug:
		logger = slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}))
	case config.LogLevelInfo:
		logger = slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo}))
	case config.LogLevelWarn:
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}))
	case config.LogLevelError:
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelError}))
	default:
		logger = slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo}))
	}
	slog.SetDefault(logger)
	return logger
}
