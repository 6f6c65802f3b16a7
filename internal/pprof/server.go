// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package pprof serves net/http/pprof's profiling handlers on their
// own address, gated by config, for diagnosing the connection-handler
// goroutines spec.md §5 describes.
package pprof

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/nativesound/pulsewired/internal/config"
)

const readTimeout = 3 * time.Second

// CreateServer builds the pprof HTTP server when cfg.PprofAddr is
// set, or returns nil otherwise. The caller runs and shuts it down
// (spec.md §5.1's errgroup supervision), the same pattern
// internal/metrics.CreateMetricsServer follows.
func CreateServer(cfg config.Config) *http.Server {
	if cfg.PprofAddr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return &http.Server{
		Addr:              cfg.ResolveAddr(cfg.PprofAddr),
		Handler:           mux,
		ReadHeaderTimeout: readTimeout,
	}
}
