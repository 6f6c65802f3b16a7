// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nativesound/pulsewired/internal/config"
)

const readTimeout = 3 * time.Second

// CreateMetricsServer builds the /metrics HTTP server when
// cfg.MetricsAddr is set, or returns nil otherwise. The caller is
// responsible for running it (spec.md §5.1's errgroup supervision
// starts it alongside the listener-accept loop and shuts it down on
// cancellation), unlike the teacher's fire-and-forget goroutine.
func CreateMetricsServer(cfg config.Config) *http.Server {
	if cfg.MetricsAddr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              cfg.ResolveAddr(cfg.MetricsAddr),
		Handler:           mux,
		ReadHeaderTimeout: readTimeout,
	}
}
