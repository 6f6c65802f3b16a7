// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the protocol server's Prometheus instruments, replacing
// the teacher's KV-store-specific fields with ones that observe
// connection lifecycle, command dispatch, and error replies (spec.md
// §4.7, §7).
type Metrics struct {
	ConnectionsTotal  prometheus.Counter
	ConnectionsActive prometheus.Gauge
	CommandsTotal     *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	FrameBytesTotal   prometheus.Counter
}

// NewMetrics constructs and registers every instrument.
func NewMetrics() *Metrics {
	metrics := &Metrics{
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulsewired_connections_total",
			Help: "The total number of accepted connections",
		}),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pulsewired_connections_active",
			Help: "The current number of open connections",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsewired_commands_total",
			Help: "The total number of control commands dispatched, by opcode",
		}, []string{"opcode"}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulsewired_errors_total",
			Help: "The total number of ERROR replies sent, by error code",
		}, []string{"code"}),
		FrameBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulsewired_frame_bytes_total",
			Help: "The total number of frame bytes read from all connections",
		}),
	}
	metrics.register()
	return metrics
}

func (m *Metrics) register() {
	prometheus.MustRegister(m.ConnectionsTotal)
	prometheus.MustRegister(m.ConnectionsActive)
	prometheus.MustRegister(m.CommandsTotal)
	prometheus.MustRegister(m.ErrorsTotal)
	prometheus.MustRegister(m.FrameBytesTotal)
}

// RecordConnect marks one accepted connection. A nil receiver is a
// no-op, so callers that build a Server without going through New (as
// the test suite does) don't need to nil-check before every call.
func (m *Metrics) RecordConnect() {
	if m == nil {
		return
	}
	m.ConnectionsTotal.Inc()
	m.ConnectionsActive.Inc()
}

// RecordDisconnect marks one closed connection.
func (m *Metrics) RecordDisconnect() {
	if m == nil {
		return
	}
	m.ConnectionsActive.Dec()
}

// RecordCommand marks one dispatched control command.
func (m *Metrics) RecordCommand(opcode string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(opcode).Inc()
}

// RecordError marks one ERROR reply.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(code).Inc()
}

// RecordFrameBytes accounts for n bytes read off a connection.
func (m *Metrics) RecordFrameBytes(n int) {
	if m == nil {
		return
	}
	m.FrameBytesTotal.Add(float64(n))
}
