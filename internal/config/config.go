// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package config defines the application configuration, loaded via
// configulator.New[Config]()/configulator.FromContext[Config](ctx) the
// way the teacher's internal/config does, replacing the teacher's
// Postgres/Redis/DMR-network fields with the ones the native protocol
// core and its CLI need (socket/cookie locations, optional TCP
// listener, metrics, tracing, static sink provisioning).
package config

// Config stores the application configuration.
type Config struct {
	// ListenAddr is the default bind host used when MetricsAddr or
	// TCPAddr specify a bare port (e.g. ":4714").
	ListenAddr string `yaml:"listen_addr" mapstructure:"listen_addr"`
	// SocketPath is the native Unix socket location. Empty (with
	// TCPAddr also empty) means discover it from PULSE_RUNTIME_PATH,
	// else $XDG_RUNTIME_DIR/pulse, else $HOME/.pulse, per spec.md §6.
	SocketPath string `yaml:"socket_path" mapstructure:"socket_path"`
	// TCPAddr, when non-empty, makes serve listen on this plain-TCP
	// address instead of the Unix socket. Empty uses the Unix socket.
	TCPAddr string `yaml:"tcp_addr" mapstructure:"tcp_addr"`
	// CookiePath is where the authentication cookie is loaded from or
	// generated at, mirroring PulseAudio's ~/.config/pulse/cookie.
	CookiePath string `yaml:"cookie_path" mapstructure:"cookie_path"`

	LogLevel LogLevel `yaml:"log_level" mapstructure:"log_level"`
	Debug    bool     `yaml:"debug" mapstructure:"debug"`

	// MetricsAddr serves /metrics when non-empty.
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`
	// OTLPEndpoint enables trace export when non-empty.
	OTLPEndpoint string `yaml:"otlp_endpoint" mapstructure:"otlp_endpoint"`
	// PprofAddr serves net/http/pprof's profiling endpoints when
	// non-empty.
	PprofAddr string `yaml:"pprof_addr" mapstructure:"pprof_addr"`

	// MaxFrameLength bounds the accepted descriptor length (spec.md
	// §4.1). Zero is rejected by Validate.
	MaxFrameLength uint32 `yaml:"max_frame_length" mapstructure:"max_frame_length"`

	// SinksFile, if set, is a YAML file of statically provisioned sinks
	// loaded into the sink catalog at startup.
	SinksFile string `yaml:"sinks_file" mapstructure:"sinks_file"`

	// TraceCaptureFile, if set, receives every frame the trace proxy
	// (spec.md §4.8) observes as a length-prefixed, msgp-encoded
	// internal/rawpacket.Raw record, for offline replay.
	TraceCaptureFile string `yaml:"trace_capture_file" mapstructure:"trace_capture_file"`
}

// Default returns the configuration's zero-value-safe defaults, used
// by configulator.New[Config]().Default() when no flags/env/file
// override them.
func Default() Config {
	const defaultMaxFrameLength = 64 * 1024 * 1024
	return Config{
		ListenAddr:     "127.0.0.1",
		LogLevel:       LogLevelInfo,
		MaxFrameLength: defaultMaxFrameLength,
	}
}

// ResolveAddr prepends c.ListenAddr to addr when addr is a bare port
// (e.g. ":4714"), so config files can specify just a port for the
// interfaces that follow ListenAddr's default.
func (c Config) ResolveAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return c.ListenAddr + addr
	}
	return addr
}
