// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package server implements the native-protocol listener and the
// per-connection state machine spec.md §4.7 describes: accept, frame,
// parse, authorize, execute, reply, disconnect. Grounded on the
// teacher's internal/dmr/servers/mmdvm and hbrp Server types (Start/
// listen/handlePacket shape, one otel span per handler) adapted from
// UDP+pubsub fan-out to a per-connection duplex stream.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"go.opentelemetry.io/otel"

	"github.com/nativesound/pulsewired/internal/catalog"
	"github.com/nativesound/pulsewired/internal/cookie"
	"github.com/nativesound/pulsewired/internal/metrics"
	"github.com/nativesound/pulsewired/internal/transport"
)

const tracerName = "pulsewired"

// DefaultMaxFrameLength is the frame-length ceiling a Server built by
// struct literal (as the test suite does) enforces when MaxFrameLength
// is left zero. New callers get this value from config.Config.Default,
// whose Validate rejects zero (spec.md §4.1).
const DefaultMaxFrameLength = 64 * 1024 * 1024

// Server owns the shared catalogs and cookie, and accepts connections
// on a Listener, spawning one handler per connection.
type Server struct {
	Clients  *catalog.ClientCatalog
	Sinks    *catalog.SinkCatalog
	Cookie   *cookie.Cookie
	Listener net.Listener

	// ProtocolVersion is the highest protocol version this server
	// speaks; it is reported in AuthReply (spec.md §8 scenario 2 pins
	// 32).
	ProtocolVersion uint32

	// Logger receives every connection/command log line. Defaults to
	// slog.Default() when left nil so a zero-value Server built by a
	// test still logs somewhere sane; tests that want to assert on log
	// output set it explicitly to a handler writing into a buffer.
	Logger *slog.Logger

	// Metrics receives connection/command/error/frame-byte counts
	// (SPEC_FULL.md §4.11). A nil Metrics (the zero value a test builds
	// by struct literal) makes every Record* call a no-op.
	Metrics *metrics.Metrics

	// MaxFrameLength bounds the accepted descriptor length, rejecting
	// peers that try to exhaust memory with an oversized payload claim
	// (spec.md §4.1). Zero falls back to DefaultMaxFrameLength.
	MaxFrameLength uint32
}

// New constructs a Server around an already-bound listener, enforcing
// maxFrameLength (config.Config.MaxFrameLength, validated non-zero by
// config.Validate) as the frame-size ceiling.
func New(listener net.Listener, clients *catalog.ClientCatalog, sinks *catalog.SinkCatalog, cookie *cookie.Cookie, maxFrameLength uint32) *Server {
	return &Server{
		Clients:         clients,
		Sinks:           sinks,
		Cookie:          cookie,
		Listener:        listener,
		ProtocolVersion: 32,
		Logger:          slog.Default(),
		Metrics:         metrics.NewMetrics(),
		MaxFrameLength:  maxFrameLength,
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) maxFrameLength() uint32 {
	if s.MaxFrameLength != 0 {
		return s.MaxFrameLength
	}
	return DefaultMaxFrameLength
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed, handling each on its own goroutine.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.Listener.Close()
	}()

	for {
		conn, err := s.Listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && !netErr.Timeout() {
				return err
			}
			s.logger().Error("accept failed", "error", err)
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Server.handleConn")
	defer span.End()

	wrapped := wrapConn(conn)
	client := s.Clients.Accept()
	s.logger().Info("client connected", "clientID", client.ID, "remote", conn.RemoteAddr())
	s.Metrics.RecordConnect()

	h := &handler{
		server: s,
		conn:   wrapped,
		client: client,
	}
	h.run(ctx)

	s.Clients.Remove(client.ID)
	_ = wrapped.Close()
	s.Metrics.RecordDisconnect()
	s.logger().Info("client disconnected", "clientID", client.ID)
}

func wrapConn(conn net.Conn) transport.Conn {
	switch c := conn.(type) {
	case *net.UnixConn:
		return transport.NewUnix(c)
	case *net.TCPConn:
		return transport.NewTCP(c)
	default:
		return genericConn{conn}
	}
}

// genericConn adapts any net.Conn (e.g. a test net.Pipe) to
// transport.Conn, never carrying ancillary descriptors.
type genericConn struct {
	net.Conn
}

func (g genericConn) ReadFrame(buf []byte) (int, []int, error) {
	n, err := g.Conn.Read(buf)
	return n, nil, err
}

func (g genericConn) WriteFrame(buf []byte, fds []int) (int, error) {
	if len(fds) > 0 {
		return 0, transport.ErrUnsupported
	}
	return g.Conn.Write(buf)
}
