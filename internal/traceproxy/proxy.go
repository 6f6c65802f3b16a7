// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package traceproxy implements the interposing trace utility spec.md
// §4.8 describes: a fake runtime directory with its own listening
// socket, a traced child program pointed at it via environment, and a
// duplex byte pump to the real server that decodes every control
// payload for logging while forwarding bytes (and any ancillary file
// descriptors) unchanged in both directions. Grounded on the teacher's
// internal/dmr/servers/hbrp/server.go two-goroutines-per-direction
// shape (listen/subscribePackets), adapted from UDP+redis-pubsub to a
// pass-through duplex Unix-socket pipe.
package traceproxy

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/nativesound/pulsewired/internal/command"
	"github.com/nativesound/pulsewired/internal/frame"
	"github.com/nativesound/pulsewired/internal/rawpacket"
	"github.com/nativesound/pulsewired/internal/transport"
)

// Proxy interposes on the native socket protocol between a traced
// child process and the real server socket.
type Proxy struct {
	// FakeSocketPath is where the proxy listens for the traced child;
	// it must be pointed here via PULSE_RUNTIME_PATH.
	FakeSocketPath string
	// RealSocketPath is the genuine server socket the proxy connects
	// out to once the child dials in.
	RealSocketPath string

	// protocolVersion tracks the client's negotiated Auth version so
	// later control payloads decode at the right version, per spec.md
	// §4.8 ("observes the client's Auth version").
	protocolVersion uint32

	// CaptureWriter, if set, receives every frame observed in either
	// direction as a length-prefixed internal/rawpacket.Raw record
	// (spec.md §4.14), for offline replay. A nil CaptureWriter disables
	// capture.
	CaptureWriter io.Writer
	captureMu     sync.Mutex
}

// New returns a Proxy wired between fakeSocketPath (where the traced
// child connects) and realSocketPath (the genuine server).
func New(fakeSocketPath, realSocketPath string) *Proxy {
	return &Proxy{FakeSocketPath: fakeSocketPath, RealSocketPath: realSocketPath, protocolVersion: 13}
}

// RunChild spawns program under an environment pointing
// PULSE_RUNTIME_PATH at the directory holding FakeSocketPath, accepts
// its single connection, dials the real server, and pipes both
// directions until either side closes. It returns the child's exit
// code.
func (p *Proxy) RunChild(ctx context.Context, program string, args []string, runtimeDir string) (int, error) {
	_ = os.Remove(p.FakeSocketPath)
	listener, err := net.Listen("unix", p.FakeSocketPath)
	if err != nil {
		return -1, err
	}
	defer listener.Close()

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Env = append(os.Environ(), "PULSE_RUNTIME_PATH="+runtimeDir)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return -1, err
	}

	childConn, err := listener.Accept()
	if err != nil {
		return -1, err
	}
	defer childConn.Close()

	realConn, err := net.Dial("unix", p.RealSocketPath)
	if err != nil {
		return -1, err
	}
	defer realConn.Close()

	p.pump(ctx, childConn.(*net.UnixConn), realConn.(*net.UnixConn))

	err = cmd.Wait()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// pump runs the two direction-pumping goroutines and blocks until
// both finish. When either direction ends, the read side of both
// sockets is shut down, so either side closing ends the other.
func (p *Proxy) pump(ctx context.Context, child, real *net.UnixConn) {
	done := make(chan struct{}, 2)
	go func() {
		p.direction(ctx, rawpacket.ClientToServer, transport.NewUnix(child), transport.NewUnix(real))
		done <- struct{}{}
	}()
	go func() {
		p.direction(ctx, rawpacket.ServerToClient, transport.NewUnix(real), transport.NewUnix(child))
		done <- struct{}{}
	}()
	<-done
	_ = child.CloseRead()
	_ = real.CloseRead()
	<-done
}

// direction copies frames from src to dst, decoding and logging each
// control payload, forwarding any ancillary file descriptors
// unchanged, and closing every received descriptor once forwarded so
// none leak (spec.md §4.8/§5).
func (p *Proxy) direction(_ context.Context, dir rawpacket.Direction, src, dst transport.Conn) {
	var buf []byte
	readBuf := make([]byte, 16*1024)
	for {
		n, fds, err := src.ReadFrame(readBuf)
		if n > 0 {
			buf = append(buf, readBuf[:n]...)
		}
		if err != nil {
			if err != io.EOF {
				slog.Warn("trace proxy read failed", "direction", dir, "error", err)
			}
			closeFDs(fds)
			return
		}

		for {
			pkt, consumed, decErr := frame.Decode(buf, 64*1024*1024)
			if decErr == frame.ErrNeedMore {
				break
			}
			if decErr != nil {
				slog.Warn("trace proxy frame decode failed", "direction", dir, "error", decErr)
				break
			}
			raw := buf[:consumed]
			buf = buf[consumed:]
			p.logPacket(dir, pkt, src.RemoteAddr().String(), raw)
		}

		if _, err := dst.WriteFrame(readBuf[:n], fds); err != nil {
			slog.Warn("trace proxy write failed", "direction", dir, "error", err)
			closeFDs(fds)
			return
		}
		closeFDs(fds)
	}
}

func closeFDs(fds []int) {
	for _, fd := range fds {
		_ = unix.Close(fd)
	}
}

func (p *Proxy) logPacket(dir rawpacket.Direction, pkt frame.Packet, remoteAddr string, raw []byte) {
	p.capture(dir, remoteAddr, raw)

	if pkt.Kind() != frame.KindControl {
		slog.Debug("trace: non-control frame", "direction", dir, "kind", pkt.Kind())
		return
	}
	env, err := command.DecodeEnvelope(pkt.Payload)
	if err != nil {
		slog.Debug("trace: undecodable control payload", "direction", dir, "error", err)
		return
	}
	if env.Opcode == command.OpAuth {
		if auth, err := command.ParseAuth(env.Reader); err == nil {
			p.protocolVersion = auth.Version
		}
	}
	slog.Info("trace: control packet", "direction", dir, "opcode", env.Opcode, "tag", env.Tag, "version", p.protocolVersion)
}

// capture msgp-encodes one observed frame as a rawpacket.Raw record
// and appends it to CaptureWriter behind a 4-byte big-endian length
// prefix, so a replay tool can split the stream back into records
// without re-parsing the PulseAudio frame format.
func (p *Proxy) capture(dir rawpacket.Direction, remoteAddr string, data []byte) {
	if p.CaptureWriter == nil {
		return
	}
	rec := rawpacket.Raw{Direction: dir, RemoteAddr: remoteAddr, Data: data}
	encoded, err := rec.MarshalMsg(nil)
	if err != nil {
		slog.Warn("trace: capture marshal failed", "direction", dir, "error", err)
		return
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(encoded)))

	p.captureMu.Lock()
	defer p.captureMu.Unlock()
	if _, err := p.CaptureWriter.Write(header[:]); err != nil {
		slog.Warn("trace: capture write failed", "direction", dir, "error", err)
		return
	}
	if _, err := p.CaptureWriter.Write(encoded); err != nil {
		slog.Warn("trace: capture write failed", "direction", dir, "error", err)
	}
}
