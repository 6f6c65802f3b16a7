// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package traceproxy

import (
	"bytes"
	"context"
	"encoding/binary"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/command"
	"github.com/nativesound/pulsewired/internal/frame"
	"github.com/nativesound/pulsewired/internal/rawpacket"
	"github.com/nativesound/pulsewired/internal/tagstruct"
	"github.com/nativesound/pulsewired/internal/transport"
)

func unixPair(t *testing.T) (*net.UnixConn, *net.UnixConn) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sock")

	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	require.NoError(t, err)
	defer listener.Close()

	serverCh := make(chan *net.UnixConn, 1)
	go func() {
		c, _ := listener.AcceptUnix()
		serverCh <- c
	}()

	client, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	require.NoError(t, err)

	server := <-serverCh
	require.NotNil(t, server)
	return client, server
}

func TestNewSetsDefaults(t *testing.T) {
	t.Parallel()
	p := New("/tmp/fake/native", "/tmp/real/native")
	assert.Equal(t, "/tmp/fake/native", p.FakeSocketPath)
	assert.Equal(t, "/tmp/real/native", p.RealSocketPath)
	assert.EqualValues(t, 13, p.protocolVersion)
}

func TestLogPacketTracksAuthVersion(t *testing.T) {
	t.Parallel()
	p := New("fake", "real")

	w := tagstruct.NewWriter(nil)
	w.U32(uint32(command.OpAuth))
	w.U32(0)
	command.Auth{Version: 32, Cookie: make([]byte, 256)}.Write(w)

	pkt := frame.Packet{Descriptor: frame.Descriptor{Channel: -1}, Payload: w.Bytes()}
	p.logPacket(rawpacket.ClientToServer, pkt, "test-client", w.Bytes())

	assert.EqualValues(t, 32, p.protocolVersion)
}

func TestLogPacketIgnoresNonControlFrames(t *testing.T) {
	t.Parallel()
	p := New("fake", "real")

	pkt := frame.Packet{Descriptor: frame.Descriptor{Channel: 0}, Payload: []byte{1, 2, 3}}
	p.logPacket(rawpacket.ServerToClient, pkt, "test-server", []byte{1, 2, 3})

	assert.EqualValues(t, 13, p.protocolVersion)
}

func TestLogPacketCapturesFrameWhenWriterSet(t *testing.T) {
	t.Parallel()
	p := New("fake", "real")
	var buf bytes.Buffer
	p.CaptureWriter = &buf

	raw := []byte{0x01, 0x02, 0x03}
	pkt := frame.Packet{Descriptor: frame.Descriptor{Channel: 0}, Payload: raw}
	p.logPacket(rawpacket.ServerToClient, pkt, "127.0.0.1:1234", raw)

	require.True(t, buf.Len() > 4)
	size := binary.BigEndian.Uint32(buf.Bytes()[:4])
	var rec rawpacket.Raw
	remaining, err := rec.UnmarshalMsg(buf.Bytes()[4 : 4+size])
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, rawpacket.ServerToClient, rec.Direction)
	assert.Equal(t, "127.0.0.1:1234", rec.RemoteAddr)
	assert.Equal(t, raw, rec.Data)
}

func TestCaptureIsNoOpWhenWriterUnset(t *testing.T) {
	t.Parallel()
	p := New("fake", "real")
	p.capture(rawpacket.ClientToServer, "irrelevant", []byte{1})
}

func TestDirectionForwardsBytesAndClosesOnEOF(t *testing.T) {
	t.Parallel()
	p := New("fake", "real")

	producer, srcConn := unixPair(t)
	defer producer.Close()
	dstConn, consumer := unixPair(t)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	doneCh := make(chan struct{})
	go func() {
		p.direction(ctx, rawpacket.ClientToServer, transport.NewUnix(srcConn), transport.NewUnix(dstConn))
		close(doneCh)
	}()

	payload := []byte{0x01, 0x02, 0x03}
	frameBytes := frame.EncodeControl(payload)
	_, err := producer.Write(frameBytes)
	require.NoError(t, err)

	_ = consumer.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 256)
	n, err := consumer.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(frameBytes), n)
	assert.Equal(t, frameBytes, buf[:n])

	require.NoError(t, producer.Close())
	<-doneCh
}
