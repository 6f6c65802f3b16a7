// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package transport abstracts the byte stream a connection runs over:
// a Unix-domain socket (carrying ancillary file descriptors alongside
// frames, spec.md §4.8/§9 "Ancillary data") or a plain TCP stream
// (no ancillary data). Grounded on golang.org/x/sys/unix's
// socket-control-message helpers, a direct dependency already pulled
// in by doismellburning-samoyed's ioctl/HID code in the pack; no pack
// example builds SCM_RIGHTS passthrough itself, so the Unix-specific
// wiring below follows golang.org/x/sys/unix's documented
// ParseSocketControlMessage/UnixRights functions directly.
package transport

import (
	"errors"
	"net"

	"golang.org/x/sys/unix"
)

// ErrUnsupported is returned by operations a transport does not
// implement, such as ancillary fd passthrough on a TCP connection.
var ErrUnsupported = errors.New("transport: not supported on this connection")

// Conn is a duplex byte stream that can carry Unix-socket ancillary
// file descriptors alongside each read/write, per spec.md §9
// "Ancillary data". TCP connections implement it trivially, always
// reporting zero descriptors.
type Conn interface {
	// ReadFrame reads up to len(buf) bytes plus any file descriptors
	// received alongside them.
	ReadFrame(buf []byte) (n int, fds []int, err error)
	// WriteFrame writes buf, forwarding fds as ancillary data when the
	// underlying transport supports it.
	WriteFrame(buf []byte, fds []int) (n int, err error)
	Close() error
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// unixConn implements Conn over a Unix-domain stream socket, threading
// SCM_RIGHTS file descriptors through ReadMsgUnix/WriteMsgUnix.
type unixConn struct {
	conn *net.UnixConn
}

// NewUnix wraps an already-connected *net.UnixConn.
func NewUnix(conn *net.UnixConn) Conn {
	return &unixConn{conn: conn}
}

func (u *unixConn) ReadFrame(buf []byte) (int, []int, error) {
	oob := make([]byte, unix.CmsgSpace(64*4)) // headroom for a handful of fds
	n, oobn, _, _, err := u.conn.ReadMsgUnix(buf, oob)
	if err != nil {
		return n, nil, err
	}
	if oobn == 0 {
		return n, nil, nil
	}
	scms, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return n, nil, err
	}
	var fds []int
	for _, scm := range scms {
		got, err := unix.ParseUnixRights(&scm)
		if err != nil {
			continue
		}
		fds = append(fds, got...)
	}
	return n, fds, nil
}

func (u *unixConn) WriteFrame(buf []byte, fds []int) (int, error) {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	n, _, err := u.conn.WriteMsgUnix(buf, oob, nil)
	return n, err
}

func (u *unixConn) Close() error           { return u.conn.Close() }
func (u *unixConn) LocalAddr() net.Addr    { return u.conn.LocalAddr() }
func (u *unixConn) RemoteAddr() net.Addr   { return u.conn.RemoteAddr() }

// tcpConn implements Conn over a TCP stream; PulseAudio's TCP
// transport never carries ancillary data (spec.md §6: "TCP on a bound
// address (client-side only in this core)").
type tcpConn struct {
	conn *net.TCPConn
}

// NewTCP wraps an already-connected *net.TCPConn.
func NewTCP(conn *net.TCPConn) Conn {
	return &tcpConn{conn: conn}
}

func (t *tcpConn) ReadFrame(buf []byte) (int, []int, error) {
	n, err := t.conn.Read(buf)
	return n, nil, err
}

func (t *tcpConn) WriteFrame(buf []byte, fds []int) (int, error) {
	if len(fds) > 0 {
		return 0, ErrUnsupported
	}
	return t.conn.Write(buf)
}

func (t *tcpConn) Close() error         { return t.conn.Close() }
func (t *tcpConn) LocalAddr() net.Addr  { return t.conn.LocalAddr() }
func (t *tcpConn) RemoteAddr() net.Addr { return t.conn.RemoteAddr() }
