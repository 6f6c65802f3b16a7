// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import (
	"github.com/nativesound/pulsewired/internal/tagstruct"
)

const (
	authFlagSupportsMemfd uint32 = 1 << 30
	authFlagSupportsShm   uint32 = 1 << 31
	authVersionMask        uint32 = 0x0000FFFF
)

// Auth is the parsed payload of an AUTH command: a packed
// version-and-capability word plus the cookie blob, per spec.md
// §4.4.
type Auth struct {
	Version       uint32
	SupportsShm   bool
	SupportsMemfd bool
	Cookie        []byte
}

// ParseAuth reads an Auth payload: one u32 packing flags-and-version
// (low 16 bits = version, bit 31 = shm, bit 30 = memfd), then an
// arbitrary blob holding the cookie.
func ParseAuth(r *tagstruct.Reader) (Auth, error) {
	packed, err := r.U32()
	if err != nil {
		return Auth{}, err
	}
	cookie, err := r.Arbitrary()
	if err != nil {
		return Auth{}, err
	}
	return Auth{
		Version:       packed & authVersionMask,
		SupportsShm:   packed&authFlagSupportsShm != 0,
		SupportsMemfd: packed&authFlagSupportsMemfd != 0,
		Cookie:        cookie,
	}, nil
}

// Write mirrors ParseAuth's layout, used by tests and the trace proxy
// to re-encode an observed Auth command.
func (a Auth) Write(w *tagstruct.Writer) {
	packed := a.Version & authVersionMask
	if a.SupportsShm {
		packed |= authFlagSupportsShm
	}
	if a.SupportsMemfd {
		packed |= authFlagSupportsMemfd
	}
	w.U32(packed)
	w.Arbitrary(a.Cookie)
}

// AuthReply is the server's response to Auth: its negotiated version
// and whether it chose to enable shm/memfd (this core never does,
// per spec.md §9 Open Question (a)).
type AuthReply struct {
	ServerVersion uint32
	Shm           bool
	Memfd         bool
}

// Write encodes the AuthReply payload: one u32 with the server
// version in the low bits and the shm/memfd bits set iff enabled.
func (a AuthReply) Write(w *tagstruct.Writer) {
	packed := a.ServerVersion & authVersionMask
	if a.Shm {
		packed |= authFlagSupportsShm
	}
	if a.Memfd {
		packed |= authFlagSupportsMemfd
	}
	w.U32(packed)
}

// ParseAuthReply reads an AuthReply payload; provided for round-trip
// tests and the trace proxy.
func ParseAuthReply(r *tagstruct.Reader) (AuthReply, error) {
	packed, err := r.U32()
	if err != nil {
		return AuthReply{}, err
	}
	return AuthReply{
		ServerVersion: packed & authVersionMask,
		Shm:           packed&authFlagSupportsShm != 0,
		Memfd:         packed&authFlagSupportsMemfd != 0,
	}, nil
}
