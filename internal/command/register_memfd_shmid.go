// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import "github.com/nativesound/pulsewired/internal/tagstruct"

// RegisterMemfdShmid is the parsed payload of a REGISTER_MEMFD_SHMID
// command: a single u32 shmid. It must be accompanied by a file
// descriptor carried in the Unix-socket ancillary data; this core
// surfaces that descriptor (via the transport layer, see
// internal/transport) but does not interpret it, per spec.md §4.4.
type RegisterMemfdShmid struct {
	ShmID uint32
}

// ParseRegisterMemfdShmid reads a RegisterMemfdShmid payload.
func ParseRegisterMemfdShmid(r *tagstruct.Reader) (RegisterMemfdShmid, error) {
	id, err := r.U32()
	if err != nil {
		return RegisterMemfdShmid{}, err
	}
	return RegisterMemfdShmid{ShmID: id}, nil
}

// Write mirrors ParseRegisterMemfdShmid's layout.
func (c RegisterMemfdShmid) Write(w *tagstruct.Writer) {
	w.U32(c.ShmID)
}
