// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import (
	"github.com/nativesound/pulsewired/internal/pulse"
	"github.com/nativesound/pulsewired/internal/tagstruct"
)

// SetClientName is the parsed payload of a SET_CLIENT_NAME command: a
// single property list, present from v13 on (this core rejects
// versions below 13 at Auth time, so it is always present).
type SetClientName struct {
	Properties *pulse.PropList
}

// ParseSetClientName reads a SetClientName payload.
func ParseSetClientName(r *tagstruct.Reader, _ uint32) (SetClientName, error) {
	props, err := r.PropList()
	if err != nil {
		return SetClientName{}, err
	}
	return SetClientName{Properties: props}, nil
}

// Write mirrors ParseSetClientName's layout.
func (s SetClientName) Write(w *tagstruct.Writer) {
	w.PropList(s.Properties)
}

// SetClientNameReply carries the assigned client id.
type SetClientNameReply struct {
	ClientID uint32
}

// Write encodes the SetClientNameReply payload.
func (s SetClientNameReply) Write(w *tagstruct.Writer) {
	w.U32(s.ClientID)
}

// ParseSetClientNameReply reads a SetClientNameReply payload.
func ParseSetClientNameReply(r *tagstruct.Reader) (SetClientNameReply, error) {
	id, err := r.U32()
	if err != nil {
		return SetClientNameReply{}, err
	}
	return SetClientNameReply{ClientID: id}, nil
}
