// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import (
	"fmt"

	"github.com/nativesound/pulsewired/internal/tagstruct"
)

// Tag is the per-command correlation id chosen by the client and
// echoed by the server in REPLY or ERROR.
type Tag uint32

// Envelope is the decoded (opcode, tag, payload-reader) triple every
// control packet carries. Handlers read further fields from Reader
// themselves, version-aware, per spec.md §4.4.
type Envelope struct {
	Opcode Opcode
	Tag    Tag
	Reader *tagstruct.Reader
}

// DecodeEnvelope reads the (opcode, tag) prefix common to every
// command and returns the envelope with the reader positioned at the
// command-specific payload.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	r := tagstruct.NewReader(payload)
	opRaw, err := r.U32()
	if err != nil {
		return Envelope{}, fmt.Errorf("command: opcode: %w", err)
	}
	tagRaw, err := r.U32()
	if err != nil {
		return Envelope{}, fmt.Errorf("command: tag: %w", err)
	}
	return Envelope{Opcode: Opcode(opRaw), Tag: Tag(tagRaw), Reader: r}, nil
}

// EncodeReply builds a REPLY envelope payload: (REPLY opcode, tag,
// body...). writeBody appends the command-specific reply fields.
func EncodeReply(tag Tag, writeBody func(w *tagstruct.Writer)) []byte {
	w := tagstruct.NewWriter(nil)
	w.U32(uint32(OpReply))
	w.U32(uint32(tag))
	if writeBody != nil {
		writeBody(w)
	}
	return w.Bytes()
}

// EncodeError builds an ERROR envelope payload: (ERROR opcode, tag,
// code), per spec.md §6's error wire form.
func EncodeError(tag Tag, code ErrorCode) []byte {
	w := tagstruct.NewWriter(nil)
	w.U32(uint32(OpError))
	w.U32(uint32(tag))
	w.U32(uint32(code))
	return w.Bytes()
}
