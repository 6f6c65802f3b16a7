// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package tagstruct

import (
	"bytes"
	"encoding/binary"

	"github.com/nativesound/pulsewired/internal/pulse"
)

// Writer appends tagstruct values to an externally owned buffer.
// Operations cannot fail: the buffer is in-memory.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter wraps buf. A nil buf allocates a fresh one.
func NewWriter(buf *bytes.Buffer) *Writer {
	if buf == nil {
		buf = new(bytes.Buffer)
	}
	return &Writer{buf: buf}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) putU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) putU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// String writes a NUL-terminated string value.
func (w *Writer) String(s string) {
	w.buf.WriteByte(byte(TagString))
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// NullString writes the null-string marker, PulseAudio's way of
// encoding an absent optional string.
func (w *Writer) NullString() {
	w.buf.WriteByte(byte(TagStringNull))
}

// OptionalString writes String(*s) when s is non-nil, NullString
// otherwise.
func (w *Writer) OptionalString(s *string) {
	if s == nil {
		w.NullString()
		return
	}
	w.String(*s)
}

// U32 writes an unsigned 32-bit value.
func (w *Writer) U32(v uint32) {
	w.buf.WriteByte(byte(TagU32))
	w.putU32(v)
}

// U8 writes an unsigned 8-bit value.
func (w *Writer) U8(v uint8) {
	w.buf.WriteByte(byte(TagU8))
	w.buf.WriteByte(v)
}

// U64 writes an unsigned 64-bit value.
func (w *Writer) U64(v uint64) {
	w.buf.WriteByte(byte(TagU64))
	w.putU64(v)
}

// S64 writes a signed 64-bit value.
func (w *Writer) S64(v int64) {
	w.buf.WriteByte(byte(TagS64))
	w.putU64(uint64(v))
}

// Bool writes a boolean as the tag alone.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(byte(TagBoolTrue))
	} else {
		w.buf.WriteByte(byte(TagBoolFalse))
	}
}

// Arbitrary writes a length-prefixed raw byte blob.
func (w *Writer) Arbitrary(data []byte) {
	w.buf.WriteByte(byte(TagArbitrary))
	w.putU32(uint32(len(data)))
	w.buf.Write(data)
}

// USec writes a microseconds value.
func (w *Writer) USec(v pulse.Microseconds) {
	w.buf.WriteByte(byte(TagUSec))
	w.putU64(uint64(v))
}

// Volume writes a volume scalar.
func (w *Writer) Volume(v pulse.Volume) {
	w.buf.WriteByte(byte(TagVolume))
	w.putU32(uint32(v))
}

// SampleSpec writes a sample spec (format u8, channels u8, rate u32).
func (w *Writer) SampleSpec(s pulse.SampleSpec) {
	w.buf.WriteByte(byte(TagSampleSpec))
	w.buf.WriteByte(byte(s.Format))
	w.buf.WriteByte(s.Channels)
	w.putU32(s.Rate)
}

// ChannelMap writes a channel map (count u8, positions u8[count]).
func (w *Writer) ChannelMap(m pulse.ChannelMap) {
	w.buf.WriteByte(byte(TagChannelMap))
	w.buf.WriteByte(byte(len(m.Positions)))
	for _, p := range m.Positions {
		w.buf.WriteByte(byte(p))
	}
}

// CVolume writes a cumulative volume (count u8, volumes u32[count]).
func (w *Writer) CVolume(v pulse.CumulativeVolume) {
	w.buf.WriteByte(byte(TagCVolume))
	w.buf.WriteByte(byte(len(v.Volumes)))
	for _, vol := range v.Volumes {
		w.putU32(uint32(vol))
	}
}

// PropList writes a property list: repeated (STRING key, U32 length,
// ARBITRARY value) entries terminated by a NULL-STRING, per spec.md
// §4.2.
func (w *Writer) PropList(p *pulse.PropList) {
	w.buf.WriteByte(byte(TagPropList))
	if p != nil {
		for _, k := range p.Keys() {
			v, _ := p.Get(k)
			w.String(k)
			w.U32(uint32(len(v)))
			w.Arbitrary(v)
		}
	}
	w.NullString()
}

// FormatInfo writes a format info (encoding u8, property list).
func (w *Writer) FormatInfo(f pulse.FormatInfo) {
	w.buf.WriteByte(byte(TagFormatInfo))
	w.buf.WriteByte(byte(f.Encoding))
	w.PropList(f.Properties)
}

// Extend copies raw already-encoded tagstruct bytes verbatim, used to
// forward unknown REPLY payloads unchanged (spec.md §4.4).
func (w *Writer) Extend(raw []byte) {
	w.buf.Write(raw)
}
