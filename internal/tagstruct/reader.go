// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package tagstruct

import (
	"encoding/binary"
	"fmt"

	"github.com/nativesound/pulsewired/internal/pulse"
)

// Reader is a cursor over a borrowed byte slice. Arbitrary blobs are
// returned as subslices of that buffer (zero-copy decode, spec.md
// §4.2/§9); strings are copied into Go strings. Reader is a small value type and is
// cheap to copy, which callers rely on for read-then-rewind
// inspection (e.g. error-message formatting) without consuming the
// original cursor.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// AtEnd reports whether the cursor has consumed every byte.
func (r *Reader) AtEnd() bool {
	return r.pos >= len(r.data)
}

// Clone returns a copy of the reader sharing the underlying buffer
// but with an independent cursor.
func (r *Reader) Clone() *Reader {
	c := *r
	return &c
}

func (r *Reader) peekTag() (Tag, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("tagstruct: unexpected end of data")
	}
	return Tag(r.data[r.pos]), nil
}

func (r *Reader) expect(want Tag) error {
	got, err := r.peekTag()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("tagstruct: expected tag %q, got %q", byte(want), byte(got))
	}
	r.pos++
	return nil
}

func (r *Reader) takeU32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("tagstruct: truncated u32")
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) takeU64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("tagstruct: truncated u64")
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// String reads a NUL-terminated string value.
func (r *Reader) String() (string, error) {
	if err := r.expect(TagString); err != nil {
		return "", err
	}
	start := r.pos
	for r.pos < len(r.data) {
		if r.data[r.pos] == 0 {
			s := string(r.data[start:r.pos])
			r.pos++
			return s, nil
		}
		r.pos++
	}
	return "", fmt.Errorf("tagstruct: unterminated string")
}

// OptionalString reads either a STRING or a NULL-STRING, returning
// nil for the latter.
func (r *Reader) OptionalString() (*string, error) {
	tag, err := r.peekTag()
	if err != nil {
		return nil, err
	}
	if tag == TagStringNull {
		r.pos++
		return nil, nil
	}
	s, err := r.String()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// U32 reads an unsigned 32-bit value.
func (r *Reader) U32() (uint32, error) {
	if err := r.expect(TagU32); err != nil {
		return 0, err
	}
	return r.takeU32()
}

// U8 reads an unsigned 8-bit value.
func (r *Reader) U8() (uint8, error) {
	if err := r.expect(TagU8); err != nil {
		return 0, err
	}
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("tagstruct: truncated u8")
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// U64 reads an unsigned 64-bit value.
func (r *Reader) U64() (uint64, error) {
	if err := r.expect(TagU64); err != nil {
		return 0, err
	}
	return r.takeU64()
}

// S64 reads a signed 64-bit value.
func (r *Reader) S64() (int64, error) {
	if err := r.expect(TagS64); err != nil {
		return 0, err
	}
	v, err := r.takeU64()
	return int64(v), err
}

// Bool reads a boolean, encoded as the tag alone.
func (r *Reader) Bool() (bool, error) {
	tag, err := r.peekTag()
	if err != nil {
		return false, err
	}
	switch tag {
	case TagBoolTrue:
		r.pos++
		return true, nil
	case TagBoolFalse:
		r.pos++
		return false, nil
	default:
		return false, fmt.Errorf("tagstruct: expected bool tag, got %q", byte(tag))
	}
}

// Arbitrary reads a length-prefixed raw byte blob as a subslice of
// the underlying buffer.
func (r *Reader) Arbitrary() ([]byte, error) {
	if err := r.expect(TagArbitrary); err != nil {
		return nil, err
	}
	n, err := r.takeU32()
	if err != nil {
		return nil, err
	}
	if uint64(r.pos)+uint64(n) > uint64(len(r.data)) {
		return nil, fmt.Errorf("tagstruct: arbitrary blob length %d exceeds remaining payload", n)
	}
	v := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return v, nil
}

// USec reads a microseconds value.
func (r *Reader) USec() (pulse.Microseconds, error) {
	if err := r.expect(TagUSec); err != nil {
		return 0, err
	}
	v, err := r.takeU64()
	return pulse.Microseconds(v), err
}

// Volume reads a volume scalar, clamped to pulse.MaxVolume.
func (r *Reader) Volume() (pulse.Volume, error) {
	if err := r.expect(TagVolume); err != nil {
		return 0, err
	}
	v, err := r.takeU32()
	if err != nil {
		return 0, err
	}
	return pulse.Volume(v).Clamp(), nil
}

// SampleSpec reads a sample spec and validates its invariants.
func (r *Reader) SampleSpec() (pulse.SampleSpec, error) {
	if err := r.expect(TagSampleSpec); err != nil {
		return pulse.SampleSpec{}, err
	}
	if r.pos+6 > len(r.data) {
		return pulse.SampleSpec{}, fmt.Errorf("tagstruct: truncated sample spec")
	}
	format := pulse.SampleFormat(r.data[r.pos])
	channels := r.data[r.pos+1]
	rate := binary.BigEndian.Uint32(r.data[r.pos+2:])
	r.pos += 6
	return pulse.NewSampleSpec(format, channels, rate)
}

// ChannelMap reads a channel map and validates its length.
func (r *Reader) ChannelMap() (pulse.ChannelMap, error) {
	if err := r.expect(TagChannelMap); err != nil {
		return pulse.ChannelMap{}, err
	}
	if r.pos >= len(r.data) {
		return pulse.ChannelMap{}, fmt.Errorf("tagstruct: truncated channel map")
	}
	n := int(r.data[r.pos])
	r.pos++
	if r.pos+n > len(r.data) {
		return pulse.ChannelMap{}, fmt.Errorf("tagstruct: truncated channel map positions")
	}
	positions := make([]pulse.ChannelPosition, n)
	for i := 0; i < n; i++ {
		positions[i] = pulse.ChannelPosition(r.data[r.pos+i])
	}
	r.pos += n
	return pulse.NewChannelMap(positions)
}

// CVolume reads a cumulative volume. requireNonEmpty mirrors the
// per-command requirement spec.md §4.4 describes.
func (r *Reader) CVolume(requireNonEmpty bool) (pulse.CumulativeVolume, error) {
	if err := r.expect(TagCVolume); err != nil {
		return pulse.CumulativeVolume{}, err
	}
	if r.pos >= len(r.data) {
		return pulse.CumulativeVolume{}, fmt.Errorf("tagstruct: truncated cvolume")
	}
	n := int(r.data[r.pos])
	r.pos++
	if r.pos+4*n > len(r.data) {
		return pulse.CumulativeVolume{}, fmt.Errorf("tagstruct: truncated cvolume entries")
	}
	volumes := make([]pulse.Volume, n)
	for i := 0; i < n; i++ {
		volumes[i] = pulse.Volume(binary.BigEndian.Uint32(r.data[r.pos+4*i:])).Clamp()
	}
	r.pos += 4 * n
	return pulse.NewCumulativeVolume(volumes, requireNonEmpty)
}

// PropList reads a property list: repeated (STRING, U32, ARBITRARY)
// entries terminated by a NULL-STRING, per spec.md §4.2.
func (r *Reader) PropList() (*pulse.PropList, error) {
	if err := r.expect(TagPropList); err != nil {
		return nil, err
	}
	p := pulse.NewPropList()
	for {
		tag, err := r.peekTag()
		if err != nil {
			return nil, err
		}
		if tag == TagStringNull {
			r.pos++
			return p, nil
		}
		key, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("tagstruct: proplist key: %w", err)
		}
		declared, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("tagstruct: proplist value length: %w", err)
		}
		if declared > pulse.MaxPropertyValue {
			return nil, fmt.Errorf("tagstruct: proplist value for %q exceeds %d bytes", key, pulse.MaxPropertyValue)
		}
		value, err := r.Arbitrary()
		if err != nil {
			return nil, fmt.Errorf("tagstruct: proplist value: %w", err)
		}
		if uint32(len(value)) != declared {
			return nil, fmt.Errorf("tagstruct: proplist declared length %d does not match blob length %d", declared, len(value))
		}
		if err := p.SetFromWire(key, value); err != nil {
			return nil, err
		}
	}
}

// FormatInfo reads a format info (encoding u8, property list).
func (r *Reader) FormatInfo() (pulse.FormatInfo, error) {
	if err := r.expect(TagFormatInfo); err != nil {
		return pulse.FormatInfo{}, err
	}
	if r.pos >= len(r.data) {
		return pulse.FormatInfo{}, fmt.Errorf("tagstruct: truncated format info")
	}
	encoding := pulse.EncodingType(r.data[r.pos])
	r.pos++
	props, err := r.PropList()
	if err != nil {
		return pulse.FormatInfo{}, err
	}
	return pulse.NewFormatInfo(encoding, props), nil
}

// Skip advances past the next value, regardless of type, returning an
// error for an unknown tag byte (spec.md §4.2 boundary behavior).
func (r *Reader) Skip() error {
	tag, err := r.peekTag()
	if err != nil {
		return err
	}
	switch tag {
	case TagString:
		_, err := r.String()
		return err
	case TagStringNull:
		r.pos++
		return nil
	case TagU32:
		_, err := r.U32()
		return err
	case TagU8:
		_, err := r.U8()
		return err
	case TagU64:
		_, err := r.U64()
		return err
	case TagS64:
		_, err := r.S64()
		return err
	case TagSampleSpec:
		_, err := r.SampleSpec()
		return err
	case TagArbitrary:
		_, err := r.Arbitrary()
		return err
	case TagBoolTrue, TagBoolFalse:
		_, err := r.Bool()
		return err
	case TagUSec:
		_, err := r.USec()
		return err
	case TagChannelMap:
		_, err := r.ChannelMap()
		return err
	case TagCVolume:
		_, err := r.CVolume(false)
		return err
	case TagPropList:
		_, err := r.PropList()
		return err
	case TagVolume:
		_, err := r.Volume()
		return err
	case TagFormatInfo:
		_, err := r.FormatInfo()
		return err
	case TagTimeval:
		if r.pos+8 > len(r.data) {
			return fmt.Errorf("tagstruct: truncated timeval")
		}
		r.pos += 8
		return nil
	default:
		return fmt.Errorf("tagstruct: unknown tag byte 0x%02x", byte(tag))
	}
}

// AtEndStrict returns an error if any bytes remain unread; callers
// use this to enforce spec.md §4.2's "any trailing bytes after a
// fully parsed command are an error" rule.
func (r *Reader) AtEndStrict() error {
	if r.pos != len(r.data) {
		return fmt.Errorf("tagstruct: %d trailing bytes after command", len(r.data)-r.pos)
	}
	return nil
}
