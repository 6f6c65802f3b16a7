// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package frame implements the fixed 20-byte packet descriptor that
// precedes every control or memblock payload on the wire, and
// classifies frames by descriptor fields, per spec.md §3/§4.1/§6.
// Grounded on the teacher's encoding/binary-based wire-struct style
// (internal/dmr/servers/hbrp/packet_handlers.go) and on
// achrafsoltani/Glow's BuildDescriptor for the exact field layout.
package frame

import (
	"encoding/binary"
	"fmt"
)

// DescriptorSize is the fixed size of the packet descriptor header.
const DescriptorSize = 20

// Kind classifies a frame by its descriptor fields.
type Kind uint8

const (
	// KindControl carries a tagstruct command.
	KindControl Kind = iota
	// KindMemblock carries raw audio samples for a channel.
	KindMemblock
	// KindShmRelease signals a shared-memory block release.
	KindShmRelease
	// KindShmRevoke signals a shared-memory block revocation.
	KindShmRevoke
)

const (
	flagShmRelease uint32 = 0x40000000
	flagShmRevoke  uint32 = 0xC0000000
)

// Descriptor is the fixed big-endian packet header.
type Descriptor struct {
	Length   uint32
	Channel  int32
	OffsetHi uint32
	OffsetLo uint32
	Flags    uint32
}

// Classify implements the channel/flags discrimination of spec.md
// §4.1: channel == -1 is Control; otherwise flags selects between
// ShmRelease, ShmRevoke, and plain Memblock.
func (d Descriptor) Classify() Kind {
	if d.Channel == -1 {
		return KindControl
	}
	switch d.Flags {
	case flagShmRelease:
		return KindShmRelease
	case flagShmRevoke:
		return KindShmRevoke
	default:
		return KindMemblock
	}
}

// Packet is a decoded frame: its descriptor plus payload bytes.
type Packet struct {
	Descriptor Descriptor
	Payload    []byte
}

// Kind classifies the packet via its descriptor.
func (p Packet) Kind() Kind { return p.Descriptor.Classify() }

// EncodeDescriptor writes d in the fixed 20-byte big-endian layout.
func EncodeDescriptor(d Descriptor) []byte {
	b := make([]byte, DescriptorSize)
	binary.BigEndian.PutUint32(b[0:4], d.Length)
	binary.BigEndian.PutUint32(b[4:8], uint32(d.Channel))
	binary.BigEndian.PutUint32(b[8:12], d.OffsetHi)
	binary.BigEndian.PutUint32(b[12:16], d.OffsetLo)
	binary.BigEndian.PutUint32(b[16:20], d.Flags)
	return b
}

// DecodeDescriptor parses a descriptor from exactly DescriptorSize
// bytes.
func DecodeDescriptor(b []byte) (Descriptor, error) {
	if len(b) != DescriptorSize {
		return Descriptor{}, fmt.Errorf("frame: descriptor must be %d bytes, got %d", DescriptorSize, len(b))
	}
	return Descriptor{
		Length:   binary.BigEndian.Uint32(b[0:4]),
		Channel:  int32(binary.BigEndian.Uint32(b[4:8])),
		OffsetHi: binary.BigEndian.Uint32(b[8:12]),
		OffsetLo: binary.BigEndian.Uint32(b[12:16]),
		Flags:    binary.BigEndian.Uint32(b[16:20]),
	}, nil
}

// EncodeControl builds a control packet (channel -1) descriptor+payload
// pair ready to write to the wire.
func EncodeControl(payload []byte) []byte {
	d := Descriptor{Length: uint32(len(payload)), Channel: -1}
	out := make([]byte, 0, DescriptorSize+len(payload))
	out = append(out, EncodeDescriptor(d)...)
	out = append(out, payload...)
	return out
}

// ErrFrameTooLarge is returned by Decode when a descriptor's declared
// length exceeds the configured maximum.
type ErrFrameTooLarge struct {
	Length, Max uint32
}

func (e *ErrFrameTooLarge) Error() string {
	return fmt.Sprintf("frame: length %d exceeds maximum %d", e.Length, e.Max)
}

// ErrNeedMore is returned by Decode when the buffer does not yet hold a
// complete frame.
var ErrNeedMore = fmt.Errorf("frame: need more data")

// Decode attempts to parse one Packet from the front of buf. It
// returns the packet, the number of bytes consumed, and an error.
// ErrNeedMore means buf holds an incomplete frame and the caller
// should read more and retry; any other error is a wire-level
// protocol failure (spec.md §7) the caller must treat as fatal for
// the connection.
func Decode(buf []byte, maxLength uint32) (Packet, int, error) {
	if len(buf) < DescriptorSize {
		return Packet{}, 0, ErrNeedMore
	}
	desc, err := DecodeDescriptor(buf[:DescriptorSize])
	if err != nil {
		return Packet{}, 0, err
	}
	if desc.Length > maxLength {
		return Packet{}, 0, &ErrFrameTooLarge{Length: desc.Length, Max: maxLength}
	}
	total := DescriptorSize + int(desc.Length)
	if len(buf) < total {
		return Packet{}, 0, ErrNeedMore
	}
	payload := make([]byte, desc.Length)
	copy(payload, buf[DescriptorSize:total])
	return Packet{Descriptor: desc, Payload: payload}, total, nil
}

// DecodeAll decodes every complete frame present in buf, returning the
// packets and the number of bytes consumed (always a multiple of a
// frame boundary; the remainder, if any, is an incomplete trailing
// frame the caller should retain). Used by tests exercising the
// arbitrary-split-point property from spec.md §8.
func DecodeAll(buf []byte, maxLength uint32) ([]Packet, int, error) {
	var packets []Packet
	consumed := 0
	for {
		pkt, n, err := Decode(buf[consumed:], maxLength)
		if err == ErrNeedMore {
			return packets, consumed, nil
		}
		if err != nil {
			return packets, consumed, err
		}
		packets = append(packets, pkt)
		consumed += n
	}
}
