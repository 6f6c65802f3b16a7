// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package pulse holds the domain value types carried by the native
// protocol: sample specs, channel maps, volumes, property lists, and
// format infos. Each type owns the invariants the wire format requires
// and a pair of tagstruct (from, to) serializers.
package pulse

import (
	"fmt"
)

// SampleFormat is the wire encoding of one PCM sample.
type SampleFormat uint8

// Sample formats in PulseAudio's canonical enum order.
const (
	SampleU8 SampleFormat = iota
	SampleALaw
	SampleULaw
	SampleS16LE
	SampleS16BE
	SampleFloat32LE
	SampleFloat32BE
	SampleS32LE
	SampleS32BE
	SampleS24LE
	SampleS24BE
	SampleS24In32LE
	SampleS24In32BE
	sampleFormatMax
)

// Valid reports whether f is a recognized sample format.
func (f SampleFormat) Valid() bool {
	return f < sampleFormatMax
}

// sampleFormatNames are PulseAudio's canonical sample format names, in
// enum order, used for static sink provisioning (spec.md §4.10).
var sampleFormatNames = [...]string{
	"u8", "alaw", "ulaw", "s16le", "s16be", "float32le", "float32be",
	"s32le", "s32be", "s24le", "s24be", "s24-32le", "s24-32be",
}

// String returns f's canonical PulseAudio name, or "invalid" if out of
// range.
func (f SampleFormat) String() string {
	if !f.Valid() {
		return "invalid"
	}
	return sampleFormatNames[f]
}

// ParseSampleFormat looks up a sample format by its canonical name.
func ParseSampleFormat(name string) (SampleFormat, bool) {
	for i, n := range sampleFormatNames {
		if n == name {
			return SampleFormat(i), true
		}
	}
	return 0, false
}

// MaxRate is the highest sample rate the protocol accepts:
// floor(48000 * 8 * 1.01).
const MaxRate = uint32(48000 * 8 * 101 / 100)

// MaxChannels bounds both ChannelMap and CumulativeVolume length.
const MaxChannels = 32

// SampleSpec describes the format, channel count, and rate of a PCM
// stream.
type SampleSpec struct {
	Format   SampleFormat
	Channels uint8
	Rate     uint32
}

// NewSampleSpec validates and constructs a SampleSpec.
func NewSampleSpec(format SampleFormat, channels uint8, rate uint32) (SampleSpec, error) {
	s := SampleSpec{Format: format, Channels: channels, Rate: rate}
	if err := s.Validate(); err != nil {
		return SampleSpec{}, err
	}
	return s, nil
}

// Validate checks the invariants spec.md §3/§8 require: format in
// range, channels in [1,32], rate in [1, MaxRate].
func (s SampleSpec) Validate() error {
	if !s.Format.Valid() {
		return fmt.Errorf("pulse: sample format %d out of range", s.Format)
	}
	if s.Channels < 1 || s.Channels > MaxChannels {
		return fmt.Errorf("pulse: channel count %d out of range [1,%d]", s.Channels, MaxChannels)
	}
	if s.Rate < 1 || s.Rate > MaxRate {
		return fmt.Errorf("pulse: sample rate %d out of range [1,%d]", s.Rate, MaxRate)
	}
	return nil
}

// ProtocolDowngrade rewrites 24-bit sample formats to the 32-bit float
// format of matching endianness when the negotiated protocol version
// is below 15, per spec.md §4.3. All other formats pass through
// unchanged. The receiver is not mutated; the (possibly) downgraded
// copy is returned.
func (s SampleSpec) ProtocolDowngrade(version uint32) SampleSpec {
	if version >= 15 {
		return s
	}
	switch s.Format {
	case SampleS24LE, SampleS24In32LE:
		s.Format = SampleFloat32LE
	case SampleS24BE, SampleS24In32BE:
		s.Format = SampleFloat32BE
	}
	return s
}
