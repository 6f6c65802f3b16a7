// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package pulse

import (
	"fmt"
	"math"
)

// Volume is a single-channel volume scalar. Zero is muted, Unity is
// the 0dB reference, and MaxVolume is the clamp ceiling applied on
// decode.
type Volume uint32

const (
	// Muted is the silent volume.
	Muted Volume = 0
	// Unity is the 0dB / 100% reference volume.
	Unity Volume = 0x10000
	// MaxVolume is the clamp ceiling for any decoded raw volume.
	MaxVolume Volume = 0x7FFFFFFF
)

// Clamp returns v clamped to [0, MaxVolume].
func (v Volume) Clamp() Volume {
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// ToLinear converts the raw scalar to a linear amplitude multiplier:
// linear = (raw/Unity)^3.
func (v Volume) ToLinear() float64 {
	ratio := float64(v) / float64(Unity)
	return ratio * ratio * ratio
}

// FromLinear is the inverse of ToLinear: raw = floor(cbrt(linear) * Unity).
func FromLinear(linear float64) Volume {
	if linear <= 0 {
		return Muted
	}
	raw := math.Cbrt(linear) * float64(Unity)
	return Volume(raw).Clamp()
}

// ToDB converts the volume to decibels; Muted maps to negative
// infinity.
func (v Volume) ToDB() float64 {
	if v == Muted {
		return math.Inf(-1)
	}
	return 10 * math.Log10(v.ToLinear())
}

// CumulativeVolume is an ordered per-channel vector of volume scalars,
// length in [0, MaxChannels], with a length of at least 1 required by
// any command that semantically needs one (see spec.md §4.4).
type CumulativeVolume struct {
	Volumes []Volume
}

// NewCumulativeVolume validates and constructs a CumulativeVolume.
// requireNonEmpty should be true for commands (like
// CreatePlaybackStream) that must carry at least one entry.
func NewCumulativeVolume(volumes []Volume, requireNonEmpty bool) (CumulativeVolume, error) {
	cv := CumulativeVolume{Volumes: volumes}
	if err := cv.Validate(requireNonEmpty); err != nil {
		return CumulativeVolume{}, err
	}
	return cv, nil
}

// Validate checks the length invariants from spec.md §3/§8.
func (cv CumulativeVolume) Validate(requireNonEmpty bool) error {
	if requireNonEmpty && len(cv.Volumes) == 0 {
		return fmt.Errorf("pulse: cumulative volume must carry at least one entry")
	}
	if len(cv.Volumes) > MaxChannels {
		return fmt.Errorf("pulse: cumulative volume length %d exceeds %d", len(cv.Volumes), MaxChannels)
	}
	return nil
}

// Len returns the channel count.
func (cv CumulativeVolume) Len() int { return len(cv.Volumes) }
