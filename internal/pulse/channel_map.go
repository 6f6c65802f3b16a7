// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package pulse

import "fmt"

// ChannelPosition labels one channel of a ChannelMap.
type ChannelPosition uint8

// A representative subset of PulseAudio's channel position enum;
// values beyond what this core needs are still accepted as opaque
// uint8s by ChannelMap since the wire format never validates them
// beyond the count.
const (
	ChannelMono ChannelPosition = iota
	ChannelFrontLeft
	ChannelFrontRight
	ChannelFrontCenter
	ChannelRearCenter
	ChannelRearLeft
	ChannelRearRight
	ChannelLFE
)

// ChannelMap is an ordered list of channel-position labels, length at
// most MaxChannels.
type ChannelMap struct {
	Positions []ChannelPosition
}

// NewChannelMap validates and constructs a ChannelMap.
func NewChannelMap(positions []ChannelPosition) (ChannelMap, error) {
	m := ChannelMap{Positions: positions}
	if err := m.Validate(); err != nil {
		return ChannelMap{}, err
	}
	return m, nil
}

// Validate checks the length invariant from spec.md §3/§8.
func (m ChannelMap) Validate() error {
	if len(m.Positions) > MaxChannels {
		return fmt.Errorf("pulse: channel map length %d exceeds %d", len(m.Positions), MaxChannels)
	}
	return nil
}

// Len returns the channel count.
func (m ChannelMap) Len() int { return len(m.Positions) }

// DefaultChannelMap returns PulseAudio's conventional layout for mono
// and stereo; used for static sink provisioning (spec.md §4.10) when a
// config file gives only a channel count.
func DefaultChannelMap(channels uint8) (ChannelMap, error) {
	switch channels {
	case 1:
		return ChannelMap{Positions: []ChannelPosition{ChannelMono}}, nil
	case 2:
		return ChannelMap{Positions: []ChannelPosition{ChannelFrontLeft, ChannelFrontRight}}, nil
	default:
		return ChannelMap{}, fmt.Errorf("pulse: no default channel map for %d channels", channels)
	}
}
