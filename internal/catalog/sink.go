// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package catalog

import (
	"github.com/nativesound/pulsewired/internal/command"
	"github.com/nativesound/pulsewired/internal/idxset"
	"github.com/nativesound/pulsewired/internal/pulse"
)

// DummySinkIndex is the id of the immortal dummy sink seeded at
// server startup (spec.md §3/§5); it must never be removed so a
// fallback output always exists.
const DummySinkIndex idxset.ID[*Sink] = 0

// SinkPort is one output port of a sink; exactly one port is active
// at a time, tracked by Sink.ActivePort.
type SinkPort struct {
	Name        string
	Description string
	Priority    uint32
	Available   uint32
}

// SinkState mirrors the lifecycle command.SinkState enumerates on the
// wire.
type SinkState = command.SinkState

// Backend is the stubbed-out audio device behind a sink. spec.md §1
// places the actual audio device behind a sink out of scope; this
// core only records a handle, never writing samples through it.
type Backend interface {
	Name() string
}

// NullBackend discards every sample written to it; it backs the
// always-present dummy sink.
type NullBackend struct{}

// Name identifies the null backend in driver fields.
func (NullBackend) Name() string { return "module-null-sink.c" }

// Sink is one output device's server-side record (spec.md §3).
type Sink struct {
	ID          idxset.ID[*Sink]
	Name        string
	Description string
	Properties  *pulse.PropList
	State       SinkState
	SampleSpec  pulse.SampleSpec
	ChannelMap  pulse.ChannelMap
	Volume      pulse.CumulativeVolume
	Muted       bool
	Flags       uint32
	Ports       []SinkPort
	ActivePort  int // index into Ports, or -1 when Ports is empty
	FormatInfos []pulse.FormatInfo
	Backend     Backend
}

// ToSinkInfo projects a catalog Sink into the wire reply record. The
// sample spec is copied unchanged; command.SinkInfo.Write downgrades
// it for the negotiated version when the reply is encoded.
func (s *Sink) ToSinkInfo(version uint32) command.SinkInfo {
	info := command.SinkInfo{
		Index:              uint32(s.ID),
		Name:               s.Name,
		Description:        s.Description,
		SampleSpec:         s.SampleSpec,
		ChannelMap:         s.ChannelMap,
		OwningModuleIndex:  command.InvalidIndex,
		Volume:             s.Volume,
		Muted:              s.Muted,
		MonitorSourceIndex: command.InvalidIndex,
		Driver:             s.Backend.Name(),
		Flags:              s.Flags,
		Properties:         s.Properties,
		BaseVolume:         pulse.Unity,
		State:              s.State,
		CardIndex:          command.InvalidIndex,
		FormatInfos:        s.FormatInfos,
	}
	for _, p := range s.Ports {
		info.Ports = append(info.Ports, command.SinkPort{
			Name:        p.Name,
			Description: p.Description,
			Priority:    p.Priority,
			Available:   p.Available,
		})
	}
	if s.ActivePort >= 0 && s.ActivePort < len(s.Ports) {
		info.ActivePort = s.Ports[s.ActivePort].Name
	}
	return info
}

// SinkCatalog is the shared set of sinks, seeded at construction with
// the always-present dummy sink at DummySinkIndex.
type SinkCatalog struct {
	set *idxset.Set[*Sink]
}

// NewSinkCatalog returns a catalog seeded with the dummy null sink.
func NewSinkCatalog() *SinkCatalog {
	c := &SinkCatalog{set: idxset.NewSet[*Sink]()}
	c.set.Insert(DummySinkIndex, &Sink{
		ID:          DummySinkIndex,
		Name:        "dummy",
		Description: "Dummy Output",
		Properties:  pulse.NewPropList(),
		State:       command.SinkStateIdle,
		SampleSpec:  pulse.SampleSpec{Format: pulse.SampleS16LE, Channels: 2, Rate: 44100},
		ChannelMap:  pulse.ChannelMap{Positions: []pulse.ChannelPosition{pulse.ChannelFrontLeft, pulse.ChannelFrontRight}},
		Volume:      pulse.CumulativeVolume{Volumes: []pulse.Volume{pulse.Unity, pulse.Unity}},
		ActivePort:  -1,
		Backend:     NullBackend{},
	})
	return c
}

// Get returns the sink for id.
func (c *SinkCatalog) Get(id idxset.ID[*Sink]) (*Sink, bool) {
	return c.set.Get(id)
}

// ByName looks up a sink by its display name, used by
// CreatePlaybackStream's by-name sink selector.
func (c *SinkCatalog) ByName(name string) (*Sink, bool) {
	var found *Sink
	c.set.Iter(func(_ idxset.ID[*Sink], s *Sink) {
		if found == nil && s.Name == name {
			found = s
		}
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

// Default returns the dummy sink, used when CreatePlaybackStream asks
// for the default sink.
func (c *SinkCatalog) Default() *Sink {
	s, _ := c.Get(DummySinkIndex)
	return s
}

// Add allocates an id for a statically provisioned sink (spec.md §4.10
// "SinksFile") and inserts it, returning the id assigned.
func (c *SinkCatalog) Add(s *Sink) idxset.ID[*Sink] {
	return c.set.Alloc(func(id idxset.ID[*Sink]) *Sink {
		s.ID = id
		return s
	})
}

// Len reports the number of sinks, including the dummy.
func (c *SinkCatalog) Len() int {
	return c.set.Len()
}

// Each calls f for every sink in ascending id order, matching
// GetSinkInfoList's reply ordering.
func (c *SinkCatalog) Each(f func(*Sink)) {
	c.set.Iter(func(_ idxset.ID[*Sink], s *Sink) {
		f(s)
	})
}
