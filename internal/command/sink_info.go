// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import (
	"github.com/nativesound/pulsewired/internal/pulse"
	"github.com/nativesound/pulsewired/internal/tagstruct"
)

// InvalidIndex marks an absent owning-module / monitor-source index
// in a SinkInfo entry.
const InvalidIndex uint32 = 0xFFFFFFFF

// SinkPort describes one output port of a sink, carried in the
// v>=16 section of a SinkInfo entry (spec.md §6), extended with the
// fields SPEC_FULL.md §3.1 keeps from original_source/'s sink.rs.
type SinkPort struct {
	Name        string
	Description string
	Priority    uint32
	// Available is only written/read for v>=24; zero value (0 =
	// unknown) is used below that version.
	Available uint32
}

// SinkState mirrors the {Running, Idle, Suspended} lifecycle spec.md
// §3 assigns a Sink record.
type SinkState uint32

// Sink states, in the order PulseAudio's pa_sink_state_t enumerates
// the ones this core reports.
const (
	SinkStateRunning SinkState = iota
	SinkStateIdle
	SinkStateSuspended
)

// SinkInfo is one reply entry for GetSinkInfo/GetSinkInfoList, at the
// maximal (highest-version) field set; Write gates fields by the
// negotiated protocol version, per spec.md §6's versioned layout.
type SinkInfo struct {
	Index              uint32
	Name               string
	Description        string
	SampleSpec         pulse.SampleSpec
	ChannelMap         pulse.ChannelMap
	OwningModuleIndex  uint32
	Volume             pulse.CumulativeVolume
	Muted              bool
	MonitorSourceIndex uint32
	MonitorSourceName  *string
	ActualLatency      pulse.Microseconds
	Driver             string
	Flags              uint32

	// v >= 13
	Properties       *pulse.PropList
	RequestedLatency pulse.Microseconds

	// v >= 15
	BaseVolume pulse.Volume
	State      SinkState
	VolumeSteps uint32
	CardIndex  uint32

	// v >= 16
	Ports      []SinkPort
	ActivePort string

	// v >= 21
	FormatInfos []pulse.FormatInfo
}

// Write encodes one SinkInfo entry, version-gated as spec.md §6
// describes.
func (s SinkInfo) Write(w *tagstruct.Writer, version uint32) {
	w.U32(s.Index)
	w.String(s.Name)
	desc := s.Description
	if desc == "" {
		desc = "(null)"
	}
	w.String(desc)
	w.SampleSpec(s.SampleSpec.ProtocolDowngrade(version))
	w.ChannelMap(s.ChannelMap)
	w.U32(s.OwningModuleIndex)
	w.CVolume(s.Volume)
	w.Bool(s.Muted)
	w.U32(s.MonitorSourceIndex)
	w.OptionalString(s.MonitorSourceName)
	w.USec(s.ActualLatency)
	w.String(s.Driver)
	w.U32(s.Flags)

	if version >= 13 {
		w.PropList(s.Properties)
		w.USec(s.RequestedLatency)
	}
	if version >= 15 {
		w.Volume(s.BaseVolume)
		w.U32(uint32(s.State))
		w.U32(s.VolumeSteps)
		w.U32(s.CardIndex)
	}
	if version >= 16 {
		w.U32(uint32(len(s.Ports)))
		for _, p := range s.Ports {
			w.String(p.Name)
			w.String(p.Description)
			w.U32(p.Priority)
			if version >= 24 {
				w.U32(p.Available)
			}
		}
		if s.ActivePort != "" {
			activePort := s.ActivePort
			w.OptionalString(&activePort)
		} else {
			w.OptionalString(nil)
		}
	}
	if version >= 21 {
		w.U8(uint8(len(s.FormatInfos)))
		for _, f := range s.FormatInfos {
			w.FormatInfo(f)
		}
	}
}

// ParseSinkInfo reads one SinkInfo entry; used for round-trip tests
// and the trace proxy.
func ParseSinkInfo(r *tagstruct.Reader, version uint32) (SinkInfo, error) {
	var s SinkInfo
	var err error
	if s.Index, err = r.U32(); err != nil {
		return SinkInfo{}, err
	}
	if s.Name, err = r.String(); err != nil {
		return SinkInfo{}, err
	}
	if s.Description, err = r.String(); err != nil {
		return SinkInfo{}, err
	}
	if s.SampleSpec, err = r.SampleSpec(); err != nil {
		return SinkInfo{}, err
	}
	if s.ChannelMap, err = r.ChannelMap(); err != nil {
		return SinkInfo{}, err
	}
	if s.OwningModuleIndex, err = r.U32(); err != nil {
		return SinkInfo{}, err
	}
	if s.Volume, err = r.CVolume(false); err != nil {
		return SinkInfo{}, err
	}
	if s.Muted, err = r.Bool(); err != nil {
		return SinkInfo{}, err
	}
	if s.MonitorSourceIndex, err = r.U32(); err != nil {
		return SinkInfo{}, err
	}
	if s.MonitorSourceName, err = r.OptionalString(); err != nil {
		return SinkInfo{}, err
	}
	if s.ActualLatency, err = r.USec(); err != nil {
		return SinkInfo{}, err
	}
	if s.Driver, err = r.String(); err != nil {
		return SinkInfo{}, err
	}
	if s.Flags, err = r.U32(); err != nil {
		return SinkInfo{}, err
	}
	if version >= 13 {
		if s.Properties, err = r.PropList(); err != nil {
			return SinkInfo{}, err
		}
		if s.RequestedLatency, err = r.USec(); err != nil {
			return SinkInfo{}, err
		}
	}
	if version >= 15 {
		if s.BaseVolume, err = r.Volume(); err != nil {
			return SinkInfo{}, err
		}
		state, err2 := r.U32()
		if err2 != nil {
			return SinkInfo{}, err2
		}
		s.State = SinkState(state)
		if s.VolumeSteps, err = r.U32(); err != nil {
			return SinkInfo{}, err
		}
		if s.CardIndex, err = r.U32(); err != nil {
			return SinkInfo{}, err
		}
	}
	if version >= 16 {
		count, err2 := r.U32()
		if err2 != nil {
			return SinkInfo{}, err2
		}
		s.Ports = make([]SinkPort, count)
		for i := range s.Ports {
			if s.Ports[i].Name, err = r.String(); err != nil {
				return SinkInfo{}, err
			}
			if s.Ports[i].Description, err = r.String(); err != nil {
				return SinkInfo{}, err
			}
			if s.Ports[i].Priority, err = r.U32(); err != nil {
				return SinkInfo{}, err
			}
			if version >= 24 {
				if s.Ports[i].Available, err = r.U32(); err != nil {
					return SinkInfo{}, err
				}
			}
		}
		active, err2 := r.OptionalString()
		if err2 != nil {
			return SinkInfo{}, err2
		}
		if active != nil {
			s.ActivePort = *active
		}
	}
	if version >= 21 {
		count, err2 := r.U8()
		if err2 != nil {
			return SinkInfo{}, err2
		}
		s.FormatInfos = make([]pulse.FormatInfo, count)
		for i := range s.FormatInfos {
			if s.FormatInfos[i], err = r.FormatInfo(); err != nil {
				return SinkInfo{}, err
			}
		}
	}
	return s, nil
}

// GetSinkInfoList is empty on parse (spec.md §4.4).
type GetSinkInfoList struct{}

// GetSinkInfoListReply is a concatenation of per-sink entries with no
// separators, per spec.md §4.4.
type GetSinkInfoListReply struct {
	Sinks []SinkInfo
}

// Write encodes every sink entry back to back.
func (r GetSinkInfoListReply) Write(w *tagstruct.Writer, version uint32) {
	for _, s := range r.Sinks {
		s.Write(w, version)
	}
}
