// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import (
	"fmt"

	"github.com/nativesound/pulsewired/internal/pulse"
	"github.com/nativesound/pulsewired/internal/tagstruct"
)

// InvalidSinkIndex marks "no sink index given" in CreatePlaybackStream,
// per spec.md §4.4.
const InvalidSinkIndex uint32 = 0xFFFFFFFF

// SinkSelector resolves which sink a new playback stream should
// attach to, built from CreatePlaybackStream's (index, name) pair per
// spec.md §4.4's selection table.
type SinkSelector struct {
	ByIndex *uint32
	ByName  *string
}

// IsDefault reports whether neither an index nor a name was given, in
// which case the default sink is used.
func (s SinkSelector) IsDefault() bool {
	return s.ByIndex == nil && s.ByName == nil
}

func newSinkSelector(index uint32, name *string) (SinkSelector, error) {
	hasIndex := index != InvalidSinkIndex
	hasName := name != nil
	switch {
	case hasIndex && hasName:
		return SinkSelector{}, NewSemanticError(ErrInvalid, "sink index and sink name both given")
	case hasIndex:
		idx := index
		return SinkSelector{ByIndex: &idx}, nil
	case hasName:
		return SinkSelector{ByName: name}, nil
	default:
		return SinkSelector{}, nil
	}
}

// StreamParams is the fully parsed, typed CreatePlaybackStream
// request. This core only ever replies NotImplemented to it (spec.md
// §4.7), but keeps the parsed value rather than discarding it so a
// future mixing backend (or test) has a complete record to inspect,
// per SPEC_FULL.md §3.1.
type StreamParams struct {
	SampleSpec  pulse.SampleSpec
	ChannelMap  pulse.ChannelMap
	Sink        SinkSelector
	MaxLength   uint32
	StartCorked bool
	TLength     uint32
	PreBuf      uint32
	MinReq      uint32
	SyncID      uint32
	Volume      pulse.CumulativeVolume

	NoRemapChannels bool
	NoRemixChannels bool
	FixFormat       bool
	FixRate         bool
	FixChannels     bool
	DontMove        bool
	VariableRate    bool

	MutedPreference  *bool
	AdjustLatency    bool
	Properties       *pulse.PropList

	// v >= 14
	VolumeSet     bool
	EarlyRequests bool

	// v >= 15
	MutedSet                bool
	DontInhibitAutoSuspend bool
	FailOnSuspend          bool

	// v >= 17
	RelativeVolume bool

	// v >= 18
	Passthrough bool

	// v >= 21
	FormatInfos []pulse.FormatInfo
}

// MutePreference resolves the effective mute preference per spec.md
// §4.4: "if muted-set or muted is true, the preference is
// Some(muted); else None", with the pre-v15 backward-compat rule that
// muted-set is treated as equal to muted when the wire field does not
// exist.
func (p StreamParams) MutePreference(muted, mutedSetWire bool, haveMutedSetField bool) *bool {
	mutedSet := mutedSetWire
	if !haveMutedSetField {
		mutedSet = muted
	}
	if mutedSet || muted {
		v := muted
		return &v
	}
	return nil
}

// ParseCreatePlaybackStream reads a CreatePlaybackStream payload,
// gating fields behind the negotiated protocol version per spec.md
// §4.4. Parsing succeeds for any well-formed payload except one that
// names both a sink index and a sink name, which is rejected with a
// SemanticError carrying ErrInvalid; otherwise this core replies
// NotImplemented regardless (spec.md §4.7, §9 Open
// Question (b)).
func ParseCreatePlaybackStream(r *tagstruct.Reader, version uint32) (StreamParams, error) {
	var p StreamParams
	var err error

	if p.SampleSpec, err = r.SampleSpec(); err != nil {
		return StreamParams{}, err
	}
	if p.ChannelMap, err = r.ChannelMap(); err != nil {
		return StreamParams{}, err
	}
	sinkIndex, err := r.U32()
	if err != nil {
		return StreamParams{}, err
	}
	sinkName, err := r.OptionalString()
	if err != nil {
		return StreamParams{}, err
	}
	if p.Sink, err = newSinkSelector(sinkIndex, sinkName); err != nil {
		return StreamParams{}, err
	}
	if p.MaxLength, err = r.U32(); err != nil {
		return StreamParams{}, err
	}
	if p.StartCorked, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.TLength, err = r.U32(); err != nil {
		return StreamParams{}, err
	}
	if p.PreBuf, err = r.U32(); err != nil {
		return StreamParams{}, err
	}
	if p.MinReq, err = r.U32(); err != nil {
		return StreamParams{}, err
	}
	if p.SyncID, err = r.U32(); err != nil {
		return StreamParams{}, err
	}
	if p.Volume, err = r.CVolume(true); err != nil {
		return StreamParams{}, err
	}
	if p.NoRemapChannels, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.NoRemixChannels, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.FixFormat, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.FixRate, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.FixChannels, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.DontMove, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.VariableRate, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	muted, err := r.Bool()
	if err != nil {
		return StreamParams{}, err
	}
	if p.AdjustLatency, err = r.Bool(); err != nil {
		return StreamParams{}, err
	}
	if p.Properties, err = r.PropList(); err != nil {
		return StreamParams{}, err
	}

	haveMutedSetField := false
	mutedSetWire := false

	if version >= 14 {
		if p.VolumeSet, err = r.Bool(); err != nil {
			return StreamParams{}, err
		}
		if p.EarlyRequests, err = r.Bool(); err != nil {
			return StreamParams{}, err
		}
	}
	if version >= 15 {
		haveMutedSetField = true
		if mutedSetWire, err = r.Bool(); err != nil {
			return StreamParams{}, err
		}
		p.MutedSet = mutedSetWire
		if p.DontInhibitAutoSuspend, err = r.Bool(); err != nil {
			return StreamParams{}, err
		}
		if p.FailOnSuspend, err = r.Bool(); err != nil {
			return StreamParams{}, err
		}
	}
	if version >= 17 {
		if p.RelativeVolume, err = r.Bool(); err != nil {
			return StreamParams{}, err
		}
	}
	if version >= 18 {
		if p.Passthrough, err = r.Bool(); err != nil {
			return StreamParams{}, err
		}
	}
	if version >= 21 {
		count, err := r.U8()
		if err != nil {
			return StreamParams{}, err
		}
		p.FormatInfos = make([]pulse.FormatInfo, count)
		for i := range p.FormatInfos {
			if p.FormatInfos[i], err = r.FormatInfo(); err != nil {
				return StreamParams{}, err
			}
		}
	}

	p.MutedPreference = p.MutePreference(muted, mutedSetWire, haveMutedSetField)

	return p, nil
}

// Write mirrors ParseCreatePlaybackStream's field order and version
// gates.
func (p StreamParams) Write(w *tagstruct.Writer, version uint32) {
	w.SampleSpec(p.SampleSpec)
	w.ChannelMap(p.ChannelMap)
	if p.Sink.ByIndex != nil {
		w.U32(*p.Sink.ByIndex)
	} else {
		w.U32(InvalidSinkIndex)
	}
	w.OptionalString(p.Sink.ByName)
	w.U32(p.MaxLength)
	w.Bool(p.StartCorked)
	w.U32(p.TLength)
	w.U32(p.PreBuf)
	w.U32(p.MinReq)
	w.U32(p.SyncID)
	w.CVolume(p.Volume)
	w.Bool(p.NoRemapChannels)
	w.Bool(p.NoRemixChannels)
	w.Bool(p.FixFormat)
	w.Bool(p.FixRate)
	w.Bool(p.FixChannels)
	w.Bool(p.DontMove)
	w.Bool(p.VariableRate)
	muted := p.MutedPreference != nil && *p.MutedPreference
	w.Bool(muted)
	w.Bool(p.AdjustLatency)
	w.PropList(p.Properties)

	if version >= 14 {
		w.Bool(p.VolumeSet)
		w.Bool(p.EarlyRequests)
	}
	if version >= 15 {
		w.Bool(p.MutedSet)
		w.Bool(p.DontInhibitAutoSuspend)
		w.Bool(p.FailOnSuspend)
	}
	if version >= 17 {
		w.Bool(p.RelativeVolume)
	}
	if version >= 18 {
		w.Bool(p.Passthrough)
	}
	if version >= 21 {
		if len(p.FormatInfos) > 0xFF {
			panic(fmt.Sprintf("command: too many format infos: %d", len(p.FormatInfos)))
		}
		w.U8(uint8(len(p.FormatInfos)))
		for _, f := range p.FormatInfos {
			w.FormatInfo(f)
		}
	}
}
