// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import (
	"github.com/nativesound/pulsewired/internal/pulse"
	"github.com/nativesound/pulsewired/internal/tagstruct"
)

// ModuleInfo is one reply entry for GetModuleInfo/GetModuleInfoList.
// This core only ever reports the single synthetic dummy module
// (spec.md §4.7): id 0, name "Default Module", empty argument, one
// user, empty property list (v>=15) or the legacy autoload=false
// boolean (v<15, spec.md §8 scenario 4).
type ModuleInfo struct {
	Index      uint32
	Name       string
	Argument   string
	NUsed      uint32
	Properties *pulse.PropList
}

// DefaultModule is the sole module entry this core ever reports.
func DefaultModule() ModuleInfo {
	return ModuleInfo{
		Index:      0,
		Name:       "Default Module",
		Argument:   "",
		NUsed:      1,
		Properties: pulse.NewPropList(),
	}
}

// Write encodes one ModuleInfo entry, gating the trailing field by
// version per spec.md §8 scenario 4.
func (m ModuleInfo) Write(w *tagstruct.Writer, version uint32) {
	w.U32(m.Index)
	w.String(m.Name)
	w.String(m.Argument)
	w.U32(m.NUsed)
	if version >= 15 {
		w.PropList(m.Properties)
	} else {
		w.Bool(false)
	}
}

// ParseModuleInfo reads one ModuleInfo entry.
func ParseModuleInfo(r *tagstruct.Reader, version uint32) (ModuleInfo, error) {
	var m ModuleInfo
	var err error
	if m.Index, err = r.U32(); err != nil {
		return ModuleInfo{}, err
	}
	if m.Name, err = r.String(); err != nil {
		return ModuleInfo{}, err
	}
	if m.Argument, err = r.String(); err != nil {
		return ModuleInfo{}, err
	}
	if m.NUsed, err = r.U32(); err != nil {
		return ModuleInfo{}, err
	}
	if version >= 15 {
		if m.Properties, err = r.PropList(); err != nil {
			return ModuleInfo{}, err
		}
	} else {
		if _, err = r.Bool(); err != nil {
			return ModuleInfo{}, err
		}
		m.Properties = pulse.NewPropList()
	}
	return m, nil
}

// GetModuleInfoListReply concatenates module entries; this core
// always reports exactly one (DefaultModule).
type GetModuleInfoListReply struct {
	Modules []ModuleInfo
}

// Write encodes every module entry back to back.
func (r GetModuleInfoListReply) Write(w *tagstruct.Writer, version uint32) {
	for _, m := range r.Modules {
		m.Write(w, version)
	}
}
