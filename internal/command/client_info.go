// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

import (
	"github.com/nativesound/pulsewired/internal/pulse"
	"github.com/nativesound/pulsewired/internal/tagstruct"
)

// DefaultApplicationName is used for a ClientInfo entry when the
// client never set "application.name" in its property list.
const DefaultApplicationName = "unknown"

// ClientInfo is one reply entry for GetClientInfo/GetClientInfoList:
// id, application-name property (or a default), a driver string, and
// the client's property list, per spec.md §4.7.
type ClientInfo struct {
	Index           uint32
	ApplicationName string
	OwningModule    uint32
	Driver          string
	Properties      *pulse.PropList
}

// Write encodes one ClientInfo entry.
func (c ClientInfo) Write(w *tagstruct.Writer, _ uint32) {
	w.U32(c.Index)
	name := c.ApplicationName
	if name == "" {
		name = DefaultApplicationName
	}
	w.String(name)
	w.U32(c.OwningModule)
	w.String(c.Driver)
	w.PropList(c.Properties)
}

// ParseClientInfo reads one ClientInfo entry.
func ParseClientInfo(r *tagstruct.Reader, _ uint32) (ClientInfo, error) {
	var c ClientInfo
	var err error
	if c.Index, err = r.U32(); err != nil {
		return ClientInfo{}, err
	}
	if c.ApplicationName, err = r.String(); err != nil {
		return ClientInfo{}, err
	}
	if c.OwningModule, err = r.U32(); err != nil {
		return ClientInfo{}, err
	}
	if c.Driver, err = r.String(); err != nil {
		return ClientInfo{}, err
	}
	if c.Properties, err = r.PropList(); err != nil {
		return ClientInfo{}, err
	}
	return c, nil
}

// GetClientInfoListReply concatenates one ClientInfo entry per known
// client.
type GetClientInfoListReply struct {
	Clients []ClientInfo
}

// Write encodes every client entry back to back.
func (r GetClientInfoListReply) Write(w *tagstruct.Writer, version uint32) {
	for _, c := range r.Clients {
		c.Write(w, version)
	}
}
