// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package catalog holds the two pieces of cross-connection state the
// dispatcher reads and writes: connected clients and available sinks
// (spec.md §3/§5). Both are typed wrappers around internal/idxset,
// adapted from the teacher's repeater/peer catalogs
// (internal/dmr/servers/hbrp/redis.go, internal/dmr/servers/kvclient.go)
// from a Redis-backed store to a pure in-memory one, since spec.md §5
// states no async mutexes or distributed backing store are required.
package catalog

import (
	"github.com/nativesound/pulsewired/internal/idxset"
	"github.com/nativesound/pulsewired/internal/pulse"
)

// Client is one connected peer's server-side record (spec.md §3):
// negotiated protocol version, whether it has completed Auth, and its
// merged property list. Initial version is 13, authenticated is
// false, as spec.md's Accept step mandates.
type Client struct {
	ID              idxset.ID[*Client]
	ProtocolVersion uint32
	Authenticated   bool
	Properties      *pulse.PropList
}

// ClientCatalog is the shared set of connected clients.
type ClientCatalog struct {
	set *idxset.Set[*Client]
}

// NewClientCatalog returns an empty client catalog.
func NewClientCatalog() *ClientCatalog {
	return &ClientCatalog{set: idxset.NewSet[*Client]()}
}

// Accept allocates a new Client record at initial state, per spec.md
// §4.7's Accept step.
func (c *ClientCatalog) Accept() *Client {
	var client *Client
	c.set.Alloc(func(id idxset.ID[*Client]) *Client {
		client = &Client{
			ID:              id,
			ProtocolVersion: 13,
			Authenticated:   false,
			Properties:      pulse.NewPropList(),
		}
		return client
	})
	return client
}

// Get returns the client record for id, if still connected.
func (c *ClientCatalog) Get(id idxset.ID[*Client]) (*Client, bool) {
	return c.set.Get(id)
}

// Remove drops a client's record on disconnect (spec.md §4.7
// Disconnect step). The id is never reallocated.
func (c *ClientCatalog) Remove(id idxset.ID[*Client]) {
	c.set.Remove(id)
}

// Len reports the number of currently connected clients.
func (c *ClientCatalog) Len() int {
	return c.set.Len()
}

// Each calls f for every connected client in ascending id order,
// matching GetClientInfoList's reply ordering requirement.
func (c *ClientCatalog) Each(f func(*Client)) {
	c.set.Iter(func(_ idxset.ID[*Client], client *Client) {
		f(client)
	})
}
