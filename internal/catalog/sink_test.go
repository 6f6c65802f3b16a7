// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/catalog"
	"github.com/nativesound/pulsewired/internal/command"
	"github.com/nativesound/pulsewired/internal/pulse"
)

func TestNewSinkCatalogSeedsDummySink(t *testing.T) {
	t.Parallel()
	c := catalog.NewSinkCatalog()

	require.Equal(t, 1, c.Len())
	dummy := c.Default()
	require.NotNil(t, dummy)
	assert.Equal(t, "dummy", dummy.Name)
	assert.Equal(t, catalog.DummySinkIndex, dummy.ID)
}

func TestSinkCatalogByName(t *testing.T) {
	t.Parallel()
	c := catalog.NewSinkCatalog()

	found, ok := c.ByName("dummy")
	assert.True(t, ok)
	assert.Equal(t, catalog.DummySinkIndex, found.ID)

	_, ok = c.ByName("nonexistent")
	assert.False(t, ok)
}

func TestSinkCatalogAddAllocatesAboveDummy(t *testing.T) {
	t.Parallel()
	c := catalog.NewSinkCatalog()

	id := c.Add(&catalog.Sink{
		Name:       "speakers",
		SampleSpec: pulse.SampleSpec{Format: pulse.SampleS16LE, Channels: 2, Rate: 44100},
		Backend:    catalog.NullBackend{},
	})

	assert.NotEqual(t, catalog.DummySinkIndex, id)
	assert.Equal(t, 2, c.Len())
	sink, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, "speakers", sink.Name)
}

func TestSinkToSinkInfoProjection(t *testing.T) {
	t.Parallel()
	c := catalog.NewSinkCatalog()
	dummy := c.Default()

	info := dummy.ToSinkInfo(32)
	assert.Equal(t, uint32(catalog.DummySinkIndex), info.Index)
	assert.Equal(t, "dummy", info.Name)
	assert.Equal(t, command.InvalidIndex, info.OwningModuleIndex)
	assert.Equal(t, command.InvalidIndex, info.MonitorSourceIndex)
	assert.Equal(t, command.InvalidIndex, info.CardIndex)
	assert.Equal(t, "module-null-sink.c", info.Driver)
}

func TestSinkToSinkInfoActivePortName(t *testing.T) {
	t.Parallel()
	sink := &catalog.Sink{
		Name: "with-ports",
		Ports: []catalog.SinkPort{
			{Name: "analog-output", Description: "Analog Output"},
			{Name: "hdmi-output", Description: "HDMI Output"},
		},
		ActivePort: 1,
		Backend:    catalog.NullBackend{},
	}
	info := sink.ToSinkInfo(32)
	assert.Equal(t, "hdmi-output", info.ActivePort)
	require.Len(t, info.Ports, 2)
}
