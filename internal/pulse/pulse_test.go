// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package pulse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/pulse"
)

func TestSampleFormatStringAndParse(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "s16le", pulse.SampleS16LE.String())
	assert.Equal(t, "invalid", pulse.SampleFormat(200).String())

	f, ok := pulse.ParseSampleFormat("s16le")
	require.True(t, ok)
	assert.Equal(t, pulse.SampleS16LE, f)

	_, ok = pulse.ParseSampleFormat("nonexistent")
	assert.False(t, ok)
}

func TestNewSampleSpecValidation(t *testing.T) {
	t.Parallel()
	_, err := pulse.NewSampleSpec(pulse.SampleS16LE, 2, 44100)
	assert.NoError(t, err)

	_, err = pulse.NewSampleSpec(pulse.SampleFormat(200), 2, 44100)
	assert.Error(t, err)

	_, err = pulse.NewSampleSpec(pulse.SampleS16LE, 0, 44100)
	assert.Error(t, err)

	_, err = pulse.NewSampleSpec(pulse.SampleS16LE, 2, pulse.MaxRate+1)
	assert.Error(t, err)
}

func TestSampleSpecProtocolDowngrade(t *testing.T) {
	t.Parallel()
	s, err := pulse.NewSampleSpec(pulse.SampleS24LE, 2, 44100)
	require.NoError(t, err)

	downgraded := s.ProtocolDowngrade(14)
	assert.Equal(t, pulse.SampleFloat32LE, downgraded.Format)

	unchanged := s.ProtocolDowngrade(15)
	assert.Equal(t, pulse.SampleS24LE, unchanged.Format)
}

func TestDefaultChannelMap(t *testing.T) {
	t.Parallel()
	mono, err := pulse.DefaultChannelMap(1)
	require.NoError(t, err)
	assert.Equal(t, []pulse.ChannelPosition{pulse.ChannelMono}, mono.Positions)

	stereo, err := pulse.DefaultChannelMap(2)
	require.NoError(t, err)
	assert.Equal(t, []pulse.ChannelPosition{pulse.ChannelFrontLeft, pulse.ChannelFrontRight}, stereo.Positions)

	_, err = pulse.DefaultChannelMap(6)
	assert.Error(t, err)
}

func TestChannelMapValidatesLength(t *testing.T) {
	t.Parallel()
	_, err := pulse.NewChannelMap(nil)
	assert.NoError(t, err)

	positions := make([]pulse.ChannelPosition, pulse.MaxChannels+1)
	_, err = pulse.NewChannelMap(positions)
	assert.Error(t, err)
}

func TestVolumeClampAndConversions(t *testing.T) {
	t.Parallel()
	assert.Equal(t, pulse.MaxVolume, (pulse.MaxVolume + 1).Clamp())
	assert.InDelta(t, 1.0, pulse.Unity.ToLinear(), 0.0001)
	assert.InDelta(t, float64(pulse.Unity), float64(pulse.FromLinear(1.0)), 1)
}

func TestCumulativeVolumeRequiresNonEmpty(t *testing.T) {
	t.Parallel()
	_, err := pulse.NewCumulativeVolume(nil, true)
	assert.Error(t, err)

	cv, err := pulse.NewCumulativeVolume(nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, cv.Len())
}

func TestPropListSetGetString(t *testing.T) {
	t.Parallel()
	p := pulse.NewPropList()
	require.NoError(t, p.SetString("application.name", "test"))

	v, ok := p.GetString("application.name")
	assert.True(t, ok)
	assert.Equal(t, "test", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestPropListRejectsInvalidKeys(t *testing.T) {
	t.Parallel()
	p := pulse.NewPropList()
	assert.Error(t, p.Set("", []byte("x")))
	assert.Error(t, p.Set("key\x00withnul", []byte("x")))
}

func TestPropListMergeOverwrites(t *testing.T) {
	t.Parallel()
	base := pulse.NewPropList()
	require.NoError(t, base.SetString("k", "base"))

	overlay := pulse.NewPropList()
	require.NoError(t, overlay.SetString("k", "overlay"))
	require.NoError(t, overlay.SetString("k2", "new"))

	base.Merge(overlay)
	v, _ := base.GetString("k")
	assert.Equal(t, "overlay", v)
	v2, _ := base.GetString("k2")
	assert.Equal(t, "new", v2)
}

func TestPropListKeysPreserveInsertionOrder(t *testing.T) {
	t.Parallel()
	p := pulse.NewPropList()
	require.NoError(t, p.SetString("b", "1"))
	require.NoError(t, p.SetString("a", "2"))
	assert.Equal(t, []string{"b", "a"}, p.Keys())
}

func TestFormatInfoDefaultsEmptyProps(t *testing.T) {
	t.Parallel()
	fi := pulse.NewFormatInfo(pulse.EncodingPCM, nil)
	require.NotNil(t, fi.Properties)
	assert.Equal(t, 0, fi.Properties.Len())
}

func TestMicrosecondsDurationRoundTrip(t *testing.T) {
	t.Parallel()
	d := pulse.FromDuration(250000000).Duration()
	assert.EqualValues(t, 250000000, d)
}
