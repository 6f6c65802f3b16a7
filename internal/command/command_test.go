// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/command"
	"github.com/nativesound/pulsewired/internal/pulse"
	"github.com/nativesound/pulsewired/internal/tagstruct"
)

func TestEncodeReplyDecodesAsEnvelope(t *testing.T) {
	t.Parallel()
	payload := command.EncodeReply(command.Tag(7), func(w *tagstruct.Writer) {
		w.U32(99)
	})

	env, err := command.DecodeEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, command.OpReply, env.Opcode)
	assert.EqualValues(t, 7, env.Tag)
	v, err := env.Reader.U32()
	require.NoError(t, err)
	assert.EqualValues(t, 99, v)
}

func TestEncodeErrorDecodesAsEnvelope(t *testing.T) {
	t.Parallel()
	payload := command.EncodeError(command.Tag(3), command.ErrAccess)

	env, err := command.DecodeEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, command.OpError, env.Opcode)
	assert.EqualValues(t, 3, env.Tag)
	code, err := env.Reader.U32()
	require.NoError(t, err)
	assert.Equal(t, command.ErrAccess, command.ErrorCode(code))
}

func TestDecodeEnvelopeRejectsTruncatedPrefix(t *testing.T) {
	t.Parallel()
	_, err := command.DecodeEnvelope([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestAuthRoundTrip(t *testing.T) {
	t.Parallel()
	a := command.Auth{Version: 32, SupportsShm: true, SupportsMemfd: false, Cookie: make([]byte, 256)}

	w := tagstruct.NewWriter(nil)
	a.Write(w)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseAuth(r)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAuthReplyRoundTrip(t *testing.T) {
	t.Parallel()
	a := command.AuthReply{ServerVersion: 32, Shm: false, Memfd: true}

	w := tagstruct.NewWriter(nil)
	a.Write(w)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseAuthReply(r)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestSetClientNameRoundTrip(t *testing.T) {
	t.Parallel()
	props := pulse.NewPropList()
	require.NoError(t, props.SetString("application.name", "test"))
	scn := command.SetClientName{Properties: props}

	w := tagstruct.NewWriter(nil)
	scn.Write(w)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseSetClientName(r, 32)
	require.NoError(t, err)
	name, _ := got.Properties.GetString("application.name")
	assert.Equal(t, "test", name)
}

func TestRegisterMemfdShmidRoundTrip(t *testing.T) {
	t.Parallel()
	c := command.RegisterMemfdShmid{ShmID: 12345}

	w := tagstruct.NewWriter(nil)
	c.Write(w)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseRegisterMemfdShmid(r)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestModuleInfoWriteGatesByVersion(t *testing.T) {
	t.Parallel()
	m := command.DefaultModule()

	w := tagstruct.NewWriter(nil)
	m.Write(w, 15)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseModuleInfo(r, 15)
	require.NoError(t, err)
	assert.Equal(t, m.Name, got.Name)

	w2 := tagstruct.NewWriter(nil)
	m.Write(w2, 14)
	r2 := tagstruct.NewReader(w2.Bytes())
	got2, err := command.ParseModuleInfo(r2, 14)
	require.NoError(t, err)
	assert.Equal(t, m.Name, got2.Name)
	assert.Equal(t, 0, got2.Properties.Len())
}

func TestOpcodeIsKnown(t *testing.T) {
	t.Parallel()
	assert.True(t, command.OpAuth.IsKnown())
	assert.True(t, command.OpRegisterMemfdShmid.IsKnown())
	assert.False(t, command.Opcode(0xFFFF).IsKnown())
}

func TestErrorCodePinnedValues(t *testing.T) {
	t.Parallel()
	assert.EqualValues(t, 17, command.ErrVersion)
	assert.EqualValues(t, 22, command.ErrNotImplemented)
}

func newTestSinkInfo(t *testing.T) command.SinkInfo {
	t.Helper()
	spec, err := pulse.NewSampleSpec(pulse.SampleS16LE, 2, 44100)
	require.NoError(t, err)
	cmap, err := pulse.DefaultChannelMap(2)
	require.NoError(t, err)
	vol, err := pulse.NewCumulativeVolume([]pulse.Volume{pulse.Unity, pulse.Unity}, false)
	require.NoError(t, err)
	props := pulse.NewPropList()
	require.NoError(t, props.SetString("device.description", "Test Sink"))

	return command.SinkInfo{
		Index:              0,
		Name:               "sink0",
		Description:        "Test Sink",
		SampleSpec:         spec,
		ChannelMap:         cmap,
		OwningModuleIndex:  command.InvalidIndex,
		Volume:             vol,
		Muted:              false,
		MonitorSourceIndex: command.InvalidIndex,
		ActualLatency:      pulse.Microseconds(0),
		Driver:             "pulsewired",
		Flags:              0,
		Properties:         props,
		BaseVolume:         pulse.Unity,
		State:              command.SinkStateIdle,
		Ports: []command.SinkPort{
			{Name: "analog-output", Description: "Analog Output", Priority: 100, Available: 2},
		},
		ActivePort: "analog-output",
		FormatInfos: []pulse.FormatInfo{
			pulse.NewFormatInfo(pulse.EncodingPCM, pulse.NewPropList()),
		},
	}
}

func TestSinkInfoRoundTripHighVersion(t *testing.T) {
	t.Parallel()
	s := newTestSinkInfo(t)

	w := tagstruct.NewWriter(nil)
	s.Write(w, 24)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseSinkInfo(r, 24)
	require.NoError(t, err)
	require.NoError(t, r.AtEndStrict())

	assert.Equal(t, s.Name, got.Name)
	assert.Equal(t, s.State, got.State)
	require.Len(t, got.Ports, 1)
	assert.Equal(t, s.Ports[0], got.Ports[0])
	assert.Equal(t, s.ActivePort, got.ActivePort)
	require.Len(t, got.FormatInfos, 1)
	assert.Equal(t, s.FormatInfos[0].Encoding, got.FormatInfos[0].Encoding)
}

func TestSinkInfoRoundTripPreV13DropsExtendedFields(t *testing.T) {
	t.Parallel()
	s := newTestSinkInfo(t)

	w := tagstruct.NewWriter(nil)
	s.Write(w, 12)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseSinkInfo(r, 12)
	require.NoError(t, err)
	require.NoError(t, r.AtEndStrict())

	assert.Equal(t, s.Name, got.Name)
	assert.Nil(t, got.Properties)
	assert.Empty(t, got.Ports)
}

func TestClientInfoRoundTrip(t *testing.T) {
	t.Parallel()
	props := pulse.NewPropList()
	require.NoError(t, props.SetString("application.name", "aplay"))
	c := command.ClientInfo{
		Index:           5,
		ApplicationName: "aplay",
		OwningModule:    command.InvalidIndex,
		Driver:          "protocol-native.c",
		Properties:      props,
	}

	w := tagstruct.NewWriter(nil)
	c.Write(w, 32)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseClientInfo(r, 32)
	require.NoError(t, err)
	require.NoError(t, r.AtEndStrict())
	assert.Equal(t, c.ApplicationName, got.ApplicationName)
	assert.Equal(t, c.Driver, got.Driver)
}

func TestClientInfoDefaultsApplicationName(t *testing.T) {
	t.Parallel()
	c := command.ClientInfo{Index: 1, Properties: pulse.NewPropList()}

	w := tagstruct.NewWriter(nil)
	c.Write(w, 32)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseClientInfo(r, 32)
	require.NoError(t, err)
	assert.Equal(t, command.DefaultApplicationName, got.ApplicationName)
}

func TestCreatePlaybackStreamRoundTripHighVersion(t *testing.T) {
	t.Parallel()
	spec, err := pulse.NewSampleSpec(pulse.SampleS16LE, 2, 44100)
	require.NoError(t, err)
	cmap, err := pulse.DefaultChannelMap(2)
	require.NoError(t, err)
	vol, err := pulse.NewCumulativeVolume([]pulse.Volume{pulse.Unity, pulse.Unity}, true)
	require.NoError(t, err)
	name := "sink0"

	p := command.StreamParams{
		SampleSpec:   spec,
		ChannelMap:   cmap,
		Sink:         command.SinkSelector{ByName: &name},
		MaxLength:    65536,
		TLength:      65536,
		PreBuf:       32768,
		MinReq:       1024,
		Volume:       vol,
		Properties:   pulse.NewPropList(),
		VolumeSet:    true,
		Passthrough:  false,
		FormatInfos: []pulse.FormatInfo{
			pulse.NewFormatInfo(pulse.EncodingPCM, pulse.NewPropList()),
		},
	}

	w := tagstruct.NewWriter(nil)
	p.Write(w, 21)
	r := tagstruct.NewReader(w.Bytes())
	got, err := command.ParseCreatePlaybackStream(r, 21)
	require.NoError(t, err)
	require.NoError(t, r.AtEndStrict())

	require.NotNil(t, got.Sink.ByName)
	assert.Equal(t, name, *got.Sink.ByName)
	assert.Nil(t, got.Sink.ByIndex)
	assert.True(t, got.VolumeSet)
	require.Len(t, got.FormatInfos, 1)
}

func TestSinkSelectorRejectsBothIndexAndName(t *testing.T) {
	t.Parallel()
	spec, err := pulse.NewSampleSpec(pulse.SampleS16LE, 2, 44100)
	require.NoError(t, err)
	cmap, err := pulse.DefaultChannelMap(2)
	require.NoError(t, err)
	vol, err := pulse.NewCumulativeVolume([]pulse.Volume{pulse.Unity}, true)
	require.NoError(t, err)
	name := "sink0"

	p := command.StreamParams{
		SampleSpec: spec,
		ChannelMap: cmap,
		Sink:       command.SinkSelector{ByIndex: uint32Ptr(2), ByName: &name},
		Volume:     vol,
		Properties: pulse.NewPropList(),
	}

	w := tagstruct.NewWriter(nil)
	p.Write(w, 12)
	r := tagstruct.NewReader(w.Bytes())
	_, err = command.ParseCreatePlaybackStream(r, 12)
	assert.Error(t, err)
}

func TestSinkSelectorIsDefault(t *testing.T) {
	t.Parallel()
	assert.True(t, command.SinkSelector{}.IsDefault())
	assert.False(t, command.SinkSelector{ByIndex: uint32Ptr(0)}.IsDefault())
}

func uint32Ptr(v uint32) *uint32 { return &v }

