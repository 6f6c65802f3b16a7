// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package command implements the versioned command catalog: one
// (from-tagstruct, to-tagstruct) pair per opcode, gated by the
// negotiated protocol version, per spec.md §4.4. The opcode
// enumeration mirrors PulseAudio's canonical native-protocol command
// list (the subset achrafsoltani/Glow's internal/pulse package
// already names is kept byte-for-byte identical; the rest is
// extended from spec.md §6 in the same numeric order).
package command

// Opcode names a native-protocol command or reply kind.
type Opcode uint32

// Opcodes in PulseAudio's canonical enumeration order (spec.md §6).
// Numeric values must mirror that order exactly for forwards-compat
// routing even though this core only implements a subset of
// handlers.
const (
	OpError Opcode = iota
	OpTimeout
	OpReply

	OpCreatePlaybackStream
	OpDeletePlaybackStream
	OpCreateRecordStream
	OpDeleteRecordStream
	OpExit
	OpAuth
	OpSetClientName
	OpLookupSink
	OpLookupSource
	OpDrainPlaybackStream
	OpStat
	OpGetPlaybackLatency
	OpCreateUploadStream
	OpDeleteUploadStream
	OpFinishUploadStream
	OpPlaySample
	OpRemoveSample

	OpGetServerInfo
	OpGetSinkInfo
	OpGetSinkInfoList
	OpGetSourceInfo
	OpGetSourceInfoList
	OpGetModuleInfo
	OpGetModuleInfoList
	OpGetClientInfo
	OpGetClientInfoList
	OpGetSinkInputInfo
	OpGetSinkInputInfoList
	OpGetSourceOutputInfo
	OpGetSourceOutputInfoList
	OpGetSampleInfo
	OpGetSampleInfoList
	OpSubscribe
	OpSubscribeEvent

	OpSetSinkVolume
	OpSetSinkInputVolume
	OpSetSourceVolume

	OpSetSinkMute
	OpSetSourceMute

	OpCorkPlaybackStream
	OpFlushPlaybackStream
	OpTriggerPlaybackStream

	OpSetDefaultSink
	OpSetDefaultSource

	OpSetPlaybackStreamName
	OpSetRecordStreamName

	OpKillClient
	OpKillSinkInput
	OpKillSourceOutput

	OpLoadModule
	OpUnloadModule

	OpAddAutoloadOBSOLETE
	OpRemoveAutoloadOBSOLETE
	OpGetAutoloadInfoOBSOLETE
	OpGetAutoloadInfoListOBSOLETE

	OpGetRecordLatency
	OpCorkRecordStream
	OpFlushRecordStream
	OpPrebufPlaybackStream

	OpRequest
	OpOverflow
	OpUnderflow
	OpPlaybackStreamKilled
	OpRecordStreamKilled

	OpPlaybackStreamSuspended
	OpRecordStreamSuspended
	OpPlaybackStreamMoved
	OpRecordStreamMoved

	OpSetSourceOutputVolume
	OpSetSourceOutputMute

	OpSetPlaybackStreamBufferAttr
	OpSetRecordStreamBufferAttr

	OpUpdatePlaybackStreamSampleRate
	OpUpdateRecordStreamSampleRate

	OpUpdateRecordStreamProplist
	OpUpdatePlaybackStreamProplist
	OpUpdateClientProplist
	OpRemoveRecordStreamProplist
	OpRemovePlaybackStreamProplist
	OpRemoveClientProplist

	OpStarted

	OpCardInfo
	OpCardInfoList
	OpSetCardProfile

	OpClientEvent
	OpPlaybackStreamEvent
	OpRecordStreamEvent

	OpPlaybackBufferAttrChanged
	OpRecordBufferAttrChanged

	OpSetSinkPort
	OpSetSourcePort

	OpSetSourceOutputName

	OpSuspendSink
	OpSuspendSource

	OpMoveSinkInput
	OpMoveSourceOutput

	OpUpdateProplist

	OpDisconnect

	OpSetSinkInputName

	OpSinkInputEvent

	OpRegisterMemfdShmid
)

// IsKnown reports whether op is one of the recognized opcodes above.
// Anything outside this range dispatches NotImplemented without
// tearing down the connection (spec.md §4.4/§4.7).
func (op Opcode) IsKnown() bool {
	return op <= OpRegisterMemfdShmid
}
