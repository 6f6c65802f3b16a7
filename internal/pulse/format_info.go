// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package pulse

// EncodingType names a stream's high-level encoding, as carried by
// FormatInfo (v≥21 commands).
type EncodingType uint8

// Encoding types in PulseAudio's canonical enum order.
const (
	EncodingAny EncodingType = iota
	EncodingPCM
	EncodingAC3IEC61937
	EncodingEAC3IEC61937
	EncodingMPEGIEC61937
	EncodingDTSIEC61937
	EncodingMPEG
	EncodingAAC
)

// FormatInfo pairs an encoding with a property list describing its
// parameters (e.g. "format.sample_format" for PCM).
type FormatInfo struct {
	Encoding   EncodingType
	Properties *PropList
}

// NewFormatInfo constructs a FormatInfo, defaulting Properties to an
// empty list when nil is supplied.
func NewFormatInfo(encoding EncodingType, props *PropList) FormatInfo {
	if props == nil {
		props = NewPropList()
	}
	return FormatInfo{Encoding: encoding, Properties: props}
}
