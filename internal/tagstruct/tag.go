// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package tagstruct implements PulseAudio's self-describing tagged
// value codec: a streaming writer over an owned buffer and a
// zero-copy reader over a borrowed byte slice. Grounded on
// achrafsoltani/Glow's internal/pulse TagBuilder/TagParser, extended
// to the full tag set and stricter validation spec.md §4.2 requires
// of a server reading untrusted input.
package tagstruct

// Tag is the single-byte discriminator preceding every tagstruct
// value.
type Tag byte

// Tag bytes, as enumerated in spec.md §4.2/§6.
const (
	TagString       Tag = 't'
	TagStringNull   Tag = 'N'
	TagU32          Tag = 'L'
	TagU8           Tag = 'B'
	TagU64          Tag = 'R'
	TagS64          Tag = 'r'
	TagSampleSpec   Tag = 'a'
	TagArbitrary    Tag = 'x'
	TagBoolTrue     Tag = '1'
	TagBoolFalse    Tag = '0'
	TagTimeval      Tag = 'T'
	TagUSec         Tag = 'U'
	TagChannelMap   Tag = 'm'
	TagCVolume      Tag = 'v'
	TagPropList     Tag = 'P'
	TagVolume       Tag = 'V'
	TagFormatInfo   Tag = 'f'
)
