// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package command

// ErrorCode is the numeric semantic error reported to a peer in an
// ERROR envelope, per spec.md §7.
type ErrorCode uint32

// Semantic error codes. Values for Version (17) and NotImplemented
// (22) are pinned by the literal end-to-end scenarios in spec.md §8;
// spec.md §7's prose lists Obsolete immediately before NotImplemented,
// which would instead put NotImplemented at 23 under pure sequential
// numbering. The two pinned values take precedence (§8 scenario 1 and
// 5 are byte-exact wire assertions), so Obsolete is numbered after
// NotImplemented here rather than before it.
const (
	_                       ErrorCode = iota // 0 is not a valid error code; OpError names the envelope, not a code
	ErrAccess                                // 1
	ErrCommand                               // 2
	ErrInvalid                               // 3
	ErrExist                                 // 4
	ErrNoEntity                              // 5
	ErrConnectionRefused                     // 6
	ErrProtocol                              // 7
	ErrTimeout                               // 8
	ErrAuthKey                               // 9
	ErrInternal                              // 10
	ErrConnectionTerminated                  // 11
	ErrKilled                                // 12
	ErrInvalidServer                         // 13
	ErrModInitFailed                         // 14
	ErrBadState                              // 15
	ErrNoData                                // 16
	ErrVersion                               // 17
	ErrTooLarge                              // 18
	ErrNotSupported                          // 19
	ErrUnknown                               // 20
	ErrNoExtension                           // 21
	ErrNotImplemented                        // 22
	ErrObsolete                              // 23
	ErrForked                                // 24
	ErrIO                                    // 25
	ErrBusy                                  // 26
)

// SemanticError pairs an ErrorCode with a human-readable message for
// logging; only the code crosses the wire.
type SemanticError struct {
	Code ErrorCode
	Msg  string
}

func (e *SemanticError) Error() string { return e.Msg }

// NewSemanticError constructs a SemanticError.
func NewSemanticError(code ErrorCode, msg string) *SemanticError {
	return &SemanticError{Code: code, Msg: msg}
}
