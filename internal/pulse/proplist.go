// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package pulse

import (
	"fmt"
	"log/slog"
	"sort"
	"unicode"
	"unicode/utf8"
)

// MaxPropertyValue is the cap on a single property list value, per
// spec.md §3.
const MaxPropertyValue = 64 * 1024

// PropList maps ASCII keys (nonempty, no interior NUL) to arbitrary
// byte values. Insertion overwrites duplicate keys; decode-time
// duplicates additionally emit a warning, matching the PulseAudio
// reference behavior spec.md §4.2 calls out.
type PropList struct {
	entries map[string][]byte
	order   []string
}

// NewPropList returns an empty property list.
func NewPropList() *PropList {
	return &PropList{entries: make(map[string][]byte)}
}

// Set validates key and value and inserts or overwrites the entry. It
// does not warn on overwrite; callers decoding untrusted wire data
// should use SetFromWire instead.
func (p *PropList) Set(key string, value []byte) error {
	if err := validatePropKey(key); err != nil {
		return err
	}
	if len(value) > MaxPropertyValue {
		return fmt.Errorf("pulse: property %q value exceeds %d bytes", key, MaxPropertyValue)
	}
	p.set(key, value)
	return nil
}

// SetFromWire is Set, but logs a warning when key already exists,
// matching the decode-time duplicate-key behavior spec.md §4.2
// requires.
func (p *PropList) SetFromWire(key string, value []byte) error {
	if err := validatePropKey(key); err != nil {
		return err
	}
	if len(value) > MaxPropertyValue {
		return fmt.Errorf("pulse: property %q value exceeds %d bytes", key, MaxPropertyValue)
	}
	if _, exists := p.entries[key]; exists {
		slog.Warn("duplicate property list key overwritten", "key", key)
	}
	p.set(key, value)
	return nil
}

func (p *PropList) set(key string, value []byte) {
	if p.entries == nil {
		p.entries = make(map[string][]byte)
	}
	if _, exists := p.entries[key]; !exists {
		p.order = append(p.order, key)
	}
	p.entries[key] = value
}

func validatePropKey(key string) error {
	if key == "" {
		return fmt.Errorf("pulse: property key must not be empty")
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == 0 {
			return fmt.Errorf("pulse: property key must not contain NUL")
		}
		if c > unicode.MaxASCII {
			return fmt.Errorf("pulse: property key must be ASCII")
		}
	}
	return nil
}

// Get returns the value for key and whether it was present.
func (p *PropList) Get(key string) ([]byte, bool) {
	v, ok := p.entries[key]
	return v, ok
}

// GetString returns the value for key rendered as a string, dropping
// a single trailing NUL if present (the usual PulseAudio convention
// for string-valued properties).
func (p *PropList) GetString(key string) (string, bool) {
	v, ok := p.entries[key]
	if !ok {
		return "", false
	}
	if n := len(v); n > 0 && v[n-1] == 0 {
		v = v[:n-1]
	}
	return string(v), true
}

// SetString stores value as a NUL-terminated string, the convention
// PulseAudio uses for textual properties.
func (p *PropList) SetString(key, value string) error {
	return p.Set(key, append([]byte(value), 0))
}

// Keys returns the keys in insertion order.
func (p *PropList) Keys() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of entries.
func (p *PropList) Len() int { return len(p.entries) }

// Merge overwrites the receiver's entries with other's, matching
// SetClientName's "merge the supplied property list, overwriting
// existing keys" behavior (spec.md §4.7).
func (p *PropList) Merge(other *PropList) {
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		p.set(k, v)
	}
}

// Display renders the property list the way PulseAudio's debug tools
// do: values that are valid NUL-terminated UTF-8 strings are shown as
// text, everything else as a byte count (spec.md §4.3).
func (p *PropList) Display() string {
	keys := append([]string(nil), p.order...)
	sort.Strings(keys)
	out := "{"
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		v := p.entries[k]
		out += k + " = "
		if n := len(v); n > 0 && v[n-1] == 0 && utf8.Valid(v[:n-1]) {
			out += fmt.Sprintf("%q", string(v[:n-1]))
		} else {
			out += fmt.Sprintf("<%d bytes>", len(v))
		}
	}
	return out + "}"
}
