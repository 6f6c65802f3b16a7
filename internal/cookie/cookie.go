// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package cookie implements the 256-byte authentication cookie
// spec.md §4.6 describes: a shared secret generated once and compared
// byte-for-byte in constant time against whatever the Auth command
// transmits.
package cookie

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Length is the fixed size of the cookie, in bytes.
const Length = 256

// mode is the required permission bits on the cookie file; any other
// mode after creation is a fatal error per spec.md §4.6.
const mode fs.FileMode = 0o600

// ErrBadMode is returned when an existing cookie file's permissions
// are not exactly 0600.
var ErrBadMode = errors.New("cookie: file mode is not 0600")

// Cookie holds the 256 random bytes in memory for the lifetime of the
// server.
type Cookie struct {
	bytes [Length]byte
}

// Equal reports whether candidate matches the cookie, in constant
// time.
func (c *Cookie) Equal(candidate []byte) bool {
	if len(candidate) != Length {
		return false
	}
	return subtle.ConstantTimeCompare(c.bytes[:], candidate) == 1
}

// LoadOrCreate reads the 256-byte cookie at path, creating it with
// cryptographically strong random bytes if absent. It removes any
// stale file before creating a fresh one, and verifies the file's
// final mode is exactly 0600, per spec.md §4.6.
func LoadOrCreate(path string) (*Cookie, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) != Length {
			return nil, fmt.Errorf("cookie: %s: expected %d bytes, got %d", path, Length, len(data))
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cookie: stat %s: %w", path, err)
		}
		if info.Mode().Perm() != mode {
			return nil, fmt.Errorf("cookie: %s: %w", path, ErrBadMode)
		}
		c := &Cookie{}
		copy(c.bytes[:], data)
		return c, nil
	case os.IsNotExist(err):
		return create(path)
	default:
		return nil, fmt.Errorf("cookie: read %s: %w", path, err)
	}
}

func create(path string) (*Cookie, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cookie: remove stale %s: %w", path, err)
	}

	c := &Cookie{}
	if _, err := rand.Read(c.bytes[:]); err != nil {
		return nil, fmt.Errorf("cookie: generate random bytes: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return nil, fmt.Errorf("cookie: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(c.bytes[:]); err != nil {
		return nil, fmt.Errorf("cookie: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("cookie: fsync %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cookie: stat %s: %w", path, err)
	}
	if info.Mode().Perm() != mode {
		return nil, fmt.Errorf("cookie: %s: %w", path, ErrBadMode)
	}

	return c, nil
}
