// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package cookie_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/cookie"
)

func TestLoadOrCreateGeneratesNewCookie(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookie")

	c, err := cookie.LoadOrCreate(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.EqualValues(t, cookie.Length, info.Size())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, c.Equal(data))
}

func TestLoadOrCreateReloadsExistingCookie(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookie")

	first, err := cookie.LoadOrCreate(path)
	require.NoError(t, err)

	second, err := cookie.LoadOrCreate(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, first.Equal(data))
	assert.True(t, second.Equal(data))
}

func TestLoadOrCreateRejectsBadMode(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookie")

	data := make([]byte, cookie.Length)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := cookie.LoadOrCreate(path)
	assert.ErrorIs(t, err, cookie.ErrBadMode)
}

func TestLoadOrCreateRejectsWrongLength(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookie")

	require.NoError(t, os.WriteFile(path, []byte("too short"), 0o600))

	_, err := cookie.LoadOrCreate(path)
	assert.Error(t, err)
}

func TestEqualRejectsWrongLength(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cookie")
	c, err := cookie.LoadOrCreate(path)
	require.NoError(t, err)

	assert.False(t, c.Equal([]byte("short")))
}

func TestEqualRejectsMismatch(t *testing.T) {
	t.Parallel()
	pathA := filepath.Join(t.TempDir(), "cookieA")
	pathB := filepath.Join(t.TempDir(), "cookieB")

	a, err := cookie.LoadOrCreate(pathA)
	require.NoError(t, err)
	b, err := cookie.LoadOrCreate(pathB)
	require.NoError(t, err)

	bBytes, err := os.ReadFile(pathB)
	require.NoError(t, err)

	assert.False(t, a.Equal(bBytes))
	_ = b
}
