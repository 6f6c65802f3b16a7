// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package idxset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesound/pulsewired/internal/idxset"
)

func TestAllocAssignsMonotonicIDs(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[string]()

	id0 := s.Alloc(func(id idxset.ID[string]) string { return "a" })
	id1 := s.Alloc(func(id idxset.ID[string]) string { return "b" })

	assert.EqualValues(t, 0, id0)
	assert.EqualValues(t, 1, id1)
	assert.Equal(t, 2, s.Len())
}

func TestAllocPassesTheAllocatedIDToTheBuilder(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[idxset.ID[int]]()

	id := s.Alloc(func(id idxset.ID[int]) idxset.ID[int] { return id })
	v, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, v)
}

func TestGetMissingReturnsFalse(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[string]()
	_, ok := s.Get(idxset.ID[string](42))
	assert.False(t, ok)
}

func TestRemoveDeletesAndNeverReallocates(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[string]()
	id := s.Alloc(func(idxset.ID[string]) string { return "x" })
	s.Remove(id)

	_, ok := s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	next := s.Alloc(func(idxset.ID[string]) string { return "y" })
	assert.NotEqual(t, id, next)
	assert.Greater(t, uint32(next), uint32(id))
}

func TestInsertSeedsAnExplicitIDWithoutColliding(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[string]()
	s.Insert(idxset.ID[string](0), "dummy")

	v, ok := s.Get(idxset.ID[string](0))
	require.True(t, ok)
	assert.Equal(t, "dummy", v)

	next := s.Alloc(func(idxset.ID[string]) string { return "next" })
	assert.EqualValues(t, 1, next)
}

func TestInsertAtAHighIDAdvancesFutureAllocations(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[string]()
	s.Insert(idxset.ID[string](10), "seeded")

	next := s.Alloc(func(idxset.ID[string]) string { return "after" })
	assert.EqualValues(t, 11, next)
}

func TestIterVisitsEntriesInAscendingIDOrder(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[string]()
	third := s.Alloc(func(idxset.ID[string]) string { return "third" })
	s.Remove(third)
	s.Alloc(func(idxset.ID[string]) string { return "first" })
	s.Alloc(func(idxset.ID[string]) string { return "second" })

	var ids []idxset.ID[string]
	var values []string
	s.Iter(func(id idxset.ID[string], v string) {
		ids = append(ids, id)
		values = append(values, v)
	})

	require.Len(t, ids, 2)
	assert.Less(t, uint32(ids[0]), uint32(ids[1]))
	assert.Equal(t, []string{"first", "second"}, values)
}

func TestLenReflectsRemovals(t *testing.T) {
	t.Parallel()
	s := idxset.NewSet[int]()
	a := s.Alloc(func(idxset.ID[int]) int { return 1 })
	s.Alloc(func(idxset.ID[int]) int { return 2 })
	assert.Equal(t, 2, s.Len())

	s.Remove(a)
	assert.Equal(t, 1, s.Len())
}
