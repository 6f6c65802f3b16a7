// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

// Package idxset implements the monotonic-id container spec.md §4.5
// backs the Client and Sink catalogs with: ids are never reused, and
// typing by element kind prevents mixing ids from different
// containers (spec.md §9 "Typed indices"). Grounded on the teacher's
// concurrent-map-plus-narrow-mutex shape (internal/dmr/hub's
// subscription registries), backed by puzpuzpuz/xsync for the
// read-mostly lookup path.
package idxset

import (
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// ID is a monotonic identifier scoped to one Set[T]. The phantom type
// parameter T prevents an ID allocated by one Set from being used
// against another.
type ID[T any] uint32

// Set is an ordered mapping from monotonically increasing ids to
// owned values of type T. Reads and removals go through a concurrent
// map; id allocation is serialized by a narrow mutex so ids never
// race or repeat.
type Set[T any] struct {
	mu      sync.Mutex
	next    uint32
	entries *xsync.Map[uint32, T]
}

// NewSet returns an empty Set.
func NewSet[T any]() *Set[T] {
	return &Set[T]{entries: xsync.NewMap[uint32, T]()}
}

// Alloc allocates the next id, calls f(id) to build the value, inserts
// it, and returns the id. f runs outside any lock the caller can
// observe beyond the allocation itself.
func (s *Set[T]) Alloc(f func(id ID[T]) T) ID[T] {
	s.mu.Lock()
	id := s.next
	s.next++
	s.mu.Unlock()

	v := f(ID[T](id))
	s.entries.Store(id, v)
	return ID[T](id)
}

// Insert stores v at an explicitly chosen id and advances the
// allocation counter past it, so later Alloc calls never reuse it;
// used to seed the immortal dummy sink at id 0 (spec.md §3) before
// any Alloc call.
func (s *Set[T]) Insert(id ID[T], v T) {
	s.mu.Lock()
	if uint32(id) >= s.next {
		s.next = uint32(id) + 1
	}
	s.mu.Unlock()
	s.entries.Store(uint32(id), v)
}

// Get returns the value for id and whether it was present.
func (s *Set[T]) Get(id ID[T]) (T, bool) {
	return s.entries.Load(uint32(id))
}

// Remove deletes id from the set. The id is never reallocated.
func (s *Set[T]) Remove(id ID[T]) {
	s.entries.Delete(uint32(id))
}

// Len returns the number of live entries.
func (s *Set[T]) Len() int {
	return s.entries.Size()
}

// Iter calls f for every entry in ascending id order.
func (s *Set[T]) Iter(f func(id ID[T], v T)) {
	ids := make([]uint32, 0, s.entries.Size())
	s.entries.Range(func(k uint32, _ T) bool {
		ids = append(ids, k)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if v, ok := s.entries.Load(id); ok {
			f(ID[T](id), v)
		}
	}
}
