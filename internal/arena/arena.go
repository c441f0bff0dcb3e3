// Package arena implements the append-only arenas used for every
// long-lived entity (functions, structs, types, modules, IR blocks):
// allocation returns a stable, typed index; arenas never move or delete
// an entry; concurrent allocation from many worker goroutines is safe.
// Allocation is not lock-free: Append holds a one-slot channel lock for
// its whole duration, so concurrent appends run one at a time.
//
// The design mirrors how the teacher keeps large tables of stable-identity
// records (cmd_local/compile/internal/types.Sym/Type are referred to by
// pointer into a table that never relocates) but trades pointer identity
// for a small integer Index, which is what lets a Pending[T] (see
// internal/task) be a plain comparable value usable as a map key and safe
// to persist across a cache reload.
package arena

import "sync/atomic"

// Index is a stable reference into an Arena[T]. The zero Index is never
// issued by Append and can be used as a "no value" sentinel.
type Index uint32

// Valid reports whether i was actually issued by an Arena.
func (i Index) Valid() bool { return i != 0 }

// segmentSize is the number of elements held in one arena segment.
// Segments are themselves append-only slices that, once allocated, are
// never reallocated or moved — only the top-level segment list grows,
// which is why a previously returned Index stays valid forever, including
// across the segment list's own growth.
const segmentSize = 4096

// An Arena holds stable-indexed values of type T. Construct one with New:
// the zero Arena has no lock channel, and Append on it blocks forever.
// Appending is safe for concurrent use by many
// goroutines; reading a previously appended Index is always safe without
// further synchronization, since a segment's contents are only ever
// written once (at Append time) before the Index is published to the
// caller.
type Arena[T any] struct {
	next     uint32     // next index to hand out, 1-based
	mu       chan struct{} // 1-buffered mutex: held for the whole of Append and of Len
	segments atomic.Pointer[[]*[segmentSize]T]
}

// New returns an empty, ready-to-use Arena[T].
func New[T any]() *Arena[T] {
	a := &Arena[T]{mu: make(chan struct{}, 1)}
	a.mu <- struct{}{}
	segs := make([]*[segmentSize]T, 0, 8)
	a.segments.Store(&segs)
	a.next = 1
	return a
}

func (a *Arena[T]) lock()   { <-a.mu }
func (a *Arena[T]) unlock() { a.mu <- struct{}{} }

// Append allocates a new slot holding v and returns its stable Index.
// Indices are handed out in increasing order starting at 1; they are never
// reused, even if the arena is later queried for an entry that was never
// actually reachable from a completed task (a suspended/cyclic task's
// partially built record still occupies a real slot).
func (a *Arena[T]) Append(v T) Index {
	a.lock()
	defer a.unlock()

	idx := a.next
	a.next++

	segIdx := int((idx - 1) / segmentSize)
	offset := int((idx - 1) % segmentSize)

	segs := *a.segments.Load()
	for segIdx >= len(segs) {
		segs = append(segs, new([segmentSize]T))
	}
	segs[segIdx][offset] = v
	a.segments.Store(&segs)

	return Index(idx)
}

// At returns the value stored at i. It panics if i was never issued by
// this arena, which indicates a programming error (an Index from a
// different arena, or the zero Index) rather than a recoverable condition.
func (a *Arena[T]) At(i Index) T {
	if !i.Valid() || uint32(i) >= a.next {
		panic("arena: invalid index")
	}
	segIdx := int((uint32(i) - 1) / segmentSize)
	offset := int((uint32(i) - 1) % segmentSize)
	segs := *a.segments.Load()
	return segs[segIdx][offset]
}

// Set overwrites the value stored at i. This does not violate append-only
// semantics for i's identity (the Index remains stable and never points
// anywhere else) but is used sparingly — only by code that owns i
// exclusively, such as a task finishing construction of a record it
// allocated a placeholder slot for earlier in its own execution.
func (a *Arena[T]) Set(i Index, v T) {
	if !i.Valid() || uint32(i) >= a.next {
		panic("arena: invalid index")
	}
	segIdx := int((uint32(i) - 1) / segmentSize)
	offset := int((uint32(i) - 1) % segmentSize)
	segs := *a.segments.Load()
	segs[segIdx][offset] = v
}

// Len returns the number of entries appended so far. Because appends only
// ever grow the arena, Len is monotonically non-decreasing over the life
// of the Arena.
func (a *Arena[T]) Len() int {
	a.lock()
	n := int(a.next - 1)
	a.unlock()
	return n
}

// All calls f for every index currently in the arena, in index order. It
// takes a consistent snapshot of the length before iterating, so
// concurrent appends during iteration are simply not visited — callers
// that need a stronger guarantee should only call All at quiescence.
func (a *Arena[T]) All(f func(Index, T)) {
	n := a.Len()
	for i := uint32(1); i <= uint32(n); i++ {
		f(Index(i), a.At(Index(i)))
	}
}
