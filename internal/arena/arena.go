// Package arena provides a generational slot allocator.
//
// Values live in slots addressed by a Handle (slot index + generation). Freeing
// a slot bumps its generation, so every Handle taken before the free stops
// resolving. This is how the engine models weak references without relying on
// the garbage collector: holding a Handle never keeps the value alive, and a
// stale Handle is detected instead of silently pointing at a reused slot.
//
// Arena is NOT safe for concurrent use.
package arena

import "fmt"

// Handle addresses a slot in an Arena. The zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// Less orders handles by slot index, then generation.
func (h Handle) Less(o Handle) bool {
	if h.index != o.index {
		return h.index < o.index
	}
	return h.gen < o.gen
}

// Compare returns -1, 0 or +1, for use with slices.SortFunc.
func (h Handle) Compare(o Handle) int {
	switch {
	case h.Less(o):
		return -1
	case o.Less(h):
		return 1
	default:
		return 0
	}
}

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d#%d)", h.index, h.gen)
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values of type T in reusable, generation-checked slots.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores value and returns its handle.
func (a *Arena[T]) Alloc(value T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		// generation 0 is reserved for the zero Handle
		s.gen = 1
	}
	s.value = value
	s.live = true
	a.live++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the value stored at h. ok is false when the slot was freed or
// reused since h was issued.
func (a *Arena[T]) Get(h Handle) (value T, ok bool) {
	if !a.Valid(h) {
		return value, false
	}
	return a.slots[h.index].value, true
}

// Valid reports whether h still resolves to a live slot.
func (a *Arena[T]) Valid(h Handle) bool {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.index]
	return s.live && s.gen == h.gen
}

// Set replaces the value stored at h.
func (a *Arena[T]) Set(h Handle, value T) bool {
	if !a.Valid(h) {
		return false
	}
	a.slots[h.index].value = value
	return true
}

// Free releases the slot at h. It returns false if h was already stale.
func (a *Arena[T]) Free(h Handle) bool {
	if !a.Valid(h) {
		return false
	}
	var zero T
	s := &a.slots[h.index]
	s.value = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int {
	return a.live
}

// All calls fn for each live slot in index order until fn returns false.
func (a *Arena[T]) All(fn func(Handle, T) bool) {
	for i := range a.slots {
		s := a.slots[i]
		if !s.live {
			continue
		}
		if !fn(Handle{index: uint32(i), gen: s.gen}, s.value) {
			return
		}
	}
}
