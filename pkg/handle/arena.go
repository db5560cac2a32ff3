package handle

import "fmt"

type slot[T any] struct {
	gen   uint32
	live  bool
	value T
}

// Arena stores values of one kind and hands out generational handles to them.
// It is not safe for concurrent use.
type Arena[T any] struct {
	kind  Kind
	slots []slot[T]
	free  []uint32
	count int
}

// NewArena creates an empty arena whose handles carry kind.
func NewArena[T any](kind Kind) *Arena[T] {
	return &Arena[T]{kind: kind}
}

// Kind reports the tag carried by handles from this arena.
func (a *Arena[T]) Kind() Kind {
	return a.kind
}

// Len is the number of live values.
func (a *Arena[T]) Len() int {
	return a.count
}

// Add stores v and returns its handle. Freed slots are reused with a bumped
// generation.
func (a *Arena[T]) Add(v T) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{gen: 1})
	}
	s := &a.slots[idx]
	s.live = true
	s.value = v
	a.count++
	return Handle{Kind: a.kind, Index: idx, Gen: s.gen}
}

// Get returns a pointer to the value behind h. The pointer is only valid
// until the next Add or Remove on the arena.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if !a.Valid(h) {
		return nil, false
	}
	return &a.slots[h.Index].value, true
}

// MustGet is Get for callers that treat a stale handle as a programming
// error.
func (a *Arena[T]) MustGet(h Handle) *T {
	v, ok := a.Get(h)
	if !ok {
		panic(fmt.Sprintf("handle: stale or foreign %s handle %s", a.kind, h))
	}
	return v
}

// Valid reports whether h still refers to a live value in this arena.
func (a *Arena[T]) Valid(h Handle) bool {
	if h.Kind != a.kind || int(h.Index) >= len(a.slots) {
		return false
	}
	s := &a.slots[h.Index]
	return s.live && s.gen == h.Gen
}

// Remove frees the slot behind h. Removing a stale handle is a no-op and
// reports false.
func (a *Arena[T]) Remove(h Handle) bool {
	if !a.Valid(h) {
		return false
	}
	s := &a.slots[h.Index]
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	a.free = append(a.free, h.Index)
	a.count--
	return true
}

// Each calls fn for every live value in slot order. fn may not add or remove.
func (a *Arena[T]) Each(fn func(h Handle, v *T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		if !fn(Handle{Kind: a.kind, Index: uint32(i), Gen: s.gen}, &s.value) {
			return
		}
	}
}

// Handles lists the live handles in slot order.
func (a *Arena[T]) Handles() []Handle {
	out := make([]Handle, 0, a.count)
	a.Each(func(h Handle, _ *T) bool {
		out = append(out, h)
		return true
	})
	return out
}

// Clone returns a deep copy of the arena bookkeeping. Values are copied with
// copyFn, or by assignment when copyFn is nil.
func (a *Arena[T]) Clone(copyFn func(T) T) *Arena[T] {
	out := &Arena[T]{
		kind:  a.kind,
		slots: make([]slot[T], len(a.slots)),
		free:  append([]uint32(nil), a.free...),
		count: a.count,
	}
	copy(out.slots, a.slots)
	if copyFn != nil {
		for i := range out.slots {
			if out.slots[i].live {
				out.slots[i].value = copyFn(out.slots[i].value)
			}
		}
	}
	return out
}
