// Package arena provides index-stable pooled storage for mesh entities.
//
// Items are stored in fixed-size chunks, so an index handed out by Alloc
// keeps addressing the same item until Clear or Destroy, and a pointer
// returned by Get stays valid while the arena grows. There is no per-item
// deallocation: an arena is reset or released as a whole.
package arena

import "errors"

// DefaultChunk is the number of items per chunk when none is given.
const DefaultChunk = 256

// ErrFull is returned by Alloc when the arena has reached its item limit.
var ErrFull = errors.New("arena capacity exceeded")

// Arena is a chunked pool of T addressed by int indices. The zero value is
// not usable; call New.
type Arena[T any] struct {
	chunks [][]T
	chunk  int
	size   int
	limit  int // 0 = unbounded
}

// New creates an empty arena allocating chunk items at a time.
func New[T any](chunk int) *Arena[T] {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	return &Arena[T]{chunk: chunk}
}

// SetLimit caps the number of items the arena may hold. Zero removes the cap.
func (a *Arena[T]) SetLimit(n int) {
	if n < 0 {
		n = 0
	}
	a.limit = n
}

// Limit returns the current item cap, 0 meaning unbounded.
func (a *Arena[T]) Limit() int {
	return a.limit
}

// Alloc appends a zeroed item and returns its index and address.
func (a *Arena[T]) Alloc() (int, *T, error) {
	if a.limit > 0 && a.size >= a.limit {
		return -1, nil, ErrFull
	}
	ci, off := a.size/a.chunk, a.size%a.chunk
	if ci == len(a.chunks) {
		a.chunks = append(a.chunks, make([]T, a.chunk))
	}
	p := &a.chunks[ci][off]
	var zero T
	*p = zero // chunks are reused after Clear
	idx := a.size
	a.size++
	return idx, p, nil
}

// AllocFrom appends a copy of init.
func (a *Arena[T]) AllocFrom(init *T) (int, *T, error) {
	idx, p, err := a.Alloc()
	if err != nil {
		return idx, nil, err
	}
	*p = *init
	return idx, p, nil
}

// Get returns the item at index i, or nil when i is out of range.
func (a *Arena[T]) Get(i int) *T {
	if i < 0 || i >= a.size {
		return nil
	}
	return &a.chunks[i/a.chunk][i%a.chunk]
}

// Size returns the number of allocated items.
func (a *Arena[T]) Size() int {
	return a.size
}

// Capacity returns the number of items that fit in the chunks already held.
func (a *Arena[T]) Capacity() int {
	return len(a.chunks) * a.chunk
}

// Contains reports whether i addresses an allocated item.
func (a *Arena[T]) Contains(i int) bool {
	return i >= 0 && i < a.size
}

// Valid reports whether i is a usable reference: either the null index -1
// or an allocated item.
func (a *Arena[T]) Valid(i int) bool {
	return i == -1 || a.Contains(i)
}

// Clear empties the arena but keeps its chunks for reuse.
func (a *Arena[T]) Clear() {
	a.size = 0
}

// Destroy empties the arena and releases its chunks.
func (a *Arena[T]) Destroy() {
	a.chunks = nil
	a.size = 0
}

// Swap exchanges the contents of two arenas in O(1). Limits stay with
// their arenas.
func (a *Arena[T]) Swap(b *Arena[T]) {
	a.chunks, b.chunks = b.chunks, a.chunks
	a.chunk, b.chunk = b.chunk, a.chunk
	a.size, b.size = b.size, a.size
}

// Each calls fn for every allocated item in index order until fn returns
// false. Items appended by fn are visited too.
func (a *Arena[T]) Each(fn func(i int, item *T) bool) {
	for i := 0; i < a.size; i++ {
		if !fn(i, a.Get(i)) {
			return
		}
	}
}
