// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package ring implements a fixed capacity ring buffer for exactly one
// producer goroutine and exactly one consumer goroutine. Neither side ever
// blocks and no locks are taken.
//
// Overflow and underflow are not errors. Write() returns the number of
// elements actually written and Read() returns the number actually read. It
// is up to the caller to decide what to do with the remainder. For audio this
// usually means dropping the excess or filling the deficit with silence.
//
// The Producer methods are Push(), Write() and WriteIndex(). The Consumer
// methods are Pop(), Peek(), Read(), Discard() and DiscardUntil(). Len(),
// Free() and Cap() can be called from either side but the result may be out
// of date by the time it is used.
//
// Reset() is not safe while either side is active. Callers must arrange for
// both sides to be quiescent, for example by holding a reconfiguration lock.
package ring

import (
	"math/bits"
	"sync/atomic"
)

// Ring is a single-producer/single-consumer ring buffer.
type Ring[T any] struct {
	data []T
	mask uint64

	// head is the index of the next element to be read. it is only written
	// by the consumer
	head atomic.Uint64

	// tail is the index of the next element to be written. it is only
	// written by the producer
	tail atomic.Uint64
}

// New is the preferred method of initialisation for the Ring type. The
// capacity is rounded up to the next power of two.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	c := uint64(1) << bits.Len64(uint64(capacity-1))
	return &Ring[T]{
		data: make([]T, c),
		mask: c - 1,
	}
}

// Cap returns the capacity of the ring.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Len returns the number of elements waiting to be read.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Free returns the number of elements that can be written without
// overflowing.
func (r *Ring[T]) Free() int {
	return len(r.data) - r.Len()
}

// Push a single element. Returns false if the ring is full.
func (r *Ring[T]) Push(v T) bool {
	t := r.tail.Load()
	if t-r.head.Load() >= uint64(len(r.data)) {
		return false
	}
	r.data[t&r.mask] = v
	r.tail.Store(t + 1)
	return true
}

// Write as many elements from p as there is space for. Returns the number of
// elements written.
func (r *Ring[T]) Write(p []T) int {
	t := r.tail.Load()
	free := uint64(len(r.data)) - (t - r.head.Load())
	n := min(uint64(len(p)), free)
	if n == 0 {
		return 0
	}

	i := t & r.mask
	c := copy(r.data[i:], p[:n])
	if uint64(c) < n {
		copy(r.data, p[c:n])
	}

	r.tail.Store(t + n)
	return int(n)
}

// WriteIndex returns the total number of elements ever written. Used with
// DiscardUntil() to drop everything written before a given point.
func (r *Ring[T]) WriteIndex() uint64 {
	return r.tail.Load()
}

// Pop a single element. Returns false if the ring is empty.
func (r *Ring[T]) Pop() (T, bool) {
	var v T
	h := r.head.Load()
	if h == r.tail.Load() {
		return v, false
	}
	v = r.data[h&r.mask]
	r.head.Store(h + 1)
	return v, true
}

// Peek returns the next element without removing it. Returns false if the
// ring is empty.
func (r *Ring[T]) Peek() (T, bool) {
	var v T
	h := r.head.Load()
	if h == r.tail.Load() {
		return v, false
	}
	return r.data[h&r.mask], true
}

// Read as many elements into p as are available. Returns the number of
// elements read.
func (r *Ring[T]) Read(p []T) int {
	h := r.head.Load()
	n := min(uint64(len(p)), r.tail.Load()-h)
	if n == 0 {
		return 0
	}

	i := h & r.mask
	c := copy(p[:n], r.data[i:])
	if uint64(c) < n {
		copy(p[c:n], r.data)
	}

	r.head.Store(h + n)
	return int(n)
}

// Discard up to n elements without reading them. Returns the number of
// elements discarded.
func (r *Ring[T]) Discard(n int) int {
	if n <= 0 {
		return 0
	}
	h := r.head.Load()
	d := min(uint64(n), r.tail.Load()-h)
	r.head.Store(h + d)
	return int(d)
}

// DiscardUntil drops every element written before the write index idx, as
// returned by an earlier call to WriteIndex(). Returns the number of elements
// discarded.
func (r *Ring[T]) DiscardUntil(idx uint64) int {
	h := r.head.Load()
	if idx <= h {
		return 0
	}
	idx = min(idx, r.tail.Load())
	r.head.Store(idx)
	return int(idx - h)
}

// Reset empties the ring. Not safe while either the producer or consumer is
// active.
func (r *Ring[T]) Reset() {
	r.head.Store(0)
	r.tail.Store(0)
}
