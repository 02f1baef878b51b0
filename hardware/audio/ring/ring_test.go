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

package ring_test

import (
	"sync"
	"testing"

	"github.com/jetsetilly/gophermix/hardware/audio/ring"
	"github.com/jetsetilly/gophermix/test"
)

func TestCapacity(t *testing.T) {
	test.ExpectEquality(t, ring.New[int](1).Cap(), 1)
	test.ExpectEquality(t, ring.New[int](5).Cap(), 8)
	test.ExpectEquality(t, ring.New[int](8).Cap(), 8)
	test.ExpectEquality(t, ring.New[int](0).Cap(), 1)
}

func TestPushPop(t *testing.T) {
	r := ring.New[int](4)

	_, ok := r.Pop()
	test.ExpectFailure(t, ok)

	for i := range 4 {
		test.ExpectSuccess(t, r.Push(i))
	}

	// full ring refuses the push
	test.ExpectFailure(t, r.Push(99))
	test.ExpectEquality(t, r.Len(), 4)
	test.ExpectEquality(t, r.Free(), 0)

	v, ok := r.Peek()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v, 0)

	for i := range 4 {
		v, ok := r.Pop()
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, v, i)
	}
	test.ExpectEquality(t, r.Len(), 0)
}

func TestWriteReadWraparound(t *testing.T) {
	r := ring.New[int](8)

	// move the indexes so that the next write wraps around the end of the
	// underlying slice
	test.ExpectEquality(t, r.Write([]int{0, 0, 0, 0, 0, 0}), 6)
	test.ExpectEquality(t, r.Discard(6), 6)

	test.ExpectEquality(t, r.Write([]int{1, 2, 3, 4, 5}), 5)

	out := make([]int, 8)
	n := r.Read(out)
	test.ExpectEquality(t, n, 5)
	for i := range n {
		test.ExpectEquality(t, out[i], i+1)
	}
}

func TestOverflowUnderflowCounts(t *testing.T) {
	r := ring.New[int](4)

	// overflow: only four elements are written
	test.ExpectEquality(t, r.Write([]int{1, 2, 3, 4, 5, 6}), 4)

	// underflow: only four elements are read
	out := make([]int, 6)
	test.ExpectEquality(t, r.Read(out), 4)
	test.ExpectEquality(t, r.Read(out), 0)
	test.ExpectEquality(t, r.Discard(10), 0)
}

func TestDiscardUntil(t *testing.T) {
	r := ring.New[int](16)
	r.Write([]int{1, 2, 3})
	idx := r.WriteIndex()
	r.Write([]int{4, 5})

	test.ExpectEquality(t, r.DiscardUntil(idx), 3)
	v, _ := r.Pop()
	test.ExpectEquality(t, v, 4)

	// discarding to an index that has already been read is a no-op
	test.ExpectEquality(t, r.DiscardUntil(idx), 0)
	test.ExpectEquality(t, r.Len(), 1)

	r.Reset()
	test.ExpectEquality(t, r.Len(), 0)
	test.ExpectEquality(t, r.WriteIndex(), uint64(0))
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const total = 100000
	r := ring.New[int](64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; {
			if r.Push(i) {
				i++
			}
		}
	}()

	next := 0
	for next < total {
		if v, ok := r.Pop(); ok {
			if v != next {
				t.Fatalf("out of order value: %d (wanted %d)", v, next)
			}
			next++
		}
	}
	wg.Wait()
}
