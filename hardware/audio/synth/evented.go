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

package synth

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gophermix/environment"
	"github.com/jetsetilly/gophermix/hardware/audio/channel"
	"github.com/jetsetilly/gophermix/hardware/audio/ring"
	"github.com/jetsetilly/gophermix/logger"
)

// DefaultEventCapacity is the number of events that can be queued between
// calls to Tick() if no other value is given to NewEvented().
const DefaultEventCapacity = 4096

// Evented adapts an EventedChip to a Channel.
//
// AddEvent() is called by the simulation goroutine. Tick() and Reset() are
// called by the audio goroutine. Reset() also requires that the simulation
// is not adding events.
type Evented struct {
	env   *environment.Environment
	ch    *channel.Channel
	chip  EventedChip
	clock Clock

	queue *ring.Ring[Event]

	// producer side. events are never recorded out of order
	lastEvent time.Duration
	dropped   atomic.Uint64
	warned    atomic.Bool

	// audio side
	tb  timebase
	buf []float32
}

// NewEvented is the preferred method of initialisation for the Evented type.
// A capacity of zero or less uses DefaultEventCapacity.
func NewEvented(env *environment.Environment, ch *channel.Channel, chip EventedChip, clock Clock, capacity int) *Evented {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	s := &Evented{
		env:   env,
		ch:    ch,
		chip:  chip,
		clock: clock,
		queue: ring.New[Event](capacity),
	}
	now := clock.Now()
	s.lastEvent = now
	s.tb.reset(now, ch.InputFormat().Rate)
	return s
}

func (s *Evented) String() string {
	return fmt.Sprintf("%s: %d events queued, %d dropped", s.ch.Name(), s.queue.Len(), s.dropped.Load())
}

// Channel returns the channel the adapter submits to.
func (s *Evented) Channel() *channel.Channel {
	return s.ch
}

// AddEvent records a command for the chip at the virtual time. A time
// earlier than the previous event is treated as the time of the previous
// event.
//
// Returns false if the queue is full. The event is dropped in that case.
func (s *Evented) AddEvent(t time.Duration, command uint32, payload uint32) bool {
	if t < s.lastEvent {
		t = s.lastEvent
	}

	if !s.queue.Push(Event{Time: t, Command: command, Payload: payload}) {
		s.dropped.Add(1)
		if !s.warned.Swap(true) {
			logger.Logf(s.env, "synth", "%s: event queue full: dropping events", s.ch.Name())
		}
		return false
	}

	s.lastEvent = t
	s.warned.Store(false)
	return true
}

// Dropped returns the number of events lost because the queue was full.
func (s *Evented) Dropped() uint64 {
	return s.dropped.Load()
}

// Pending returns the number of events waiting to be applied.
func (s *Evented) Pending() int {
	return s.queue.Len()
}

// Tick applies all events that are due by the current virtual time and
// submits the frames that the chip generates to the channel. Returns the
// number of frames submitted.
//
// Events in the future remain queued. If the chip is silent and no event
// is due then nothing is submitted, allowing the channel to go quiet.
func (s *Evented) Tick() int {
	in := s.ch.InputFormat()
	s.tb.setRate(in.Rate)

	now := s.clock.Now()
	if now < s.tb.last {
		// virtual time has gone backwards without a call to Reset()
		s.tb.reset(now, in.Rate)
	}

	start := s.tb.last
	first := start
	started := false
	frames := 0

	s.reserve(s.tb.pending(now), in.Channels)

	gap := func(t time.Duration) {
		// silence before the first sound of the tick is skipped. the
		// submission offset places the sound correctly
		if !started && s.chip.IsSilent() {
			s.tb.advance(t)
			first = s.tb.last
			return
		}

		n, ok := s.tb.advance(t)
		if !ok {
			return
		}
		started = true
		s.reserve(frames+n, in.Channels)
		s.chip.Generate(s.buf, frames, n)
		frames += n
	}

	for {
		ev, ok := s.queue.Peek()
		if !ok || ev.Time > now {
			break
		}
		s.queue.Pop()
		gap(max(ev.Time, s.tb.last))
		s.chip.Apply(ev)
	}

	gap(now)

	if frames == 0 {
		return 0
	}

	return s.ch.SubmitF32(s.buf[:frames*in.Channels], first-start)
}

func (s *Evented) reserve(frames int, channels int) {
	n := frames * channels
	if cap(s.buf) < n {
		buf := make([]float32, n, n+n/2)
		copy(buf, s.buf)
		s.buf = buf
	}
	s.buf = s.buf[:cap(s.buf)]
}

// Reset clears the event queue, resets the chip and anchors virtual time to
// the current time of the clock. Should be called after the clock has been
// moved by the restoration of a saved state.
func (s *Evented) Reset() {
	s.queue.Reset()
	s.chip.Reset()
	now := s.clock.Now()
	s.lastEvent = now
	s.tb.reset(now, s.ch.InputFormat().Rate)
	s.warned.Store(false)
}
