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

// Package synth connects sound chip emulations to a Channel. Two adapters are
// provided.
//
// Evented is for chips driven by register writes. The simulation goroutine
// records each write as an Event with the virtual time at which it happened.
// On every audio period the adapter walks the queue of events that are due
// and asks the chip to generate exactly the frames that elapsed before each
// event is applied. Sound changes are therefore placed at the correct frame
// and not at the start of the next period.
//
// Continuous is for chips that can be asked for any number of frames at any
// time, such as a sample player.
//
// In both cases virtual time is supplied by a Clock. Virtual time is not
// wall-clock time: it can run faster or slower than real time and can jump
// backwards when a saved state is restored. Reset() must be called after
// such a jump.
//
// The adapters call the Submit functions of the channel and so are the
// channel's producer. Tick() must be called on the audio goroutine before the
// channel's Finish() function.
package synth

import (
	"sync/atomic"
	"time"
)

// Chip is the capability required of a sound chip emulation.
type Chip interface {
	// Generate frames into the interleaved buffer starting at the frame
	// offset. Samples must be in the native range of the channel's input
	// encoding and have the channel's input channel count.
	Generate(buf []float32, offset int, frames int)

	// IsSilent returns true if the chip would only generate silence.
	IsSilent() bool

	// Reset the chip to its power-on state.
	Reset()
}

// Event is a single timestamped command for a chip.
type Event struct {
	// virtual time of the event
	Time time.Duration

	Command uint32
	Payload uint32
}

// EventedChip is a Chip that is driven by Events.
type EventedChip interface {
	Chip

	// Apply the event to the chip's registers.
	Apply(Event)
}

// Clock supplies virtual time.
type Clock interface {
	Now() time.Duration
}

// ManualClock is a Clock that is advanced explicitly. It is safe for
// concurrent use.
type ManualClock struct {
	now atomic.Int64
}

// Now implements the Clock interface.
func (c *ManualClock) Now() time.Duration {
	return time.Duration(c.now.Load())
}

// Set the current time.
func (c *ManualClock) Set(t time.Duration) {
	c.now.Store(int64(t))
}

// Advance the current time by the duration and return the new time.
func (c *ManualClock) Advance(d time.Duration) time.Duration {
	return time.Duration(c.now.Add(int64(d)))
}

// timebase converts virtual time into frame counts. frames are counted from
// an origin so that rounding never accumulates
type timebase struct {
	rate   int64
	origin time.Duration

	// virtual time up to which frames have been generated and the frame
	// number of that time relative to the origin
	last      time.Duration
	generated int64
}

func (tb *timebase) reset(now time.Duration, rate int) {
	tb.rate = int64(rate)
	tb.origin = now
	tb.last = now
	tb.generated = 0
}

// frame number of the time relative to the origin
func (tb *timebase) frameAt(t time.Duration) int64 {
	return int64(t-tb.origin) * tb.rate / int64(time.Second)
}

// advance to the time and return the number of frames covered. the second
// return value is false if the time is not after the last time
func (tb *timebase) advance(t time.Duration) (int, bool) {
	if t <= tb.last {
		return 0, false
	}

	end := tb.frameAt(t)
	n := end - tb.generated
	tb.generated = end
	tb.last = t

	// keep the values small. one second is always a whole number of frames
	for tb.last-tb.origin >= time.Second {
		tb.origin += time.Second
		tb.generated -= tb.rate
	}

	return int(n), true
}

// frames between the last time and t without advancing
func (tb *timebase) pending(t time.Duration) int {
	if t <= tb.last {
		return 0
	}
	return int(tb.frameAt(t) - tb.generated)
}

// setRate changes the rate from the current time onwards
func (tb *timebase) setRate(rate int) {
	if int64(rate) == tb.rate {
		return
	}
	tb.reset(tb.last, rate)
}
