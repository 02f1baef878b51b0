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
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/channel"
)

// Continuous adapts a Chip that has no events to a Channel. On every Tick()
// the chip is asked for the frames covering the virtual time since the
// previous Tick().
//
// If the clock is nil then the adapter is driven by the number of frames
// passed to Pull() rather than by Tick().
type Continuous struct {
	ch    *channel.Channel
	chip  Chip
	clock Clock

	tb  timebase
	buf []float32
}

// NewContinuous is the preferred method of initialisation for the Continuous
// type.
func NewContinuous(ch *channel.Channel, chip Chip, clock Clock) *Continuous {
	c := &Continuous{
		ch:    ch,
		chip:  chip,
		clock: clock,
	}
	c.tb.reset(c.now(), ch.InputFormat().Rate)
	return c
}

func (c *Continuous) now() time.Duration {
	if c.clock == nil {
		return 0
	}
	return c.clock.Now()
}

// Channel returns the channel the adapter submits to.
func (c *Continuous) Channel() *channel.Channel {
	return c.ch
}

// Tick generates and submits the frames covering the virtual time since the
// previous call. Nothing is generated while the chip is silent. Returns the
// number of frames submitted.
func (c *Continuous) Tick() int {
	if c.clock == nil {
		return 0
	}

	in := c.ch.InputFormat()
	c.tb.setRate(in.Rate)

	now := c.clock.Now()
	if now < c.tb.last {
		c.tb.reset(now, in.Rate)
	}

	if c.chip.IsSilent() {
		c.tb.advance(now)
		return 0
	}

	n, ok := c.tb.advance(now)
	if !ok || n == 0 {
		return 0
	}
	return c.generate(n, in.Channels)
}

// Pull generates and submits the number of frames regardless of the clock.
// Returns the number of frames submitted.
func (c *Continuous) Pull(frames int) int {
	if frames <= 0 || c.chip.IsSilent() {
		return 0
	}
	return c.generate(frames, c.ch.InputFormat().Channels)
}

func (c *Continuous) generate(frames int, channels int) int {
	n := frames * channels
	if cap(c.buf) < n {
		c.buf = make([]float32, n)
	}
	c.chip.Generate(c.buf[:n], 0, frames)
	return c.ch.SubmitF32(c.buf[:n], 0)
}

// Reset the chip and anchor virtual time to the current time of the clock.
func (c *Continuous) Reset() {
	c.chip.Reset()
	c.tb.reset(c.now(), c.ch.InputFormat().Rate)
}
