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

package channel

import (
	"fmt"
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/effects"
	"github.com/jetsetilly/gophermix/hardware/audio/resample"
)

// consumer is only touched by the audio goroutine
type consumer struct {
	in  buffer.Format
	out buffer.Format

	resampler resample.Resampler
	chain     *effects.Chain
	reverse   bool

	// input drained from the queue
	input *buffer.Buffer

	// output of the resampler, remixed and processed in place
	work *buffer.Buffer

	// processed frames waiting to be removed by the mixer
	output *buffer.Buffer

	// last frame produced by the resampler. used to fill a deficit when the
	// resampler produces nothing in a period
	last     []float32
	haveLast bool

	inCarry  buffer.Carry
	outCarry buffer.Carry

	// frames of padding added because the resampler held back output for
	// input it had consumed. recovered from later surplus
	debt int

	// the resampler has failed and the failure has been logged
	degraded bool

	// time since the last non-silent submission
	idle time.Duration
}

func (c *consumer) init(in buffer.Format, out buffer.Format) {
	c.in = in
	c.out = out
	c.input = buffer.New(in, in.FramesFor(100*time.Millisecond))
	c.work = buffer.New(buffer.Canonical(in.Channels, out.Rate), out.FramesFor(100*time.Millisecond))
	c.output = buffer.New(out, out.FramesFor(100*time.Millisecond))
	c.last = make([]float32, in.Channels)
}

// limits in terms of output frames
func (c *consumer) holdLimit() int {
	return max(c.out.Rate/1000, 1)
}

func (c *consumer) maxDebt() int {
	return c.out.Rate / 10
}

func (c *consumer) maxBacklog() int {
	return c.out.Rate / 5
}

// install a new pipeline from the configuring goroutine
func (ch *Channel) install(p *pipeline) {
	c := &ch.consumer

	if p.flush {
		ch.queue.DiscardUntil(p.flushTo)
	}

	channelsChanged := p.in.Channels != c.in.Channels || p.out.Channels != c.out.Channels

	if p.in != c.in {
		c.input.Clear()
		_ = c.input.SetFormat(p.in)
		if p.in.Rate != c.in.Rate {
			c.inCarry.Reset()
		}
		if p.in.Channels != c.in.Channels {
			c.last = make([]float32, p.in.Channels)
			c.haveLast = false
		}
	}

	if p.out != c.out {
		c.output.Clear()
		_ = c.output.SetFormat(p.out)
		c.outCarry.Reset()
		c.debt = 0
	}

	if p.resampler != nil {
		c.resampler = p.resampler

		// a resampler that could not be created was logged when it was built
		c.degraded = p.resampler.Err() != nil
	}

	if p.chain != nil {
		c.chain = p.chain
	} else if channelsChanged {
		c.chain.Reset()
	}

	c.reverse = p.reverse
	c.in = p.in
	c.out = p.out
}

// Finish processes the input corresponding to the span of time and appends
// the result to the output. Returns the number of frames appended to the
// output.
//
// A span of zero or less does nothing. Finish() should only be called by the
// audio goroutine.
func (ch *Channel) Finish(span time.Duration) int {
	if span <= 0 {
		return 0
	}
	return ch.finish(span, -1)
}

// FinishFrames is the same as Finish() except that the number of output frames
// required for the span is decided by the caller. The mixer uses this so that
// the channel always produces exactly one block, whatever the phase of the
// channel's own frame count.
func (ch *Channel) FinishFrames(span time.Duration, frames int) int {
	if span <= 0 || frames <= 0 {
		return 0
	}
	return ch.finish(span, frames)
}

// a negative number of output frames means the frames are counted from the
// span
func (ch *Channel) finish(span time.Duration, outFrames int) int {
	c := &ch.consumer

	off := ch.hardOff.Swap(false)
	woke := !off && ch.wake.Swap(false)

	// taken after the wake flag. a pipeline staged by the submission that
	// woke the channel is installed in the same period
	ch.crit.Lock()
	p := ch.pending
	ch.pending = nil
	ch.crit.Unlock()

	if p != nil {
		ch.install(p)
	}

	defer ch.period.Add(1)

	if off {
		ch.disable()
		return 0
	}

	if woke {
		c.idle = 0
		ch.stale.Store(false)
		ch.state.Store(int32(Enabled))
	} else {
		if ch.State() == Disabled {
			return 0
		}
		c.idle += span
	}

	inFrames := c.inCarry.Frames(span, c.in.Rate)
	if outFrames < 0 {
		outFrames = c.outCarry.Frames(span, c.out.Rate)
	}
	inCh := c.in.Channels

	// skip queued input to recover output held back by the resampler in
	// earlier periods
	avail := ch.queue.Len() / inCh
	if c.debt > 0 && avail > inFrames {
		skip := min(avail-inFrames, c.debt*c.in.Rate/c.out.Rate)
		if skip > 0 {
			ch.queue.Discard(skip * inCh)
			avail -= skip
			c.debt = max(0, c.debt-max(1, skip*c.out.Rate/c.in.Rate))
		}
	}

	// drain input
	c.input.Clear()
	_ = c.input.SetFormat(c.in)
	take := min(avail, inFrames)
	if take > 0 {
		ch.queue.Read(c.input.Grow(take))
	}

	// cast
	c.input.Cast(buffer.F32)

	// resample
	c.work.Clear()
	_ = c.work.SetFormat(buffer.Canonical(inCh, c.out.Rate))
	var produced int
	if c.input.Frames() > 0 {
		produced = c.resampler.Process(c.input.Data(), c.work)
	}
	if produced > 0 {
		copy(c.last, c.work.Frame(produced-1))
		c.haveLast = true
	}
	if err := c.resampler.Err(); err != nil && !c.degraded {
		c.degraded = true
		ch.log(fmt.Errorf("resampler failed, using pass-through: %w", err))
	}

	// frame accounting. surplus frames from earlier periods count towards
	// this period's requirement
	have := c.output.Frames() + produced
	switch {
	case have < outFrames:
		short := outFrames - have
		ch.pad(short)

		// only the part of the shortfall caused by the resampler is recovered.
		// an empty queue is a gap in the sound and nothing is skipped for it
		if !c.degraded {
			expected := take * c.out.Rate / c.in.Rate
			if lag := min(expected-produced, short); lag > 0 {
				c.debt = min(c.debt+lag, c.maxDebt())
			}
		}
	case have > outFrames && c.debt > 0:
		repay := min(have-outFrames, c.debt, produced)
		c.work.Truncate(produced - repay)
		c.debt -= repay
	}

	if c.work.Frames() > 0 {
		// remix
		_ = c.work.Remix(c.out.Channels)

		if c.reverse {
			c.work.SwapStereo()
		}

		// filter, crossfeed, chorus and reverb
		if !c.chain.Empty() {
			c.chain.Process(c.work.Data(), c.out.Channels)
		}

		// volume and metering
		ch.applyVolume(c.work.Data(), c.out.Channels)
		ch.meter.Update(c.work.Data(), c.out.Channels, c.out.Rate)

		_ = c.output.AppendBuffer(c.work)
	}

	// guard against unbounded latency if the mixer stops removing output
	if over := c.output.Frames() - c.maxBacklog(); over > 0 {
		c.output.Consume(over)
	}

	// state transition
	if c.idle >= ch.quietTimeout {
		if ch.queue.Len() == 0 {
			ch.disable()
		} else {
			ch.state.Store(int32(Draining))
		}
	}

	return c.work.Frames()
}

// pad the work buffer by the number of frames. the last frame is repeated for
// up to one millisecond and the remainder is silence
func (ch *Channel) pad(frames int) {
	c := &ch.consumer

	hold := min(frames, c.holdLimit())
	if c.work.Frames() == 0 {
		if c.haveLast {
			_ = c.work.AppendFrames(c.last)
			c.work.HoldLast(hold - 1)
		} else {
			c.work.AppendSilence(hold)
		}
	} else {
		c.work.HoldLast(hold)
	}
	c.work.AppendSilence(frames - hold)

	ch.held.Add(uint64(hold))
}

func (ch *Channel) applyVolume(samples []float32, channels int) {
	l, r := ch.gains()
	// balance has no meaning for mono output. the louder side sets the level
	if channels == 1 {
		v := max(l, r)
		if v == 1 {
			return
		}
		for i := range samples {
			samples[i] *= v
		}
		return
	}

	if l == 1 && r == 1 {
		return
	}
	for i := 0; i+1 < len(samples); i += 2 {
		samples[i] *= l
		samples[i+1] *= r
	}
}

// disable the channel and clear all history. output that has not been
// removed by the mixer is kept
func (ch *Channel) disable() {
	c := &ch.consumer
	ch.stale.Store(true)
	ch.state.Store(int32(Disabled))
	c.idle = 0
	c.debt = 0
	c.inCarry.Reset()
	c.outCarry.Reset()
	c.haveLast = false
	if c.resampler != nil {
		c.resampler.Reset()
	}
	c.chain.Reset()
}

// OutputFrames returns the number of processed frames waiting to be removed.
// Should only be called by the audio goroutine.
func (ch *Channel) OutputFrames() int {
	return ch.consumer.output.Frames()
}

// MixOutput adds processed frames to the interleaved accumulator without
// removing them. The accumulator must have the same number of channels as the
// output format. Returns the number of frames added. Should only be called by
// the audio goroutine.
func (ch *Channel) MixOutput(acc []float32) int {
	o := ch.consumer.output
	n := min(len(acc), o.Samples())
	d := o.Data()
	for i := range n {
		acc[i] += d[i]
	}
	return n / max(o.Format().Channels, 1)
}

// PopOutput removes frames from the front of the output. Returns the number of
// frames removed. Should only be called by the audio goroutine.
func (ch *Channel) PopOutput(frames int) int {
	return ch.consumer.output.Consume(frames)
}

// ReadOutput copies processed frames into the interleaved destination and
// removes them from the output. Returns the number of frames copied. Should
// only be called by the audio goroutine.
func (ch *Channel) ReadOutput(dst []float32) int {
	o := ch.consumer.output
	n := copy(dst, o.Data())
	return o.Consume(n / max(o.Format().Channels, 1))
}

// Queued returns the number of frames waiting in the input queue.
func (ch *Channel) Queued() int {
	return ch.queue.Len() / max(ch.InputFormat().Channels, 1)
}

// Reset clears all state. Queued input, processed output and the history of
// every stage are discarded and the channel is disabled.
//
// Reset must not be called at the same time as Finish() or any of the Submit
// functions. The mixer guarantees this when resetting all channels.
func (ch *Channel) Reset() {
	ch.crit.Lock()
	p := ch.pending
	ch.pending = nil
	ch.crit.Unlock()
	if p != nil {
		ch.install(p)
	}

	c := &ch.consumer
	ch.queue.Reset()
	c.input.Clear()
	c.work.Clear()
	c.output.Clear()
	ch.disable()
	ch.meter.Reset()
	ch.wake.Store(false)
	ch.hardOff.Store(false)
	ch.producer.cursor = 0
	ch.period.Add(1)
}
