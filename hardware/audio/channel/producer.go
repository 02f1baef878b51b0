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
	"sync/atomic"
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
)

// producer is only touched by the goroutine feeding the channel, apart from
// the format which is published for other goroutines to read
type producer struct {
	format atomic.Pointer[buffer.Format]

	// conversion space for submitted samples
	scratch []float32

	// padding source
	silence []float32

	// the period most recently seen and the number of frames submitted
	// during it
	period uint64
	cursor int

	// a format mismatch is only reported once per input format
	warned atomic.Bool
}

func (pr *producer) init(f buffer.Format) {
	pr.format.Store(&f)
}

func (pr *producer) stage(n int) []float32 {
	if cap(pr.scratch) < n {
		pr.scratch = make([]float32, n)
	}
	return pr.scratch[:n]
}

type sample interface {
	~uint8 | ~int8 | ~int16 | ~int32 | ~float32
}

func convert[T sample](dst []float32, src []T) {
	for i, s := range src {
		dst[i] = float32(s)
	}
}

// SubmitU8 adds unsigned 8bit samples to the channel's input. See Submit()
// for details.
func (ch *Channel) SubmitU8(samples []uint8, offset time.Duration) int {
	return submitTyped(ch, buffer.U8, samples, offset)
}

// SubmitS8 adds signed 8bit samples to the channel's input. See Submit() for
// details.
func (ch *Channel) SubmitS8(samples []int8, offset time.Duration) int {
	return submitTyped(ch, buffer.S8, samples, offset)
}

// SubmitS16 adds signed 16bit samples to the channel's input. See Submit()
// for details.
func (ch *Channel) SubmitS16(samples []int16, offset time.Duration) int {
	return submitTyped(ch, buffer.S16, samples, offset)
}

// SubmitS32 adds signed 32bit samples to the channel's input. See Submit()
// for details.
func (ch *Channel) SubmitS32(samples []int32, offset time.Duration) int {
	return submitTyped(ch, buffer.S32, samples, offset)
}

// SubmitF32 adds samples to the channel's input. The samples must be in the
// native range of the input encoding. See Submit() for details.
func (ch *Channel) SubmitF32(samples []float32, offset time.Duration) int {
	f := ch.InputFormat()
	return ch.submit(f, samples, offset)
}

// SubmitBuffer adds the contents of the buffer to the channel's input. The
// buffer must be in the channel's input format.
func (ch *Channel) SubmitBuffer(b *buffer.Buffer, offset time.Duration) int {
	f := ch.InputFormat()
	if b.Format() != f {
		ch.mismatch(fmt.Errorf("%w: %s submitted to %s channel", ErrFormatMismatch, b.Format(), f))
		return 0
	}
	return ch.submit(f, b.Data(), offset)
}

func submitTyped[T sample](ch *Channel, enc buffer.Encoding, samples []T, offset time.Duration) int {
	f := ch.InputFormat()
	if f.Encoding != enc {
		ch.mismatch(fmt.Errorf("%w: %s submitted to %s channel", ErrFormatMismatch, enc, f))
		return 0
	}
	s := ch.producer.stage(len(samples))
	convert(s, samples)
	return ch.submit(f, s, offset)
}

// Submit is the common implementation of the Submit functions. The samples
// are interleaved frames in the input format. The offset is the time since
// the start of the current period at which the first frame should be placed.
// If the channel has received fewer frames than the offset requires during
// the current period then silence is inserted first.
//
// Returns the number of frames accepted. Frames that do not fit in the input
// queue are dropped.
func (ch *Channel) submit(f buffer.Format, samples []float32, offset time.Duration) int {
	if len(samples)%f.Channels != 0 {
		ch.mismatch(fmt.Errorf("%w: %d samples is not a whole number of %d channel frames", ErrFormatMismatch, len(samples), f.Channels))
		return 0
	}

	pr := &ch.producer
	frames := len(samples) / f.Channels

	if p := ch.period.Load(); p != pr.period {
		pr.period = p
		pr.cursor = 0
	}

	silent := isSilent(samples, f.Encoding)

	// silence is only queued while the channel is fully enabled. a draining
	// channel must be allowed to empty
	if silent && ch.State() != Enabled && !ch.wake.Load() {
		pr.cursor += frames
		return frames
	}

	if offset > 0 {
		if pad := f.FramesFor(offset) - pr.cursor; pad > 0 {
			pr.cursor += ch.writeSilence(f, pad)
		}
	}

	n := ch.write(f, samples)
	pr.cursor += n

	if n < frames {
		ch.dropped.Add(uint64(frames - n))
		ch.log(fmt.Sprintf("input queue full: dropped %d frames", frames-n))
	}

	if !silent {
		if ch.stale.Load() {
			ch.refresh()
		}
		ch.wake.Store(true)
	}

	return n
}

// write whole frames to the queue. returns the number of frames written
func (ch *Channel) write(f buffer.Format, samples []float32) int {
	free := ch.queue.Free() / f.Channels * f.Channels
	n := min(len(samples), free)
	return ch.queue.Write(samples[:n]) / f.Channels
}

func (ch *Channel) writeSilence(f buffer.Format, frames int) int {
	pr := &ch.producer
	n := frames * f.Channels
	if cap(pr.silence) < n {
		pr.silence = make([]float32, n)
	}
	s := pr.silence[:n]
	v := f.Encoding.Silence()
	for i := range s {
		s[i] = v
	}
	return ch.write(f, s)
}

func (ch *Channel) mismatch(err error) {
	ch.mismatches.Add(1)
	if !ch.producer.warned.Swap(true) {
		ch.log(err)
	}
}

// Mismatches returns the number of submissions rejected because they did not
// match the input format.
func (ch *Channel) Mismatches() uint64 {
	return ch.mismatches.Load()
}

func isSilent(samples []float32, enc buffer.Encoding) bool {
	for _, v := range samples {
		n := enc.Normalise(v)
		if n > silenceThreshold || n < -silenceThreshold {
			return false
		}
	}
	return true
}
