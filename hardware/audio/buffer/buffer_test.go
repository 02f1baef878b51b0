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

package buffer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/test"
)

func TestFormat(t *testing.T) {
	f := buffer.Format{Encoding: buffer.S16, Channels: 2, Rate: 44100}
	test.ExpectSuccess(t, f.Valid() == nil)
	test.ExpectEquality(t, f.String(), "s16 stereo 44100Hz")

	f.Channels = 3
	test.ExpectSuccess(t, errors.Is(f.Valid(), buffer.ErrInvalidFormat))

	f = buffer.Canonical(1, 0)
	test.ExpectSuccess(t, errors.Is(f.Valid(), buffer.ErrInvalidFormat))

	f = buffer.Canonical(1, 48000)
	test.ExpectEquality(t, f.FramesFor(10*time.Millisecond), 480)
	test.ExpectEquality(t, f.FramesFor(0), 0)
	test.ExpectEquality(t, f.Duration(48000), time.Second)
}

func TestCarry(t *testing.T) {
	var c buffer.Carry

	// 10ms at 22050Hz is 220.5 frames. the half frame must not be lost
	var total int
	for range 100 {
		total += c.Frames(10*time.Millisecond, 22050)
	}
	test.ExpectEquality(t, total, 22050)

	// an awkward span that never divides exactly
	c.Reset()
	total = 0
	for range 1000 {
		total += c.Frames(7*time.Millisecond, 44100)
	}
	test.ExpectEquality(t, total, 308700)

	// zero length spans produce nothing and don't disturb the remainder
	c.Reset()
	test.ExpectEquality(t, c.Frames(time.Millisecond/2, 1000), 0)
	test.ExpectEquality(t, c.Frames(0, 1000), 0)
	test.ExpectApproximate(t, c.Fraction(), 0.5, 0.0001)
	test.ExpectEquality(t, c.Frames(time.Millisecond/2, 1000), 1)
}

func TestAppendMismatch(t *testing.T) {
	b := buffer.New(buffer.Format{Encoding: buffer.S16, Channels: 1, Rate: 8000}, 16)

	err := b.AppendU8([]uint8{1, 2, 3})
	test.ExpectSuccess(t, errors.Is(err, buffer.ErrFormatMismatch))
	test.ExpectEquality(t, b.Frames(), 0)

	test.ExpectSuccess(t, b.AppendS16([]int16{1, 2, 3}) == nil)
	test.ExpectEquality(t, b.Frames(), 3)

	s := buffer.New(buffer.Format{Encoding: buffer.S16, Channels: 2, Rate: 8000}, 16)
	err = s.AppendS16([]int16{1, 2, 3})
	test.ExpectSuccess(t, errors.Is(err, buffer.ErrPartialFrame))
}

func TestSetFormat(t *testing.T) {
	b := buffer.New(buffer.Canonical(1, 8000), 0)
	test.ExpectSuccess(t, b.SetFormat(buffer.Canonical(2, 8000)) == nil)

	b.AppendSilence(1)
	err := b.SetFormat(buffer.Canonical(1, 8000))
	test.ExpectSuccess(t, errors.Is(err, buffer.ErrNotEmpty))

	b.Clear()
	test.ExpectSuccess(t, b.SetFormat(buffer.Canonical(1, 8000)) == nil)
}

func TestCast(t *testing.T) {
	b := buffer.New(buffer.Format{Encoding: buffer.U8, Channels: 1, Rate: 8000}, 4)
	test.DemandSuccess(t, b.AppendU8([]uint8{0, 128, 255}) == nil)

	b.Cast(buffer.F32)
	test.ExpectEquality(t, b.Format().Encoding, buffer.F32)
	test.ExpectApproximate(t, b.Data()[0], -1.0, 0.0001)
	test.ExpectApproximate(t, b.Data()[1], 0.0, 0.0001)
	test.ExpectApproximate(t, b.Data()[2], 127.0/128.0, 0.0001)

	b.Cast(buffer.S16)
	test.ExpectEquality(t, b.Data()[0], float32(-32768))
	test.ExpectEquality(t, b.Data()[1], float32(0))
	test.ExpectEquality(t, b.Data()[2], float32(32512))

	// out of range values are clamped
	f := buffer.New(buffer.Canonical(1, 8000), 4)
	test.DemandSuccess(t, f.AppendF32([]float32{1.5, -1.5}) == nil)
	f.Cast(buffer.S8)
	test.ExpectEquality(t, f.Data()[0], float32(127))
	test.ExpectEquality(t, f.Data()[1], float32(-128))
}

func TestRemix(t *testing.T) {
	b := buffer.New(buffer.Canonical(1, 8000), 0)
	test.DemandSuccess(t, b.AppendF32([]float32{0.1, 0.2, 0.3}) == nil)

	test.DemandSuccess(t, b.Remix(2) == nil)
	test.ExpectEquality(t, b.Frames(), 3)
	test.ExpectEquality(t, b.Samples(), 6)
	for i := range 3 {
		fr := b.Frame(i)
		test.ExpectEquality(t, fr[0], fr[1])
	}
	test.ExpectApproximate(t, b.Frame(2)[0], 0.3, 0.0001)

	b.Frame(0)[1] = 0.3
	test.DemandSuccess(t, b.Remix(1) == nil)
	test.ExpectEquality(t, b.Frames(), 3)
	test.ExpectApproximate(t, b.Data()[0], 0.2, 0.0001)
	test.ExpectApproximate(t, b.Data()[1], 0.2, 0.0001)

	test.ExpectFailure(t, b.Remix(3) == nil)
}

func TestSilenceAndHold(t *testing.T) {
	b := buffer.New(buffer.Format{Encoding: buffer.U8, Channels: 2, Rate: 8000}, 0)

	// holding on an empty buffer produces silence
	b.HoldLast(2)
	test.ExpectEquality(t, b.Frames(), 2)
	test.ExpectSuccess(t, b.IsSilent(0))
	test.ExpectEquality(t, b.Data()[0], float32(128))

	test.DemandSuccess(t, b.AppendU8([]uint8{10, 20}) == nil)
	b.HoldLast(3)
	test.ExpectEquality(t, b.Frames(), 6)
	for i := 2; i < 6; i++ {
		test.ExpectEquality(t, b.Frame(i)[0], float32(10))
		test.ExpectEquality(t, b.Frame(i)[1], float32(20))
	}
	test.ExpectFailure(t, b.IsSilent(0.01))

	b.AppendSilence(1)
	test.ExpectEquality(t, b.Frame(6)[0], float32(128))
}

func TestConsumeTruncate(t *testing.T) {
	b := buffer.New(buffer.Canonical(2, 8000), 0)
	test.DemandSuccess(t, b.AppendF32([]float32{1, 1, 2, 2, 3, 3, 4, 4}) == nil)

	test.ExpectEquality(t, b.Consume(1), 1)
	test.ExpectEquality(t, b.Frames(), 3)
	test.ExpectEquality(t, b.Frame(0)[0], float32(2))

	test.ExpectEquality(t, b.Consume(10), 3)
	test.ExpectEquality(t, b.Frames(), 0)

	test.DemandSuccess(t, b.AppendF32([]float32{1, 2, 3, 4}) == nil)
	b.SwapStereo()
	test.ExpectEquality(t, b.Frame(0)[0], float32(2))
	b.Truncate(1)
	test.ExpectEquality(t, b.Frames(), 1)
	test.ExpectEquality(t, len(b.Tail(5)), 2)
}

func TestTimeline(t *testing.T) {
	for _, rate := range []int{48000, 44100, 22050, 31400} {
		var tl buffer.Timeline
		var c buffer.Carry

		// every span must convert back to exactly the number of frames
		for i := range 2000 {
			frames := 256 + i%7
			span := tl.Advance(frames, rate)
			if !test.ExpectEquality(t, c.Frames(span, rate), frames, rate, i) {
				break
			}
		}
	}

	var tl buffer.Timeline
	test.ExpectEquality(t, tl.Advance(48000, 48000), time.Second)
	test.ExpectEquality(t, tl.Advance(0, 48000), time.Duration(0))
}
