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

package buffer

import (
	"fmt"
	"time"
)

// Encoding is the numeric representation of a sample.
type Encoding int

// List of valid Encoding values. The zero value is the canonical encoding.
const (
	F32 Encoding = iota
	U8
	S8
	S16
	S32
)

func (e Encoding) String() string {
	switch e {
	case F32:
		return "f32"
	case U8:
		return "u8"
	case S8:
		return "s8"
	case S16:
		return "s16"
	case S32:
		return "s32"
	}
	return "unknown encoding"
}

// Valid returns true if the Encoding is one of the listed values.
func (e Encoding) Valid() bool {
	return e >= F32 && e <= S32
}

// scale is the value that a normalised sample is multiplied by to move it into
// the native range of the encoding
func (e Encoding) scale() float32 {
	switch e {
	case U8, S8:
		return 128.0
	case S16:
		return 32768.0
	case S32:
		return 2147483648.0
	}
	return 1.0
}

// bias is added to a scaled sample. only unsigned encodings have a bias
func (e Encoding) bias() float32 {
	if e == U8 {
		return 128.0
	}
	return 0.0
}

// limits of the native range
func (e Encoding) limits() (float32, float32) {
	switch e {
	case U8:
		return 0, 255
	case S8:
		return -128, 127
	case S16:
		return -32768, 32767
	case S32:
		return -2147483648, 2147483647
	}
	return -1.0, 1.0
}

// Silence returns the sample value that represents silence in the encoding.
func (e Encoding) Silence() float32 {
	return e.bias()
}

// Normalise converts a sample in the native range of the encoding to the
// canonical range.
func (e Encoding) Normalise(v float32) float32 {
	return (v - e.bias()) / e.scale()
}

// Denormalise converts a canonical sample into the native range of the
// encoding. Integer encodings are rounded and clamped.
func (e Encoding) Denormalise(v float32) float32 {
	if e == F32 {
		return v
	}
	v = v*e.scale() + e.bias()
	lo, hi := e.limits()
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	if v < 0 {
		return float32(int64(v - 0.5))
	}
	return float32(int64(v + 0.5))
}

// Maximum number of channels in a Format.
const MaxChannels = 2

// Format describes the layout of samples in a Buffer. Format values are
// immutable. Changing the format of a Buffer is only possible when it is
// empty.
type Format struct {
	Encoding Encoding
	Channels int
	Rate     int
}

// Canonical returns the canonical format for the number of channels and
// sample rate.
func Canonical(channels int, rate int) Format {
	return Format{Encoding: F32, Channels: channels, Rate: rate}
}

func (f Format) String() string {
	ch := "mono"
	if f.Channels == 2 {
		ch = "stereo"
	}
	return fmt.Sprintf("%s %s %dHz", f.Encoding, ch, f.Rate)
}

// Valid returns an error if the Format can not be used.
func (f Format) Valid() error {
	if !f.Encoding.Valid() {
		return fmt.Errorf("buffer: %w: %d", ErrInvalidFormat, f.Encoding)
	}
	if f.Channels < 1 || f.Channels > MaxChannels {
		return fmt.Errorf("buffer: %w: %d channels", ErrInvalidFormat, f.Channels)
	}
	if f.Rate <= 0 {
		return fmt.Errorf("buffer: %w: %dHz", ErrInvalidFormat, f.Rate)
	}
	return nil
}

// FramesFor returns the whole number of frames that fit in the duration. Any
// fractional frame is discarded. Callers that need to carry the remainder
// between calls should use a Carry.
func (f Format) FramesFor(d time.Duration) int {
	if d <= 0 || f.Rate <= 0 {
		return 0
	}
	return int(int64(d) * int64(f.Rate) / int64(time.Second))
}

// Duration returns the time taken to play the number of frames.
func (f Format) Duration(frames int) time.Duration {
	if f.Rate <= 0 {
		return 0
	}
	return time.Duration(int64(frames) * int64(time.Second) / int64(f.Rate))
}

// Carry converts time spans into frame counts without accumulating rounding
// error. The fractional part of a frame is carried into the next call to
// Frames(). The zero value is ready to use.
type Carry struct {
	// remainder in units of nanoseconds multiplied by the rate
	acc int64
}

// Frames returns the whole number of frames covered by the span, at the
// given rate, including any fraction carried from previous calls.
func (c *Carry) Frames(span time.Duration, rate int) int {
	if span <= 0 || rate <= 0 {
		return 0
	}
	c.acc += int64(span) * int64(rate)
	n := c.acc / int64(time.Second)
	c.acc %= int64(time.Second)
	return int(n)
}

// Fraction returns the carried fractional frame, in the range 0.0 to 1.0.
func (c *Carry) Fraction() float64 {
	return float64(c.acc) / float64(time.Second)
}

// Reset the carried remainder to zero.
func (c *Carry) Reset() {
	c.acc = 0
}

// Timeline converts a running count of frames into time spans. The spans are
// rounded up so that a Carry fed with the spans at the same rate returns
// exactly the number of frames given to Advance(). The zero value is ready to
// use.
type Timeline struct {
	// frames and elapsed time since the last whole second
	frames int64
	ns     int64
}

// Advance the timeline by the number of frames at the given rate and return
// the time span covered.
func (tl *Timeline) Advance(frames int, rate int) time.Duration {
	if frames <= 0 || rate <= 0 {
		return 0
	}

	r := int64(rate)
	f := tl.frames + int64(frames)
	t := (f*int64(time.Second) + r - 1) / r
	span := t - tl.ns

	whole := f / r
	tl.frames = f - whole*r
	tl.ns = t - whole*int64(time.Second)

	return time.Duration(span)
}

// Reset the timeline to zero.
func (tl *Timeline) Reset() {
	tl.frames = 0
	tl.ns = 0
}
