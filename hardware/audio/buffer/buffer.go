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

import "fmt"

// Buffer is a growable container of interleaved frames.
type Buffer struct {
	format Format
	data   []float32
}

// New is the preferred method of initialisation for the Buffer type. Space
// for the number of frames is reserved in advance.
func New(format Format, frames int) *Buffer {
	return &Buffer{
		format: format,
		data:   make([]float32, 0, frames*max(format.Channels, 1)),
	}
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%s: %d frames", b.format, b.Frames())
}

// Format returns the current format of the buffer.
func (b *Buffer) Format() Format {
	return b.format
}

// SetFormat changes the format of the buffer. The buffer must be empty.
func (b *Buffer) SetFormat(format Format) error {
	if err := format.Valid(); err != nil {
		return err
	}
	if len(b.data) > 0 && format != b.format {
		return fmt.Errorf("buffer: %w: %d frames", ErrNotEmpty, b.Frames())
	}
	b.format = format
	return nil
}

// Frames returns the number of frames in the buffer.
func (b *Buffer) Frames() int {
	if b.format.Channels == 0 {
		return 0
	}
	return len(b.data) / b.format.Channels
}

// Samples returns the number of samples in the buffer. This is always equal
// to the number of frames multiplied by the number of channels.
func (b *Buffer) Samples() int {
	return len(b.data)
}

// Data returns the underlying samples. The returned slice is only valid until
// the next call to a function that changes the buffer.
func (b *Buffer) Data() []float32 {
	return b.data
}

// Frame returns the samples for a single frame. The returned slice is only
// valid until the next call to a function that changes the buffer.
func (b *Buffer) Frame(i int) []float32 {
	ch := b.format.Channels
	return b.data[i*ch : (i+1)*ch]
}

// Tail returns the last n frames in the buffer as a slice that can be
// modified in place.
func (b *Buffer) Tail(n int) []float32 {
	n = min(n, b.Frames())
	return b.data[len(b.data)-n*b.format.Channels:]
}

// Clear removes all frames from the buffer. The underlying memory is kept for
// reuse.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
}

// Reserve makes sure there is space for at least n more frames without a new
// allocation.
func (b *Buffer) Reserve(n int) {
	need := len(b.data) + n*b.format.Channels
	if need <= cap(b.data) {
		return
	}
	d := make([]float32, len(b.data), need)
	copy(d, b.data)
	b.data = d
}

// Grow extends the buffer by n frames and returns the new frames as a slice
// for the caller to fill in. The contents of the returned slice are
// undefined.
func (b *Buffer) Grow(n int) []float32 {
	if n <= 0 {
		return b.data[len(b.data):]
	}
	b.Reserve(n)
	l := len(b.data)
	b.data = b.data[:l+n*b.format.Channels]
	return b.data[l:]
}

// AppendFrames appends interleaved samples that are already in the buffer's
// encoding. The number of samples must be a multiple of the channel count.
func (b *Buffer) AppendFrames(samples []float32) error {
	if len(samples)%b.format.Channels != 0 {
		return fmt.Errorf("buffer: %w: %d samples for %d channels", ErrPartialFrame, len(samples), b.format.Channels)
	}
	b.data = append(b.data, samples...)
	return nil
}

// AppendBuffer appends the contents of another buffer. Both buffers must be
// in the same format.
func (b *Buffer) AppendBuffer(o *Buffer) error {
	if o.format != b.format {
		return fmt.Errorf("buffer: %w: %s and %s", ErrFormatMismatch, b.format, o.format)
	}
	b.data = append(b.data, o.data...)
	return nil
}

func (b *Buffer) checkAppend(enc Encoding, n int) error {
	if b.format.Encoding != enc {
		return fmt.Errorf("buffer: %w: %s data for %s buffer", ErrFormatMismatch, enc, b.format.Encoding)
	}
	if n%b.format.Channels != 0 {
		return fmt.Errorf("buffer: %w: %d samples for %d channels", ErrPartialFrame, n, b.format.Channels)
	}
	b.Reserve(n / b.format.Channels)
	return nil
}

// AppendU8 appends interleaved unsigned 8bit samples. The buffer must have the
// U8 encoding.
func (b *Buffer) AppendU8(samples []uint8) error {
	if err := b.checkAppend(U8, len(samples)); err != nil {
		return err
	}
	for _, s := range samples {
		b.data = append(b.data, float32(s))
	}
	return nil
}

// AppendS8 appends interleaved signed 8bit samples. The buffer must have the
// S8 encoding.
func (b *Buffer) AppendS8(samples []int8) error {
	if err := b.checkAppend(S8, len(samples)); err != nil {
		return err
	}
	for _, s := range samples {
		b.data = append(b.data, float32(s))
	}
	return nil
}

// AppendS16 appends interleaved signed 16bit samples. The buffer must have the
// S16 encoding.
func (b *Buffer) AppendS16(samples []int16) error {
	if err := b.checkAppend(S16, len(samples)); err != nil {
		return err
	}
	for _, s := range samples {
		b.data = append(b.data, float32(s))
	}
	return nil
}

// AppendS32 appends interleaved signed 32bit samples. The buffer must have the
// S32 encoding.
func (b *Buffer) AppendS32(samples []int32) error {
	if err := b.checkAppend(S32, len(samples)); err != nil {
		return err
	}
	for _, s := range samples {
		b.data = append(b.data, float32(s))
	}
	return nil
}

// AppendF32 appends interleaved normalised float samples. The buffer must have
// the F32 encoding.
func (b *Buffer) AppendF32(samples []float32) error {
	if err := b.checkAppend(F32, len(samples)); err != nil {
		return err
	}
	b.data = append(b.data, samples...)
	return nil
}

// AppendSilence appends n frames of silence.
func (b *Buffer) AppendSilence(n int) {
	s := b.format.Encoding.Silence()
	g := b.Grow(n)
	for i := range g {
		g[i] = s
	}
}

// HoldLast appends n copies of the last frame in the buffer. If the buffer is
// empty then silence is appended instead.
func (b *Buffer) HoldLast(n int) {
	if n <= 0 {
		return
	}
	if len(b.data) == 0 {
		b.AppendSilence(n)
		return
	}

	ch := b.format.Channels
	b.Grow(n)
	last := len(b.data) - (n+1)*ch
	for i := last + ch; i < len(b.data); i += ch {
		copy(b.data[i:i+ch], b.data[last:last+ch])
	}
}

// Consume removes the first n frames from the buffer. Returns the number of
// frames removed.
func (b *Buffer) Consume(n int) int {
	n = min(max(n, 0), b.Frames())
	if n == 0 {
		return 0
	}
	c := copy(b.data, b.data[n*b.format.Channels:])
	b.data = b.data[:c]
	return n
}

// Truncate keeps the first n frames and discards the rest.
func (b *Buffer) Truncate(n int) {
	n = min(max(n, 0), b.Frames())
	b.data = b.data[:n*b.format.Channels]
}

// Cast converts the contents of the buffer to a new encoding. The conversion
// happens in place.
func (b *Buffer) Cast(enc Encoding) {
	from := b.format.Encoding
	if from == enc {
		return
	}
	for i, v := range b.data {
		b.data[i] = enc.Denormalise(from.Normalise(v))
	}
	b.format.Encoding = enc
}

// Remix converts the contents of the buffer to a new channel count. Mono is
// converted to stereo by duplication and stereo is converted to mono by
// averaging. The conversion happens in place.
func (b *Buffer) Remix(channels int) error {
	from := b.format.Channels
	if from == channels {
		return nil
	}
	if channels < 1 || channels > MaxChannels {
		return fmt.Errorf("buffer: %w: %d channels", ErrInvalidFormat, channels)
	}

	frames := b.Frames()
	switch {
	case from == 1 && channels == 2:
		b.data = b.data[:frames]
		b.Reserve(frames)
		b.data = b.data[:frames*2]
		for i := frames - 1; i >= 0; i-- {
			v := b.data[i]
			b.data[i*2] = v
			b.data[i*2+1] = v
		}
	case from == 2 && channels == 1:
		for i := range frames {
			b.data[i] = (b.data[i*2] + b.data[i*2+1]) * 0.5
		}
		b.data = b.data[:frames]
	}

	b.format.Channels = channels
	return nil
}

// SwapStereo exchanges the left and right samples of every frame. Has no
// effect on mono buffers.
func (b *Buffer) SwapStereo() {
	if b.format.Channels != 2 {
		return
	}
	for i := 0; i+1 < len(b.data); i += 2 {
		b.data[i], b.data[i+1] = b.data[i+1], b.data[i]
	}
}

// IsSilent returns true if every sample in the buffer is within the threshold
// of the encoding's silence value. The threshold is in the canonical range.
func (b *Buffer) IsSilent(threshold float32) bool {
	enc := b.format.Encoding
	for _, v := range b.data {
		n := enc.Normalise(v)
		if n > threshold || n < -threshold {
			return false
		}
	}
	return true
}
