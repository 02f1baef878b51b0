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

// Package pcmfile loads WAV, MP3 and FLAC files for playback through a
// channel. The entire file is decoded when it is loaded.
//
// A loaded Source implements the synth.Chip interface and is intended to be
// used with the synth.Continuous adapter. The channel should have the format
// returned by Source.Format() as its input format.
package pcmfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/mewkiz/flac"
)

// Sentinel errors returned by Load().
var (
	ErrUnsupported = errors.New("unsupported file")
	ErrInvalidFile = errors.New("invalid file")
)

// Source is decoded PCM data that can be played back.
type Source struct {
	name   string
	format buffer.Format

	// interleaved samples normalised to the range -1.0 to 1.0
	data []float32

	// next frame to be generated
	pos  int
	loop bool
}

// Load the file. The type of file is decided by the filename extension.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pcmfile: %w", err)
	}
	defer f.Close()

	src, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	src.name = filepath.Base(path)
	return src, nil
}

// Decode the data in the reader. The kind of data is given by a filename
// extension, including the leading dot.
func Decode(r io.ReadSeeker, ext string) (*Source, error) {
	var src *Source
	var err error

	switch strings.ToLower(ext) {
	case ".wav":
		src, err = decodeWAV(r)
	case ".mp3":
		src, err = decodeMP3(r)
	case ".flac":
		src, err = decodeFLAC(r)
	default:
		return nil, fmt.Errorf("pcmfile: %w: %s", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("pcmfile: %s: %w", strings.TrimPrefix(ext, "."), err)
	}

	if err := src.format.Valid(); err != nil {
		return nil, fmt.Errorf("pcmfile: %w: %w", ErrUnsupported, err)
	}

	return src, nil
}

// values of the format field in the fmt chunk of a wav file
const (
	wavPCM        = 0x0001
	wavFloat      = 0x0003
	wavExtensible = 0xfffe
)

func decodeWAV(r io.ReadSeeker) (*Source, error) {
	dec := wav.NewDecoder(r)
	if dec == nil || !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}

	var float bool
	switch dec.WavAudioFormat {
	case wavPCM, wavExtensible:
		if dec.BitDepth < 8 || dec.BitDepth > 32 {
			return nil, fmt.Errorf("%w: %d bit integer samples", ErrUnsupported, dec.BitDepth)
		}
	case wavFloat:
		if dec.BitDepth != 32 {
			return nil, fmt.Errorf("%w: %d bit float samples", ErrUnsupported, dec.BitDepth)
		}
		float = true
	default:
		return nil, fmt.Errorf("%w: wav format %#04x", ErrUnsupported, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	src := &Source{
		format: buffer.Canonical(int(dec.NumChans), int(dec.SampleRate)),
		data:   make([]float32, len(buf.Data)),
	}

	// float samples arrive as the raw bits of each 32bit value
	if float {
		for i, v := range buf.Data {
			src.data[i] = math.Float32frombits(uint32(v))
		}
		return src, nil
	}

	// 8bit wav data is unsigned
	scale := float32(int64(1) << (dec.BitDepth - 1))
	for i, v := range buf.Data {
		if dec.BitDepth == 8 {
			v -= 128
		}
		src.data[i] = float32(v) / scale
	}

	return src, nil
}

func decodeMP3(r io.Reader) (*Source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	// the decoded stream is always 16bit little-endian stereo
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	src := &Source{
		format: buffer.Canonical(2, dec.SampleRate()),
		data:   make([]float32, len(raw)/4*2),
	}
	for i := range src.data {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		src.data[i] = float32(v) / 32768
	}

	return src, nil
}

func decodeFLAC(r io.Reader) (*Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	if channels > buffer.MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}
	scale := float32(int64(1) << (stream.Info.BitsPerSample - 1))

	src := &Source{
		format: buffer.Canonical(channels, int(stream.Info.SampleRate)),
		data:   make([]float32, 0, int(stream.Info.NSamples)*channels),
	}

	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		for i := range int(frame.BlockSize) {
			for c := range channels {
				src.data = append(src.data, float32(frame.Subframes[c].Samples[i])/scale)
			}
		}
	}

	return src, nil
}

// NewSource creates a source from interleaved samples normalised to the range
// -1.0 to 1.0.
func NewSource(name string, format buffer.Format, data []float32) (*Source, error) {
	format.Encoding = buffer.F32
	if err := format.Valid(); err != nil {
		return nil, fmt.Errorf("pcmfile: %w", err)
	}
	if len(data)%format.Channels != 0 {
		return nil, fmt.Errorf("pcmfile: %w: partial frame", ErrInvalidFile)
	}
	return &Source{name: name, format: format, data: data}, nil
}

func (src *Source) String() string {
	return fmt.Sprintf("%s: %s %.2fs", src.name, src.format, src.Duration().Seconds())
}

// Format returns the format of the decoded data.
func (src *Source) Format() buffer.Format {
	return src.format
}

// Frames returns the number of frames in the source.
func (src *Source) Frames() int {
	return len(src.data) / src.format.Channels
}

// Duration returns the playing time of the source.
func (src *Source) Duration() time.Duration {
	return src.format.Duration(src.Frames())
}

// Position returns the next frame to be played.
func (src *Source) Position() int {
	return src.pos
}

// SetLoop causes the source to restart from the beginning when the end is
// reached.
func (src *Source) SetLoop(loop bool) {
	src.loop = loop
}

// Generate implements the synth.Chip interface.
func (src *Source) Generate(buf []float32, offset int, frames int) {
	ch := src.format.Channels
	dst := buf[offset*ch : (offset+frames)*ch]

	for len(dst) > 0 {
		if src.pos >= src.Frames() {
			if !src.loop || src.Frames() == 0 {
				clear(dst)
				return
			}
			src.pos = 0
		}
		n := copy(dst, src.data[src.pos*ch:])
		src.pos += n / ch
		dst = dst[n:]
	}
}

// IsSilent implements the synth.Chip interface.
func (src *Source) IsSilent() bool {
	return !src.loop && src.pos >= src.Frames()
}

// Reset implements the synth.Chip interface. Playback restarts from the
// beginning.
func (src *Source) Reset() {
	src.pos = 0
}
