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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirity, and written to disk
// when mixing ends. It is therefore probably only suitable for testing
// purposes and short recordings.
package wavwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/logger"
)

// ErrFormatChanged is returned by SetAudio() if the format of the audio
// changes part way through a recording.
var ErrFormatChanged = errors.New("format changed during recording")

// WavWriter implements the mixer.Sink interface.
type WavWriter struct {
	filename string
	format   buffer.Format
	buffer   []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("wavwriter: no filename")
	}
	aw := &WavWriter{
		filename: filename,
		buffer:   make([]int, 0),
	}
	return aw, nil
}

// Frames returns the number of frames waiting to be written.
func (aw *WavWriter) Frames() int {
	if aw.format.Channels == 0 {
		return 0
	}
	return len(aw.buffer) / aw.format.Channels
}

// SetAudio implements the mixer.Sink interface.
func (aw *WavWriter) SetAudio(samples []int16, format buffer.Format) error {
	if aw.format.Channels == 0 {
		aw.format = format
	} else if aw.format != format {
		return fmt.Errorf("wavwriter: %w: %s to %s", ErrFormatChanged, aw.format, format)
	}

	for _, s := range samples {
		aw.buffer = append(aw.buffer, int(s))
	}

	return nil
}

// EndMixing implements the mixer.Sink interface.
func (aw *WavWriter) EndMixing() (rerr error) {
	if aw.format.Channels == 0 {
		return nil
	}

	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = fmt.Errorf("wavwriter: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, aw.format.Rate, 16, aw.format.Channels, 1)
	logger.Logf(logger.Allow, "wavwriter", "writing %d frames of audio to %s", aw.Frames(), aw.filename)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: aw.format.Channels,
			SampleRate:  aw.format.Rate,
		},
		Data:           aw.buffer,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavwriter: %w", err)
	}

	aw.buffer = aw.buffer[:0]

	return nil
}
