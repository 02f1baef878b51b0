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
//
// *** NOTE: all historical versions of this file, as found in any
// git repository, are also covered by the licence, even when this
// notice is not present ***


// Package sdlaudio plays the output of a mixer through an SDL audio device.
// Audio is queued rather than pulled by an SDL callback. A goroutine ticks the
// mixer whenever the amount of queued audio falls below a threshold.
package sdlaudio

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/mixer"
	"github.com/jetsetilly/gophermix/logger"

	"github.com/veandco/go-sdl2/sdl"
)

// the number of blocks that should be queued with SDL. more blocks reduce the
// chance of an underrun but increase the latency between the emulation and
// the sound
const queuedBlocks = 2

// Audio outputs sound using SDL
type Audio struct {
	mixer *mixer.Mixer

	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	// one block of samples and the same data as little-endian bytes
	block   int
	samples []int16
	bytes   []uint8
}

// NewAudio is the preferred method of initialisation for the Audio Type. The
// rate of the mixer is changed if the device can not use the mixer's rate.
func NewAudio(m *mixer.Mixer) (*Audio, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdlaudio: %w", err)
	}

	aud := &Audio{
		mixer: m,
	}

	f := m.HostFormat()
	spec := &sdl.AudioSpec{
		Freq:     int32(f.Rate),
		Format:   sdl.AUDIO_S16LSB,
		Channels: uint8(f.Channels),
		Samples:  uint16(m.Block()),
	}

	var err error
	var actualSpec sdl.AudioSpec

	aud.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, sdl.AUDIO_ALLOW_FREQUENCY_CHANGE)
	if err != nil {
		return nil, fmt.Errorf("sdlaudio: %w", err)
	}
	aud.spec = actualSpec

	if actualSpec.Freq != spec.Freq {
		logger.Logf(logger.Allow, "sdlaudio", "device rate is %dHz", actualSpec.Freq)
		if err := m.SetRate(int(actualSpec.Freq)); err != nil {
			sdl.CloseAudioDevice(aud.id)
			return nil, fmt.Errorf("sdlaudio: %w", err)
		}
	}

	aud.block = m.Block()
	n := aud.block * f.Channels
	aud.samples = make([]int16, n)
	aud.bytes = make([]uint8, n*2)

	return aud, nil
}

func (aud *Audio) String() string {
	return fmt.Sprintf("sdl: %dHz %d channels, %d frames per block", aud.spec.Freq, aud.spec.Channels, aud.spec.Samples)
}

// Run queues audio until the context is cancelled.
func (aud *Audio) Run(ctx context.Context) error {
	period := aud.mixer.Format().Duration(aud.block) / 2
	threshold := uint32(queuedBlocks * len(aud.bytes))

	sdl.PauseAudioDevice(aud.id, false)
	defer sdl.PauseAudioDevice(aud.id, true)

	tck := time.NewTicker(period)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tck.C:
		}

		for sdl.GetQueuedAudioSize(aud.id) < threshold {
			if err := aud.queue(); err != nil {
				return err
			}
		}
	}
}

func (aud *Audio) queue() error {
	aud.mixer.Tick(aud.block)
	aud.mixer.Drain(aud.samples)
	for i, v := range aud.samples {
		binary.LittleEndian.PutUint16(aud.bytes[i*2:], uint16(v))
	}
	if err := sdl.QueueAudio(aud.id, aud.bytes); err != nil {
		return fmt.Errorf("sdlaudio: %w", err)
	}
	return nil
}

// Close the audio device.
func (aud *Audio) Close() error {
	sdl.ClearQueuedAudio(aud.id)
	sdl.CloseAudioDevice(aud.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
