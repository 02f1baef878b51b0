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

// Package otoaudio plays the output of a mixer with the oto library. The
// mixer is read by oto as an io.Reader and so ticks whenever the device needs
// more audio.
package otoaudio

import (
	"context"
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/jetsetilly/gophermix/hardware/audio/mixer"
)

// Audio outputs sound using oto.
type Audio struct {
	ctx    *oto.Context
	player *oto.Player
	rate   int
}

// NewAudio is the preferred method of initialisation for the Audio type. Only
// one Audio instance can exist for the lifetime of the program.
func NewAudio(m *mixer.Mixer) (*Audio, error) {
	f := m.HostFormat()

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.Rate,
		ChannelCount: f.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   f.Duration(m.Block()),
	})
	if err != nil {
		return nil, fmt.Errorf("otoaudio: %w", err)
	}
	<-ready

	aud := &Audio{
		ctx:  ctx,
		rate: f.Rate,
	}
	aud.player = ctx.NewPlayer(m)

	return aud, nil
}

func (aud *Audio) String() string {
	return fmt.Sprintf("oto: %dHz", aud.rate)
}

// Run plays audio until the context is cancelled.
func (aud *Audio) Run(ctx context.Context) error {
	aud.player.Play()
	<-ctx.Done()
	aud.player.Pause()
	if err := aud.ctx.Err(); err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	return nil
}

// Close the audio player.
func (aud *Audio) Close() error {
	if err := aud.player.Close(); err != nil {
		return fmt.Errorf("otoaudio: %w", err)
	}
	return nil
}
