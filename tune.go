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

package main

import (
	"fmt"
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/synth"
	"github.com/jetsetilly/gophermix/hardware/audio/tiasound"
	"github.com/jetsetilly/gophermix/hardware/audio/tonegen"
)

type note struct {
	// frequency in Hz. zero is a rest
	freq   uint32
	length time.Duration

	// a short burst of noise at the start of the note
	drum bool

	// frequency divider for the bass voice. zero for no bass
	bass uint32
}

const beat = 150 * time.Millisecond

var tune = []note{
	{freq: 262, length: beat, drum: true, bass: 0x1f},
	{freq: 330, length: beat},
	{freq: 392, length: beat},
	{freq: 523, length: beat},
	{freq: 392, length: beat, drum: true, bass: 0x17},
	{freq: 330, length: beat},
	{freq: 0, length: beat},
	{freq: 294, length: beat},
	{freq: 349, length: beat, drum: true, bass: 0x1a},
	{freq: 440, length: beat},
	{freq: 587, length: beat},
	{freq: 440, length: beat},
	{freq: 392, length: beat * 2, drum: true, bass: 0x1f},
	{freq: 0, length: beat * 2},
}

// schedule adds the events for one play of the tune, starting at the given
// time. The melody is played by the tone generator and the bass by the tia
// chip. Returns the time at which the tune ends.
func schedule(tone *synth.Evented, tia *synth.Evented, start time.Duration) (time.Duration, error) {
	t := start

	add := func(ev *synth.Evented, t time.Duration, cmd uint32, payload uint32) error {
		if !ev.AddEvent(t, cmd, payload) {
			return fmt.Errorf("tune: %s: event queue full at %s", ev.Channel().Name(), t)
		}
		return nil
	}

	if err := add(tone, t, tonegen.Volume, 10); err != nil {
		return t, err
	}

	for _, n := range tune {
		if n.freq > 0 {
			if err := add(tone, t, tonegen.Frequency, n.freq); err != nil {
				return t, err
			}
			if err := add(tone, t+n.length*9/10, tonegen.Frequency, 0); err != nil {
				return t, err
			}
		}
		if n.drum {
			if err := add(tone, t, tonegen.NoiseRate, 12000); err != nil {
				return t, err
			}
			if err := add(tone, t, tonegen.NoiseVolume, 6); err != nil {
				return t, err
			}
			if err := add(tone, t+30*time.Millisecond, tonegen.NoiseVolume, 0); err != nil {
				return t, err
			}
		}
		if n.bass > 0 {
			if err := add(tia, t, tiasound.AUDC0, 0x06); err != nil {
				return t, err
			}
			if err := add(tia, t, tiasound.AUDF0, n.bass); err != nil {
				return t, err
			}
			if err := add(tia, t, tiasound.AUDV0, 0x06); err != nil {
				return t, err
			}
			if err := add(tia, t+n.length/2, tiasound.AUDV0, 0x00); err != nil {
				return t, err
			}
		}
		t += n.length
	}

	return t, nil
}
