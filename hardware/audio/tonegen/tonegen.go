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

// Package tonegen is a simple programmable sound generator with one square
// wave tone and one noise voice. It is driven by events and so can be used
// with the synth.Evented adapter.
//
// Output is band-limited by rendering amplitude changes through a blip
// buffer. The generator is clocked at a whole multiple of the output rate so
// that any number of frames can be generated exactly.
package tonegen

import (
	"fmt"

	"github.com/arl/blip"
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/synth"
)

// Commands understood by the generator. Used as the Command field of a
// synth.Event.
const (
	// payload is the tone frequency in Hz. zero stops the tone
	Frequency uint32 = iota

	// payload is the tone volume from 0 to 15
	Volume

	// payload is the rate at which the noise generator is shifted in Hz.
	// zero stops the noise
	NoiseRate

	// payload is the noise volume from 0 to 15
	NoiseVolume
)

// MaxVolume is the highest volume value for either voice.
const MaxVolume = 15

// clocks per output frame
const oversample = 64

// amplitude of one volume step. both voices at full volume stay within the
// range of a 16bit sample
const step = 1000

// the largest number of frames rendered through the blip buffer at once
const chunk = 2048

type voice struct {
	// clocks between amplitude changes. zero if the voice is stopped
	period int

	// clock of the next amplitude change, relative to the start of the
	// current blip frame
	next int

	volume int
	amp    int
}

// Generator implements the synth.EventedChip interface.
type Generator struct {
	rate int
	blip *blip.Buffer

	tone  voice
	phase int

	noise voice
	lfsr  uint16

	tmp []int16
}

// NewGenerator is the preferred method of initialisation for the Generator
// type. The rate is the rate at which frames are generated.
func NewGenerator(rate int) (*Generator, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("tonegen: invalid rate (%d)", rate)
	}
	g := &Generator{
		rate: rate,
		blip: blip.NewBuffer(chunk),
		tmp:  make([]int16, chunk),
	}
	g.blip.SetRates(float64(rate*oversample), float64(rate))
	g.Reset()
	return g, nil
}

// Format returns the format of the frames generated. Channels using the
// generator should have this as their input format.
func (g *Generator) Format() buffer.Format {
	return buffer.Format{Encoding: buffer.S16, Channels: 1, Rate: g.rate}
}

func (g *Generator) String() string {
	tone := "off"
	if g.tone.period > 0 {
		tone = fmt.Sprintf("%dHz vol %d", g.rate*oversample/(2*g.tone.period), g.tone.volume)
	}
	noise := "off"
	if g.noise.period > 0 {
		noise = fmt.Sprintf("%dHz vol %d", g.rate*oversample/g.noise.period, g.noise.volume)
	}
	return fmt.Sprintf("tone: %s, noise: %s", tone, noise)
}

// Reset implements the synth.Chip interface.
func (g *Generator) Reset() {
	g.blip.Clear()
	g.tone = voice{}
	g.noise = voice{}
	g.phase = 1
	g.lfsr = 1
}

// IsSilent implements the synth.Chip interface.
func (g *Generator) IsSilent() bool {
	return g.tone.amp == 0 && g.noise.amp == 0 && g.blip.SamplesAvailable() == 0 &&
		(g.tone.period == 0 || g.tone.volume == 0) &&
		(g.noise.period == 0 || g.noise.volume == 0)
}

// Apply implements the synth.EventedChip interface.
func (g *Generator) Apply(ev synth.Event) {
	clock := g.rate * oversample

	switch ev.Command {
	case Frequency:
		if ev.Payload == 0 {
			g.tone.period = 0
			g.setAmp(&g.tone, 0)
			return
		}
		g.tone.period = max(1, clock/(2*int(ev.Payload)))
		g.tone.next = min(g.tone.next, g.tone.period)
		g.setAmp(&g.tone, g.phase*g.tone.volume*step)

	case Volume:
		g.tone.volume = min(int(ev.Payload), MaxVolume)
		if g.tone.period > 0 {
			g.setAmp(&g.tone, g.phase*g.tone.volume*step)
		}

	case NoiseRate:
		if ev.Payload == 0 {
			g.noise.period = 0
			g.setAmp(&g.noise, 0)
			return
		}
		g.noise.period = max(1, clock/int(ev.Payload))
		g.noise.next = min(g.noise.next, g.noise.period)
		g.setAmp(&g.noise, g.noiseLevel())

	case NoiseVolume:
		g.noise.volume = min(int(ev.Payload), MaxVolume)
		if g.noise.period > 0 {
			g.setAmp(&g.noise, g.noiseLevel())
		}
	}
}

// change the amplitude of the voice at the start of the next frame
func (g *Generator) setAmp(v *voice, amp int) {
	if d := amp - v.amp; d != 0 {
		g.blip.AddDelta(0, int32(d))
		v.amp = amp
	}
}

func (g *Generator) noiseLevel() int {
	if g.lfsr&1 == 1 {
		return g.noise.volume * step
	}
	return -g.noise.volume * step
}

// add the amplitude changes of both voices up to the clock
func (g *Generator) run(clocks int) {
	if g.tone.period > 0 {
		for ; g.tone.next < clocks; g.tone.next += g.tone.period {
			g.phase = -g.phase
			amp := g.phase * g.tone.volume * step
			g.blip.AddDelta(uint64(g.tone.next), int32(amp-g.tone.amp))
			g.tone.amp = amp
		}
		g.tone.next -= clocks
	}

	if g.noise.period > 0 {
		for ; g.noise.next < clocks; g.noise.next += g.noise.period {
			// fifteen bit lfsr with taps at bits 0 and 1
			bit := (g.lfsr ^ (g.lfsr >> 1)) & 1
			g.lfsr = (g.lfsr >> 1) | (bit << 14)
			amp := g.noiseLevel()
			g.blip.AddDelta(uint64(g.noise.next), int32(amp-g.noise.amp))
			g.noise.amp = amp
		}
		g.noise.next -= clocks
	}
}

// Generate implements the synth.Chip interface.
func (g *Generator) Generate(buf []float32, offset int, frames int) {
	for frames > 0 {
		n := min(frames, chunk)
		clocks := n * oversample

		g.run(clocks)
		g.blip.EndFrame(clocks)

		got := g.blip.ReadSamples(g.tmp, n, blip.Mono)
		for i := range got {
			buf[offset+i] = float32(g.tmp[i])
		}

		// the blip buffer produces exactly one sample per frame. anything
		// missing is treated as silence
		for i := got; i < n; i++ {
			buf[offset+i] = 0
		}

		offset += n
		frames -= n
	}
}
