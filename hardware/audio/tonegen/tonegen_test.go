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

package tonegen_test

import (
	"testing"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/synth"
	"github.com/jetsetilly/gophermix/hardware/audio/tonegen"
	"github.com/jetsetilly/gophermix/test"
)

func crossings(buf []float32) int {
	n := 0
	for i := 1; i < len(buf); i++ {
		if (buf[i-1] < 0) != (buf[i] < 0) {
			n++
		}
	}
	return n
}

func peak(buf []float32) float32 {
	var p float32
	for _, v := range buf {
		p = max(p, v, -v)
	}
	return p
}

func TestSilence(t *testing.T) {
	g, err := tonegen.NewGenerator(48000)
	test.DemandSuccess(t, err == nil)
	test.ExpectEquality(t, g.Format(), buffer.Format{Encoding: buffer.S16, Channels: 1, Rate: 48000})
	test.ExpectSuccess(t, g.IsSilent())

	buf := make([]float32, 480)
	g.Generate(buf, 0, 480)
	test.ExpectEquality(t, peak(buf), float32(0))

	_, err = tonegen.NewGenerator(0)
	test.ExpectFailure(t, err == nil)
}

func TestTone(t *testing.T) {
	g, err := tonegen.NewGenerator(48000)
	test.DemandSuccess(t, err == nil)

	g.Apply(synth.Event{Command: tonegen.Frequency, Payload: 1000})
	g.Apply(synth.Event{Command: tonegen.Volume, Payload: 15})
	test.ExpectFailure(t, g.IsSilent())

	// two zero crossings per cycle
	buf := make([]float32, 4800)
	g.Generate(buf, 0, 4800)
	test.ExpectApproximate(t, crossings(buf), 200, 4)

	p := peak(buf[480:])
	test.ExpectSuccess(t, p > 12000, p)
	test.ExpectSuccess(t, p < 20000, p)

	// generating in pieces is the same as generating all at once
	h, _ := tonegen.NewGenerator(48000)
	h.Apply(synth.Event{Command: tonegen.Frequency, Payload: 1000})
	h.Apply(synth.Event{Command: tonegen.Volume, Payload: 15})
	pieces := make([]float32, 4800)
	for i := 0; i < 4800; i += 100 {
		h.Generate(pieces, i, 100)
	}
	test.ExpectApproximate(t, pieces[4799], buf[4799], 1.0)

	// volume zero fades to nothing
	g.Apply(synth.Event{Command: tonegen.Volume, Payload: 0})
	g.Generate(buf, 0, 4800)
	test.ExpectSuccess(t, peak(buf[480:]) < 100)

	g.Reset()
	test.ExpectSuccess(t, g.IsSilent())
}

func TestNoise(t *testing.T) {
	g, err := tonegen.NewGenerator(44100)
	test.DemandSuccess(t, err == nil)

	g.Apply(synth.Event{Command: tonegen.NoiseRate, Payload: 8000})
	g.Apply(synth.Event{Command: tonegen.NoiseVolume, Payload: 10})

	buf := make([]float32, 4410)
	g.Generate(buf, 0, len(buf))
	test.ExpectSuccess(t, peak(buf) > 5000)
	test.ExpectSuccess(t, crossings(buf) > 100)

	g.Apply(synth.Event{Command: tonegen.NoiseRate, Payload: 0})
	g.Generate(buf, 0, len(buf))
	test.ExpectSuccess(t, peak(buf[441:]) < 100)
}
