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

package tiasound_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gophermix/environment"
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/channel"
	"github.com/jetsetilly/gophermix/hardware/audio/synth"
	"github.com/jetsetilly/gophermix/hardware/audio/tiasound"
	"github.com/jetsetilly/gophermix/test"
)

func write(tia *tiasound.Chip, reg uint32, v uint32) {
	tia.Apply(synth.Event{Command: reg, Payload: v})
}

func transitions(buf []float32) int {
	n := 0
	for i := 1; i < len(buf); i++ {
		if buf[i] != buf[i-1] {
			n++
		}
	}
	return n
}

func TestSilence(t *testing.T) {
	tia := tiasound.NewChip(false)
	test.ExpectEquality(t, tia.Format(), buffer.Format{Encoding: buffer.S16, Channels: 1, Rate: tiasound.SampleFreq})
	test.ExpectSuccess(t, tia.IsSilent())

	buf := make([]float32, 100)
	tia.Generate(buf, 0, 100)
	test.ExpectEquality(t, transitions(buf), 0)
	test.ExpectEquality(t, buf[99], float32(0))
}

func TestConstant(t *testing.T) {
	tia := tiasound.NewChip(false)
	write(tia, tiasound.AUDC0, 0x00)
	write(tia, tiasound.AUDV0, 0x08)
	test.ExpectFailure(t, tia.IsSilent())

	buf := make([]float32, 100)
	tia.Generate(buf, 0, 100)
	test.ExpectEquality(t, transitions(buf), 0)
	test.ExpectSuccess(t, buf[0] > 0)
}

func TestPureTone(t *testing.T) {
	tia := tiasound.NewChip(false)
	write(tia, tiasound.AUDC0, 0x04)
	write(tia, tiasound.AUDF0, 0x1f)
	write(tia, tiasound.AUDV0, 0x0f)

	// the output toggles every 32 ticks
	buf := make([]float32, 640)
	tia.Generate(buf, 0, 640)
	test.ExpectEquality(t, transitions(buf), 20)
	test.ExpectEquality(t, buf[0], float32(0))
	test.ExpectEquality(t, buf[30], float32(10922))

	// registers mask unused bits
	c0, _ := tia.Registers()
	test.ExpectEquality(t, c0, tiasound.Registers{Control: 0x04, Freq: 0x1f, Volume: 0x0f})
	write(tia, tiasound.AUDF0, 0xff)
	c0, _ = tia.Registers()
	test.ExpectEquality(t, c0.Freq, uint8(0x1f))
}

func TestTenKhz(t *testing.T) {
	tia := tiasound.NewChip(false)
	write(tia, tiasound.AUDC0, 0x0c)
	write(tia, tiasound.AUDF0, 0x1f)
	write(tia, tiasound.AUDV0, 0x0f)

	// a third of the rate of the pure tone
	buf := make([]float32, 1920)
	tia.Generate(buf, 0, 1920)
	test.ExpectEquality(t, transitions(buf), 20)
}

func TestStereo(t *testing.T) {
	tia := tiasound.NewChip(true)
	test.ExpectEquality(t, tia.Format().Channels, 2)

	write(tia, tiasound.AUDV1, 0x0f)
	buf := make([]float32, 20)
	tia.Generate(buf, 0, 10)
	test.ExpectEquality(t, buf[0], float32(0))
	test.ExpectEquality(t, buf[1], float32(10922))
}

func TestReset(t *testing.T) {
	tia := tiasound.NewChip(true)
	write(tia, tiasound.AUDV0, 0x0f)
	tia.Reset()
	test.ExpectSuccess(t, tia.IsSilent())
	test.ExpectEquality(t, tia.Format().Channels, 2)
}

func TestEvented(t *testing.T) {
	clk := &synth.ManualClock{}
	tia := tiasound.NewChip(false)

	env := environment.NewEnvironment("test", nil)
	ch, err := channel.New(env, channel.Config{
		Name:   "tia",
		Kind:   channel.Evented,
		Input:  tia.Format(),
		Output: buffer.Canonical(2, 48000),
	})
	test.DemandSuccess(t, err)
	ev := synth.NewEvented(env, ch, tia, clk, 16)

	test.ExpectSuccess(t, ev.AddEvent(0, tiasound.AUDV0, 0x0f))
	clk.Advance(10 * time.Millisecond)
	test.ExpectEquality(t, ev.Tick(), 314)
	test.ExpectEquality(t, ev.Pending(), 0)
}
