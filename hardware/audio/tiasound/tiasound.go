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

package tiasound

import (
	"fmt"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/synth"
)

// Registers as used by the Command field of a synth.Event. The payload is
// the value written to the register. Unused bits are ignored.
const (
	AUDC0 uint32 = iota
	AUDC1
	AUDF0
	AUDF1
	AUDV0
	AUDV1
)

// SampleFreq is the rate at which the chip produces frames. Two frames for
// every 228 colour clock scanline.
const SampleFreq = 31400

// Chip implements the synth.EventedChip interface.
type Chip struct {
	voice0 voice
	voice1 voice

	// counts 30KHz ticks to produce the 10KHz clock
	div3 int

	stereo bool
}

// NewChip is the preferred method of initialisation for the Chip type. A
// stereo chip outputs each voice on its own side.
func NewChip(stereo bool) *Chip {
	return &Chip{stereo: stereo}
}

// Format of the frames produced by Generate().
func (tia *Chip) Format() buffer.Format {
	ch := 1
	if tia.stereo {
		ch = 2
	}
	return buffer.Format{Encoding: buffer.S16, Channels: ch, Rate: SampleFreq}
}

func (tia *Chip) String() string {
	return fmt.Sprintf("ch0: %s  ch1: %s", tia.voice0.reg, tia.voice1.reg)
}

// Registers returns the current register values of both voices.
func (tia *Chip) Registers() (Registers, Registers) {
	return tia.voice0.reg, tia.voice1.reg
}

// Reset implements the synth.Chip interface.
func (tia *Chip) Reset() {
	*tia = Chip{stereo: tia.stereo}
}

// IsSilent implements the synth.Chip interface.
func (tia *Chip) IsSilent() bool {
	return tia.voice0.reg.Volume == 0 && tia.voice1.reg.Volume == 0 &&
		tia.voice0.actualVol == 0 && tia.voice1.actualVol == 0
}

// Apply implements the synth.EventedChip interface.
func (tia *Chip) Apply(ev synth.Event) {
	v := uint8(ev.Payload)

	switch ev.Command {
	case AUDC0:
		tia.voice0.reg.Control = v & 0x0f
	case AUDC1:
		tia.voice1.reg.Control = v & 0x0f
	case AUDF0:
		tia.voice0.reg.Freq = v & 0x1f
	case AUDF1:
		tia.voice1.reg.Freq = v & 0x1f
	case AUDV0:
		tia.voice0.reg.Volume = v & 0x0f
	case AUDV1:
		tia.voice1.reg.Volume = v & 0x0f
	default:
		return
	}

	tia.voice0.react()
	tia.voice1.react()
}

// Generate implements the synth.Chip interface.
func (tia *Chip) Generate(buf []float32, offset int, frames int) {
	if tia.stereo {
		for i := offset; i < offset+frames; i++ {
			tia.step()
			buf[i*2] = float32(mono(tia.voice0.actualVol, 0))
			buf[i*2+1] = float32(mono(0, tia.voice1.actualVol))
		}
		return
	}

	for i := offset; i < offset+frames; i++ {
		tia.step()
		buf[i] = float32(mono(tia.voice0.actualVol, tia.voice1.actualVol))
	}
}

func (tia *Chip) step() {
	tia.div3++
	tenKhz := tia.div3 == 3
	if tenKhz {
		tia.div3 = 0
	}
	tia.voice0.tick(tenKhz)
	tia.voice1.tick(tenKhz)
}
