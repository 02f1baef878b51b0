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

import "fmt"

// Registers of one voice.
type Registers struct {
	Control uint8
	Freq    uint8
	Volume  uint8
}

func (reg Registers) String() string {
	return fmt.Sprintf("%04b @ %05b ^ %04b", reg.Control, reg.Freq, reg.Volume)
}

type voice struct {
	reg Registers

	// position in each polynomial
	poly4ct int
	poly5ct int
	poly9ct int
	div3ct  uint8

	// frequency divider. the output is updated when freqCt reaches freq
	freqCt uint8
	freq   uint8

	// control values 0xc to 0xe use a 10KHz clock rather than a 30KHz clock
	useTenKhz bool

	// the current output volume. toggles between zero and the volume register
	actualVol uint8
}

// react to a change in any register.
func (v *voice) react() {
	v.useTenKhz = v.reg.Control&0x0c == 0x0c && v.reg.Control != 0x0f

	// constant output
	if v.reg.Control == 0x00 || v.reg.Control == 0x0b {
		v.actualVol = v.reg.Volume
		v.freq = 0
		return
	}

	if v.freq != v.reg.Freq {
		v.freq = v.reg.Freq
		v.freqCt = min(v.freqCt, v.freq)
	}

	// a voice that is toggling continues with the new volume
	if v.actualVol != 0 {
		v.actualVol = v.reg.Volume
	}
}

func (v *voice) toggle() {
	if v.actualVol != 0 {
		v.actualVol = 0
	} else {
		v.actualVol = v.reg.Volume
	}
}

// tick is called at 30KHz. tenKhz is true every third call.
func (v *voice) tick(tenKhz bool) {
	if v.useTenKhz && !tenKhz {
		return
	}

	if v.reg.Control == 0x00 || v.reg.Control == 0x0b {
		return
	}

	if v.freqCt == v.freq || v.freqCt == 31 {
		v.freqCt = 0
	} else {
		v.freqCt++
	}
	if v.freqCt != v.freq {
		return
	}

	prevBit5 := poly5bit[v.poly5ct]
	v.poly5ct++
	if v.poly5ct >= len(poly5bit) {
		v.poly5ct = 0
	}

	ctrl := v.reg.Control

	clocked := ctrl&0x02 == 0x00 ||
		(ctrl&0x01 == 0x00 && div31[v.poly5ct] != 0) ||
		(ctrl&0x01 == 0x01 && poly5bit[v.poly5ct] != 0) ||
		(ctrl&0x0f == 0x0f && poly5bit[v.poly5ct] != prevBit5)
	if !clocked {
		return
	}

	switch {
	case ctrl&0x04 == 0x04:
		// pure tone. 0xf divides the poly5 clock by three
		if ctrl&0x0f != 0x0f {
			v.toggle()
		} else if poly5bit[v.poly5ct] != prevBit5 {
			v.div3ct++
			if v.div3ct == 3 {
				v.div3ct = 0
				v.toggle()
			}
		}

	case ctrl&0x08 == 0x08:
		switch {
		case ctrl == 0x08:
			v.poly9ct++
			if v.poly9ct >= len(poly9bit) {
				v.poly9ct = 0
			}
			v.set(poly9bit[v.poly9ct] != 0)
		case ctrl&0x02 != 0:
			v.set(v.actualVol == 0 && ctrl&0x01 == 0x00)
		default:
			v.set(poly5bit[v.poly5ct] != 0)
		}

	default:
		v.poly4ct++
		if v.poly4ct >= len(poly4bit) {
			v.poly4ct = 0
		}
		v.set(poly4bit[v.poly4ct] != 0)
	}
}

func (v *voice) set(on bool) {
	if on {
		v.actualVol = v.reg.Volume
	} else {
		v.actualVol = 0
	}
}
