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

// the 4bit and 5bit patterns are the ones used in the chip. one bit per byte
var poly4bit = [15]uint8{1, 1, 0, 1, 1, 1, 0, 0, 0, 0, 1, 0, 1, 0, 0}
var poly5bit = [31]uint8{0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 1, 1, 1, 0, 0,
	0, 1, 1, 0, 1, 1, 1, 0, 1, 0, 1, 0, 0, 0, 0, 1}

// the divide by 31 counter is treated as another polynomial. it has a 13:18
// duty cycle
var div31 = [31]uint8{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

// 9bit maximal length sequence (x^9 + x^4 + 1)
var poly9bit [511]uint8

func init() {
	lfsr := uint16(0x1ff)
	for i := range poly9bit {
		poly9bit[i] = uint8(lfsr & 0x01)
		bit := (lfsr ^ (lfsr >> 4)) & 0x01
		lfsr = (lfsr >> 1) | (bit << 8)
	}
}

// the largest combined volume of both voices
const maxVolume = 0x1e

// volume curve for the combined volume of both voices
var mix [maxVolume + 1]int16

func init() {
	for v := range mix {
		mix[v] = int16(0x7fff * float32(v) / maxVolume * (30 + maxVolume) / (30 + float32(v)))
	}
}

// mono returns the level for the combined volumes. halved so that the sum of
// both voices at full volume is the full range of a 16bit sample
func mono(vol0 uint8, vol1 uint8) int16 {
	return mix[vol0+vol1] >> 1
}
