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

// Package tiasound is a two voice sound chip of the type found in early
// home consoles. Each voice has a 4bit control register selecting the
// waveform, a 5bit frequency divider and a 4bit volume. Waveforms are built
// from 4bit, 5bit and 9bit polynomial counters clocked at approximately
// 30KHz.
//
// The bit patterns and the behaviour of the control register follow Ron
// Fries' TIASound.c (published under the GNU Library GPL v2.0) with the
// modifications found in the Stella emulator. The voices are mixed with the
// non-linear volume curve described in "TIA Sounding Off In The Digital
// Domain" by Chris Brenner.
//
// The Chip type implements the synth.EventedChip interface. Register writes
// are sent as events with the register as the command and the register value
// as the payload:
//
//	ev.AddEvent(t, tiasound.AUDC0, 0x04)
//	ev.AddEvent(t, tiasound.AUDF0, 0x1f)
//	ev.AddEvent(t, tiasound.AUDV0, 0x0f)
package tiasound
