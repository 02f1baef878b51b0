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

// Package mixer owns the channels of an emulation and combines their output
// into a single stream for the host audio device.
//
// Devices register a channel with the mixer and keep the returned handle.
// The host backend pulls blocks of frames from the mixer with Pull() or
// Read(). Pulling ticks the mixer as required. Each tick:
//
//	ticks the producer attached to each channel (see the synth package)
//	finishes every active channel for the duration of the block
//	sums channel output into per-category accumulators
//	applies category volume and mute and updates the category meters
//	sums the categories, applies master volume and mute and updates the
//	  master meter
//	clamps and converts the result to 16bit samples
//	pushes the samples into the host ring and to any attached sinks
//
// The registry is protected by a mutex that is held for the duration of a
// tick. Volume and mute values are atomics and can be changed from any
// goroutine without waiting for the tick.
package mixer
