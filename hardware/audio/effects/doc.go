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

// Package effects contains the stateful signal processing units that make up
// a channel's effect chain. Every unit operates in place on interleaved
// canonical samples.
//
// Units are configured from strings. Each kind of unit has a list of named
// presets and some kinds also accept a custom definition. The strings "none"
// and "off" disable a unit. The string "auto" selects the default for the
// device that owns the channel, which may also be "none".
//
// Units are not safe for concurrent use. A channel builds a complete Chain
// away from the audio goroutine and then swaps it in.
package effects
