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

// Package buffer provides the sample container used throughout the audio
// pipeline. A Buffer holds interleaved frames in a single Format. Samples are
// always stored as float32 but in the numeric range of the Format's Encoding.
// For example, a buffer with the U8 encoding holds values in the range 0 to
// 255, with 128 being silence. The Cast() function moves a buffer's contents
// from one encoding to another.
//
// The canonical encoding is F32, with values normalised to the range -1.0 to
// 1.0. All effects processing and mixing happens in the canonical encoding.
//
// A Buffer is not safe for concurrent use. It should be owned exclusively by
// one side of a channel or be used as scratch space by a single goroutine.
package buffer
