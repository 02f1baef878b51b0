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

package resample

import (
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
)

// hold outputs the most recent input frame for every output frame
type hold struct {
	channels int
	ratio    float64
	pos      float64
}

func newHold(channels int, inRate int, outRate int) *hold {
	return &hold{
		channels: channels,
		ratio:    float64(inRate) / float64(outRate),
	}
}

func (r *hold) Algorithm() Algorithm {
	return Hold
}

func (r *hold) Reset() {
	r.pos = 0
}

func (r *hold) Err() error {
	return nil
}

func (r *hold) Process(in []float32, out *buffer.Buffer) int {
	ch := r.channels
	n := len(in) / ch
	if n == 0 {
		return 0
	}

	start := out.Frames()
	g := out.Grow(int(float64(n)/r.ratio) + 2)

	var k int
	for r.pos < float64(n) && (k+1)*ch <= len(g) {
		i := int(r.pos)
		copy(g[k*ch:(k+1)*ch], in[i*ch:(i+1)*ch])
		k++
		r.pos += r.ratio
	}

	r.pos -= float64(n)
	out.Truncate(start + k)

	return k
}
