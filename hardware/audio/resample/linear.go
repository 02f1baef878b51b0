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

// linear interpolates between the previous and next input frame. the last
// frame of each block is remembered so that interpolation is continuous
// across block boundaries
type linear struct {
	channels int

	// number of input frames to advance for every output frame
	ratio float64

	// position of the next output frame. a position of zero refers to the
	// previous frame and a position of one refers to the first frame of the
	// current block
	pos float64

	prev []float32
}

func newLinear(channels int, inRate int, outRate int) *linear {
	return &linear{
		channels: channels,
		ratio:    float64(inRate) / float64(outRate),
		prev:     make([]float32, channels),
	}
}

func (r *linear) Algorithm() Algorithm {
	return Linear
}

func (r *linear) Reset() {
	r.pos = 0
	clear(r.prev)
}

func (r *linear) Err() error {
	return nil
}

func (r *linear) Process(in []float32, out *buffer.Buffer) int {
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
		frac := float32(r.pos - float64(i))

		var a []float32
		if i == 0 {
			a = r.prev
		} else {
			a = in[(i-1)*ch : i*ch]
		}
		b := in[i*ch : (i+1)*ch]

		for c := range ch {
			g[k*ch+c] = a[c] + (b[c]-a[c])*frac
		}

		k++
		r.pos += r.ratio
	}

	r.pos -= float64(n)
	copy(r.prev, in[(n-1)*ch:n*ch])
	out.Truncate(start + k)

	return k
}
