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
	"fmt"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	resampler "github.com/tphakala/go-audio-resampler"
)

// the subset of the float32 engine used by the sinc resampler
type engine interface {
	Process([]float32) ([]float32, error)
}

// sinc uses a polyphase FIR engine for each channel. samples are deinterleaved
// before processing and interleaved again afterwards
type sinc struct {
	channels int
	inRate   int
	outRate  int

	engines []engine

	// per channel scratch space for deinterleaved input
	planar [][]float32

	// per channel output from the most recent call to Process(). an engine
	// may produce a different number of frames for each channel in which
	// case the surplus is kept for the next call
	pending [][]float32

	// the first error returned by an engine. once set the resampler copies
	// its input to its output unchanged
	err error
}

func newSinc(channels int, inRate int, outRate int) (*sinc, error) {
	r := &sinc{
		channels: channels,
		inRate:   inRate,
		outRate:  outRate,
		planar:   make([][]float32, channels),
		pending:  make([][]float32, channels),
	}
	for range channels {
		e, err := resampler.NewEngineFloat32(float64(inRate), float64(outRate), resampler.QualityMedium)
		if err != nil {
			return nil, fmt.Errorf("resample: %w: %w", ErrAllocation, err)
		}
		r.engines = append(r.engines, e)
	}
	return r, nil
}

func (r *sinc) Algorithm() Algorithm {
	return Sinc
}

// Reset discards buffered output. The history inside the engines can not be
// cleared without creating new engines so it is kept. A clean start requires
// a new resampler
func (r *sinc) Reset() {
	for c := range r.pending {
		r.pending[c] = r.pending[c][:0]
	}
}

func (r *sinc) Err() error {
	return r.err
}

func (r *sinc) Process(in []float32, out *buffer.Buffer) int {
	ch := r.channels
	n := len(in) / ch
	if n == 0 {
		return 0
	}

	if r.err != nil {
		copy(out.Grow(n), in[:n*ch])
		return n
	}

	for c := range ch {
		p := r.planar[c][:0]
		for i := range n {
			p = append(p, in[i*ch+c])
		}
		r.planar[c] = p

		o, err := r.engines[c].Process(p)
		if err != nil {
			// the channels can no longer be kept in step
			r.err = fmt.Errorf("resample: channel %d: %w", c, err)
			r.Reset()
			copy(out.Grow(n), in[:n*ch])
			return n
		}
		r.pending[c] = append(r.pending[c], o...)
	}

	k := len(r.pending[0])
	for c := 1; c < ch; c++ {
		k = min(k, len(r.pending[c]))
	}
	if k == 0 {
		return 0
	}

	g := out.Grow(k)
	for c := range ch {
		for i := range k {
			g[i*ch+c] = r.pending[c][i]
		}
		r.pending[c] = r.pending[c][:copy(r.pending[c], r.pending[c][k:])]
	}

	return k
}
