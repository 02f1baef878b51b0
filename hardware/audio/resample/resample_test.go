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

package resample_test

import (
	"errors"
	"math"
	"testing"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/resample"
	"github.com/jetsetilly/gophermix/test"
)

func sine(freq float64, rate int, frames int, amplitude float64) []float32 {
	s := make([]float32, frames)
	for i := range s {
		s[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return s
}

// process the input in blocks of the given size and return the output
func processBlocks(r resample.Resampler, in []float32, block int, outRate int) *buffer.Buffer {
	out := buffer.New(buffer.Canonical(1, outRate), 0)
	for i := 0; i < len(in); i += block {
		r.Process(in[i:min(i+block, len(in))], out)
	}
	return out
}

func TestParseAlgorithm(t *testing.T) {
	a, err := resample.ParseAlgorithm("linear")
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, a, resample.Linear)

	a, err = resample.ParseAlgorithm(" Sinc ")
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, a, resample.Sinc)

	a, _ = resample.ParseAlgorithm("auto")
	test.ExpectEquality(t, a, resample.Sinc)

	a, _ = resample.ParseAlgorithm("hold")
	test.ExpectEquality(t, a.String(), "hold")

	_, err = resample.ParseAlgorithm("cubic")
	test.ExpectSuccess(t, errors.Is(err, resample.ErrUnknownAlgorithm))
}

func TestPassthrough(t *testing.T) {
	r, err := resample.New(resample.Linear, 2, 44100, 44100)
	test.DemandSuccess(t, err == nil)

	out := buffer.New(buffer.Canonical(2, 44100), 0)
	n := r.Process([]float32{0.1, 0.2, 0.3, 0.4}, out)
	test.ExpectEquality(t, n, 2)
	test.ExpectEquality(t, out.Data()[3], float32(0.4))
	test.ExpectSuccess(t, r.Err() == nil)

	_, err = resample.New(resample.Linear, 3, 44100, 48000)
	test.ExpectFailure(t, err == nil)

	// a pass-through standing in for a resampler that could not be created
	// reports why
	_, err = resample.New(resample.Algorithm(99), 1, 22050, 48000)
	test.DemandSuccess(t, errors.Is(err, resample.ErrUnknownAlgorithm))
	r = resample.NewPassthrough(1, err)
	test.ExpectSuccess(t, errors.Is(r.Err(), resample.ErrUnknownAlgorithm))
	out = buffer.New(buffer.Canonical(1, 48000), 0)
	test.ExpectEquality(t, r.Process([]float32{0.5, 0.25}, out), 2)
}

func TestFrameCount(t *testing.T) {
	for _, alg := range []resample.Algorithm{resample.Linear, resample.Hold} {
		r, err := resample.New(alg, 1, 22050, 48000)
		test.DemandSuccess(t, err == nil)

		// one second of input in awkward block sizes
		in := make([]float32, 22050)
		out := processBlocks(r, in, 441, 48000)
		test.ExpectApproximate(t, out.Frames(), 48000, 1, alg)

		// downsampling
		r, _ = resample.New(alg, 2, 48000, 44100)
		in = make([]float32, 48000*2)
		out = buffer.New(buffer.Canonical(2, 44100), 0)
		for i := 0; i < len(in); i += 960 {
			r.Process(in[i:i+960], out)
		}
		test.ExpectApproximate(t, out.Frames(), 44100, 1, alg)
	}
}

func TestLinearRoundTrip(t *testing.T) {
	const amplitude = 0.5
	in := sine(1000, 48000, 48000, amplitude)

	down, err := resample.New(resample.Linear, 1, 48000, 44100)
	test.DemandSuccess(t, err == nil)
	mid := processBlocks(down, in, 480, 44100)

	up, err := resample.New(resample.Linear, 1, 44100, 48000)
	test.DemandSuccess(t, err == nil)
	out := processBlocks(up, mid.Data(), 441, 48000)

	// each linear stage delays the signal by one input frame
	delay := 1.0 + 48000.0/44100.0

	var sum float64
	var count int
	for k := 100; k < out.Frames()-100; k++ {
		expected := amplitude * math.Sin(2*math.Pi*1000*(float64(k)-delay)/48000)
		d := float64(out.Data()[k]) - expected
		sum += d * d
		count++
	}
	rms := math.Sqrt(sum / float64(count))
	test.ExpectApproximate(t, rms, 0.0, 0.01)
}

func rms(s []float32) float64 {
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

func TestSincRoundTrip(t *testing.T) {
	const amplitude = 0.5
	in := sine(1000, 48000, 48000, amplitude)

	down, err := resample.New(resample.Sinc, 1, 48000, 44100)
	test.DemandSuccess(t, err == nil)
	test.ExpectEquality(t, down.Algorithm(), resample.Sinc)
	mid := processBlocks(down, in, 480, 44100)

	up, err := resample.New(resample.Sinc, 1, 44100, 48000)
	test.DemandSuccess(t, err == nil)
	out := processBlocks(up, mid.Data(), 441, 48000)

	// the engine introduces latency so only the steady state in the second
	// half of the output is measured
	test.DemandSuccess(t, out.Frames() > 24000)
	steady := out.Data()[out.Frames()/2:]
	test.ExpectApproximate(t, rms(steady), amplitude/math.Sqrt2, 0.02)
}

func TestReset(t *testing.T) {
	r, _ := resample.New(resample.Linear, 1, 8000, 16000)
	out := buffer.New(buffer.Canonical(1, 16000), 0)

	r.Process([]float32{1, 1, 1, 1}, out)
	r.Reset()
	out.Clear()

	// after a reset the first output frame interpolates from silence again
	r.Process([]float32{1, 1}, out)
	test.ExpectEquality(t, out.Data()[0], float32(0))
}
