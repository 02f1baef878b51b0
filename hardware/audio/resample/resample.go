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

// Package resample converts canonical sample data from one rate to another.
// Three algorithms are available: Sinc (band-limited, highest quality),
// Linear (interpolation between neighbouring frames) and Hold (zero-order
// hold, sometimes called nearest neighbour).
//
// Resamplers are streaming. Input can be delivered in blocks of any length
// and fractional positions are carried from one block to the next. The total
// number of output frames produced over time converges on the input frames
// multiplied by the rate ratio but any single call to Process() may produce
// fewer or more frames than that ratio suggests.
package resample

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
)

// Algorithm selects the resampling method.
type Algorithm int

// List of valid Algorithm values.
const (
	Sinc Algorithm = iota
	Linear
	Hold
)

func (a Algorithm) String() string {
	switch a {
	case Sinc:
		return "sinc"
	case Linear:
		return "linear"
	case Hold:
		return "hold"
	}
	return "unknown algorithm"
}

// Sentinel errors.
var (
	ErrUnknownAlgorithm = errors.New("unknown resampling algorithm")
	ErrAllocation       = errors.New("resampler allocation failed")
)

// ParseAlgorithm converts a string to an Algorithm. The string "auto" is
// accepted and returns the default algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sinc", "auto", "":
		return Sinc, nil
	case "linear":
		return Linear, nil
	case "hold", "none":
		return Hold, nil
	}
	return Sinc, fmt.Errorf("resample: %w: %s", ErrUnknownAlgorithm, s)
}

// Resampler implementations convert interleaved canonical samples from one
// rate to another.
type Resampler interface {
	// Process converts the interleaved samples in the input slice and
	// appends the result to the output buffer. The output buffer must be in
	// the canonical encoding with the same number of channels as the
	// resampler. Returns the number of frames appended.
	Process(in []float32, out *buffer.Buffer) int

	// Reset clears buffered output and, where it can be done without
	// allocation, the history of the filter. Reset is called by the audio
	// goroutine so it must not allocate.
	Reset()

	// Err returns the error that caused the resampler to degrade to
	// pass-through. Returns nil if the resampler is working normally.
	Err() error

	// Algorithm returns the algorithm actually in use. This can differ from
	// the requested algorithm if the input and output rates are the same.
	Algorithm() Algorithm
}

// New creates a Resampler for the number of channels and the two rates. If
// the two rates are the same a pass-through resampler is returned, regardless
// of the requested algorithm.
func New(alg Algorithm, channels int, inRate int, outRate int) (Resampler, error) {
	if channels < 1 || channels > buffer.MaxChannels {
		return nil, fmt.Errorf("resample: %w: %d channels", buffer.ErrInvalidFormat, channels)
	}
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("resample: %w: %dHz to %dHz", buffer.ErrInvalidFormat, inRate, outRate)
	}

	if inRate == outRate {
		return &passthrough{channels: channels, alg: alg}, nil
	}

	switch alg {
	case Sinc:
		return newSinc(channels, inRate, outRate)
	case Linear:
		return newLinear(channels, inRate, outRate), nil
	case Hold:
		return newHold(channels, inRate, outRate), nil
	}

	return nil, fmt.Errorf("resample: %w: %d", ErrUnknownAlgorithm, alg)
}

// NewPassthrough returns a Resampler that copies its input to its output
// without modification. Used when a real resampler can not be created, in
// which case the reason is returned by the Err() function of the resampler.
func NewPassthrough(channels int, cause error) Resampler {
	return &passthrough{channels: channels, alg: Hold, err: cause}
}

type passthrough struct {
	channels int
	alg      Algorithm
	err      error
}

func (r *passthrough) Process(in []float32, out *buffer.Buffer) int {
	n := len(in) / r.channels
	copy(out.Grow(n), in[:n*r.channels])
	return n
}

func (r *passthrough) Reset() {}

func (r *passthrough) Err() error {
	return r.err
}

func (r *passthrough) Algorithm() Algorithm {
	return r.alg
}
