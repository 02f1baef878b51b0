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

package effects

import (
	"fmt"

	dsp "github.com/cwbudde/algo-dsp/dsp/effects"
)

// ReverbParams are the settings for a Reverb unit.
type ReverbParams struct {
	RoomSize float64
	Damp     float64
	Wet      float64
	Dry      float64
	Gain     float64
}

var reverbPresets = map[string]ReverbParams{
	"tiny":   {RoomSize: 0.2, Damp: 0.7, Wet: 0.15, Dry: 1.0, Gain: 0.015},
	"small":  {RoomSize: 0.4, Damp: 0.6, Wet: 0.2, Dry: 1.0, Gain: 0.015},
	"medium": {RoomSize: 0.6, Damp: 0.5, Wet: 0.25, Dry: 0.95, Gain: 0.015},
	"large":  {RoomSize: 0.8, Damp: 0.4, Wet: 0.3, Dry: 0.9, Gain: 0.015},
	"huge":   {RoomSize: 0.95, Damp: 0.3, Wet: 0.4, Dry: 0.85, Gain: 0.015},
}

// ReverbPresets returns the names of the reverb presets.
func ReverbPresets() []string {
	return []string{"tiny", "small", "medium", "large", "huge"}
}

// ParseReverb converts a reverb setting of the form "preset[,gain]" into
// ReverbParams. The gain is a percentage that scales the wet level. The second
// return value is false if the setting disables the reverb.
func ParseReverb(s string) (ReverbParams, bool, error) {
	if Disabled(s) {
		return ReverbParams{}, false, nil
	}

	name, gain, err := splitGain(s)
	if err != nil {
		return ReverbParams{}, false, err
	}

	p, ok := reverbPresets[name]
	if !ok {
		return ReverbParams{}, false, fmt.Errorf("effects: %w: reverb %s", ErrUnknownPreset, s)
	}
	p.Wet = min(p.Wet*gain, 1.5)

	return p, true, nil
}

// Reverb is an algorithmic reverb. Each side of the signal has its own reverb
// kernel.
type Reverb struct {
	params  ReverbParams
	kernels []*dsp.Reverb
}

// NewReverb creates a Reverb unit for the channel count.
func NewReverb(params ReverbParams, channels int) *Reverb {
	r := &Reverb{params: params}

	for range channels {
		k := dsp.NewReverb()
		k.SetRoomSize(params.RoomSize)
		k.SetDamp(params.Damp)
		k.SetWet(params.Wet)
		k.SetDry(params.Dry)
		k.SetGain(params.Gain)
		r.kernels = append(r.kernels, k)
	}

	return r
}

func (r *Reverb) String() string {
	return fmt.Sprintf("reverb (room %.2f)", r.params.RoomSize)
}

// Process implements the Unit interface.
func (r *Reverb) Process(samples []float32, channels int) {
	if channels != len(r.kernels) {
		return
	}
	for i := 0; i+channels <= len(samples); i += channels {
		for ch, k := range r.kernels {
			samples[i+ch] = float32(k.ProcessSample(float64(samples[i+ch])))
		}
	}
}

// Reset implements the Unit interface.
func (r *Reverb) Reset() {
	for _, k := range r.kernels {
		k.Reset()
	}
}
