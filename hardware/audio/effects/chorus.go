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

// ChorusParams are the settings for a Chorus unit.
type ChorusParams struct {
	Mix     float64
	Depth   float64
	SpeedHz float64
	Stages  int
}

var chorusPresets = map[string]ChorusParams{
	"light":  {Mix: 0.25, Depth: 0.002, SpeedHz: 0.3, Stages: 2},
	"normal": {Mix: 0.4, Depth: 0.004, SpeedHz: 0.5, Stages: 3},
	"strong": {Mix: 0.6, Depth: 0.007, SpeedHz: 0.8, Stages: 4},
}

// ChorusPresets returns the names of the chorus presets.
func ChorusPresets() []string {
	return []string{"light", "normal", "strong"}
}

// ParseChorus converts a chorus setting of the form "preset[,gain]" into
// ChorusParams. The gain is a percentage that scales the wet mix. The second
// return value is false if the setting disables the chorus.
func ParseChorus(s string) (ChorusParams, bool, error) {
	if Disabled(s) {
		return ChorusParams{}, false, nil
	}

	name, gain, err := splitGain(s)
	if err != nil {
		return ChorusParams{}, false, err
	}

	p, ok := chorusPresets[name]
	if !ok {
		return ChorusParams{}, false, fmt.Errorf("effects: %w: chorus %s", ErrUnknownPreset, s)
	}
	p.Mix = min(p.Mix*gain, 1.0)

	return p, true, nil
}

// Chorus is a modulated delay effect. Each side of the signal has its own
// chorus kernel.
type Chorus struct {
	params  ChorusParams
	kernels []*dsp.Chorus
}

// NewChorus creates a Chorus unit for the channel count and sample rate.
func NewChorus(params ChorusParams, channels int, rate int) (*Chorus, error) {
	c := &Chorus{params: params}

	for range channels {
		k := dsp.NewChorus()
		if err := k.SetSampleRate(float64(rate)); err != nil {
			return nil, fmt.Errorf("effects: chorus: %w", err)
		}
		if err := k.SetMix(params.Mix); err != nil {
			return nil, fmt.Errorf("effects: chorus: %w", err)
		}
		if err := k.SetDepth(params.Depth); err != nil {
			return nil, fmt.Errorf("effects: chorus: %w", err)
		}
		if err := k.SetSpeedHz(params.SpeedHz); err != nil {
			return nil, fmt.Errorf("effects: chorus: %w", err)
		}
		if err := k.SetStages(params.Stages); err != nil {
			return nil, fmt.Errorf("effects: chorus: %w", err)
		}
		c.kernels = append(c.kernels, k)
	}

	return c, nil
}

func (c *Chorus) String() string {
	return fmt.Sprintf("chorus (mix %.2f)", c.params.Mix)
}

// Process implements the Unit interface.
func (c *Chorus) Process(samples []float32, channels int) {
	if channels != len(c.kernels) {
		return
	}
	for i := 0; i+channels <= len(samples); i += channels {
		for ch, k := range c.kernels {
			samples[i+ch] = float32(k.ProcessSample(float64(samples[i+ch])))
		}
	}
}

// Reset implements the Unit interface.
func (c *Chorus) Reset() {
	for _, k := range c.kernels {
		k.Reset()
	}
}
