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
	"strconv"
)

// the maximum strength of a crossfeed. at this strength both sides of the
// output are identical
const maxCrossfeed = 0.5

var crossfeedPresets = map[string]float64{
	"light":  0.15,
	"normal": 0.30,
	"strong": 0.45,
}

// CrossfeedPresets returns the names of the crossfeed presets.
func CrossfeedPresets() []string {
	return []string{"light", "normal", "strong"}
}

// ParseCrossfeed converts a crossfeed setting to a strength value. The setting
// is either the name of a preset or a number between 0 and 100, which is the
// percentage of the maximum strength. A disabled setting returns zero.
func ParseCrossfeed(s string) (float64, error) {
	if Disabled(s) {
		return 0, nil
	}

	n := normalise(s)
	if v, ok := crossfeedPresets[n]; ok {
		return v, nil
	}

	v, err := strconv.ParseFloat(n, 64)
	if err != nil || v < 0 || v > 100 {
		return 0, fmt.Errorf("effects: %w: crossfeed %s", ErrUnknownPreset, s)
	}
	return v / 100 * maxCrossfeed, nil
}

// Crossfeed blends some of each side of a stereo signal into the other side.
// It has no effect on mono signals.
type Crossfeed struct {
	strength float32
}

// NewCrossfeed creates a crossfeed unit of the given strength. Returns nil if
// the strength is zero.
func NewCrossfeed(strength float64) *Crossfeed {
	if strength <= 0 {
		return nil
	}
	return &Crossfeed{strength: float32(min(strength, maxCrossfeed))}
}

func (x *Crossfeed) String() string {
	return fmt.Sprintf("crossfeed (%.2f)", x.strength)
}

// Process implements the Unit interface.
func (x *Crossfeed) Process(samples []float32, channels int) {
	if channels != 2 {
		return
	}
	s := x.strength
	for i := 0; i+1 < len(samples); i += 2 {
		l := samples[i]
		r := samples[i+1]
		samples[i] = (1-s)*l + s*r
		samples[i+1] = (1-s)*r + s*l
	}
}

// Reset implements the Unit interface. Crossfeed has no history.
func (x *Crossfeed) Reset() {
}
