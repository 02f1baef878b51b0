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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors.
var (
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrMalformedFilter = errors.New("malformed filter definition")
	ErrBadGain         = errors.New("bad gain value")
)

// Unit is implemented by every effect.
type Unit interface {
	// Process the interleaved samples in place.
	Process(samples []float32, channels int)

	// Reset clears all history.
	Reset()
}

// Disabled returns true if the setting turns the unit off.
func Disabled(s string) bool {
	switch normalise(s) {
	case "", "none", "off":
		return true
	}
	return false
}

// Auto returns true if the setting asks for the device default.
func Auto(s string) bool {
	switch normalise(s) {
	case "auto", "on":
		return true
	}
	return false
}

func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// splitGain separates a "preset,gain" setting into its two parts. the gain is
// a percentage and defaults to 100
func splitGain(s string) (string, float64, error) {
	name, gain, found := strings.Cut(s, ",")
	name = normalise(name)
	if !found {
		return name, 1.0, nil
	}

	g, err := strconv.ParseFloat(strings.TrimSpace(gain), 64)
	if err != nil || g < 0 || g > 400 {
		return name, 1.0, fmt.Errorf("effects: %w: %s", ErrBadGain, gain)
	}
	return name, g / 100, nil
}

// Chain is the complete set of effects for a channel. Units that are nil are
// skipped.
type Chain struct {
	Filter    *Filter
	Crossfeed *Crossfeed
	Chorus    *Chorus
	Reverb    *Reverb
}

// Process runs every unit in the chain in order.
func (c *Chain) Process(samples []float32, channels int) {
	if c == nil {
		return
	}
	if c.Filter != nil {
		c.Filter.Process(samples, channels)
	}
	if c.Crossfeed != nil {
		c.Crossfeed.Process(samples, channels)
	}
	if c.Chorus != nil {
		c.Chorus.Process(samples, channels)
	}
	if c.Reverb != nil {
		c.Reverb.Process(samples, channels)
	}
}

// Reset clears the history of every unit in the chain.
func (c *Chain) Reset() {
	if c == nil {
		return
	}
	if c.Filter != nil {
		c.Filter.Reset()
	}
	if c.Crossfeed != nil {
		c.Crossfeed.Reset()
	}
	if c.Chorus != nil {
		c.Chorus.Reset()
	}
	if c.Reverb != nil {
		c.Reverb.Reset()
	}
}

// Empty returns true if there are no units in the chain.
func (c *Chain) Empty() bool {
	return c == nil || (c.Filter == nil && c.Crossfeed == nil && c.Chorus == nil && c.Reverb == nil)
}

func (c *Chain) String() string {
	if c.Empty() {
		return "no effects"
	}
	var s []string
	if c.Filter != nil {
		s = append(s, c.Filter.String())
	}
	if c.Crossfeed != nil {
		s = append(s, c.Crossfeed.String())
	}
	if c.Chorus != nil {
		s = append(s, c.Chorus.String())
	}
	if c.Reverb != nil {
		s = append(s, c.Reverb.String())
	}
	return strings.Join(s, ", ")
}
