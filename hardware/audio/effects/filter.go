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
	"math"
	"strconv"
	"strings"
)

// FilterType is either a low-pass or high-pass filter.
type FilterType int

// List of valid FilterType values.
const (
	LowPass FilterType = iota
	HighPass
)

func (t FilterType) String() string {
	if t == HighPass {
		return "hpf"
	}
	return "lpf"
}

// Maximum order of a single filter stage.
const MaxFilterOrder = 16

// FilterStage is a single Butterworth filter of the given order.
type FilterStage struct {
	Type   FilterType
	Order  int
	Cutoff float64
}

func (s FilterStage) String() string {
	return fmt.Sprintf("%s %d %g", s.Type, s.Order, s.Cutoff)
}

// FilterDefinition is the parsed form of a filter setting. There is at most
// one stage of each type.
type FilterDefinition []FilterStage

func (d FilterDefinition) String() string {
	s := make([]string, len(d))
	for i := range d {
		s[i] = d[i].String()
	}
	return strings.Join(s, " ")
}

var filterPresets = map[string]string{
	"muffled":  "lpf 2 3000",
	"warm":     "hpf 1 40 lpf 2 8000",
	"tinny":    "hpf 2 500 lpf 1 6000",
	"dc-block": "hpf 1 20",
}

// FilterPresets returns the names of the filter presets.
func FilterPresets() []string {
	return []string{"muffled", "warm", "tinny", "dc-block"}
}

// ParseFilter converts a filter setting into a FilterDefinition. The setting
// can be the name of a preset or a custom definition of the form:
//
//	lpf <order> <cutoff> hpf <order> <cutoff>
//
// Either stage may be omitted. Order is in the range 1 to 16 and the cutoff
// frequency is in Hz.
//
// A disabled setting returns a nil definition and no error. The "auto" setting
// must be resolved by the caller before calling this function.
func ParseFilter(s string) (FilterDefinition, error) {
	if Disabled(s) {
		return nil, nil
	}

	n := normalise(s)
	if p, ok := filterPresets[n]; ok {
		n = p
	}

	f := strings.Fields(n)
	if len(f)%3 != 0 {
		if len(f) == 1 {
			return nil, fmt.Errorf("effects: %w: %s", ErrUnknownPreset, s)
		}
		return nil, fmt.Errorf("effects: %w: %s", ErrMalformedFilter, s)
	}

	var def FilterDefinition
	var seen [2]bool

	for i := 0; i < len(f); i += 3 {
		var stg FilterStage

		switch f[i] {
		case "lpf":
			stg.Type = LowPass
		case "hpf":
			stg.Type = HighPass
		default:
			return nil, fmt.Errorf("effects: %w: unknown filter type %q", ErrMalformedFilter, f[i])
		}
		if seen[stg.Type] {
			return nil, fmt.Errorf("effects: %w: repeated %s", ErrMalformedFilter, stg.Type)
		}
		seen[stg.Type] = true

		o, err := strconv.Atoi(f[i+1])
		if err != nil || o < 1 || o > MaxFilterOrder {
			return nil, fmt.Errorf("effects: %w: order %q", ErrMalformedFilter, f[i+1])
		}
		stg.Order = o

		c, err := strconv.ParseFloat(f[i+2], 64)
		if err != nil || c <= 0 {
			return nil, fmt.Errorf("effects: %w: cutoff %q", ErrMalformedFilter, f[i+2])
		}
		stg.Cutoff = c

		def = append(def, stg)
	}

	return def, nil
}

// section is a second-order (or first-order, with b2 and a2 of zero) IIR
// section in transposed direct form II
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// per channel state for a section
type state struct {
	z1, z2 float64
}

func (s *section) process(x float64, st *state) float64 {
	y := s.b0*x + st.z1
	st.z1 = s.b1*x - s.a1*y + st.z2
	st.z2 = s.b2*x - s.a2*y
	return y
}

// biquad coefficients from the RBJ audio EQ cookbook
func biquad(t FilterType, cutoff float64, q float64, rate float64) section {
	w0 := 2 * math.Pi * cutoff / rate
	cos := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	var s section
	switch t {
	case LowPass:
		s.b0 = (1 - cos) / 2
		s.b1 = 1 - cos
		s.b2 = (1 - cos) / 2
	case HighPass:
		s.b0 = (1 + cos) / 2
		s.b1 = -(1 + cos)
		s.b2 = (1 + cos) / 2
	}
	s.a1 = -2 * cos
	s.a2 = 1 - alpha

	s.b0 /= a0
	s.b1 /= a0
	s.b2 /= a0
	s.a1 /= a0
	s.a2 /= a0
	return s
}

// first order section from the bilinear transform
func firstOrder(t FilterType, cutoff float64, rate float64) section {
	k := math.Tan(math.Pi * cutoff / rate)
	var s section
	switch t {
	case LowPass:
		s.b0 = k / (1 + k)
		s.b1 = s.b0
	case HighPass:
		s.b0 = 1 / (1 + k)
		s.b1 = -s.b0
	}
	s.a1 = (k - 1) / (k + 1)
	return s
}

// butterworth returns the sections that make up a Butterworth filter of the
// given order
func butterworth(stg FilterStage, rate float64) []section {
	cutoff := min(stg.Cutoff, rate*0.49)

	var secs []section
	n := stg.Order
	for k := range n / 2 {
		q := 1 / (2 * math.Sin(math.Pi*float64(2*k+1)/float64(2*n)))
		secs = append(secs, biquad(stg.Type, cutoff, q, rate))
	}
	if n%2 == 1 {
		secs = append(secs, firstOrder(stg.Type, cutoff, rate))
	}
	return secs
}

// Filter is a cascade of IIR sections built from a FilterDefinition.
type Filter struct {
	def      FilterDefinition
	channels int
	sections []section

	// state for each section for each channel. indexed by
	// section*channels+channel
	states []state
}

// NewFilter creates a Filter for the definition, channel count and sample
// rate. Returns nil if the definition is empty.
func NewFilter(def FilterDefinition, channels int, rate int) *Filter {
	if len(def) == 0 {
		return nil
	}

	f := &Filter{
		def:      def,
		channels: channels,
	}
	for _, stg := range def {
		f.sections = append(f.sections, butterworth(stg, float64(rate))...)
	}
	f.states = make([]state, len(f.sections)*channels)
	return f
}

func (f *Filter) String() string {
	return fmt.Sprintf("filter (%s)", f.def)
}

// Definition returns the definition the filter was built from.
func (f *Filter) Definition() FilterDefinition {
	return f.def
}

// Process implements the Unit interface.
func (f *Filter) Process(samples []float32, channels int) {
	if channels != f.channels {
		return
	}
	for i := 0; i+channels <= len(samples); i += channels {
		for c := range channels {
			x := float64(samples[i+c])
			for s := range f.sections {
				x = f.sections[s].process(x, &f.states[s*channels+c])
			}
			samples[i+c] = float32(x)
		}
	}
}

// Reset implements the Unit interface.
func (f *Filter) Reset() {
	clear(f.states)
}
