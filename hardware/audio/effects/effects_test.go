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

package effects_test

import (
	"errors"
	"math"
	"testing"

	"github.com/jetsetilly/gophermix/hardware/audio/effects"
	"github.com/jetsetilly/gophermix/test"
)

func TestParseFilter(t *testing.T) {
	def, err := effects.ParseFilter("hpf 1 120 lpf 2 6000")
	test.DemandSuccess(t, err == nil)
	test.ExpectEquality(t, len(def), 2)
	test.ExpectEquality(t, def[0].Type, effects.HighPass)
	test.ExpectEquality(t, def[1].Order, 2)
	test.ExpectEquality(t, def[1].Cutoff, 6000.0)
	test.ExpectEquality(t, def.String(), "hpf 1 120 lpf 2 6000")

	def, err = effects.ParseFilter("Warm")
	test.DemandSuccess(t, err == nil)
	test.ExpectEquality(t, def.String(), "hpf 1 40 lpf 2 8000")

	for _, s := range []string{"none", "off", ""} {
		def, err = effects.ParseFilter(s)
		test.ExpectSuccess(t, err == nil, s)
		test.ExpectEquality(t, len(def), 0, s)
	}

	_, err = effects.ParseFilter("bright")
	test.ExpectSuccess(t, errors.Is(err, effects.ErrUnknownPreset))

	for _, s := range []string{
		"lpf 2",
		"bpf 2 1000",
		"lpf 17 1000",
		"lpf 0 1000",
		"lpf 2 -5",
		"lpf 2 1000 lpf 4 2000",
	} {
		_, err = effects.ParseFilter(s)
		test.ExpectSuccess(t, errors.Is(err, effects.ErrMalformedFilter), s)
	}
}

func sine(freq float64, rate int, frames int) []float32 {
	s := make([]float32, frames)
	for i := range s {
		s[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(rate)))
	}
	return s
}

func rms(s []float32) float64 {
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

func TestButterworthResponse(t *testing.T) {
	const rate = 48000

	for _, order := range []int{1, 2, 3, 4, 7} {
		def := effects.FilterDefinition{{Type: effects.LowPass, Order: order, Cutoff: 1000}}

		// the response at the cutoff frequency is -3dB for every order
		f := effects.NewFilter(def, 1, rate)
		s := sine(1000, rate, rate)
		f.Process(s, 1)
		test.ExpectApproximate(t, rms(s[rate/2:]), 1/math.Sqrt2/math.Sqrt2, 0.02, order)

		// unity gain at DC
		f = effects.NewFilter(def, 1, rate)
		dc := make([]float32, rate/2)
		for i := range dc {
			dc[i] = 0.5
		}
		f.Process(dc, 1)
		test.ExpectApproximate(t, dc[len(dc)-1], 0.5, 0.001, order)

		// well into the stop band
		f = effects.NewFilter(def, 1, rate)
		s = sine(16000, rate, rate/4)
		f.Process(s, 1)
		test.ExpectSuccess(t, rms(s[len(s)/2:]) < 0.1, order)
	}
}

func TestHighPassBlocksDC(t *testing.T) {
	def, err := effects.ParseFilter("dc-block")
	test.DemandSuccess(t, err == nil)

	f := effects.NewFilter(def, 2, 48000)
	dc := make([]float32, 48000*2)
	for i := range dc {
		dc[i] = 0.5
	}
	f.Process(dc, 2)
	test.ExpectApproximate(t, dc[len(dc)-1], 0.0, 0.001)
	test.ExpectApproximate(t, dc[len(dc)-2], 0.0, 0.001)
}

func TestFilterReset(t *testing.T) {
	def, _ := effects.ParseFilter("lpf 4 2000")
	f := effects.NewFilter(def, 1, 44100)

	a := sine(500, 44100, 256)
	f.Process(a, 1)

	f.Reset()
	b := sine(500, 44100, 256)
	f.Process(b, 1)

	for i := range a {
		test.ExpectEquality(t, a[i], b[i])
	}

	// channel count mismatch leaves the samples untouched
	c := []float32{1, 1}
	f.Process(c, 2)
	test.ExpectEquality(t, c[0], float32(1))
}

func TestCrossfeed(t *testing.T) {
	v, err := effects.ParseCrossfeed("normal")
	test.DemandSuccess(t, err == nil)
	test.ExpectEquality(t, v, 0.30)

	v, err = effects.ParseCrossfeed("50")
	test.DemandSuccess(t, err == nil)
	test.ExpectEquality(t, v, 0.25)

	_, err = effects.ParseCrossfeed("loud")
	test.ExpectSuccess(t, errors.Is(err, effects.ErrUnknownPreset))

	x := effects.NewCrossfeed(0.3)
	s := []float32{1, 0, 0, 1}
	x.Process(s, 2)
	test.ExpectApproximate(t, s[0], 0.7, 0.0001)
	test.ExpectApproximate(t, s[1], 0.3, 0.0001)
	test.ExpectApproximate(t, s[2], 0.3, 0.0001)
	test.ExpectApproximate(t, s[3], 0.7, 0.0001)

	m := []float32{1, 0}
	x.Process(m, 1)
	test.ExpectEquality(t, m[0], float32(1))

	test.ExpectSuccess(t, effects.NewCrossfeed(0) == nil)
}

func TestParseGain(t *testing.T) {
	p, ok, err := effects.ParseReverb("large,50")
	test.DemandSuccess(t, err == nil)
	test.ExpectSuccess(t, ok)
	test.ExpectApproximate(t, p.Wet, 0.15, 0.0001)

	_, ok, err = effects.ParseReverb("none")
	test.ExpectSuccess(t, err == nil)
	test.ExpectFailure(t, ok)

	_, _, err = effects.ParseReverb("large,abc")
	test.ExpectSuccess(t, errors.Is(err, effects.ErrBadGain))

	_, _, err = effects.ParseChorus("enormous")
	test.ExpectSuccess(t, errors.Is(err, effects.ErrUnknownPreset))

	c, ok, err := effects.ParseChorus("light,200")
	test.DemandSuccess(t, err == nil)
	test.ExpectSuccess(t, ok)
	test.ExpectApproximate(t, c.Mix, 0.5, 0.0001)
}

func TestBuild(t *testing.T) {
	defaults := effects.Settings{Filter: "muffled", Crossfeed: "none", Chorus: "none", Reverb: "none"}

	c, err := effects.Build(effects.Settings{Filter: "auto", Crossfeed: "light"}, defaults, 2, 48000)
	test.DemandSuccess(t, err == nil)
	test.ExpectSuccess(t, c.Filter != nil)
	test.ExpectEquality(t, c.Filter.Definition().String(), "lpf 2 3000")
	test.ExpectSuccess(t, c.Crossfeed != nil)
	test.ExpectSuccess(t, c.Chorus == nil)
	test.ExpectFailure(t, c.Empty())

	// crossfeed is never built for mono
	c, err = effects.Build(effects.Settings{Crossfeed: "strong"}, defaults, 1, 48000)
	test.DemandSuccess(t, err == nil)
	test.ExpectSuccess(t, c.Crossfeed == nil)
	test.ExpectSuccess(t, c.Empty())

	// a bad setting is left out of the chain but the rest is built
	c, err = effects.Build(effects.Settings{Filter: "lpf x 100", Crossfeed: "normal"}, defaults, 2, 48000)
	test.ExpectSuccess(t, errors.Is(err, effects.ErrMalformedFilter))
	test.ExpectSuccess(t, c.Filter == nil)
	test.ExpectSuccess(t, c.Crossfeed != nil)

	test.ExpectSuccess(t, effects.Validate(effects.Settings{Filter: "auto", Reverb: "small,80"}) == nil)
	test.ExpectFailure(t, effects.Validate(effects.Settings{Reverb: "cavern"}) == nil)
}

func TestChorusReverbSilence(t *testing.T) {
	c, err := effects.Build(effects.Settings{Chorus: "normal", Reverb: "medium"}, effects.Settings{}, 2, 48000)
	test.DemandSuccess(t, err == nil)
	test.DemandSuccess(t, c.Chorus != nil)
	test.DemandSuccess(t, c.Reverb != nil)

	// silence in, silence out
	s := make([]float32, 4800*2)
	c.Process(s, 2)
	for _, v := range s {
		test.ExpectApproximate(t, v, 0.0, 0.000001)
	}

	// an impulse produces a reverb tail
	s[0] = 1.0
	s[1] = 1.0
	c.Process(s, 2)
	var tail bool
	for _, v := range s[2000:] {
		if v != 0 {
			tail = true
			break
		}
	}
	test.ExpectSuccess(t, tail)

	c.Reset()
}
