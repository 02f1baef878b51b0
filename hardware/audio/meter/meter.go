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

// Package meter implements a VU meter for canonical sample data. The meter
// follows the peak level of each side of the signal. It rises instantly and
// decays over a configurable time.
//
// Update() is called by the audio goroutine. The Peaks(), PeaksDB() and
// Clips() functions can be called from any goroutine.
package meter

import (
	"math"
	"sync/atomic"
	"time"
)

// MinDB is the level reported for silence.
const MinDB = -60.0

// DefaultDecay is the time taken for the meter to fall by 20dB.
const DefaultDecay = 300 * time.Millisecond

// VU is a peak meter with an instant attack and an exponential decay.
type VU struct {
	decay time.Duration

	// decay coefficient per frame and the rate it was calculated for
	coef float64
	rate int

	// envelope for each side. only accessed by Update()
	env [2]float64

	// published values for reading from other goroutines. float32 bits
	left  atomic.Uint32
	right atomic.Uint32
	clips atomic.Uint64
}

// NewVU is the preferred method of initialisation for the VU type.
func NewVU(decay time.Duration) *VU {
	if decay <= 0 {
		decay = DefaultDecay
	}
	return &VU{decay: decay}
}

func (m *VU) coefficient(rate int) float64 {
	if rate != m.rate {
		m.rate = rate
		m.coef = math.Pow(0.1, 1/(m.decay.Seconds()*float64(rate)))
	}
	return m.coef
}

// Update the meter with a block of interleaved samples. Mono samples update
// both sides of the meter.
func (m *VU) Update(samples []float32, channels int, rate int) {
	if channels < 1 || rate <= 0 {
		return
	}

	frames := len(samples) / channels
	fall := math.Pow(m.coefficient(rate), float64(frames))

	var peak [2]float64
	var clips uint64
	for i := 0; i+channels <= len(samples); i += channels {
		for c := range channels {
			v := math.Abs(float64(samples[i+c]))
			if v >= 1.0 {
				clips++
			}
			if v > peak[c] {
				peak[c] = v
			}
		}
	}
	if channels == 1 {
		peak[1] = peak[0]
	}

	for c := range m.env {
		m.env[c] = max(peak[c], m.env[c]*fall)
	}

	m.left.Store(math.Float32bits(float32(m.env[0])))
	m.right.Store(math.Float32bits(float32(m.env[1])))
	if clips > 0 {
		m.clips.Add(clips)
	}
}

// Peaks returns the current level of each side in the range 0.0 to 1.0 (or
// higher if the signal is clipping).
func (m *VU) Peaks() (float32, float32) {
	return math.Float32frombits(m.left.Load()), math.Float32frombits(m.right.Load())
}

// PeaksDB returns the current level of each side in decibels relative to full
// scale. The lowest value returned is MinDB.
func (m *VU) PeaksDB() (float64, float64) {
	l, r := m.Peaks()
	return toDB(l), toDB(r)
}

func toDB(v float32) float64 {
	if v <= 0 {
		return MinDB
	}
	return max(20*math.Log10(float64(v)), MinDB)
}

// Clips returns the number of samples that have reached full scale since the
// last reset.
func (m *VU) Clips() uint64 {
	return m.clips.Load()
}

// Reset the meter to silence.
func (m *VU) Reset() {
	m.env = [2]float64{}
	m.left.Store(0)
	m.right.Store(0)
	m.clips.Store(0)
}
