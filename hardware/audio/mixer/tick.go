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

package mixer

import (
	"encoding/binary"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/logger"
)

// Tick mixes the number of frames and pushes the result to the host ring and
// to every sink. Returns the number of frames mixed.
//
// Tick() is normally called indirectly by Pull() or Read(). It should only be
// called directly by a host backend that drains the ring with Drain().
func (m *Mixer) Tick(frames int) int {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.tick(frames)
}

// tick must be called with the critical section locked
func (m *Mixer) tick(frames int) int {
	if frames <= 0 {
		return 0
	}

	f := m.format
	n := frames * f.Channels
	span := m.timeline.Advance(frames, f.Rate)

	m.mix = zeroed(m.mix, n)
	for c := range m.acc {
		m.acc[c] = zeroed(m.acc[c], n)
	}

	for _, e := range m.order {
		if e.producer != nil {
			e.producer.Tick()
		}

		ch := e.ch
		if !ch.Active() {
			continue
		}

		ch.FinishFrames(span, frames)
		ch.PopOutput(ch.MixOutput(m.acc[ch.Category()]))
	}

	for c, l := range m.categories {
		acc := m.acc[c]
		gain(acc, l.factor())
		l.meter.Update(acc, f.Channels, f.Rate)
		for i, v := range acc {
			m.mix[i] += v
		}
	}

	gain(m.mix, m.master.factor())
	m.master.meter.Update(m.mix, f.Channels, f.Rate)

	if cap(m.output) < n {
		m.output = make([]int16, n)
	}
	m.output = m.output[:n]
	for i, v := range m.mix {
		v = min(max(v, -1.0), 1.0)
		m.output[i] = int16(buffer.S16.Denormalise(v))
	}

	if w := m.host.Write(m.output); w < n {
		m.overflow += uint64(n - w)
	}

	if len(m.sinks) > 0 {
		hf := f
		hf.Encoding = buffer.S16
		for _, s := range m.sinks {
			if err := s.SetAudio(m.output, hf); err != nil {
				logger.Logf(m.env, "mixer", "sink: %v", err)
			}
		}
	}

	return frames
}

func zeroed(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	s = s[:n]
	clear(s)
	return s
}

func gain(s []float32, g float32) {
	if g == 1.0 {
		return
	}
	for i := range s {
		s[i] *= g
	}
}

// Pull fills the destination with interleaved 16bit samples, ticking the
// mixer as often as required. Any partial frame at the end of the
// destination is not filled. Returns the number of frames.
func (m *Mixer) Pull(dst []int16) int {
	m.crit.Lock()
	defer m.crit.Unlock()

	ch := m.format.Channels
	n := len(dst) / ch * ch

	got := 0
	for got < n {
		if m.host.Len() == 0 {
			m.tick(m.block)
		}
		got += m.host.Read(dst[got:n])
	}

	return n / ch
}

// Drain fills the destination with the interleaved 16bit samples waiting in
// the host ring without ticking the mixer. If there are not enough samples
// then the remainder is filled with silence. Returns the number of samples
// taken from the ring.
func (m *Mixer) Drain(dst []int16) int {
	m.crit.Lock()
	defer m.crit.Unlock()

	got := m.host.Read(dst)
	if got < len(dst) {
		clear(dst[got:])
		m.underflow += uint64(len(dst) - got)
	}
	return got
}

// Available returns the number of frames waiting in the host ring.
func (m *Mixer) Available() int {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.host.Len() / m.format.Channels
}

// Read implements the io.Reader interface. The mixer is read as signed 16bit
// little-endian samples. Only whole frames are read.
func (m *Mixer) Read(p []byte) (int, error) {
	m.readCrit.Lock()
	defer m.readCrit.Unlock()

	ch := m.Format().Channels
	frames := len(p) / (2 * ch)
	if frames == 0 {
		return 0, nil
	}

	n := frames * ch
	if cap(m.readBuf) < n {
		m.readBuf = make([]int16, n)
	}
	buf := m.readBuf[:n]

	m.Pull(buf)

	for i, v := range buf[:n] {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}

	return n * 2, nil
}
