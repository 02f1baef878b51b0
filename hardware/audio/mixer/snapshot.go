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
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/channel"
)

// ChannelSnapshot is the state of a single channel at the time of a Snapshot.
type ChannelSnapshot struct {
	Name     string
	ID       string
	Category string
	Kind     string
	State    string
	Input    string
	Queued   int
	Dropped  uint64
	PeakL    float32
	PeakR    float32
	Producer bool
}

// Snapshot is a read-only copy of the state of the mixer.
type Snapshot struct {
	Format     buffer.Format
	Block      int
	Master     Level
	Categories map[string]Level
	Channels   []ChannelSnapshot
	Overflow   uint64
	Underflow  uint64
	Sinks      int
}

// Snapshot returns a copy of the state of the mixer. The copy is suitable
// for display and for serialisation.
func (m *Mixer) Snapshot() Snapshot {
	m.crit.Lock()
	defer m.crit.Unlock()

	s := Snapshot{
		Format:     m.format,
		Block:      m.block,
		Master:     m.master.snapshot(),
		Categories: make(map[string]Level, len(m.categories)),
		Overflow:   m.overflow,
		Underflow:  m.underflow,
		Sinks:      len(m.sinks),
	}

	for c, l := range m.categories {
		s.Categories[channel.Category(c).String()] = l.snapshot()
	}

	for _, e := range m.order {
		l, r := e.ch.Peaks()
		s.Channels = append(s.Channels, ChannelSnapshot{
			Name:     e.ch.Name(),
			ID:       e.ch.ID().String(),
			Category: e.ch.Category().String(),
			Kind:     e.ch.Kind().String(),
			State:    e.ch.State().String(),
			Input:    e.ch.InputFormat().String(),
			Queued:   e.ch.Queued(),
			Dropped:  e.ch.Dropped(),
			PeakL:    l,
			PeakR:    r,
			Producer: e.producer != nil,
		})
	}

	return s
}
