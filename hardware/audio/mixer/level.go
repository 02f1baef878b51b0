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
	"fmt"
	"math"
	"sync/atomic"

	"github.com/jetsetilly/gophermix/hardware/audio/meter"
)

// MaxVolume is the highest volume percentage accepted by the mixer.
const MaxVolume = 150

// level is the volume, mute and meter of a category or of the master output
type level struct {
	volume atomic.Int32
	gain   atomic.Uint32 // float32 bits
	mute   atomic.Bool
	meter  *meter.VU
}

func newLevel() *level {
	l := &level{meter: meter.NewVU(meter.DefaultDecay)}
	_ = l.setVolume(100)
	return l
}

func (l *level) setVolume(percent int) error {
	if percent < 0 || percent > MaxVolume {
		return fmt.Errorf("mixer: %w (%d)", ErrInvalidVolume, percent)
	}
	l.volume.Store(int32(percent))
	l.gain.Store(math.Float32bits(float32(percent) / 100))
	return nil
}

// factor is the gain to apply in the current tick
func (l *level) factor() float32 {
	if l.mute.Load() {
		return 0
	}
	return math.Float32frombits(l.gain.Load())
}

// Level is a snapshot of a volume control and its meter.
type Level struct {
	Volume int
	Mute   bool
	PeakL  float32
	PeakR  float32
	Clips  uint64
}

func (l *level) snapshot() Level {
	pl, pr := l.meter.Peaks()
	return Level{
		Volume: int(l.volume.Load()),
		Mute:   l.mute.Load(),
		PeakL:  pl,
		PeakR:  pr,
		Clips:  l.meter.Clips(),
	}
}

func (l Level) String() string {
	if l.Mute {
		return fmt.Sprintf("vol=%d%% (muted)", l.Volume)
	}
	return fmt.Sprintf("vol=%d%% peak=%.2f/%.2f", l.Volume, l.PeakL, l.PeakR)
}
