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

package meter_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/meter"
	"github.com/jetsetilly/gophermix/test"
)

func TestAttackDecay(t *testing.T) {
	m := meter.NewVU(300 * time.Millisecond)

	l, r := m.Peaks()
	test.ExpectEquality(t, l, float32(0))
	test.ExpectEquality(t, r, float32(0))

	// instant attack
	m.Update([]float32{0.5, -0.25}, 2, 1000)
	l, r = m.Peaks()
	test.ExpectApproximate(t, l, 0.5, 0.01)
	test.ExpectApproximate(t, r, 0.25, 0.01)

	// 300ms of silence reduces the level by 20dB
	m.Update(make([]float32, 300*2), 2, 1000)
	l, r = m.Peaks()
	test.ExpectApproximate(t, l, 0.05, 0.001)
	test.ExpectApproximate(t, r, 0.025, 0.001)

	ldb, _ := m.PeaksDB()
	test.ExpectApproximate(t, ldb, -26.02, 0.1)

	m.Reset()
	ldb, rdb := m.PeaksDB()
	test.ExpectEquality(t, ldb, meter.MinDB)
	test.ExpectEquality(t, rdb, meter.MinDB)
}

func TestMonoAndClips(t *testing.T) {
	m := meter.NewVU(0)

	m.Update([]float32{0.1, 1.0, -1.2}, 1, 48000)
	l, r := m.Peaks()
	test.ExpectApproximate(t, l, 1.2, 0.01)
	test.ExpectEquality(t, l, r)
	test.ExpectEquality(t, m.Clips(), uint64(2))
}
