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

package tiasound

import (
	"testing"

	"github.com/jetsetilly/gophermix/test"
)

func TestPoly9(t *testing.T) {
	var ones int
	for _, b := range poly9bit {
		ones += int(b)
	}
	test.ExpectEquality(t, ones, 256)
}

func TestMix(t *testing.T) {
	test.ExpectEquality(t, mono(0, 0), 0)
	test.ExpectEquality(t, mono(15, 15), 0x7fff>>1)
	test.ExpectSuccess(t, mono(15, 0) > mono(8, 0))
	test.ExpectEquality(t, mono(15, 0), mono(0, 15))
}
