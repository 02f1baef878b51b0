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

package prefs_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/gophermix/prefs"
	"github.com/jetsetilly/gophermix/test"
)

func TestBool(t *testing.T) {
	var v, w, x prefs.Bool

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("TRUE"))
	test.ExpectFailure(t, x.Set(10))

	test.ExpectEquality(t, v.Get().(bool), true)
	test.ExpectEquality(t, w.Get().(bool), false)
	test.ExpectEquality(t, x.String(), "true")
}

func TestString(t *testing.T) {
	var v prefs.String
	test.ExpectEquality(t, v.String(), "")
	test.ExpectSuccess(t, v.Set("  large,30 "))
	test.ExpectEquality(t, v.String(), "large,30")
	test.ExpectSuccess(t, v.Set(100))
	test.ExpectEquality(t, v.Get().(string), "100")
}

func TestInt(t *testing.T) {
	var v prefs.Int
	test.ExpectSuccess(t, v.Set(10))
	test.ExpectEquality(t, v.Get().(int), 10)
	test.ExpectSuccess(t, v.Set("99"))
	test.ExpectEquality(t, v.String(), "99")

	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))

	// failed sets do not change the value
	test.ExpectEquality(t, v.Get().(int), 99)
}

func TestFloat(t *testing.T) {
	var v prefs.Float
	test.ExpectEquality(t, v.Get().(float64), 0.0)
	test.ExpectSuccess(t, v.Set(0.5))
	test.ExpectEquality(t, v.String(), "0.500")
	test.ExpectSuccess(t, v.Set("1.25"))
	test.ExpectEquality(t, v.Get().(float64), 1.25)
	test.ExpectFailure(t, v.Set("abc"))
}

func TestDuration(t *testing.T) {
	var v prefs.Duration
	test.ExpectSuccess(t, v.Set("250ms"))
	test.ExpectEquality(t, v.Get().(time.Duration), 250*time.Millisecond)
	test.ExpectSuccess(t, v.Set(time.Second))
	test.ExpectEquality(t, v.String(), "1s")
	test.ExpectFailure(t, v.Set("-1s"))
	test.ExpectFailure(t, v.Set(10))
}

func TestHooks(t *testing.T) {
	var v prefs.Int
	var applied int

	v.SetHookPre(func(value prefs.Value) error {
		if value.(int) > 150 {
			return errors.New("too large")
		}
		return nil
	})
	v.SetHookPost(func(value prefs.Value) error {
		applied = value.(int)
		return nil
	})

	test.ExpectSuccess(t, v.Set(100))
	test.ExpectEquality(t, applied, 100)

	// pre-hook vetoes the change. neither the value nor the post-hook are
	// affected
	test.ExpectFailure(t, v.Set(200))
	test.ExpectEquality(t, applied, 100)
	test.ExpectEquality(t, v.Get().(int), 100)
}

func TestBundle(t *testing.T) {
	b := prefs.NewBundle()

	var volume prefs.Int
	var reverb prefs.String
	test.ExpectSuccess(t, b.Add("mixer.volume", &volume))
	test.ExpectSuccess(t, b.Add("channel.opl.reverb", &reverb))
	test.ExpectFailure(t, b.Add("mixer.volume", &volume))

	test.ExpectSuccess(t, b.Set("mixer.volume", "80"))
	test.ExpectSuccess(t, b.Set("channel.opl.reverb", "large"))
	test.ExpectFailure(t, b.Set("mixer.unknown", "1"))

	test.ExpectEquality(t, b.String(), "channel.opl.reverb :: large\nmixer.volume :: 80\n")

	b.Remove("mixer.volume")
	_, ok := b.Get("mixer.volume")
	test.ExpectFailure(t, ok)
}

func TestBundleCommandLine(t *testing.T) {
	prefs.PushCommandLineStack("mixer.volume::75; mixer.mute::true")

	b := prefs.NewBundle()

	var volume prefs.Int
	var mute prefs.Bool
	test.ExpectSuccess(t, b.Add("mixer.volume", &volume))
	test.ExpectSuccess(t, b.Add("mixer.mute", &mute))

	test.ExpectEquality(t, volume.Get().(int), 75)
	test.ExpectEquality(t, mute.Get().(bool), true)

	// command-line entries are consumed when used
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "")
}
