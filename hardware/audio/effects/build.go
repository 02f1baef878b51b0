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
)

// Settings are the configuration strings for each unit in a Chain.
type Settings struct {
	Filter    string
	Crossfeed string
	Chorus    string
	Reverb    string
}

// resolve replaces an "auto" setting with the default
func resolve(s string, def string) string {
	if Auto(s) {
		if Auto(def) {
			return "none"
		}
		return def
	}
	return s
}

// Build creates a new Chain from the settings. Settings of "auto" are
// replaced by the corresponding value in defaults.
//
// A setting that can not be parsed leaves that unit out of the chain. The
// returned error joins every problem found but the Chain is always usable.
func Build(settings Settings, defaults Settings, channels int, rate int) (*Chain, error) {
	var errs []error
	c := &Chain{}

	def, err := ParseFilter(resolve(settings.Filter, defaults.Filter))
	if err != nil {
		errs = append(errs, err)
	} else {
		c.Filter = NewFilter(def, channels, rate)
	}

	x, err := ParseCrossfeed(resolve(settings.Crossfeed, defaults.Crossfeed))
	if err != nil {
		errs = append(errs, err)
	} else if channels == 2 {
		c.Crossfeed = NewCrossfeed(x)
	}

	cp, ok, err := ParseChorus(resolve(settings.Chorus, defaults.Chorus))
	if err != nil {
		errs = append(errs, err)
	} else if ok {
		c.Chorus, err = NewChorus(cp, channels, rate)
		if err != nil {
			errs = append(errs, err)
		}
	}

	rp, ok, err := ParseReverb(resolve(settings.Reverb, defaults.Reverb))
	if err != nil {
		errs = append(errs, err)
	} else if ok {
		c.Reverb = NewReverb(rp, channels)
	}

	return c, errors.Join(errs...)
}

// Validate checks every setting without building anything.
func Validate(settings Settings) error {
	var errs []error
	if !Auto(settings.Filter) {
		if _, err := ParseFilter(settings.Filter); err != nil {
			errs = append(errs, err)
		}
	}
	if !Auto(settings.Crossfeed) {
		if _, err := ParseCrossfeed(settings.Crossfeed); err != nil {
			errs = append(errs, err)
		}
	}
	if !Auto(settings.Chorus) {
		if _, _, err := ParseChorus(settings.Chorus); err != nil {
			errs = append(errs, err)
		}
	}
	if !Auto(settings.Reverb) {
		if _, _, err := ParseReverb(settings.Reverb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
