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

package channel

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gophermix/prefs"
)

// Preferences connects the settings of a Channel to the prefs system. Changing
// a preference value changes the channel immediately.
type Preferences struct {
	ch *Channel

	Volume        prefs.Int
	Balance       prefs.Int
	Filter        prefs.String
	Crossfeed     prefs.String
	Chorus        prefs.String
	Reverb        prefs.String
	Resampling    prefs.String
	ReverseStereo prefs.Bool

	bundle *prefs.Bundle
	keys   []string
}

// KeyPrefix returns the prefix used for all preference keys of the named
// channel.
func KeyPrefix(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.Join(strings.Fields(n), "_")
	return fmt.Sprintf("channel.%s.", n)
}

// NewPreferences creates the preferences for the channel and adds them to the
// bundle. Values on the command-line stack for the channel's keys are applied
// to the channel.
func NewPreferences(ch *Channel, bundle *prefs.Bundle) (*Preferences, error) {
	p := &Preferences{
		ch:     ch,
		bundle: bundle,
	}

	p.Volume.SetHookPre(func(v prefs.Value) error {
		if n := v.(int); n < 0 || n > 150 {
			return fmt.Errorf("volume must be between 0 and 150")
		}
		return nil
	})
	p.Volume.SetHookPost(func(v prefs.Value) error {
		return ch.SetVolume(v.(int))
	})

	p.Balance.SetHookPre(func(v prefs.Value) error {
		if n := v.(int); n < -100 || n > 100 {
			return fmt.Errorf("balance must be between -100 and 100")
		}
		return nil
	})
	p.Balance.SetHookPost(func(v prefs.Value) error {
		return ch.SetBalance(v.(int))
	})

	// effect settings that do not parse are still stored. the channel falls
	// back to having no effect and logs the problem
	p.Filter.SetHookPost(func(v prefs.Value) error {
		_ = ch.SetFilter(v.(string))
		return nil
	})
	p.Crossfeed.SetHookPost(func(v prefs.Value) error {
		_ = ch.SetCrossfeed(v.(string))
		return nil
	})
	p.Chorus.SetHookPost(func(v prefs.Value) error {
		_ = ch.SetChorus(v.(string))
		return nil
	})
	p.Reverb.SetHookPost(func(v prefs.Value) error {
		_ = ch.SetReverb(v.(string))
		return nil
	})

	p.Resampling.SetHookPre(func(v prefs.Value) error {
		switch v.(string) {
		case "auto", "sinc", "linear", "hold":
			return nil
		}
		return fmt.Errorf("resampling must be one of auto, sinc, linear or hold")
	})
	p.Resampling.SetHookPost(func(v prefs.Value) error {
		return ch.SetResampling(v.(string))
	})

	p.ReverseStereo.SetHookPost(func(v prefs.Value) error {
		ch.SetReverseStereo(v.(bool))
		return nil
	})

	if err := p.SetDefaults(); err != nil {
		return nil, err
	}

	prefix := KeyPrefix(ch.Name())
	for _, e := range []struct {
		key  string
		pref prefs.Pref
	}{
		{key: "volume", pref: &p.Volume},
		{key: "balance", pref: &p.Balance},
		{key: "filter", pref: &p.Filter},
		{key: "crossfeed", pref: &p.Crossfeed},
		{key: "chorus", pref: &p.Chorus},
		{key: "reverb", pref: &p.Reverb},
		{key: "resampling", pref: &p.Resampling},
		{key: "reversestereo", pref: &p.ReverseStereo},
	} {
		k := prefix + e.key
		if err := bundle.Add(k, e.pref); err != nil {
			p.Unregister()
			return nil, fmt.Errorf("channel: %s: %w", ch.Name(), err)
		}
		p.keys = append(p.keys, k)
	}

	return p, nil
}

// SetDefaults reverts all preferences to the default values.
func (p *Preferences) SetDefaults() error {
	d := DefaultSettings()
	for _, err := range []error{
		p.Volume.Set(d.Volume),
		p.Balance.Set(d.Balance),
		p.Filter.Set(d.Filter),
		p.Crossfeed.Set(d.Crossfeed),
		p.Chorus.Set(d.Chorus),
		p.Reverb.Set(d.Reverb),
		p.Resampling.Set(d.Resampling),
		p.ReverseStereo.Set(d.ReverseStereo),
	} {
		if err != nil {
			return fmt.Errorf("channel: %s: %w", p.ch.Name(), err)
		}
	}
	return nil
}

// Unregister removes the preferences from the bundle they were added to.
func (p *Preferences) Unregister() {
	for _, k := range p.keys {
		p.bundle.Remove(k)
	}
	p.keys = p.keys[:0]
}

func (p *Preferences) String() string {
	return fmt.Sprintf("vol=%s bal=%s filter=%s crossfeed=%s chorus=%s reverb=%s resampling=%s",
		p.Volume.String(), p.Balance.String(), p.Filter.String(), p.Crossfeed.String(),
		p.Chorus.String(), p.Reverb.String(), p.Resampling.String())
}
