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
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/channel"
	"github.com/jetsetilly/gophermix/hardware/audio/resample"
	"github.com/jetsetilly/gophermix/prefs"
)

// Preferences for the mixer. Per channel preferences are created when the
// channel is registered. See channel.Preferences.
type Preferences struct {
	MasterVolume prefs.Int
	MasterMute   prefs.Bool
	Rate         prefs.Int
	Block        prefs.Int

	// applied to channels registered after the value has changed
	QuietTimeout prefs.Duration
	Resampling   prefs.String

	CategoryVolume [channel.NumCategories]prefs.Int
	CategoryMute   [channel.NumCategories]prefs.Bool

	// initial values given to newPreferences()
	cfg Config
}

func newPreferences(m *Mixer, bundle *prefs.Bundle, cfg Config) (*Preferences, error) {
	p := &Preferences{cfg: cfg}

	p.MasterVolume.SetHookPre(volumeRange)
	p.MasterVolume.SetHookPost(func(v prefs.Value) error {
		return m.SetMasterVolume(v.(int))
	})
	p.MasterMute.SetHookPost(func(v prefs.Value) error {
		m.SetMasterMute(v.(bool))
		return nil
	})
	p.Rate.SetHookPost(func(v prefs.Value) error {
		return m.SetRate(v.(int))
	})
	p.Block.SetHookPost(func(v prefs.Value) error {
		return m.SetBlock(v.(int))
	})
	p.Resampling.SetHookPre(func(v prefs.Value) error {
		if v.(string) == "auto" {
			return nil
		}
		_, err := resample.ParseAlgorithm(v.(string))
		return err
	})

	for c := range channel.NumCategories {
		p.CategoryVolume[c].SetHookPre(volumeRange)
		p.CategoryVolume[c].SetHookPost(func(v prefs.Value) error {
			return m.SetCategoryVolume(c, v.(int))
		})
		p.CategoryMute[c].SetHookPost(func(v prefs.Value) error {
			m.SetCategoryMute(c, v.(bool))
			return nil
		})
	}

	if err := p.SetDefaults(); err != nil {
		return nil, err
	}

	for k, v := range p.entries() {
		if err := bundle.Add(k, v); err != nil {
			return nil, fmt.Errorf("mixer: %w", err)
		}
	}

	return p, nil
}

func volumeRange(v prefs.Value) error {
	if n := v.(int); n < 0 || n > MaxVolume {
		return fmt.Errorf("mixer: %w (%d)", ErrInvalidVolume, n)
	}
	return nil
}

func (p *Preferences) entries() map[string]prefs.Pref {
	e := map[string]prefs.Pref{
		"mixer.master.volume": &p.MasterVolume,
		"mixer.master.mute":   &p.MasterMute,
		"mixer.rate":          &p.Rate,
		"mixer.block":         &p.Block,
		"mixer.quiettimeout":  &p.QuietTimeout,
		"mixer.resampling":    &p.Resampling,
	}
	for c := range channel.NumCategories {
		e[fmt.Sprintf("mixer.%s.volume", c.Key())] = &p.CategoryVolume[c]
		e[fmt.Sprintf("mixer.%s.mute", c.Key())] = &p.CategoryMute[c]
	}
	return e
}

// SetDefaults reverts all preferences to the default values.
func (p *Preferences) SetDefaults() error {
	errs := []error{
		p.MasterVolume.Set(100),
		p.MasterMute.Set(false),
		p.Rate.Set(p.cfg.Rate),
		p.Block.Set(p.cfg.Block),
		p.QuietTimeout.Set(time.Duration(channel.DefaultQuietTimeout)),
		p.Resampling.Set("auto"),
	}
	for c := range channel.NumCategories {
		errs = append(errs, p.CategoryVolume[c].Set(100), p.CategoryMute[c].Set(false))
	}
	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("mixer: %w", err)
		}
	}
	return nil
}

func (p *Preferences) String() string {
	return fmt.Sprintf("master=%s mute=%s rate=%s block=%s timeout=%s resampling=%s",
		p.MasterVolume.String(), p.MasterMute.String(), p.Rate.String(), p.Block.String(),
		p.QuietTimeout.String(), p.Resampling.String())
}
