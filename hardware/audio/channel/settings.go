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
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jetsetilly/gophermix/hardware/audio/effects"
)

// validate is shared by all channels. a validator instance caches struct
// information and is safe for concurrent use
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(validateEffects, Settings{})
}

// Settings is the user facing configuration of a Channel.
type Settings struct {
	// percentage
	Volume int `validate:"gte=0,lte=150"`

	// -100 is fully left and 100 is fully right
	Balance int `validate:"gte=-100,lte=100"`

	Filter    string `validate:"max=128"`
	Crossfeed string `validate:"max=32"`
	Chorus    string `validate:"max=32"`
	Reverb    string `validate:"max=32"`

	Resampling string `validate:"oneof=auto sinc linear hold"`

	ReverseStereo bool
}

// DefaultSettings returns the settings for a newly created channel.
func DefaultSettings() Settings {
	return Settings{
		Volume:     100,
		Balance:    0,
		Filter:     "auto",
		Crossfeed:  "auto",
		Chorus:     "auto",
		Reverb:     "auto",
		Resampling: "auto",
	}
}

func (s Settings) effects() effects.Settings {
	return effects.Settings{
		Filter:    s.Filter,
		Crossfeed: s.Crossfeed,
		Chorus:    s.Chorus,
		Reverb:    s.Reverb,
	}
}

func validateEffects(sl validator.StructLevel) {
	s := sl.Current().Interface().(Settings)
	if err := effects.Validate(s.effects()); err != nil {
		sl.ReportError(s.Filter, "Effects", "Effects", "effects", err.Error())
	}
}

// Validate checks that every field of the Settings is valid.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("channel: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "effects":
			msgs = append(msgs, e.Param())
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s=%s", e.Field(), e.Tag(), e.Param()))
		}
	}
	return fmt.Errorf("channel: %w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// gains converts volume and balance into a scale factor for each side
func (s Settings) gains() (float32, float32) {
	v := float32(s.Volume) / 100
	b := float32(s.Balance) / 100
	return v * min(1, 1-b), v * min(1, 1+b)
}
