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

// Package environment is the context in which a mixer and its channels run.
// The main mixer has an empty label. Other mixers, for example those used to
// render previews or in tests, should be given a label so that they can be
// distinguished.
//
// The Environment type satisfies the logger.Permission interface. Only the
// main environment is allowed to log unless logging has been explicitly
// enabled for the environment.
package environment

import (
	"sync/atomic"

	"github.com/jetsetilly/gophermix/prefs"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used by the main mixer.
const MainEmulation = Label("")

// Environment is used to provide context for a mixer and its channels.
type Environment struct {
	Label Label

	// all preferences for the environment are collected in this bundle
	Prefs *prefs.Bundle

	// logging for non-main environments
	verbose atomic.Bool
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type. A nil bundle will cause a new empty bundle to be created.
func NewEnvironment(label Label, bundle *prefs.Bundle) *Environment {
	if bundle == nil {
		bundle = prefs.NewBundle()
	}
	return &Environment{
		Label: label,
		Prefs: bundle,
	}
}

// IsEmulation checks the emulation label and returns true if it matches.
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// SetVerbose allows a non-main environment to make log entries.
func (env *Environment) SetVerbose(verbose bool) {
	env.verbose.Store(verbose)
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	if env == nil {
		return false
	}
	return env.Label == MainEmulation || env.verbose.Load()
}
