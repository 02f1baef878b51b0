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

// Package prefs holds the preference values used to configure the mixer and
// its channels. Values can be set from any goroutine; reads are lock-free and
// so are suitable for the audio thread.
//
// Every value type supports a pre-hook and a post-hook. The pre-hook is called
// with the new value before it is stored and can veto the change by returning
// an error. The post-hook is called after the value has been stored and is the
// place to apply the change to live state.
//
// Values can be grouped into a Bundle under dotted key names, for example
// "mixer.volume" or "channel.opl.reverb". When a value is added to a bundle
// any matching entry on the command-line stack is applied immediately, which is
// how preferences given on the command line override the defaults.
package prefs
