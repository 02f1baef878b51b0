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

// Package modalflag wraps the flag package in the Go standard library and
// adds program modes. Each mode has its own set of flags and the mode is
// selected by the first non-flag argument. For example, the gophermix command
// line:
//
//	gophermix -log render -duration 5s out.wav
//
// is parsed in two steps. The first Parse() handles the -log flag and selects
// the RENDER mode; after a call to NewMode() the second Parse() handles the
// -duration flag and leaves "out.wav" in RemainingArgs().
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("play", "render", "graph")
//	log := md.AddBool("log", false, "echo log to stdout")
//	if r, err := md.Parse(); r != modalflag.ParseContinue {
//		return err
//	}
//
//	switch md.Mode() {
//	case "RENDER":
//		md.NewMode()
//		duration := md.AddDuration("duration", time.Second, "length of render")
//		...
//	}
//
// The first sub-mode given to AddSubModes() is the default mode. Mode
// comparisons are case insensitive and modes are always reported in upper
// case.
//
// AddPrefs() adds a -prefs flag to the current mode. The value of the flag is
// pushed onto the prefs command line stack by Parse() so that preferences can
// be overridden without touching any saved values. Callers should pop the
// stack with prefs.PopCommandLineStack() once the mode has been set up.
package modalflag
