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

package logger

// Permission is satisfied by anything that can make a log request. A request
// is ignored if AllowLogging() returns false. The environment type is the
// usual implementation and only allows logging for the main mixer.
type Permission interface {
	AllowLogging() bool
}

type fixed bool

func (f fixed) AllowLogging() bool {
	return bool(f)
}

// Allow and Deny are Permissions that do not depend on an environment. Allow
// is used by code that has no environment of its own, such as the audio
// backends.
var (
	Allow Permission = fixed(true)
	Deny  Permission = fixed(false)
)
