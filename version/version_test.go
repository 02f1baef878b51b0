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

package version_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gophermix/test"
	"github.com/jetsetilly/gophermix/version"
)

func TestRead(t *testing.T) {
	info := version.Read()
	test.ExpectInequality(t, info.Version, "")
	test.ExpectEquality(t, info.Release, false)
	test.ExpectSuccess(t, strings.HasPrefix(info.String(), version.ApplicationName))
}

func TestWrite(t *testing.T) {
	info := version.Info{
		Version:   "v1.0.0",
		Release:   true,
		GoVersion: "go1.24",
		Modules: []version.Module{
			{Path: "github.com/arl/blip", Version: "v0.1.0"},
			{Path: "github.com/go-audio/wav", Version: "v1.0.0"},
		},
	}

	tw := &test.CompareWriter{}
	info.Write(tw, "audio")
	test.ExpectEquality(t, tw.String(), "Gophermix v1.0.0\n"+
		"  built with go1.24\n"+
		"  github.com/go-audio/wav v1.0.0\n")
}
