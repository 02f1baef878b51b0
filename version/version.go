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

// Package version reports the version of the program and of the modules it
// was built with.
package version

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "Gophermix"

// number is set by the linker for release builds:
//
//	go build -ldflags "-X github.com/jetsetilly/gophermix/version.number=v0.1.0"
var number string

// Module is a dependency compiled into the program.
type Module struct {
	Path    string
	Version string
}

// Info about the build.
type Info struct {
	// "unreleased" if built from a repository without a version number.
	// "local" if there is no vcs information either
	Version string

	// vcs revision, suffixed with "+dirty" if the source had been modified
	Revision string

	// true if this is a numbered release
	Release bool

	GoVersion string
	Modules   []Module
}

// Read the build information of the running program.
func Read() Info {
	info := Info{
		Revision: "no revision information",
	}

	var vcs, modified bool
	var revision string

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
		for _, d := range bi.Deps {
			if d.Replace != nil {
				d = d.Replace
			}
			info.Modules = append(info.Modules, Module{Path: d.Path, Version: d.Version})
		}
	}

	if revision != "" {
		info.Revision = revision
		if modified {
			info.Revision += "+dirty"
		}
	}

	switch {
	case number != "":
		info.Version = number
		info.Release = true
	case vcs:
		info.Version = "unreleased"
	default:
		info.Version = "local"
	}

	return info
}

func (info Info) String() string {
	if info.Release {
		return fmt.Sprintf("%s %s", ApplicationName, info.Version)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, info.Version, info.Revision)
}

// Write a multi-line description of the build, including the modules that
// match the filter. An empty filter matches every module.
func (info Info) Write(output io.Writer, filter string) {
	fmt.Fprintln(output, info.String())
	if info.GoVersion != "" {
		fmt.Fprintf(output, "  built with %s\n", info.GoVersion)
	}
	for _, m := range info.Modules {
		if strings.Contains(m.Path, filter) {
			fmt.Fprintf(output, "  %s %s\n", m.Path, m.Version)
		}
	}
}
