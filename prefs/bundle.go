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

package prefs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Bundle is a collection of named preference values.
type Bundle struct {
	crit    sync.Mutex
	entries map[string]Pref
}

// NewBundle is the preferred method of initialisation for the Bundle type.
func NewBundle() *Bundle {
	return &Bundle{
		entries: make(map[string]Pref),
	}
}

// Add preference value to bundle using key. Keys must be unique.
//
// If the command-line stack has an entry for the key then that value is
// applied to the preference before Add() returns.
func (b *Bundle) Add(key string, p Pref) error {
	b.crit.Lock()
	defer b.crit.Unlock()

	if _, ok := b.entries[key]; ok {
		return fmt.Errorf("prefs: key already in bundle (%s)", key)
	}
	b.entries[key] = p

	if ok, v := GetCommandLinePref(key); ok {
		if err := p.Set(v); err != nil {
			return fmt.Errorf("prefs: %s: %w", key, err)
		}
	}

	return nil
}

// Remove preference from the bundle. It is not an error to remove a key that
// is not in the bundle.
func (b *Bundle) Remove(key string) {
	b.crit.Lock()
	defer b.crit.Unlock()
	delete(b.entries, key)
}

// Set the value of the preference with the key.
func (b *Bundle) Set(key string, value Value) error {
	b.crit.Lock()
	p, ok := b.entries[key]
	b.crit.Unlock()

	if !ok {
		return fmt.Errorf("prefs: unknown key (%s)", key)
	}

	if err := p.Set(value); err != nil {
		return fmt.Errorf("prefs: %s: %w", key, err)
	}

	return nil
}

// Get the preference with the key.
func (b *Bundle) Get(key string) (Pref, bool) {
	b.crit.Lock()
	defer b.crit.Unlock()
	p, ok := b.entries[key]
	return p, ok
}

// Keys returns the sorted list of keys in the bundle.
func (b *Bundle) Keys() []string {
	b.crit.Lock()
	defer b.crit.Unlock()

	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns every entry in the bundle, one per line, in the format
// "key :: value". The entries are sorted by key.
func (b *Bundle) String() string {
	s := strings.Builder{}
	for _, k := range b.Keys() {
		p, _ := b.Get(k)
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, p))
	}
	return s.String()
}
