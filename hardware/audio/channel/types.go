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
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/effects"
	"github.com/jetsetilly/gophermix/hardware/audio/resample"
)

// Category groups channels for sub-mixing. Each category has its own volume,
// mute and VU meter in the mixer.
type Category int

// List of valid Category values.
const (
	ToneGenerator Category = iota
	FMSynth
	PCM
	CDAudio
	Misc
	NumCategories
)

func (c Category) String() string {
	switch c {
	case ToneGenerator:
		return "tone generator"
	case FMSynth:
		return "fm synth"
	case PCM:
		return "pcm"
	case CDAudio:
		return "cd audio"
	case Misc:
		return "misc"
	}
	return "unknown category"
}

// Key returns a version of the category name suitable for use in a
// preferences key.
func (c Category) Key() string {
	switch c {
	case ToneGenerator:
		return "tone"
	case FMSynth:
		return "fm"
	case PCM:
		return "pcm"
	case CDAudio:
		return "cdaudio"
	}
	return "misc"
}

// Kind describes how the source feeds the channel.
type Kind int

// List of valid Kind values.
const (
	// a device that submits sample data directly
	Stream Kind = iota

	// a device driven by timestamped register writes
	Evented

	// a device that is asked to generate frames on demand
	Continuous
)

func (k Kind) String() string {
	switch k {
	case Stream:
		return "stream"
	case Evented:
		return "evented"
	case Continuous:
		return "continuous"
	}
	return "unknown kind"
}

// State of the channel.
type State int

// List of valid State values.
const (
	Disabled State = iota
	Enabled
	Draining
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	case Draining:
		return "draining"
	}
	return "unknown state"
}

// DefaultQuietTimeout is used when Config.QuietTimeout is zero.
const DefaultQuietTimeout = 500 * time.Millisecond

// DefaultInputCapacity is used when Config.InputCapacity is zero.
const DefaultInputCapacity = 250 * time.Millisecond

// Config is used to create a new Channel.
type Config struct {
	Name     string
	Category Category
	Kind     Kind

	// format of data submitted to the channel
	Input buffer.Format

	// format of the processed output. the encoding is always forced to the
	// canonical encoding
	Output buffer.Format

	// time the channel must be silent before it is disabled
	QuietTimeout time.Duration

	// amount of input that can be queued before submissions are dropped
	InputCapacity time.Duration

	// device defaults used for effect settings of "auto"
	Defaults effects.Settings

	// resampling algorithm used when the setting is "auto"
	Resampling resample.Algorithm
}

// Sentinel errors.
var (
	ErrFormatMismatch = errors.New("format mismatch")
	ErrInvalidConfig  = errors.New("invalid channel configuration")
)
