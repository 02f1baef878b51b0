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

	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/effects"
	"github.com/jetsetilly/gophermix/hardware/audio/resample"
)

// parts of the pipeline to rebuild
const (
	rebuildResampler = 1 << iota
	rebuildChain
	rebuildAll = rebuildResampler | rebuildChain
)

// reconfigure builds new pipeline components from the current settings and
// formats and passes them to the consumer. must be called with configMu held
func (ch *Channel) reconfigure(rebuild int, flush bool) error {
	var errs []error

	p := &pipeline{
		in:      ch.inFormat,
		out:     ch.outFmt,
		reverse: ch.settings.ReverseStereo,
		flush:   flush,
		flushTo: ch.queue.WriteIndex(),
	}

	if rebuild&rebuildResampler == rebuildResampler {
		alg := ch.autoResample
		if ch.settings.Resampling != "auto" {
			alg, _ = resample.ParseAlgorithm(ch.settings.Resampling)
		}

		r, err := resample.New(alg, p.in.Channels, p.in.Rate, p.out.Rate)
		if err != nil {
			ch.log(fmt.Errorf("resampler unavailable, using pass-through: %w", err))
			errs = append(errs, err)
			r = resample.NewPassthrough(p.in.Channels, err)
		}
		p.resampler = r
	}

	if rebuild&rebuildChain == rebuildChain {
		c, err := effects.Build(ch.settings.effects(), ch.defaults, p.out.Channels, p.out.Rate)
		if err != nil {
			ch.log(err)
			errs = append(errs, err)
		}
		p.chain = c
	}

	ch.crit.Lock()
	if old := ch.pending; old != nil {
		if old.flush && !p.flush {
			p.flush = true
			p.flushTo = old.flushTo
		}
		if p.resampler == nil {
			p.resampler = old.resampler
		}
		if p.chain == nil {
			p.chain = old.chain
		}
	}
	ch.pending = p
	ch.crit.Unlock()

	return errors.Join(errs...)
}

// Settings returns a copy of the channel's current settings.
func (ch *Channel) Settings() Settings {
	ch.configMu.Lock()
	defer ch.configMu.Unlock()
	return ch.settings
}

// ApplySettings replaces every setting of the channel. The settings are
// validated first and nothing is changed if they are invalid.
func (ch *Channel) ApplySettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	ch.settings = s
	ch.setGains(s)
	return ch.reconfigure(rebuildAll, false)
}

// SetVolume sets the volume as a percentage in the range 0 to 150.
func (ch *Channel) SetVolume(volume int) error {
	if volume < 0 || volume > 150 {
		return fmt.Errorf("channel: %s: %w: volume %d", ch.name, ErrInvalidConfig, volume)
	}

	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	ch.settings.Volume = volume
	ch.setGains(ch.settings)
	return nil
}

// SetBalance sets the stereo balance in the range -100 (fully left) to 100
// (fully right).
func (ch *Channel) SetBalance(balance int) error {
	if balance < -100 || balance > 100 {
		return fmt.Errorf("channel: %s: %w: balance %d", ch.name, ErrInvalidConfig, balance)
	}

	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	ch.settings.Balance = balance
	ch.setGains(ch.settings)
	return nil
}

// setEffect changes one of the effect settings. an invalid setting results in
// that effect being disabled. the error is logged and returned
func (ch *Channel) setEffect(field *string, value string) error {
	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	*field = value
	return ch.reconfigure(rebuildChain, false)
}

// SetFilter changes the filter setting. See the effects package for the list
// of valid settings.
func (ch *Channel) SetFilter(s string) error {
	return ch.setEffect(&ch.settings.Filter, s)
}

// SetCrossfeed changes the crossfeed setting.
func (ch *Channel) SetCrossfeed(s string) error {
	return ch.setEffect(&ch.settings.Crossfeed, s)
}

// SetChorus changes the chorus setting.
func (ch *Channel) SetChorus(s string) error {
	return ch.setEffect(&ch.settings.Chorus, s)
}

// SetReverb changes the reverb setting.
func (ch *Channel) SetReverb(s string) error {
	return ch.setEffect(&ch.settings.Reverb, s)
}

// SetResampling changes the resampling algorithm. Valid values are "auto",
// "sinc", "linear" and "hold".
func (ch *Channel) SetResampling(s string) error {
	if s != "auto" {
		if _, err := resample.ParseAlgorithm(s); err != nil {
			return fmt.Errorf("channel: %s: %w", ch.name, err)
		}
	}

	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	ch.settings.Resampling = s
	return ch.reconfigure(rebuildResampler, false)
}

// SetReverseStereo swaps the left and right sides of the output.
func (ch *Channel) SetReverseStereo(reverse bool) {
	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	ch.settings.ReverseStereo = reverse

	// nothing is rebuilt so there is no error to return
	_ = ch.reconfigure(0, false)
}

// SetInputFormat changes the format of data accepted by the Submit functions.
// Input queued in the old format is discarded. Should be called by the
// goroutine that submits data to the channel.
func (ch *Channel) SetInputFormat(f buffer.Format) error {
	if err := f.Valid(); err != nil {
		return fmt.Errorf("channel: %s: %w", ch.name, err)
	}

	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	if f == ch.inFormat {
		return nil
	}

	ch.inFormat = f
	ch.producer.format.Store(&f)
	ch.producer.warned.Store(false)

	return ch.reconfigure(rebuildAll, true)
}

// SetOutputFormat changes the format of the processed output. The encoding is
// always the canonical encoding. Output that has not yet been removed by the
// mixer is discarded.
func (ch *Channel) SetOutputFormat(f buffer.Format) error {
	f.Encoding = buffer.F32
	if err := f.Valid(); err != nil {
		return fmt.Errorf("channel: %s: %w", ch.name, err)
	}

	ch.configMu.Lock()
	defer ch.configMu.Unlock()

	if f == ch.outFmt {
		return nil
	}

	ch.outFmt = f
	return ch.reconfigure(rebuildAll, false)
}

// Enable turns the channel on or off. A channel turned on will be disabled
// again by the quiet timeout if the source does not produce any sound. A
// channel turned off is disabled at the start of the next period and stays
// disabled until the next non-silent submission.
func (ch *Channel) Enable(on bool) {
	if on {
		ch.hardOff.Store(false)
		ch.refresh()
		ch.wake.Store(true)
		return
	}
	ch.wake.Store(false)
	ch.hardOff.Store(true)
}
