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

package mixer

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jetsetilly/gophermix/environment"
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/channel"
	"github.com/jetsetilly/gophermix/hardware/audio/resample"
	"github.com/jetsetilly/gophermix/hardware/audio/ring"
	"github.com/jetsetilly/gophermix/logger"
)

// Default values for the output of the mixer.
const (
	DefaultRate     = 48000
	DefaultChannels = 2
	DefaultBlock    = 1024
)

// the number of blocks the host ring can hold
const hostBlocks = 4

// Producer is something that feeds a channel on every tick of the mixer.
// Both of the adapters in the synth package satisfy this interface.
type Producer interface {
	Tick() int
	Reset()
}

// Sink receives a copy of the final mix. Sinks must not feed back into the
// mixer.
type Sink interface {
	// SetAudio is called with the 16bit samples of every tick. The samples
	// must not be retained after the function returns.
	SetAudio(samples []int16, format buffer.Format) error

	// EndMixing is called when the sink is removed or the mixer is closed.
	EndMixing() error
}

type entry struct {
	ch       *channel.Channel
	prefs    *channel.Preferences
	producer Producer
}

// Mixer combines the output of every registered channel.
type Mixer struct {
	env *environment.Environment

	// Prefs are the preferences for the mixer. Changing a value changes the
	// mixer immediately.
	Prefs *Preferences

	// held for the duration of a tick and by every function that changes the
	// registry or output format
	crit sync.Mutex

	entries map[string]*entry
	order   []*entry

	// output format of every channel. always F32
	format buffer.Format
	block  int

	timeline buffer.Timeline

	master     *level
	categories [channel.NumCategories]*level

	// accumulators. length of one block
	acc    [channel.NumCategories][]float32
	mix    []float32
	output []int16

	// samples waiting to be pulled by the host
	host      *ring.Ring[int16]
	overflow  uint64
	underflow uint64

	sinks []Sink

	// scratch for Read()
	readCrit sync.Mutex
	readBuf  []int16
}

// Config for the output of a mixer. Zero values are replaced with the
// default values.
type Config struct {
	Rate     int
	Channels int
	Block    int
}

// New is the preferred method of initialisation for the Mixer type.
// Preferences are added to the environment's preference bundle.
func New(env *environment.Environment, cfg Config) (*Mixer, error) {
	if cfg.Rate == 0 {
		cfg.Rate = DefaultRate
	}
	if cfg.Channels == 0 {
		cfg.Channels = DefaultChannels
	}
	if cfg.Block == 0 {
		cfg.Block = DefaultBlock
	}

	f := buffer.Canonical(cfg.Channels, cfg.Rate)
	if err := f.Valid(); err != nil {
		return nil, fmt.Errorf("mixer: %w: %w", ErrInvalidFormat, err)
	}
	if cfg.Block < 1 {
		return nil, fmt.Errorf("mixer: %w: block of %d frames", ErrInvalidFormat, cfg.Block)
	}

	m := &Mixer{
		env:     env,
		entries: make(map[string]*entry),
		format:  f,
		master:  newLevel(),
	}
	for c := range m.categories {
		m.categories[c] = newLevel()
	}
	m.setBlock(cfg.Block)

	var err error
	m.Prefs, err = newPreferences(m, env.Prefs, cfg)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Mixer) String() string {
	m.crit.Lock()
	defer m.crit.Unlock()
	return fmt.Sprintf("mixer: %s, %d channels, block %d", m.format, len(m.order), m.block)
}

// Describe returns a multi-line description of the mixer and every channel.
func (m *Mixer) Describe() string {
	s := strings.Builder{}
	s.WriteString(m.String())
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("master: %s\n", m.master.snapshot()))
	for c, l := range m.categories {
		s.WriteString(fmt.Sprintf("%s: %s\n", channel.Category(c), l.snapshot()))
	}
	for _, ch := range m.Channels() {
		s.WriteString(ch.Describe())
		s.WriteString("\n")
	}
	return s.String()
}

// Format returns the output format of the mixer. Samples delivered to the
// host are 16bit in this format.
func (m *Mixer) Format() buffer.Format {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.format
}

// HostFormat returns the format of the samples returned by Pull() and given
// to sinks.
func (m *Mixer) HostFormat() buffer.Format {
	f := m.Format()
	f.Encoding = buffer.S16
	return f
}

// Block returns the number of frames in each tick when the mixer is being
// pulled by the host.
func (m *Mixer) Block() int {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.block
}

// Register a new channel. The output format of the configuration is replaced
// with the output format of the mixer. Returns the channel, which should be
// kept by the device as its handle to the mixer.
func (m *Mixer) Register(cfg channel.Config) (*channel.Channel, error) {
	m.crit.Lock()
	_, dup := m.entries[cfg.Name]
	cfg.Output = m.format
	m.crit.Unlock()

	if dup {
		return nil, fmt.Errorf("mixer: %w: %s", ErrDuplicateName, cfg.Name)
	}

	if cfg.QuietTimeout == 0 {
		cfg.QuietTimeout = m.Prefs.QuietTimeout.Get().(time.Duration)
	}
	if s := m.Prefs.Resampling.String(); s != "auto" {
		if alg, err := resample.ParseAlgorithm(s); err == nil {
			cfg.Resampling = alg
		}
	}

	ch, err := channel.New(m.env, cfg)
	if err != nil {
		return nil, fmt.Errorf("mixer: %w", err)
	}

	p, err := channel.NewPreferences(ch, m.env.Prefs)
	if err != nil {
		return nil, fmt.Errorf("mixer: %w", err)
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if _, ok := m.entries[cfg.Name]; ok {
		p.Unregister()
		return nil, fmt.Errorf("mixer: %w: %s", ErrDuplicateName, cfg.Name)
	}

	// the output format may have changed since it was read above
	if ch.OutputFormat() != m.format {
		if err := ch.SetOutputFormat(m.format); err != nil {
			p.Unregister()
			return nil, fmt.Errorf("mixer: %w", err)
		}
	}

	e := &entry{ch: ch, prefs: p}
	m.entries[cfg.Name] = e
	m.order = append(m.order, e)

	logger.Logf(m.env, "mixer", "registered %s", ch)

	return ch, nil
}

// Unregister removes the channel from the mixer. The channel should not be
// used after it has been unregistered.
func (m *Mixer) Unregister(ch *channel.Channel) error {
	m.crit.Lock()
	defer m.crit.Unlock()

	e, ok := m.entries[ch.Name()]
	if !ok || e.ch != ch {
		return fmt.Errorf("mixer: %w: %s", ErrUnknownChannel, ch.Name())
	}

	delete(m.entries, ch.Name())
	for i := range m.order {
		if m.order[i] == e {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	e.prefs.Unregister()

	logger.Logf(m.env, "mixer", "unregistered %s", ch)

	return nil
}

// Lookup returns the channel registered with the name.
func (m *Mixer) Lookup(name string) (*channel.Channel, bool) {
	m.crit.Lock()
	defer m.crit.Unlock()
	e, ok := m.entries[name]
	if !ok {
		return nil, false
	}
	return e.ch, true
}

// ChannelPreferences returns the preferences for the named channel.
func (m *Mixer) ChannelPreferences(name string) (*channel.Preferences, bool) {
	m.crit.Lock()
	defer m.crit.Unlock()
	e, ok := m.entries[name]
	if !ok {
		return nil, false
	}
	return e.prefs, true
}

// Channels returns every registered channel in the order they were
// registered.
func (m *Mixer) Channels() []*channel.Channel {
	m.crit.Lock()
	defer m.crit.Unlock()
	chs := make([]*channel.Channel, 0, len(m.order))
	for _, e := range m.order {
		chs = append(chs, e.ch)
	}
	return chs
}

// SetProducer attaches a producer to the channel. The producer is ticked
// immediately before the channel is finished. A nil producer removes any
// existing producer.
func (m *Mixer) SetProducer(ch *channel.Channel, p Producer) error {
	m.crit.Lock()
	defer m.crit.Unlock()

	e, ok := m.entries[ch.Name()]
	if !ok || e.ch != ch {
		return fmt.Errorf("mixer: %w: %s", ErrUnknownChannel, ch.Name())
	}
	e.producer = p
	return nil
}

// SetRate changes the output rate of the mixer and every channel. Called by
// the host backend when the rate negotiated with the audio device differs
// from the requested rate.
func (m *Mixer) SetRate(rate int) error {
	m.crit.Lock()
	defer m.crit.Unlock()

	if rate == m.format.Rate {
		return nil
	}

	f := m.format
	f.Rate = rate
	if err := f.Valid(); err != nil {
		return fmt.Errorf("mixer: %w: %w", ErrInvalidFormat, err)
	}
	m.format = f

	for _, e := range m.order {
		if err := e.ch.SetOutputFormat(f); err != nil {
			logger.Logf(m.env, "mixer", "%s: %v", e.ch.Name(), err)
		}
	}

	m.timeline.Reset()
	m.host.Reset()

	logger.Logf(m.env, "mixer", "output rate is now %dHz", rate)

	return nil
}

// SetBlock changes the number of frames in each tick of the mixer when it is
// being pulled by the host.
func (m *Mixer) SetBlock(frames int) error {
	if frames < 1 {
		return fmt.Errorf("mixer: %w: block of %d frames", ErrInvalidFormat, frames)
	}
	m.crit.Lock()
	defer m.crit.Unlock()
	if frames != m.block {
		m.setBlock(frames)
	}
	return nil
}

// setBlock must be called with the critical section locked
func (m *Mixer) setBlock(frames int) {
	m.block = frames
	m.host = ring.New[int16](hostBlocks * frames * m.format.Channels)
}

// SetMasterVolume sets the volume of the final mix as a percentage.
func (m *Mixer) SetMasterVolume(percent int) error {
	return m.master.setVolume(percent)
}

// SetMasterMute mutes or unmutes the final mix.
func (m *Mixer) SetMasterMute(mute bool) {
	m.master.mute.Store(mute)
}

// Master returns the state of the master volume control and meter.
func (m *Mixer) Master() Level {
	return m.master.snapshot()
}

// SetCategoryVolume sets the volume of every channel in the category as a
// percentage.
func (m *Mixer) SetCategoryVolume(c channel.Category, percent int) error {
	if c < 0 || c >= channel.NumCategories {
		return fmt.Errorf("mixer: unknown category (%d)", c)
	}
	return m.categories[c].setVolume(percent)
}

// SetCategoryMute mutes or unmutes every channel in the category.
func (m *Mixer) SetCategoryMute(c channel.Category, mute bool) {
	if c < 0 || c >= channel.NumCategories {
		return
	}
	m.categories[c].mute.Store(mute)
}

// Category returns the state of the category's volume control and meter.
func (m *Mixer) Category(c channel.Category) Level {
	if c < 0 || c >= channel.NumCategories {
		return Level{}
	}
	return m.categories[c].snapshot()
}

// AddSink attaches a sink to the mixer. The sink receives every tick until
// it is removed or the mixer is closed.
func (m *Mixer) AddSink(s Sink) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.sinks = append(m.sinks, s)
}

// RemoveSink detaches the sink and calls its EndMixing() function.
func (m *Mixer) RemoveSink(s Sink) error {
	m.crit.Lock()
	defer m.crit.Unlock()
	for i := range m.sinks {
		if m.sinks[i] == s {
			m.sinks = append(m.sinks[:i], m.sinks[i+1:]...)
			return s.EndMixing()
		}
	}
	return nil
}

// Close detaches every sink, calling EndMixing() for each. The first error
// is returned.
func (m *Mixer) Close() error {
	m.crit.Lock()
	defer m.crit.Unlock()

	var rerr error
	for _, s := range m.sinks {
		if err := s.EndMixing(); err != nil && rerr == nil {
			rerr = err
		}
	}
	m.sinks = m.sinks[:0]
	return rerr
}

// ResetState is called after a saved state has been restored. Every producer
// and channel is reset and any samples waiting for the host are discarded.
//
// Devices must not submit to their channels or add events while ResetState()
// is running.
func (m *Mixer) ResetState() {
	m.crit.Lock()
	defer m.crit.Unlock()

	for _, e := range m.order {
		if e.producer != nil {
			e.producer.Reset()
		}
		e.ch.Reset()
	}
	for _, l := range m.categories {
		l.meter.Reset()
	}
	m.master.meter.Reset()
	m.host.Reset()
	m.timeline.Reset()

	logger.Log(m.env, "mixer", "state reset")
}

// Overflow returns the number of samples that could not be added to the host
// ring because the host was not pulling them quickly enough.
func (m *Mixer) Overflow() uint64 {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.overflow
}

// Underflow returns the number of samples that were replaced with silence by
// Drain() because the mixer had not been ticked.
func (m *Mixer) Underflow() uint64 {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.underflow
}
