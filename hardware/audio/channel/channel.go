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
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jetsetilly/gophermix/environment"
	"github.com/jetsetilly/gophermix/hardware/audio/buffer"
	"github.com/jetsetilly/gophermix/hardware/audio/effects"
	"github.com/jetsetilly/gophermix/hardware/audio/meter"
	"github.com/jetsetilly/gophermix/hardware/audio/resample"
	"github.com/jetsetilly/gophermix/hardware/audio/ring"
	"github.com/jetsetilly/gophermix/logger"
)

// samples with an absolute canonical value at or below this are considered
// silent. one step of a 16bit sample
const silenceThreshold = 1.0 / 32768.0

// pipeline is the configuration handed from the configuring goroutine to the
// consumer
type pipeline struct {
	in  buffer.Format
	out buffer.Format

	resampler resample.Resampler
	chain     *effects.Chain
	reverse   bool

	// discard queued input written before this index
	flush   bool
	flushTo uint64
}

// Channel is the audio pipeline for a single source.
type Channel struct {
	env *environment.Environment

	name     string
	id       uuid.UUID
	category Category
	kind     Kind

	quietTimeout time.Duration
	defaults     effects.Settings
	autoResample resample.Algorithm

	// serialises configuration changes. never taken by the consumer
	configMu sync.Mutex
	settings Settings
	inFormat buffer.Format
	outFmt   buffer.Format

	// handover of a new pipeline to the consumer
	crit    sync.Mutex
	pending *pipeline

	// per side volume as float32 bits
	gainL atomic.Uint32
	gainR atomic.Uint32

	// input queue between producer and consumer
	queue *ring.Ring[float32]

	// state as seen by other goroutines
	state atomic.Int32

	// set by the producer on a non-silent submission
	wake atomic.Bool

	// request to disable the channel at the start of the next period
	hardOff atomic.Bool

	// set by the consumer when the channel is disabled. the resampler is
	// rebuilt by the goroutine that next wakes the channel
	stale atomic.Bool

	// incremented by the consumer at the end of every period. used by the
	// producer to measure submission offsets
	period atomic.Uint64

	// counters reported by Describe()
	dropped    atomic.Uint64
	mismatches atomic.Uint64
	held       atomic.Uint64

	// producer state
	producer producer

	// consumer state
	consumer consumer

	meter *meter.VU
}

// New is the preferred method of initialisation for the Channel type.
func New(env *environment.Environment, cfg Config) (*Channel, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("channel: %w: no name", ErrInvalidConfig)
	}
	if cfg.Category < 0 || cfg.Category >= NumCategories {
		return nil, fmt.Errorf("channel: %s: %w: category %d", cfg.Name, ErrInvalidConfig, cfg.Category)
	}
	if err := cfg.Input.Valid(); err != nil {
		return nil, fmt.Errorf("channel: %s: %w", cfg.Name, err)
	}
	cfg.Output.Encoding = buffer.F32
	if err := cfg.Output.Valid(); err != nil {
		return nil, fmt.Errorf("channel: %s: %w", cfg.Name, err)
	}
	if err := effects.Validate(cfg.Defaults); err != nil {
		return nil, fmt.Errorf("channel: %s: default effects: %w", cfg.Name, err)
	}
	if cfg.QuietTimeout <= 0 {
		cfg.QuietTimeout = DefaultQuietTimeout
	}
	if cfg.InputCapacity <= 0 {
		cfg.InputCapacity = DefaultInputCapacity
	}

	ch := &Channel{
		env:          env,
		name:         cfg.Name,
		id:           uuid.New(),
		category:     cfg.Category,
		kind:         cfg.Kind,
		quietTimeout: cfg.QuietTimeout,
		defaults:     cfg.Defaults,
		autoResample: cfg.Resampling,
		settings:     DefaultSettings(),
		inFormat:     cfg.Input,
		outFmt:       cfg.Output,
		meter:        meter.NewVU(meter.DefaultDecay),
	}

	// the queue is sized for the largest input format the channel is likely
	// to see so that a format change does not need a new queue
	capacity := buffer.MaxChannels * max(cfg.Input.FramesFor(cfg.InputCapacity), 1024)
	ch.queue = ring.New[float32](capacity)

	ch.setGains(ch.settings)
	ch.producer.init(cfg.Input)
	ch.consumer.init(cfg.Input, cfg.Output)

	// build the initial pipeline. it will be installed by the first call to
	// Finish()
	// problems building the pipeline are logged and the channel degrades to
	// pass-through
	ch.configMu.Lock()
	_ = ch.reconfigure(rebuildAll, false)
	ch.configMu.Unlock()

	return ch, nil
}

func (ch *Channel) String() string {
	return ch.name
}

// Name returns the unique name of the channel.
func (ch *Channel) Name() string {
	return ch.name
}

// ID returns the unique identifier of the channel.
func (ch *Channel) ID() uuid.UUID {
	return ch.id
}

// Category returns the category of the channel.
func (ch *Channel) Category() Category {
	return ch.category
}

// Kind returns the kind of source that feeds the channel.
func (ch *Channel) Kind() Kind {
	return ch.kind
}

// State returns the current state of the channel.
func (ch *Channel) State() State {
	return State(ch.state.Load())
}

// Active returns true if the channel should be processed by the mixer. This
// includes draining channels and disabled channels that have received data
// since the last period.
func (ch *Channel) Active() bool {
	return ch.State() != Disabled || ch.wake.Load() || ch.hardOff.Load()
}

// WakeUp marks the channel as active. Used by sources that know they are
// about to produce sound but have not yet submitted any data.
func (ch *Channel) WakeUp() {
	ch.refresh()
	ch.wake.Store(true)
}

// refresh replaces the resampler of a channel that has been disabled. called
// before the wake flag is set so that the new resampler is installed in the
// same period as the channel is enabled
func (ch *Channel) refresh() {
	if !ch.stale.Swap(false) {
		return
	}
	ch.configMu.Lock()
	defer ch.configMu.Unlock()
	_ = ch.reconfigure(rebuildResampler, false)
}

// InputFormat returns the format expected by the Submit functions.
func (ch *Channel) InputFormat() buffer.Format {
	return *ch.producer.format.Load()
}

// OutputFormat returns the format of the processed output.
func (ch *Channel) OutputFormat() buffer.Format {
	ch.configMu.Lock()
	defer ch.configMu.Unlock()
	return ch.outFmt
}

// Peaks returns the VU meter levels for each side of the channel.
func (ch *Channel) Peaks() (float32, float32) {
	return ch.meter.Peaks()
}

// Meter returns the VU meter for the channel.
func (ch *Channel) Meter() *meter.VU {
	return ch.meter
}

// Dropped returns the number of submitted frames that were discarded because
// the input queue was full.
func (ch *Channel) Dropped() uint64 {
	return ch.dropped.Load()
}

// Describe returns a one line summary of the channel.
func (ch *Channel) Describe() string {
	ch.configMu.Lock()
	in := ch.inFormat
	out := ch.outFmt
	s := ch.settings
	ch.configMu.Unlock()

	l, r := ch.meter.PeaksDB()
	return fmt.Sprintf("%s [%s, %s] %s -> %s vol=%d%% bal=%d %s queued=%d dropped=%d held=%d peak=%.1f/%.1fdB",
		ch.name, ch.category, ch.kind, in, out, s.Volume, s.Balance, ch.State(),
		ch.queue.Len()/max(in.Channels, 1), ch.dropped.Load(), ch.held.Load(), l, r)
}

func (ch *Channel) setGains(s Settings) {
	l, r := s.gains()
	ch.gainL.Store(math.Float32bits(l))
	ch.gainR.Store(math.Float32bits(r))
}

func (ch *Channel) gains() (float32, float32) {
	return math.Float32frombits(ch.gainL.Load()), math.Float32frombits(ch.gainR.Load())
}

// log a problem with the channel. the channel name is used as the detail
// prefix so that repeated problems collapse into a single log entry
func (ch *Channel) log(detail any) {
	logger.Logf(ch.env, "channel", "%s: %v", ch.name, detail)
}
