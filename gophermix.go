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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/bradleyjkemp/memviz"
	"golang.org/x/sync/errgroup"

	"github.com/jetsetilly/gophermix/environment"
	"github.com/jetsetilly/gophermix/gui/otoaudio"
	"github.com/jetsetilly/gophermix/gui/sdlaudio"
	"github.com/jetsetilly/gophermix/hardware/audio/channel"
	"github.com/jetsetilly/gophermix/hardware/audio/mixer"
	"github.com/jetsetilly/gophermix/hardware/audio/pcmfile"
	"github.com/jetsetilly/gophermix/hardware/audio/synth"
	"github.com/jetsetilly/gophermix/hardware/audio/tiasound"
	"github.com/jetsetilly/gophermix/hardware/audio/tonegen"
	"github.com/jetsetilly/gophermix/logger"
	"github.com/jetsetilly/gophermix/modalflag"
	"github.com/jetsetilly/gophermix/performance"
	"github.com/jetsetilly/gophermix/prefs"
	"github.com/jetsetilly/gophermix/statsview"
	"github.com/jetsetilly/gophermix/version"
	"github.com/jetsetilly/gophermix/wavwriter"
)

// rate of the tone generator. deliberately different to the default mixer
// rate so that the resampler is always in use
const toneRate = 44100

// how far ahead of the clock the tune is scheduled when playing
const lookahead = 250 * time.Millisecond

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(launch(ctx, os.Args[1:], os.Stdout))
}

func launch(ctx context.Context, args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("PLAY", "RENDER", "GRAPH", "PERFORMANCE", "VERSION")
	log := md.AddBool("log", false, "echo log to stdout")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (available=%v)", statsview.Available()))

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	if *log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		if !statsview.Available() {
			fmt.Fprintln(output, "* statsview not available in this build")
		} else {
			statsview.Launch(ctx, output)
		}
	}

	switch md.Mode() {
	case "PLAY":
		err = play(ctx, md, output)
	case "RENDER":
		err = render(ctx, md, output)
	case "GRAPH":
		err = graph(md, output)
	case "PERFORMANCE":
		err = perform(ctx, md, output)
	case "VERSION":
		err = showVersion(md, output)
	}

	// any prefs pushed by the modes that were never claimed by a preference
	for range md.Pushed() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "gophermix", "unused preferences: %s", unused)
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(output, "* error in %s mode: %v\n", md, err)
		return 20
	}

	return 0
}

// session is a mixer with the tone generator, the tia chip and an optional
// sound file attached.
type session struct {
	env   *environment.Environment
	mixer *mixer.Mixer
	tone  *synth.Evented
	tia   *synth.Evented
	file  *pcmfile.Source
}

type sessionOptions struct {
	cfg   mixer.Config
	clock synth.Clock
	file  string
	loop  bool
	wav   string
}

func newSession(opts sessionOptions) (*session, error) {
	s := &session{
		env: environment.NewEnvironment(environment.MainEmulation, nil),
	}

	var err error
	s.mixer, err = mixer.New(s.env, opts.cfg)
	if err != nil {
		return nil, err
	}

	gen, err := tonegen.NewGenerator(toneRate)
	if err != nil {
		return nil, err
	}
	ch, err := s.mixer.Register(channel.Config{
		Name:     "tone",
		Category: channel.ToneGenerator,
		Kind:     channel.Evented,
		Input:    gen.Format(),
	})
	if err != nil {
		return nil, err
	}
	s.tone = synth.NewEvented(s.env, ch, gen, opts.clock, synth.DefaultEventCapacity)
	if err := s.mixer.SetProducer(ch, s.tone); err != nil {
		return nil, err
	}

	tia := tiasound.NewChip(false)
	ch, err = s.mixer.Register(channel.Config{
		Name:     "tia",
		Category: channel.ToneGenerator,
		Kind:     channel.Evented,
		Input:    tia.Format(),
	})
	if err != nil {
		return nil, err
	}
	s.tia = synth.NewEvented(s.env, ch, tia, opts.clock, synth.DefaultEventCapacity)
	if err := s.mixer.SetProducer(ch, s.tia); err != nil {
		return nil, err
	}

	if opts.file != "" {
		s.file, err = pcmfile.Load(opts.file)
		if err != nil {
			return nil, err
		}
		s.file.SetLoop(opts.loop)

		name := strings.TrimSuffix(filepath.Base(opts.file), filepath.Ext(opts.file))
		ch, err := s.mixer.Register(channel.Config{
			Name:     name,
			Category: channel.PCM,
			Kind:     channel.Continuous,
			Input:    s.file.Format(),
		})
		if err != nil {
			return nil, err
		}
		if err := s.mixer.SetProducer(ch, synth.NewContinuous(ch, s.file, opts.clock)); err != nil {
			return nil, err
		}
	}

	if opts.wav != "" {
		ww, err := wavwriter.New(opts.wav)
		if err != nil {
			return nil, err
		}
		s.mixer.AddSink(ww)
	}

	logger.Log(s.env, "gophermix", s.mixer.Describe())

	return s, nil
}

type wallClock struct {
	start time.Time
}

func (c wallClock) Now() time.Duration {
	return time.Since(c.start)
}

func play(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AddPrefs()
	backend := md.AddString("backend", "sdl", "audio backend: SDL, OTO")
	rate := md.AddInt("rate", mixer.DefaultRate, "output rate")
	block := md.AddInt("block", mixer.DefaultBlock, "frames per block")
	wav := md.AddString("wav", "", "also record output to wav file")
	loop := md.AddBool("loop", false, "loop sound file")
	duration := md.AddDuration("duration", 0, "stop after duration. zero plays until interrupted")
	silent := md.AddBool("notune", false, "do not play the tone generator tune")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	var file string
	switch len(md.RemainingArgs()) {
	case 0:
	case 1:
		file = md.GetArg(0)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	clock := wallClock{start: time.Now()}
	s, err := newSession(sessionOptions{
		cfg:   mixer.Config{Rate: *rate, Block: *block},
		clock: clock,
		file:  file,
		loop:  *loop,
		wav:   *wav,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := s.mixer.Close(); err != nil {
			fmt.Fprintf(output, "* %v\n", err)
		}
	}()

	type device interface {
		Run(context.Context) error
		Close() error
	}

	var dev device
	switch strings.ToUpper(*backend) {
	case "SDL":
		dev, err = sdlaudio.NewAudio(s.mixer)
	case "OTO":
		dev, err = otoaudio.NewAudio(s.mixer)
	default:
		return fmt.Errorf("unknown audio backend: %s", *backend)
	}
	if err != nil {
		return err
	}
	defer dev.Close()

	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dev.Run(ctx)
	})

	if !*silent {
		g.Go(func() error {
			return sequence(ctx, s, clock)
		})
	}

	fmt.Fprintf(output, "playing through %s\n", dev)
	if s.file != nil {
		fmt.Fprintf(output, "mixing %s (%s)\n", s.file, s.file.Duration())
	}

	err = g.Wait()
	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// sequence keeps the tune scheduled ahead of the clock until the context is
// cancelled.
func sequence(ctx context.Context, s *session, clock synth.Clock) error {
	start := clock.Now() + lookahead
	for {
		end, err := schedule(s.tone, s.tia, start)
		if err != nil {
			return err
		}

		wait := end - clock.Now() - lookahead
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		start = end
	}
}

func render(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AddPrefs()
	rate := md.AddInt("rate", mixer.DefaultRate, "output rate")
	block := md.AddInt("block", mixer.DefaultBlock, "frames per block")
	file := md.AddString("file", "", "sound file to mix with the tune")
	duration := md.AddDuration("duration", 5*time.Second, "length of render")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("%s mode requires a single wav filename", md)
	}

	clock := &synth.ManualClock{}
	s, err := newSession(sessionOptions{
		cfg:   mixer.Config{Rate: *rate, Block: *block},
		clock: clock,
		file:  *file,
		wav:   md.GetArg(0),
	})
	if err != nil {
		return err
	}

	frames, err := renderSession(ctx, s, clock, *duration)
	if err != nil {
		return err
	}
	if err := s.mixer.Close(); err != nil {
		return err
	}

	fmt.Fprintf(output, "rendered %d frames to %s\n", frames, md.GetArg(0))
	return nil
}

// stepper mixes the session one block at a time using a manual clock. The
// tune is repeated for as long as required.
type stepper struct {
	s     *session
	clock *synth.ManualClock
	buf   []int16
	block int
	rate  int

	// frames mixed so far
	done int

	// the tune is not scheduled beyond this time. zero means no limit
	limit     time.Duration
	scheduled time.Duration
}

func newStepper(s *session, clock *synth.ManualClock, limit time.Duration) *stepper {
	f := s.mixer.HostFormat()
	return &stepper{
		s:     s,
		clock: clock,
		buf:   make([]int16, s.mixer.Block()*f.Channels),
		block: s.mixer.Block(),
		rate:  f.Rate,
		limit: limit,
	}
}

// step mixes one block and returns the number of frames mixed.
func (st *stepper) step() (int, error) {
	// keep the tune ahead of the clock
	for st.scheduled < st.clock.Now()+lookahead && (st.limit == 0 || st.scheduled < st.limit) {
		end, err := schedule(st.s.tone, st.s.tia, st.scheduled)
		if err != nil {
			return 0, err
		}
		st.scheduled = end
	}

	st.done += st.block
	st.clock.Set(time.Duration(int64(st.done) * int64(time.Second) / int64(st.rate)))
	return st.s.mixer.Pull(st.buf), nil
}

// renderSession drives the session, as fast as possible, for the specified
// duration. Returns the number of frames mixed.
func renderSession(ctx context.Context, s *session, clock *synth.ManualClock, duration time.Duration) (int, error) {
	st := newStepper(s, clock, duration)
	total := s.mixer.HostFormat().FramesFor(duration)

	for st.done < total {
		if err := ctx.Err(); err != nil {
			return st.done, err
		}
		if _, err := st.step(); err != nil {
			return st.done, err
		}
	}

	return st.done, nil
}

func perform(ctx context.Context, md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AddPrefs()
	rate := md.AddInt("rate", mixer.DefaultRate, "output rate")
	block := md.AddInt("block", mixer.DefaultBlock, "frames per block")
	file := md.AddString("file", "", "sound file to mix with the tune")
	duration := md.AddDuration("duration", 5*time.Second, "length of measurement")
	profile := md.AddString("profile", "none", "profiles to create: NONE, CPU, MEM, TRACE")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prof, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	clock := &synth.ManualClock{}
	s, err := newSession(sessionOptions{
		cfg:   mixer.Config{Rate: *rate, Block: *block},
		clock: clock,
		file:  *file,
		loop:  true,
	})
	if err != nil {
		return err
	}

	st := newStepper(s, clock, 0)
	_, err = performance.Check(ctx, output, prof, s.mixer.HostFormat().Rate, time.Second, *duration, st.step)
	return err
}

func showVersion(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	filter := md.AddString("filter", "", "only list modules containing the filter")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	version.Read().Write(output, *filter)
	return nil
}

func graph(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	md.AddPrefs()
	file := md.AddString("file", "", "sound file to include in the graph")
	warm := md.AddDuration("warm", 100*time.Millisecond, "amount of audio to mix before taking the snapshot")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	clock := &synth.ManualClock{}
	s, err := newSession(sessionOptions{
		clock: clock,
		file:  *file,
	})
	if err != nil {
		return err
	}

	if _, err := renderSession(context.Background(), s, clock, *warm); err != nil {
		return err
	}
	snapshot := s.mixer.Snapshot()

	w := output
	switch len(md.RemainingArgs()) {
	case 0:
	case 1:
		f, err := os.Create(md.GetArg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	memviz.Map(w, &snapshot)
	return nil
}
