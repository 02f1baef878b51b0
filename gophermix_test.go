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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jetsetilly/gophermix/hardware/audio/mixer"
	"github.com/jetsetilly/gophermix/hardware/audio/synth"
	"github.com/jetsetilly/gophermix/test"
	"github.com/jetsetilly/gophermix/wavwriter"
)

func TestSchedule(t *testing.T) {
	clock := &synth.ManualClock{}
	s, err := newSession(sessionOptions{clock: clock})
	test.DemandSuccess(t, err)

	end, err := schedule(s.tone, s.tia, 0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, end, 16*beat)
	test.ExpectEquality(t, s.tone.Pending(), 37)
	test.ExpectEquality(t, s.tia.Pending(), 16)

	// the second play starts where the first ends
	end, err = schedule(s.tone, s.tia, end)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, end, 32*beat)
	test.ExpectEquality(t, s.tone.Pending(), 74)
	test.ExpectEquality(t, s.tia.Pending(), 32)
}

func TestRenderSession(t *testing.T) {
	clock := &synth.ManualClock{}
	s, err := newSession(sessionOptions{
		cfg:   mixer.Config{Rate: 48000, Block: 1024},
		clock: clock,
	})
	test.DemandSuccess(t, err)

	ww, err := wavwriter.New(filepath.Join(t.TempDir(), "out.wav"))
	test.DemandSuccess(t, err)
	s.mixer.AddSink(ww)

	frames, err := renderSession(context.Background(), s, clock, 100*time.Millisecond)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, frames, 5120)
	test.ExpectEquality(t, ww.Frames(), 5120)
	test.ExpectEquality(t, clock.Now(), 5120*time.Second/48000)
	test.ExpectEquality(t, s.tone.Dropped(), uint64(0))
	test.ExpectEquality(t, s.tia.Dropped(), uint64(0))
	test.ExpectInequality(t, s.mixer.Master().PeakL, 0)
}

func TestRenderCancelled(t *testing.T) {
	clock := &synth.ManualClock{}
	s, err := newSession(sessionOptions{clock: clock})
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, err := renderSession(ctx, s, clock, time.Second)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, frames, 0)
}

func TestLaunch(t *testing.T) {
	tw := &test.CompareWriter{}
	test.ExpectEquality(t, launch(context.Background(), []string{"-help"}, tw), 0)
	test.ExpectInequality(t, tw.String(), "")

	// unknown flags fall through to the default mode, which also rejects them
	tw.Clear()
	test.ExpectEquality(t, launch(context.Background(), []string{"-nosuchflag"}, tw), 20)

	// render mode needs a filename
	tw.Clear()
	test.ExpectEquality(t, launch(context.Background(), []string{"render"}, tw), 20)

	out := filepath.Join(t.TempDir(), "render.wav")
	tw.Clear()
	test.ExpectEquality(t, launch(context.Background(), []string{"render", "-duration", "50ms", out}, tw), 0)

	_, err := os.Stat(out)
	test.ExpectSuccess(t, err)
}
