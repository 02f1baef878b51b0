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

package performance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jetsetilly/gophermix/performance"
	"github.com/jetsetilly/gophermix/test"
)

func TestParseProfile(t *testing.T) {
	p, err := performance.ParseProfile("none")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileNone)

	p, err = performance.ParseProfile("cpu, Trace")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU|performance.ProfileTrace)
	test.ExpectEquality(t, p.String(), "CPU,TRACE")

	_, err = performance.ParseProfile("disk")
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, errors.Is(err, performance.ErrUnknownProfile))
}

func TestCheck(t *testing.T) {
	tw := &test.CompareWriter{}

	var calls int
	res, err := performance.Check(context.Background(), tw, performance.ProfileNone, 1000, 0, 20*time.Millisecond, func() (int, error) {
		calls++
		return 10, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, res.Frames, calls*10)
	test.ExpectSuccess(t, res.Elapsed >= 20*time.Millisecond)
	test.ExpectSuccess(t, res.Realtime() > 0)
	test.ExpectEquality(t, tw.String(), res.String()+"\n")
}

func TestCheckError(t *testing.T) {
	tw := &test.CompareWriter{}

	failed := errors.New("failed")
	_, err := performance.Check(context.Background(), tw, performance.ProfileNone, 1000, 0, time.Second, func() (int, error) {
		return 0, failed
	})
	test.ExpectSuccess(t, errors.Is(err, failed))
	test.ExpectEquality(t, tw.String(), "")
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := performance.Check(ctx, &test.CompareWriter{}, performance.ProfileNone, 1000, time.Second, time.Second, func() (int, error) {
		return 1, nil
	})
	test.ExpectSuccess(t, errors.Is(err, context.Canceled))
}
