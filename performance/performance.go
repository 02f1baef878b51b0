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

package performance

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Driver mixes some audio and returns the number of frames mixed.
type Driver func() (int, error)

// the clock is only checked every brake calls to the driver
const brake = 16

// Result of a call to Check().
type Result struct {
	Frames  int
	Elapsed time.Duration
	Rate    int
}

// Realtime returns how many times faster than real time the audio was
// produced.
func (r Result) Realtime() float64 {
	if r.Rate == 0 || r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / float64(r.Rate) / r.Elapsed.Seconds()
}

func (r Result) String() string {
	return fmt.Sprintf("%.2fx realtime (%d frames in %.2f seconds)", r.Realtime(), r.Frames, r.Elapsed.Seconds())
}

// Check calls the driver repeatedly for the specified duration. The driver
// is first run for the leadtime without measurement so that caches and the
// allocator settle. The rate is the rate of the frames returned by the
// driver.
//
// The result is written to output as well as being returned.
func Check(ctx context.Context, output io.Writer, profile Profile, rate int, leadtime time.Duration, duration time.Duration, drive Driver) (Result, error) {
	res := Result{Rate: rate}

	run := func(d time.Duration, count bool) error {
		start := time.Now()
		for n := 0; ; n++ {
			if n%brake == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
				if time.Since(start) >= d {
					break
				}
			}
			f, err := drive()
			if err != nil {
				return err
			}
			if count {
				res.Frames += f
			}
		}
		if count {
			res.Elapsed = time.Since(start)
		}
		return nil
	}

	if err := run(leadtime, false); err != nil {
		return res, fmt.Errorf("performance: %w", err)
	}

	err := RunProfiler(profile, "performance", func() error {
		return run(duration, true)
	})
	if err != nil {
		return res, fmt.Errorf("performance: %w", err)
	}

	fmt.Fprintln(output, res.String())
	return res, nil
}
