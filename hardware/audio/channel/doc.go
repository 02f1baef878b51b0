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

// Package channel implements the per-source audio pipeline. A Channel accepts
// sample data in whatever format the source device produces and converts it
// into the canonical output format used by the mixer.
//
// # Threads
//
// Three roles interact with a Channel.
//
// The producer is the single goroutine that feeds the channel with sample
// data, through the Submit functions. For a channel fed directly by a device
// this is the simulation goroutine. For a channel driven by a synth adapter it
// is the audio goroutine, immediately before Finish() is called. There must
// only ever be one producer for a channel.
//
// The consumer is the audio goroutine. It calls Finish() once per period and
// then removes the processed frames with MixOutput() and PopOutput().
//
// Configuration functions (SetVolume(), SetFilter(), etc.) can be called from
// any goroutine. New effect and resampler instances are built by the
// configuring goroutine and handed over to the consumer at the start of the
// next call to Finish(). The lock used for the handover is held only long
// enough to swap pointers.
//
// # Processing
//
// Finish() converts the amount of input corresponding to a span of time. The
// stages, in order, are:
//
//	drain input -> cast to canonical -> resample -> remix channel count
//	   -> reverse stereo -> filter -> crossfeed -> chorus -> reverb
//	   -> volume and metering -> append to output
//
// Stages that have no effect for the current configuration are skipped.
//
// The number of frames required from the input and produced for the output
// is calculated from the span without accumulating rounding error. The
// fractional part of a frame is carried over to the next period.
//
// If the resampler produces fewer frames than the period requires the
// deficit is filled by repeating the last frame, for up to one millisecond,
// and then with silence. The padding is recorded as a debt and is repaid from
// any later surplus, so that the long-term frame count is unaffected.
//
// # States
//
// A new Channel is disabled. It becomes enabled on the first submission of
// non-silent data. When the source stops producing non-silent data the
// channel drains any remaining input and, once the input is empty and the
// quiet timeout has elapsed, becomes disabled again. A draining channel is
// still active and is still processed by the mixer.
package channel
