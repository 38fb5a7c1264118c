// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/freequeue/utils"
)

const resamplerChunk = 1024

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on planar frames; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// History window for cubic interpolation, one slice per position:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2.
	// fromSrc marks positions that hold a real source frame rather than
	// an edge duplicate.
	frames  [4][]float32
	fromSrc [4]bool
	primed  bool
	done    bool

	// Position between frames[1] and frames[2], in source frames.
	pos float64

	in    [][]float32
	inLen int
	inPos int
	eof   bool

	// One-pole low-pass state, used when downsampling.
	useFilter   bool
	filterAlpha float32
	filterState []float32
}

// NewResampler wraps src so it yields dstRate frames per second.
func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d Hz", ErrInvalidSampleRate, src.SampleRate(), dstRate)
	}
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}

	ratio := float64(src.SampleRate()) / float64(dstRate)
	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		ratio:       ratio,
		channels:    channels,
		in:          NewPlanar(channels, resamplerChunk),
		useFilter:   ratio > 1.0,
		filterState: make([]float32, channels),
	}
	if r.useFilter {
		// Simplified cutoff near the destination Nyquist frequency.
		r.filterAlpha = 0.5
	}
	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32, first bool) (bool, error) {
	for r.inPos >= r.inLen {
		if r.eof {
			return false, nil
		}
		n, err := r.src.ReadFrames(r.in)
		r.inLen, r.inPos = n, 0
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	for c := range r.channels {
		x := r.in[c][r.inPos]
		if r.useFilter {
			if first {
				// Start from the first sample to avoid a warm-up transient.
				r.filterState[c] = x
			}
			x = r.filterAlpha*x + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = x
		}
		dst[c] = x
	}
	r.inPos++
	return true, nil
}

func (r *Resampler) prime() (bool, error) {
	ok, err := r.nextFrame(r.frames[1], true)
	if err != nil || !ok {
		return false, err
	}
	copy(r.frames[0], r.frames[1])
	r.fromSrc[0], r.fromSrc[1] = false, true

	for k := 2; k < 4; k++ {
		ok, err := r.nextFrame(r.frames[k], false)
		if err != nil {
			return false, err
		}
		if !ok {
			copy(r.frames[k], r.frames[k-1])
		}
		r.fromSrc[k] = ok
	}
	r.primed = true
	return true, nil
}

// shift drops t-1 and pulls a new t+2, duplicating the edge past the end.
func (r *Resampler) shift() error {
	oldest := r.frames[0]
	r.frames[0], r.frames[1], r.frames[2] = r.frames[1], r.frames[2], r.frames[3]
	r.fromSrc[0], r.fromSrc[1], r.fromSrc[2] = r.fromSrc[1], r.fromSrc[2], r.fromSrc[3]
	r.frames[3] = oldest

	ok, err := r.nextFrame(r.frames[3], false)
	if err != nil {
		return err
	}
	if !ok {
		copy(r.frames[3], r.frames[2])
	}
	r.fromSrc[3] = ok
	return nil
}

// ReadFrames produces frames at the target rate into dst.
func (r *Resampler) ReadFrames(dst [][]float32) (int, error) {
	if len(dst) != r.channels {
		return 0, ErrChannelCountMismatch
	}
	want, err := FrameCount(dst)
	if err != nil {
		return 0, err
	}
	if r.done {
		return 0, io.EOF
	}
	if want == 0 {
		return 0, nil
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			r.done = true
			return 0, io.EOF
		}
	}

	written := 0
	for written < want {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.shift(); err != nil {
				return written, err
			}
		}

		// t0 past the last source frame, or between the last frame and
		// the padding after it: nothing left to interpolate.
		if !r.fromSrc[1] || (!r.fromSrc[2] && r.pos > 0) {
			r.done = true
			return written, io.EOF
		}

		alpha := float32(r.pos)
		for c := range r.channels {
			dst[c][written] = utils.CubicInterpolate(
				r.frames[0][c], r.frames[1][c], r.frames[2][c], r.frames[3][c], alpha)
		}

		written++
		r.pos += r.ratio
	}

	return written, nil
}
