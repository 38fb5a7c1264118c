// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/freequeue/audio"
	"github.com/ik5/freequeue/utils"
)

// Encoder writes planar frames as a PCM WAV stream. It implements
// audio.Sink. The RIFF and data sizes are patched on Close, which is why the
// destination must be seekable.
type Encoder struct {
	enc      *gowav.Encoder
	channels int
	bitDepth int

	buf        goaudio.IntBuffer
	ints       []int
	interleave []float32
}

// NewEncoder writes the WAV header to w and returns an Encoder for frames
// of channels samples at sampleRate. bitDepth must be 8, 16, 24 or 32.
func NewEncoder(w io.WriteSeeker, sampleRate, bitDepth, channels int) (*Encoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidSampleRate, sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidChannelCount, channels)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	e := &Encoder{
		enc:      gowav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		channels: channels,
		bitDepth: bitDepth,
		buf: goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
	}

	// An empty write emits the headers, so closing right away still leaves
	// a valid file.
	if err := e.enc.Write(&e.buf); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return e, nil
}

func (e *Encoder) WriteFrames(src [][]float32) error {
	if len(src) != e.channels {
		return audio.ErrChannelCountMismatch
	}
	frames, err := audio.FrameCount(src)
	if err != nil {
		return err
	}
	if frames == 0 {
		return nil
	}

	want := frames * e.channels
	if cap(e.ints) < want {
		e.ints = make([]int, want)
		e.interleave = make([]float32, want)
	}
	e.ints = e.ints[:want]
	e.interleave = e.interleave[:want]

	audio.Interleave(e.interleave, src, frames)
	for i, x := range e.interleave {
		v := utils.FloatToPCM(x, e.bitDepth)
		if e.bitDepth == 8 {
			v += 128
		}
		e.ints[i] = v
	}

	e.buf.Data = e.ints
	if err := e.enc.Write(&e.buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Close finalizes the headers. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
