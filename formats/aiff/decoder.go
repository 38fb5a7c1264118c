// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/freequeue/audio"
	"github.com/ik5/freequeue/utils"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source
type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadFrames(dst [][]float32) (int, error) {
	if len(dst) != s.channels {
		return 0, audio.ErrChannelCountMismatch
	}
	frames, err := audio.FrameCount(dst)
	if err != nil {
		return 0, err
	}
	if s.eof {
		return 0, io.EOF
	}
	if frames == 0 {
		return 0, nil
	}

	want := frames * s.channels
	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:want]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	got := n / s.channels
	for f := range got {
		base := f * s.channels
		for c := range s.channels {
			dst[c][f] = utils.PCMToFloat(s.intBuf.Data[base+c], s.bitDepth)
		}
	}

	switch {
	case errors.Is(err, io.EOF), err == nil && n < want:
		// A short read means the sound chunk is exhausted.
		s.eof = true
		return got, io.EOF
	case err != nil:
		return got, fmt.Errorf("%w", err)
	}
	return got, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return newSource(dec, int(dec.BitDepth)), nil
}

func newSource(dec aiffReader, bitDepth int) *source {
	format := dec.Format()
	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
	}
}
