// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/freequeue/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read decodes interleaved samples into p and returns the number of
	// values written, always a whole number of frames.
	Read(p []float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
	interleave []float32
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
	if cap(s.interleave) < want {
		s.interleave = make([]float32, want)
	}
	s.interleave = s.interleave[:want]

	// Vorbis packets vary in size, so keep reading until dst is full.
	values := 0
	for values < want {
		n, err := s.dec.Read(s.interleave[values:])
		values += n
		if errors.Is(err, io.EOF) {
			s.eof = true
			break
		}
		if err != nil {
			got := audio.Deinterleave(dst, s.interleave[:values])
			return got, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	got := audio.Deinterleave(dst, s.interleave[:values])
	if s.eof {
		return got, io.EOF
	}
	return got, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec), nil
}

func newSource(dec oggReader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		interleave: make([]float32, 4096),
	}
}
