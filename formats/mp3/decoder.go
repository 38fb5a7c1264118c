// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/freequeue/audio"
	"github.com/ik5/freequeue/utils"
)

// go-mp3 always produces interleaved stereo, 16-bit little-endian.
const (
	channels   = 2
	frameBytes = channels * 2
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	eof        bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadFrames(dst [][]float32) (int, error) {
	if len(dst) != channels {
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

	need := frames * frameBytes
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	// ReadFull keeps frames whole; only the very end can be short.
	n, err := io.ReadFull(s.dec, s.buf)
	got := n / frameBytes
	l, r := dst[0], dst[1]
	for f := range got {
		b := s.buf[f*frameBytes:]
		l[f] = utils.PCMToFloat(int(int16(binary.LittleEndian.Uint16(b[0:2]))), 16)
		r[f] = utils.PCMToFloat(int(int16(binary.LittleEndian.Uint16(b[2:4]))), 16)
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
		return got, io.EOF
	case err != nil:
		return got, fmt.Errorf("%w", err)
	}
	return got, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return newSource(dec), nil
}

func newSource(dec mp3Reader) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 4096*frameBytes),
	}
}
