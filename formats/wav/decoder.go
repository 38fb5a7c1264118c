// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/freequeue/audio"
	"github.com/ik5/freequeue/utils"
)

const formatPCM = 1

type wavSource struct {
	dec        *gowav.Decoder
	sampleRate int
	channels   int
	bitDepth   int

	buf   goaudio.IntBuffer
	ints  []int
	carry int // samples of an incomplete frame kept at the head of ints
	eof   bool
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) Close() error    { return nil }

func (s *wavSource) ReadFrames(dst [][]float32) (int, error) {
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
	if cap(s.ints) < want {
		grown := make([]int, want)
		copy(grown, s.ints[:s.carry])
		s.ints = grown
	}
	s.buf.Data = s.ints[s.carry:want]

	n, err := s.dec.PCMBuffer(&s.buf)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	total := s.carry + n
	got := total / s.channels
	for f := range got {
		base := f * s.channels
		for c := range s.channels {
			dst[c][f] = s.sample(s.ints[base+c])
		}
	}
	s.carry = copy(s.ints, s.ints[got*s.channels:total])

	if n == 0 {
		s.eof = true
		return got, io.EOF
	}
	return got, nil
}

func (s *wavSource) sample(v int) float32 {
	if s.bitDepth == 8 {
		// 8-bit WAV is unsigned.
		v -= 128
	}
	return utils.PCMToFloat(v, s.bitDepth)
}

// Decoder reads PCM WAV files. It implements audio.Decoder.
type Decoder struct{}

// Decode parses the WAV headers from r and positions the source at the
// start of the PCM data. Readers that cannot seek are read into memory
// first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		rs = bytes.NewReader(data)
	}

	var magic [12]byte
	if _, err := io.ReadFull(rs, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if string(magic[0:4]) != "RIFF" || string(magic[8:12]) != "WAVE" {
		return nil, ErrNotWavFile
	}
	if _, err := rs.Seek(-int64(len(magic)), io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavFormat, err)
	}

	if dec.WavAudioFormat != formatPCM || dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, fmt.Errorf("%w: format %d, %d channels, %d Hz",
			ErrUnsupportedWavFormat, dec.WavAudioFormat, dec.NumChans, dec.SampleRate)
	}
	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavFormat, err)
	}

	channels := int(dec.NumChans)
	return &wavSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   int(dec.BitDepth),
		buf: goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  int(dec.SampleRate),
			},
			SourceBitDepth: int(dec.BitDepth),
		},
	}, nil
}
