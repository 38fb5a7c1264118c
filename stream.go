// SPDX-License-Identifier: EPL-2.0

package freequeue

import (
	"context"
	"fmt"
	"os"

	"github.com/ik5/freequeue/audio"
	"github.com/ik5/freequeue/formats/aiff"
	"github.com/ik5/freequeue/formats/mp3"
	"github.com/ik5/freequeue/formats/vorbis"
	"github.com/ik5/freequeue/formats/wav"
	"github.com/ik5/freequeue/session"
)

// Stream converts src to the format in cfg and moves it into sink through a
// new session. Neither src nor sink is closed.
//
// Example:
//
//	src, _ := freequeue.DecodeFile("input.mp3")
//	defer src.Close()
//	enc, _ := wav.NewEncoder(out, 48000, 16, 2)
//	stats, err := freequeue.Stream(ctx, src, enc, session.DefaultConfig())
func Stream(ctx context.Context, src audio.Source, sink audio.Sink, cfg session.Config, opts ...session.Option) (session.Stats, error) {
	if err := cfg.Validate(); err != nil {
		return session.Stats{}, err
	}

	adapted, err := audio.Adapt(src, cfg.SampleRate, cfg.Channels)
	if err != nil {
		return session.Stats{}, fmt.Errorf("adapting source: %w", err)
	}

	s, err := session.New(cfg, opts...)
	if err != nil {
		return session.Stats{}, err
	}
	return s.Run(ctx, adapted, sink)
}

// Decoders returns a registry with every bundled format under its usual
// file extensions.
func Decoders() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	return r
}

// fileSource closes the file together with the decoded source.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	srcErr := s.Source.Close()
	if err := s.f.Close(); err != nil {
		return err
	}
	return srcErr
}

// DecodeFile opens path and decodes it with the decoder registered for its
// extension in Decoders. Closing the source closes the file.
func DecodeFile(path string) (audio.Source, error) {
	dec, ok := Decoders().ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &fileSource{Source: src, f: f}, nil
}
