// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer changes the channel count of a source.
//
// When folding N source channels into M < N outputs, output channel c is the
// average of every source channel s with s%M == c, so stereo to mono
// averages L and R. When expanding, output channel c copies source channel
// c%N, so mono is duplicated into every output.
type ChannelMixer struct {
	src      Source
	channels int
	tmp      [][]float32
}

// NewChannelMixer wraps src so it yields channels channels.
func NewChannelMixer(src Source, channels int) (*ChannelMixer, error) {
	if channels <= 0 || src.Channels() <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidChannelCount, src.Channels(), channels)
	}
	return &ChannelMixer{
		src:      src,
		channels: channels,
	}, nil
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.channels }

func (m *ChannelMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *ChannelMixer) ReadFrames(dst [][]float32) (int, error) {
	if len(dst) != m.channels {
		return 0, ErrChannelCountMismatch
	}
	frames, err := FrameCount(dst)
	if err != nil {
		return 0, err
	}
	if frames == 0 {
		return 0, nil
	}

	in := m.src.Channels()
	if in == m.channels {
		// Pass-through
		return m.src.ReadFrames(dst)
	}

	// Grow tmp if needed, never shrink it.
	if len(m.tmp) == 0 || cap(m.tmp[0]) < frames {
		m.tmp = NewPlanar(in, max(frames, 4096))
	}
	for c := range m.tmp {
		m.tmp[c] = m.tmp[c][:frames]
	}

	n, err := m.src.ReadFrames(m.tmp)
	if n == 0 {
		return 0, err
	}

	if in < m.channels {
		for c := range m.channels {
			copy(dst[c][:n], m.tmp[c%in][:n])
		}
		return n, err
	}

	// Stereo to mono is the common case.
	if in == 2 && m.channels == 1 {
		l, r, out := m.tmp[0], m.tmp[1], dst[0]
		for f := range n {
			out[f] = (l[f] + r[f]) * 0.5
		}
		return n, err
	}

	for c := range m.channels {
		out := dst[c][:n]
		copy(out, m.tmp[c][:n])
		sources := 1
		for s := c + m.channels; s < in; s += m.channels {
			for f, v := range m.tmp[s][:n] {
				out[f] += v
			}
			sources++
		}
		if sources > 1 {
			inv := float32(1) / float32(sources)
			for f := range out {
				out[f] *= inv
			}
		}
	}

	return n, err
}
