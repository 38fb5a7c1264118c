// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// MockSource is a test helper that generates planar audio data.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int // frames to generate
	generated   int // frames generated so far
	waveform    func(frame int, channel int) float32

	failAfter int // frames to deliver before returning failErr
	failErr   error
	closed    bool
}

// NewMockSource creates a new mock audio source producing totalFrames frames.
// waveform generates the sample value for a frame index and channel.
func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
		failAfter:   -1,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return 0.0
	})
}

// NewSineSource creates a mock source that generates a sine wave on every channel.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

// Tag is the sample NewTaggedSource emits for frame and channel. Values are
// exact in float32 for frames below 2^21.
func Tag(frame, channel int) float32 {
	return float32(frame*8 + channel)
}

// NewTaggedSource creates a mock source whose samples identify their frame
// and channel, see Tag.
func NewTaggedSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, Tag)
}

// FailAfter makes ReadFrames return err once frames frames were delivered.
func (m *MockSource) FailAfter(frames int, err error) *MockSource {
	m.failAfter = frames
	m.failErr = err
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Generated returns the number of frames delivered so far.
func (m *MockSource) Generated() int { return m.generated }

// Reset resets the generated frame counter to allow re-reading.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadFrames(dst [][]float32) (int, error) {
	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, m.failErr
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	framesToWrite := min(len(dst[0]), m.totalFrames-m.generated)
	if m.failAfter >= 0 {
		framesToWrite = min(framesToWrite, m.failAfter-m.generated)
	}

	for f := range framesToWrite {
		frame := m.generated + f
		for ch := range m.channels {
			dst[ch][f] = m.waveform(frame, ch)
		}
	}
	m.generated += framesToWrite

	if m.generated >= m.totalFrames {
		return framesToWrite, io.EOF
	}
	return framesToWrite, nil
}
