// SPDX-License-Identifier: EPL-2.0

package audiotest

import "sync"

// MemorySink collects every written frame. It implements audio.Sink.
type MemorySink struct {
	mu      sync.Mutex
	planes  [][]float32
	closed  bool
	failErr error
	limit   int
}

// NewMemorySink creates a sink for channels planes.
func NewMemorySink(channels int) *MemorySink {
	return &MemorySink{
		planes: make([][]float32, channels),
		limit:  -1,
	}
}

// FailAfter makes WriteFrames return err once frames frames were stored.
func (s *MemorySink) FailAfter(frames int, err error) *MemorySink {
	s.limit = frames
	s.failErr = err
	return s
}

func (s *MemorySink) WriteFrames(src [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit >= 0 && len(s.planes) > 0 && len(s.planes[0]) >= s.limit {
		return s.failErr
	}
	for c := range s.planes {
		s.planes[c] = append(s.planes[c], src[c]...)
	}
	return nil
}

func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MemorySink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Frames returns the number of frames stored.
func (s *MemorySink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.planes) == 0 {
		return 0
	}
	return len(s.planes[0])
}

// Plane returns a copy of the samples stored for channel.
func (s *MemorySink) Plane(channel int) []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]float32(nil), s.planes[channel]...)
}
