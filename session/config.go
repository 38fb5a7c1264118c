// SPDX-License-Identifier: EPL-2.0

package session

import (
	"fmt"
	"time"

	"github.com/ik5/freequeue/queue"
)

// Config describes the stream a session moves and how its two threads run.
type Config struct {
	SampleRate int
	Channels   int
	// Capacity of the queue, in frames.
	Capacity int
	// BlockLength is the number of frames moved per push and per pull.
	BlockLength int
	// Realtime paces the consumer at BlockLength/SampleRate and fills
	// underruns with silence.
	Realtime bool
	// ProducerCPU and ConsumerCPU pin the role threads; -1 leaves them to
	// the OS scheduler.
	ProducerCPU int
	ConsumerCPU int
}

// DefaultConfig is 48kHz stereo with one render quantum per block.
func DefaultConfig() Config {
	return Config{
		SampleRate:  48000,
		Channels:    2,
		Capacity:    4096,
		BlockLength: 128,
		ProducerCPU: -1,
		ConsumerCPU: -1,
	}
}

// Validate reports the first field that cannot run, wrapped in
// ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.Channels < 1 || c.Channels > queue.MaxChannels:
		return fmt.Errorf("%w: %d channels", ErrInvalidConfig, c.Channels)
	case c.Capacity < 1 || c.Capacity > queue.MaxCapacity:
		return fmt.Errorf("%w: capacity %d", ErrInvalidConfig, c.Capacity)
	case c.BlockLength < 1 || c.BlockLength > c.Capacity:
		// A block larger than the queue could never be pushed.
		return fmt.Errorf("%w: block length %d with capacity %d", ErrInvalidConfig, c.BlockLength, c.Capacity)
	case c.Realtime && c.Period() <= 0:
		// The consumer ticks once per block.
		return fmt.Errorf("%w: %d frames at %d Hz is shorter than a nanosecond", ErrInvalidConfig, c.BlockLength, c.SampleRate)
	case c.ProducerCPU < -1 || c.ConsumerCPU < -1:
		return fmt.Errorf("%w: cpu %d/%d", ErrInvalidConfig, c.ProducerCPU, c.ConsumerCPU)
	}
	return nil
}

// Period is the playback time of one block.
func (c Config) Period() time.Duration {
	return time.Duration(c.BlockLength) * time.Second / time.Duration(c.SampleRate)
}
