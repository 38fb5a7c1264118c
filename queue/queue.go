// SPDX-License-Identifier: EPL-2.0

package queue

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

const (
	// MaxCapacity keeps write+bufferLength inside uint32 range.
	MaxCapacity = 1<<31 - 1

	// MaxChannels bounds the number of planes a queue can carry.
	MaxChannels = 1024
)

// State holds the two cursors shared by the producer and the consumer.
// Each cursor sits on its own cache line.
type State struct {
	_ cpu.CacheLinePad
	// Read is advanced by the consumer only.
	Read atomic.Uint32
	_    cpu.CacheLinePad
	// Write is advanced by the producer only.
	Write atomic.Uint32
	_     cpu.CacheLinePad
}

// Queue is a single-producer/single-consumer FIFO of float32 frames, stored
// planar: one circular array per channel, all sharing the same cursors.
//
// One slot of every plane is never filled, so read == write always means
// empty and the queue holds at most bufferLength-1 frames.
type Queue struct {
	bufferLength uint32
	channelCount uint32
	state        *State
	channelData  [][]float32
}

// New allocates a queue that holds up to capacity frames of channels planes.
// The planes and cursors start zeroed.
func New(capacity, channels int) (*Queue, error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}

	length := uint32(capacity) + 1
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, length)
	}

	return &Queue{
		bufferLength: length,
		channelCount: uint32(channels),
		state:        &State{},
		channelData:  data,
	}, nil
}

// Capacity returns the number of frames the queue can hold.
func (q *Queue) Capacity() int { return int(q.bufferLength - 1) }

// Channels returns the number of planes.
func (q *Queue) Channels() int { return int(q.channelCount) }

// Push copies blockLength frames from every plane of input into the queue.
// It must only be called by the producer.
//
// Push returns false, without touching the queue, when fewer than blockLength
// frames are free or the queue was closed. A zero blockLength is a no-op that
// succeeds. Push panics when len(input) differs from Channels, when a plane is
// shorter than blockLength or when blockLength is negative; the check runs
// before any sample is copied.
func (q *Queue) Push(input [][]float32, blockLength int) bool {
	if q.channelData == nil {
		return false
	}
	q.checkBlocks(input, blockLength)
	if blockLength == 0 {
		return true
	}

	read := q.state.Read.Load()
	write := q.state.Write.Load()
	if uint64(blockLength) > uint64(q.availableWrite(read, write)) {
		return false
	}

	n := uint32(blockLength)
	first := min(n, q.bufferLength-write)
	for c, plane := range q.channelData {
		src := input[c]
		copy(plane[write:write+first], src[:first])
		copy(plane[:n-first], src[first:n])
	}

	// The samples above must be in place before the consumer can see the
	// new cursor.
	q.state.Write.Store(q.advance(write, n))
	return true
}

// Pull copies blockLength frames of every plane out of the queue into output.
// It must only be called by the consumer.
//
// Pull returns false, without touching the queue or output, when fewer than
// blockLength frames are stored or the queue was closed. The zero-length and
// panic rules match Push.
func (q *Queue) Pull(output [][]float32, blockLength int) bool {
	if q.channelData == nil {
		return false
	}
	q.checkBlocks(output, blockLength)
	if blockLength == 0 {
		return true
	}

	read := q.state.Read.Load()
	write := q.state.Write.Load()
	if uint64(blockLength) > uint64(q.availableRead(read, write)) {
		return false
	}

	n := uint32(blockLength)
	first := min(n, q.bufferLength-read)
	for c, plane := range q.channelData {
		dst := output[c]
		copy(dst[:first], plane[read:read+first])
		copy(dst[first:n], plane[:n-first])
	}

	// Release the slots only after they were copied out.
	q.state.Read.Store(q.advance(read, n))
	return true
}

// AvailableRead returns the number of frames the consumer can pull right now.
func (q *Queue) AvailableRead() int {
	read := q.state.Read.Load()
	write := q.state.Write.Load()
	return int(q.availableRead(read, write))
}

// AvailableWrite returns the number of frames the producer can push right now.
func (q *Queue) AvailableWrite() int {
	read := q.state.Read.Load()
	write := q.state.Write.Load()
	return int(q.availableWrite(read, write))
}

// IsFrameAvailable reports whether at least n frames can be pulled.
func (q *Queue) IsFrameAvailable(n int) bool {
	return q.AvailableRead() >= n
}

// Reset zeroes every plane and rewinds both cursors. Neither role may be
// inside Push or Pull while Reset runs.
func (q *Queue) Reset() {
	for _, plane := range q.channelData {
		clear(plane)
	}
	q.state.Read.Store(0)
	q.state.Write.Store(0)
}

// Close releases the planes held by this handle. Neither role may be inside
// Push or Pull, and after Close both return false. Handles built with
// FromLayout keep their own reference to the planes.
func (q *Queue) Close() error {
	q.channelData = nil
	return nil
}

func (q *Queue) availableRead(read, write uint32) uint32 {
	if write >= read {
		return write - read
	}
	return write + q.bufferLength - read
}

func (q *Queue) availableWrite(read, write uint32) uint32 {
	return q.bufferLength - 1 - q.availableRead(read, write)
}

// advance moves cursor forward by n slots; n is always below bufferLength.
func (q *Queue) advance(cursor, n uint32) uint32 {
	next := cursor + n
	if next >= q.bufferLength {
		next -= q.bufferLength
	}
	return next
}

func (q *Queue) checkBlocks(blocks [][]float32, blockLength int) {
	if blockLength < 0 {
		contractViolation(fmt.Errorf("%w: %d", ErrInvalidBlockLength, blockLength))
	}
	if len(blocks) != int(q.channelCount) {
		contractViolation(fmt.Errorf("%w: got %d planes, want %d",
			ErrChannelMismatch, len(blocks), q.channelCount))
	}
	for c := range blocks {
		if len(blocks[c]) < blockLength {
			contractViolation(fmt.Errorf("%w: channel %d holds %d frames, need %d",
				ErrShortBlock, c, len(blocks[c]), blockLength))
		}
	}
}

//go:noinline
func contractViolation(err error) {
	panic(err)
}
