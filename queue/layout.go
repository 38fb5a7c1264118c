// SPDX-License-Identifier: EPL-2.0

package queue

import "fmt"

// Layout points at the fields of a Queue. It is meant for sharing the queue
// memory with code that reads and writes it directly instead of calling
// Push and Pull, for example a second handle owned by the other thread.
type Layout struct {
	BufferLength *uint32
	ChannelCount *uint32
	State        *State
	ChannelData  *[][]float32
}

// BufferLengthPtr returns the location of the plane length (capacity + 1).
func (q *Queue) BufferLengthPtr() *uint32 { return &q.bufferLength }

// ChannelCountPtr returns the location of the channel count.
func (q *Queue) ChannelCountPtr() *uint32 { return &q.channelCount }

// StatePtr returns the shared cursor pair.
func (q *Queue) StatePtr() *State { return q.state }

// ChannelDataPtr returns the location of the plane table.
func (q *Queue) ChannelDataPtr() *[][]float32 { return &q.channelData }

// Layout returns all field locations at once.
func (q *Queue) Layout() Layout {
	return Layout{
		BufferLength: q.BufferLengthPtr(),
		ChannelCount: q.ChannelCountPtr(),
		State:        q.StatePtr(),
		ChannelData:  q.ChannelDataPtr(),
	}
}

// FromLayout builds a handle over the memory described by l. The new handle
// shares cursors and planes with the queue l was taken from, so one of them
// can act as producer and the other as consumer.
func FromLayout(l Layout) (*Queue, error) {
	if l.BufferLength == nil || l.ChannelCount == nil || l.State == nil || l.ChannelData == nil {
		return nil, fmt.Errorf("%w: missing field", ErrInvalidLayout)
	}

	length := *l.BufferLength
	channels := *l.ChannelCount
	if length < 2 || length-1 > MaxCapacity {
		return nil, fmt.Errorf("%w: buffer length %d", ErrInvalidLayout, length)
	}
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidLayout, channels)
	}

	data := *l.ChannelData
	if uint32(len(data)) != channels {
		return nil, fmt.Errorf("%w: %d planes for %d channels", ErrInvalidLayout, len(data), channels)
	}
	for c, plane := range data {
		if uint32(len(plane)) != length {
			return nil, fmt.Errorf("%w: plane %d has length %d, want %d",
				ErrInvalidLayout, c, len(plane), length)
		}
	}

	if r, w := l.State.Read.Load(), l.State.Write.Load(); r >= length || w >= length {
		return nil, fmt.Errorf("%w: cursors (%d, %d) outside buffer length %d",
			ErrInvalidLayout, r, w, length)
	}

	return &Queue{
		bufferLength: length,
		channelCount: channels,
		state:        l.State,
		channelData:  data,
	}, nil
}
