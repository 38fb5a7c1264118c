// SPDX-License-Identifier: EPL-2.0

package queue

import "errors"

var (
	// ErrInvalidCapacity is returned by New when capacity is outside [1, MaxCapacity].
	ErrInvalidCapacity = errors.New("queue: capacity out of range")

	// ErrInvalidChannelCount is returned by New when channels is outside [1, MaxChannels].
	ErrInvalidChannelCount = errors.New("queue: channel count out of range")

	// ErrInvalidLayout is returned by FromLayout for a nil or inconsistent layout.
	ErrInvalidLayout = errors.New("queue: invalid layout")

	// ErrChannelMismatch is the panic value (wrapped) when Push or Pull receive
	// a different number of planes than the queue was created with.
	ErrChannelMismatch = errors.New("queue: channel count mismatch")

	// ErrShortBlock is the panic value (wrapped) when a plane holds fewer
	// than blockLength frames.
	ErrShortBlock = errors.New("queue: plane shorter than block length")

	// ErrInvalidBlockLength is the panic value (wrapped) for a negative block length.
	ErrInvalidBlockLength = errors.New("queue: negative block length")
)
