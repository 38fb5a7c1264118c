// SPDX-License-Identifier: EPL-2.0

// Package queue provides a lock-free, multi-channel FIFO for float32 audio
// frames, shared by exactly one producer and one consumer.
//
// A Queue stores audio planar: one circular array per channel. All planes
// share a read cursor and a write cursor, so a push or a pull always moves
// whole frames.
//
// # Creating a Queue
//
//	q, err := queue.New(4096, 2) // 4096 frames of stereo
//	if err != nil {
//	    return err
//	}
//	defer q.Close()
//
// # Producer and Consumer
//
// The producer pushes blocks of frames, the consumer pulls them:
//
//	// producer thread
//	in := [][]float32{left, right}
//	if !q.Push(in, 128) {
//	    // full: retry on the next cycle or drop the block
//	}
//
//	// consumer thread
//	out := [][]float32{outLeft, outRight}
//	if !q.Pull(out, 128) {
//	    // empty: output silence for this cycle
//	}
//
// Push and Pull never block, never allocate and never take a lock. A full
// or empty queue is reported as false and leaves the queue untouched, which
// makes both calls safe inside a real-time audio callback. A block is
// transferred whole or not at all.
//
// # Capacity
//
// Each plane has capacity+1 slots. The extra slot is never filled so that
// equal cursors always mean "empty":
//
//	AvailableRead() + AvailableWrite() == Capacity()
//
// # Memory Ordering
//
// The producer copies samples first and then stores the write cursor; the
// consumer loads the write cursor before copying. The reverse holds for the
// read cursor. sync/atomic operations are sequentially consistent, which
// gives the acquire/release pairing this needs.
//
// # Contract
//
//   - Only one goroutine calls Push and only one (other) goroutine calls Pull.
//   - Close and Reset run only while neither role is active.
//   - len(blocks) must equal Channels() and every plane must hold at least
//     blockLength frames. Violations panic with an error wrapping
//     ErrChannelMismatch or ErrShortBlock before any state changes.
//   - A zero blockLength is a successful no-op.
//
// # Sharing the Layout
//
// Code that needs the raw memory, rather than Push and Pull, can take the
// field locations with Layout (or the per-field accessors) and build a
// second handle with FromLayout:
//
//	view, err := queue.FromLayout(q.Layout())
//	// q pushes on one thread, view pulls on another
package queue
