// SPDX-License-Identifier: EPL-2.0

// Package freequeue moves planar audio between a producer thread and a
// consumer thread through a lock-free single-producer/single-consumer queue.
//
// The pieces live in subpackages:
//   - queue: the wait-free ring of float32 frames, one plane per channel
//   - session: a producer/consumer pair on locked OS threads driving a queue
//   - audio: planar Source and Sink, resampling and channel mixing
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders, and
//     a WAV encoder sink
//
// # Quick Start
//
// Stream decodes, converts and plays one file through a session:
//
//	src, err := freequeue.DecodeFile("input.mp3")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	out, _ := os.Create("output.wav")
//	defer out.Close()
//	sink, _ := wav.NewEncoder(out, 48000, 16, 2)
//	defer sink.Close()
//
//	stats, err := freequeue.Stream(ctx, src, sink, session.DefaultConfig())
//
// # Using the Queue Directly
//
// The queue never blocks, allocates or locks. A push or pull either moves
// the whole block or returns false and changes nothing:
//
//	q, _ := queue.New(4096, 2)
//	block := audio.NewPlanar(2, 128)
//
//	// producer thread
//	for !q.Push(block, 128) {
//	    runtime.Gosched()
//	}
//
//	// consumer thread
//	if q.Pull(block, 128) {
//	    // use block
//	}
//
// Exactly one goroutine may push and exactly one may pull at any time.
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0], stored planar: one []float32 per
// channel, all the same length.
package freequeue
