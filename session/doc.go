// SPDX-License-Identifier: EPL-2.0

// Package session drives a queue with one producer thread and one consumer
// thread.
//
// Each role runs in its own goroutine locked to an OS thread, optionally
// pinned to a CPU on Linux. The producer reads blocks from an audio.Source
// and pushes them; a rejected push keeps the block for the next cycle. The
// consumer pulls blocks and writes them to an audio.Sink. In realtime mode
// the consumer runs once per block period and covers underruns with
// silence, otherwise it yields and retries. Once the source is exhausted
// the consumer drains what is left, including a final short block.
//
//	s, err := session.New(session.DefaultConfig(),
//	    session.WithLogger(logger),
//	    session.WithMetrics(session.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	stats, err := s.Run(ctx, src, sink)
//
// The first error from either role stops the other one. The queue is closed
// when Run returns.
package session
