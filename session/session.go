// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/freequeue/audio"
	"github.com/ik5/freequeue/queue"
)

// Stats counts what happened during one Run.
type Stats struct {
	FramesPushed  uint64
	FramesPulled  uint64
	PushRejected  uint64
	PullUnderruns uint64
	SilenceFrames uint64
}

// Session owns a queue and moves one stream through it with a producer
// thread and a consumer thread.
type Session struct {
	id      uuid.UUID
	cfg     Config
	q       *queue.Queue
	logger  *zap.Logger
	metrics *Metrics
	ran     atomic.Bool
}

// Option configures a Session in New.
type Option func(*Session)

// WithLogger sets the logger; nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics the roles update; nil keeps an unregistered set.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New validates cfg and allocates the session's queue.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	q, err := queue.New(cfg.Capacity, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("creating queue: %w", err)
	}

	s := &Session{
		id:     uuid.New(),
		cfg:    cfg,
		q:      q,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	s.logger = s.logger.With(zap.String("session", s.id.String()))

	return s, nil
}

// ID is the session's UUID, also attached to every log line.
func (s *Session) ID() string { return s.id.String() }

func (s *Session) Config() Config { return s.cfg }

// Queue exposes the underlying queue, mostly for inspection. It is closed
// once Run returns.
func (s *Session) Queue() *queue.Queue { return s.q }

// Run streams src into sink until src is exhausted and every frame has been
// written, either side fails, or ctx is done. A session runs once. Run does
// not close src or sink.
func (s *Session) Run(ctx context.Context, src audio.Source, sink audio.Sink) (Stats, error) {
	if src.SampleRate() != s.cfg.SampleRate || src.Channels() != s.cfg.Channels {
		return Stats{}, fmt.Errorf("%w: source %d Hz x %d, session %d Hz x %d", ErrFormatMismatch,
			src.SampleRate(), src.Channels(), s.cfg.SampleRate, s.cfg.Channels)
	}
	if !s.ran.CompareAndSwap(false, true) {
		return Stats{}, ErrAlreadyRun
	}
	// Both roles have stopped by the time this runs.
	defer s.q.Close()

	s.logger.Info("session started",
		zap.Int("sampleRate", s.cfg.SampleRate),
		zap.Int("channels", s.cfg.Channels),
		zap.Int("capacity", s.cfg.Capacity),
		zap.Int("blockLength", s.cfg.BlockLength),
		zap.Bool("realtime", s.cfg.Realtime),
	)
	start := time.Now()

	var (
		// Each role writes only its own fields.
		stats        Stats
		producerDone atomic.Bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer producerDone.Store(true)
		return s.produce(gctx, src, &stats)
	})
	g.Go(func() error {
		return s.consume(gctx, sink, &stats, &producerDone)
	})
	err := g.Wait()

	fields := []zap.Field{
		zap.Uint64("framesPushed", stats.FramesPushed),
		zap.Uint64("framesPulled", stats.FramesPulled),
		zap.Uint64("pushRejected", stats.PushRejected),
		zap.Uint64("pullUnderruns", stats.PullUnderruns),
		zap.Uint64("silenceFrames", stats.SilenceFrames),
		zap.Duration("elapsed", time.Since(start)),
	}
	switch {
	case err == nil:
		s.logger.Info("session finished", fields...)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Info("session stopped", append(fields, zap.Error(err))...)
	default:
		s.logger.Error("session failed", append(fields, zap.Error(err))...)
	}

	return stats, err
}

// lockThread wires the calling goroutine to its own OS thread and pins it
// if cpu >= 0. The returned func undoes the lock.
func (s *Session) lockThread(role string, cpu int) func() {
	runtime.LockOSThread()

	if err := pinThread(cpu); err != nil {
		s.logger.Warn("thread pinning failed", zap.String("role", role), zap.Int("cpu", cpu), zap.Error(err))
		return runtime.UnlockOSThread
	}
	if cpu >= 0 {
		s.logger.Debug("thread pinned", zap.String("role", role), zap.Int("cpu", cpu))
		// Exiting while locked terminates the thread, so its affinity mask
		// never leaks back into the scheduler's pool.
		return func() {}
	}
	return runtime.UnlockOSThread
}

func (s *Session) produce(ctx context.Context, src audio.Source, stats *Stats) error {
	defer s.lockThread("producer", s.cfg.ProducerCPU)()

	var (
		block   = audio.NewPlanar(s.cfg.Channels, s.cfg.BlockLength)
		pending int
		eof     bool
		backoff = s.cfg.Period() / 4
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if pending == 0 {
			if eof {
				s.logger.Debug("source exhausted", zap.Uint64("framesPushed", stats.FramesPushed))
				return nil
			}

			n, err := src.ReadFrames(block)
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("reading source: %w", err)
			}
			eof = errors.Is(err, io.EOF)
			pending = n
			if pending == 0 {
				continue
			}
		}

		if s.q.Push(block, pending) {
			stats.FramesPushed += uint64(pending)
			s.metrics.FramesPushed.Add(float64(pending))
			pending = 0
			continue
		}

		// Queue full: keep the block and retry on the next cycle.
		stats.PushRejected++
		s.metrics.PushRejected.Inc()
		if s.cfg.Realtime {
			time.Sleep(backoff)
		} else {
			runtime.Gosched()
		}
	}
}

func (s *Session) consume(ctx context.Context, sink audio.Sink, stats *Stats, producerDone *atomic.Bool) error {
	defer s.lockThread("consumer", s.cfg.ConsumerCPU)()

	var (
		blockLength = s.cfg.BlockLength
		block       = audio.NewPlanar(s.cfg.Channels, blockLength)
		silence     = audio.NewPlanar(s.cfg.Channels, blockLength)
		partial     = make([][]float32, s.cfg.Channels)
		tick        <-chan time.Time
	)
	if s.cfg.Realtime {
		ticker := time.NewTicker(s.cfg.Period())
		defer ticker.Stop()
		tick = ticker.C
	}

	write := func(frames [][]float32, n int) error {
		if err := sink.WriteFrames(frames); err != nil {
			return fmt.Errorf("writing sink: %w", err)
		}
		stats.FramesPulled += uint64(n)
		s.metrics.FramesPulled.Add(float64(n))
		s.metrics.FillFrames.Set(float64(s.q.AvailableRead()))
		return nil
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if s.q.Pull(block, blockLength) {
			if err := write(block, blockLength); err != nil {
				return err
			}
			continue
		}

		// The producer's last push happens before producerDone is set, so
		// everything it wrote is visible from here on.
		if producerDone.Load() {
			n := min(s.q.AvailableRead(), blockLength)
			if n == 0 {
				return nil
			}
			s.q.Pull(block, n)
			for c := range partial {
				partial[c] = block[c][:n]
			}
			if err := write(partial, n); err != nil {
				return err
			}
			continue
		}

		stats.PullUnderruns++
		s.metrics.PullUnderruns.Inc()
		if !s.cfg.Realtime {
			runtime.Gosched()
			continue
		}

		// Keep the output clock running.
		if err := sink.WriteFrames(silence); err != nil {
			return fmt.Errorf("writing sink: %w", err)
		}
		stats.SilenceFrames += uint64(blockLength)
		s.metrics.SilenceFrames.Add(float64(blockLength))
	}
}
