// SPDX-License-Identifier: EPL-2.0

package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are shared by every session they are passed to.
type Metrics struct {
	FramesPushed  prometheus.Counter
	FramesPulled  prometheus.Counter
	PushRejected  prometheus.Counter
	PullUnderruns prometheus.Counter
	SilenceFrames prometheus.Counter
	FillFrames    prometheus.Gauge
}

// NewMetrics registers the session metrics with reg. A nil reg creates
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		FramesPushed: f.NewCounter(prometheus.CounterOpts{
			Name: "freequeue_frames_pushed_total",
			Help: "Frames pushed into the queue by producers",
		}),
		FramesPulled: f.NewCounter(prometheus.CounterOpts{
			Name: "freequeue_frames_pulled_total",
			Help: "Frames pulled from the queue by consumers",
		}),
		PushRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "freequeue_push_rejected_total",
			Help: "Pushes rejected because the queue was full",
		}),
		PullUnderruns: f.NewCounter(prometheus.CounterOpts{
			Name: "freequeue_pull_underruns_total",
			Help: "Pulls that found less than a block while the producer was running",
		}),
		SilenceFrames: f.NewCounter(prometheus.CounterOpts{
			Name: "freequeue_silence_frames_total",
			Help: "Silent frames written to sinks on underrun",
		}),
		FillFrames: f.NewGauge(prometheus.GaugeOpts{
			Name: "freequeue_fill_frames",
			Help: "Frames waiting in the queue after the last pull",
		}),
	}
}
