// Package telemetry exposes Prometheus metrics for transcription and
// summarization jobs.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meetscribe"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder owns a private registry. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	jobs         *prometheus.CounterVec
	segments     *prometheus.CounterVec
	segmentBytes prometheus.Histogram
	attempts     prometheus.Histogram
	calls        *prometheus.HistogramVec
}

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Finished jobs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_total",
			Help:      "Audio segments produced, by how they were produced.",
		}, []string{"mode"}),
		segmentBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_bytes",
			Help:      "Encoded size of each audio segment.",
			Buckets:   prometheus.ExponentialBuckets(64*1024, 2, 10),
		}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compression_attempts",
			Help:      "Encoder attempts per compression run.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		calls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "capability_call_duration_seconds",
			Help:      "Latency of speech-to-text and language model calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 12),
		}, []string{"capability", "outcome"}),
	}

	r.registry.MustRegister(
		r.jobs, r.segments, r.segmentBytes, r.attempts, r.calls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// JobFinished counts a finished job of the given kind.
func (r *Recorder) JobFinished(kind string, err error) {
	if r == nil {
		return
	}
	r.jobs.WithLabelValues(kind, outcome(err)).Inc()
}

// SegmentProduced records one segment and its size.
func (r *Recorder) SegmentProduced(mode string, size int64) {
	if r == nil {
		return
	}
	r.segments.WithLabelValues(mode).Inc()
	r.segmentBytes.Observe(float64(size))
}

// CompressionAttempts records how many encoder passes a run needed.
func (r *Recorder) CompressionAttempts(n int) {
	if r == nil {
		return
	}
	r.attempts.Observe(float64(n))
}

// ObserveCall records the latency of one capability call.
func (r *Recorder) ObserveCall(capability string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(capability, outcome(err)).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
