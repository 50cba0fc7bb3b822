// Package metrics records build statistics and writes them in the
// Prometheus text format, for collection by a node exporter textfile
// collector after each build.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pagegen"

// Recorder holds the metrics of a process. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	pages     prometheus.Counter
	bytes     prometheus.Counter
	failures  prometheus.Counter
	render    prometheus.Histogram
	duration  prometheus.Gauge
	lastBuild prometheus.Gauge
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Pages rendered and written.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_bytes_written_total",
			Help:      "Bytes of rendered page content written.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_failures_total",
			Help:      "Builds that aborted with an error.",
		}),
		render: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_seconds",
			Help:      "Time spent rendering a single page.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of the most recent successful build.",
		}),
		lastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_timestamp_seconds",
			Help:      "Unix time of the most recent successful build.",
		}),
	}
	r.registry.MustRegister(r.pages, r.bytes, r.failures, r.render, r.duration, r.lastBuild)
	return r
}

// Page records one written page.
func (r *Recorder) Page(size int, render time.Duration) {
	if r == nil {
		return
	}
	r.pages.Inc()
	r.bytes.Add(float64(size))
	r.render.Observe(render.Seconds())
}

// Build records the outcome of a build.
func (r *Recorder) Build(start time.Time, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.failures.Inc()
		return
	}
	r.duration.Set(time.Since(start).Seconds())
	r.lastBuild.Set(float64(time.Now().Unix()))
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current values to path. The file is
// written to a temporary name and renamed into place.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
