package prometheus

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// MetricsFile is the textfile name inside the state directory.
const MetricsFile = "metrics.prom"

// Recorder collects pipeline metrics in a private registry and writes them
// in the node-exporter textfile format on Flush.
type Recorder struct {
	registry *prometheus.Registry
	path     string

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	runsTotal     *prometheus.CounterVec
	archiveBytes  prometheus.Gauge
	lastRun       prometheus.Gauge
}

// NewRecorder creates a recorder whose Flush writes to path.
// An empty path disables Flush.
//
// Metrics:
//   - {namespace}_stage_duration_seconds: histogram by stage
//   - {namespace}_stage_errors_total: counter by stage
//   - {namespace}_runs_total: counter by outcome
//   - {namespace}_archive_size_bytes: gauge, last downloaded archive
//   - {namespace}_last_run_timestamp_seconds: gauge
func NewRecorder(namespace, path string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		path:     path,
	}

	r.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			// Downloads of the full dataset take minutes.
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	r.stageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Failed pipeline stages.",
		},
		[]string{"stage"},
	)

	r.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		},
		[]string{"outcome"},
	)

	r.archiveBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "archive_size_bytes",
		Help:      "Size of the last downloaded dataset archive.",
	})

	r.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last recorded run.",
	})

	r.registry.MustRegister(
		r.stageDuration,
		r.stageErrors,
		r.runsTotal,
		r.archiveBytes,
		r.lastRun,
	)

	return r
}

// ObserveStage records how long a stage took and whether it failed.
func (r *Recorder) ObserveStage(stage string, d time.Duration, err error) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		r.stageErrors.WithLabelValues(stage).Inc()
	}
}

// RecordArchiveSize records the size of a downloaded archive.
func (r *Recorder) RecordArchiveSize(bytes int64) {
	r.archiveBytes.Set(float64(bytes))
}

// RecordRun records the outcome of a full pipeline run.
func (r *Recorder) RecordRun(outcome string) {
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.lastRun.SetToCurrentTime()
}

// Flush writes every collected metric to the textfile.
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Path returns the textfile path.
func (r *Recorder) Path() string {
	return r.path
}
