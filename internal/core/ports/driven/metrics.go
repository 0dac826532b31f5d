package driven

import "time"

// MetricsRecorder records pipeline measurements.
// Services substitute NopMetrics when none is configured.
type MetricsRecorder interface {
	// ObserveStage records how long a stage took and whether it failed.
	ObserveStage(stage string, d time.Duration, err error)

	// RecordArchiveSize records the size of a downloaded archive.
	RecordArchiveSize(bytes int64)

	// RecordRun records the outcome of a full pipeline run.
	RecordRun(outcome string)

	// Flush writes collected metrics to their destination.
	Flush() error
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

// ObserveStage implements MetricsRecorder.
func (NopMetrics) ObserveStage(string, time.Duration, error) {}

// RecordArchiveSize implements MetricsRecorder.
func (NopMetrics) RecordArchiveSize(int64) {}

// RecordRun implements MetricsRecorder.
func (NopMetrics) RecordRun(string) {}

// Flush implements MetricsRecorder.
func (NopMetrics) Flush() error { return nil }
