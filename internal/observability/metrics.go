package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds all application metrics implementing the golden 4 signals:
// - Latency: how long submissions and requests take
// - Traffic: submission/request throughput
// - Errors: rate of failures
// - Saturation: resource utilization (submissions currently running)
type Metrics struct {
	meter metric.Meter

	// HTTP metrics (Latency, Traffic, Errors) for the manager's own
	// health/metrics surface.
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsTotal   metric.Int64Counter
	HTTPErrorsTotal     metric.Int64Counter

	// Submission metrics (Latency, Traffic, Errors, Saturation)
	SubmissionDuration    metric.Float64Histogram
	SubmissionsTotal      metric.Int64Counter
	SubmissionErrorsTotal metric.Int64Counter
	SubmissionsRunning    metric.Int64UpDownCounter

	// Dispatcher metrics (Latency, Traffic, Errors, Saturation)
	DispatcherDuration   metric.Float64Histogram
	DispatcherDelivered  metric.Int64Counter
	DispatcherFailed     metric.Int64Counter
	DispatcherDropped    metric.Int64Counter
	DispatcherRequeued   metric.Int64Counter
	DispatcherQueueSize  metric.Int64Gauge
	DispatcherBufferSize int64 // config value for saturation calculation

	// Worker metrics (Traffic, Saturation) for the background update and
	// purge loops (spec §4.6, §4.7).
	UpdateWorkerIterations metric.Int64Counter
	UpdateWorkerPolled     metric.Int64Counter
	PurgeWorkerDeletions   metric.Int64Counter
}

// NewMetrics creates and registers all metrics with a Prometheus exporter.
func NewMetrics(ctx context.Context) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter("submitmgr")
	m := &Metrics{meter: meter}

	// HTTP metrics
	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.HTTPErrorsTotal, err = meter.Int64Counter(
		"http_errors_total",
		metric.WithDescription("Total number of HTTP errors (4xx and 5xx)"),
	)
	if err != nil {
		return nil, nil, err
	}

	// Submission metrics
	m.SubmissionDuration, err = meter.Float64Histogram(
		"submission_duration_seconds",
		metric.WithDescription("Time from submit acceptance to a terminal status"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600, 900, 1800),
	)
	if err != nil {
		return nil, nil, err
	}

	m.SubmissionsTotal, err = meter.Int64Counter(
		"submissions_total",
		metric.WithDescription("Total number of submit attempts accepted"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.SubmissionErrorsTotal, err = meter.Int64Counter(
		"submission_errors_total",
		metric.WithDescription("Total number of submissions that reached a failure status"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.SubmissionsRunning, err = meter.Int64UpDownCounter(
		"submissions_running",
		metric.WithDescription("Number of submissions currently in a running state (saturation)"),
	)
	if err != nil {
		return nil, nil, err
	}

	// Dispatcher metrics
	m.DispatcherDuration, err = meter.Float64Histogram(
		"dispatcher_duration_seconds",
		metric.WithDescription("Callback delivery latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, nil, err
	}

	m.DispatcherDelivered, err = meter.Int64Counter(
		"dispatcher_delivered_total",
		metric.WithDescription("Total events successfully delivered"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.DispatcherFailed, err = meter.Int64Counter(
		"dispatcher_failed_total",
		metric.WithDescription("Total events failed after retries"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.DispatcherDropped, err = meter.Int64Counter(
		"dispatcher_dropped_total",
		metric.WithDescription("Total events dropped (buffer full or max requeues)"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.DispatcherRequeued, err = meter.Int64Counter(
		"dispatcher_requeued_total",
		metric.WithDescription("Total events requeued due to open circuit"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.DispatcherQueueSize, err = meter.Int64Gauge(
		"dispatcher_queue_size",
		metric.WithDescription("Current number of events in dispatcher queue (saturation)"),
	)
	if err != nil {
		return nil, nil, err
	}

	// Worker metrics
	m.UpdateWorkerIterations, err = meter.Int64Counter(
		"update_worker_iterations_total",
		metric.WithDescription("Total number of update worker poll cycles"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.UpdateWorkerPolled, err = meter.Int64Counter(
		"update_worker_polled_total",
		metric.WithDescription("Total number of unfinished submissions polled by the update worker"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.PurgeWorkerDeletions, err = meter.Int64Counter(
		"purge_worker_deletions_total",
		metric.WithDescription("Total number of submissions removed by the purge worker"),
	)
	if err != nil {
		return nil, nil, err
	}

	return m, promhttp.Handler(), nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, durationSeconds float64) {
	attrs := metric.WithAttributes(
		methodAttr(method),
		pathAttr(path),
		statusAttr(statusCode),
	)

	m.HTTPRequestDuration.Record(ctx, durationSeconds, attrs)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)

	if statusCode >= 400 {
		m.HTTPErrorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordSubmissionAccepted records a submit call that the submission
// engine accepted (spec §4.3 step 8b returning true).
func (m *Metrics) RecordSubmissionAccepted(ctx context.Context, jobType string) {
	attrs := metric.WithAttributes(jobTypeAttr(jobType))
	m.SubmissionsTotal.Add(ctx, 1, attrs)
	m.SubmissionsRunning.Add(ctx, 1, attrs)
}

// RecordSubmissionTerminal records a submission reaching a terminal status
// (SUCCEEDED, FAILED, or FAILURE_ON_SUBMIT), closing out its saturation
// contribution and, on failure, counting the error.
func (m *Metrics) RecordSubmissionTerminal(ctx context.Context, jobType string, success bool, durationSeconds float64) {
	attrs := metric.WithAttributes(jobTypeAttr(jobType), successAttr(success))
	m.SubmissionDuration.Record(ctx, durationSeconds, attrs)
	m.SubmissionsRunning.Add(ctx, -1, metric.WithAttributes(jobTypeAttr(jobType)))

	if !success {
		m.SubmissionErrorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordDispatcherDelivered records a successful event delivery with its duration.
func (m *Metrics) RecordDispatcherDelivered(ctx context.Context, durationSeconds float64) {
	m.DispatcherDelivered.Add(ctx, 1)
	m.DispatcherDuration.Record(ctx, durationSeconds)
}

// RecordDispatcherFailed records a failed event delivery.
func (m *Metrics) RecordDispatcherFailed(ctx context.Context) {
	m.DispatcherFailed.Add(ctx, 1)
}

// RecordDispatcherDropped records a dropped event.
func (m *Metrics) RecordDispatcherDropped(ctx context.Context) {
	m.DispatcherDropped.Add(ctx, 1)
}

// RecordDispatcherRequeued records a requeued event.
func (m *Metrics) RecordDispatcherRequeued(ctx context.Context) {
	m.DispatcherRequeued.Add(ctx, 1)
}

// RecordDispatcherQueueSize records the current queue size.
func (m *Metrics) RecordDispatcherQueueSize(ctx context.Context, size int64) {
	m.DispatcherQueueSize.Record(ctx, size)
}

// RecordUpdateWorkerCycle records one update worker iteration (spec
// §4.6) and how many unfinished submissions it polled.
func (m *Metrics) RecordUpdateWorkerCycle(ctx context.Context, polled int) {
	m.UpdateWorkerIterations.Add(ctx, 1)
	m.UpdateWorkerPolled.Add(ctx, int64(polled))
}

// RecordPurgeWorkerDeletions records how many submissions a purge cycle
// removed (spec §4.7).
func (m *Metrics) RecordPurgeWorkerDeletions(ctx context.Context, count int) {
	m.PurgeWorkerDeletions.Add(ctx, int64(count))
}
