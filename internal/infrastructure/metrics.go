package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IngestMetrics holds the instruments recorded by ingestion and projection.
// A nil *IngestMetrics records nothing.
type IngestMetrics struct {
	recordsTotal  metric.Int64Counter
	bytesTotal    metric.Int64Counter
	errorsTotal   metric.Int64Counter
	duration      metric.Float64Histogram
	pointsTotal   metric.Int64Counter
	missingValues metric.Int64Counter
}

// NewIngestMetrics creates the ingestion instruments on meter
func NewIngestMetrics(meter metric.Meter) (*IngestMetrics, error) {
	recordsTotal, err := meter.Int64Counter(
		"ingest_records_total",
		metric.WithDescription("Total number of records read from input files"),
	)
	if err != nil {
		return nil, err
	}

	bytesTotal, err := meter.Int64Counter(
		"ingest_bytes_total",
		metric.WithDescription("Total bytes read from input files"),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter(
		"ingest_errors_total",
		metric.WithDescription("Total number of failed ingestion runs"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"ingest_duration_seconds",
		metric.WithDescription("Ingestion run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	pointsTotal, err := meter.Int64Counter(
		"project_points_total",
		metric.WithDescription("Total number of points projected from records"),
	)
	if err != nil {
		return nil, err
	}

	missingValues, err := meter.Int64Counter(
		"project_missing_values_total",
		metric.WithDescription("Total number of point coordinates whose source field was absent"),
	)
	if err != nil {
		return nil, err
	}

	return &IngestMetrics{
		recordsTotal:  recordsTotal,
		bytesTotal:    bytesTotal,
		errorsTotal:   errorsTotal,
		duration:      duration,
		pointsTotal:   pointsTotal,
		missingValues: missingValues,
	}, nil
}

// RecordIngest records a finished ingestion run. format is the source
// format ("csv" or "xlsx"); err is the run's outcome.
func (m *IngestMetrics) RecordIngest(ctx context.Context, format string, records, bytes int64, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("format", format))
	m.recordsTotal.Add(ctx, records, attrs)
	m.bytesTotal.Add(ctx, bytes, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		m.errorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordProjection records one projection pass
func (m *IngestMetrics) RecordProjection(ctx context.Context, points, missing int64) {
	if m == nil {
		return
	}
	m.pointsTotal.Add(ctx, points)
	m.missingValues.Add(ctx, missing)
}
