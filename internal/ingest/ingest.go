package ingest

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"housingcli/internal/config"
	"housingcli/internal/infrastructure"
)

const tracerName = "housingcli/internal/ingest"

// Options configures parsing and projection.
type Options struct {
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
	// Strict rejects rows whose width differs from the header.
	Strict bool
	// Sheet selects the workbook sheet for .xlsx input. Empty means the first sheet.
	Sheet string
	// BufferSize is the capacity of the channel between parser and collector.
	BufferSize int
	// ProgressEvery logs progress every N records. Zero disables it.
	ProgressEvery int
	// Projection names the fields that become a Point's coordinates.
	Projection Projection
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Delimiter:     ',',
		BufferSize:    256,
		ProgressEvery: 5000,
		Projection:    DefaultProjection(),
	}
}

// OptionsFromConfig maps the ingest section of the configuration.
func OptionsFromConfig(cfg config.IngestConfig) Options {
	return Options{
		Delimiter:     cfg.DelimiterRune(),
		Strict:        cfg.Strict,
		Sheet:         cfg.Sheet,
		BufferSize:    cfg.BufferSize,
		ProgressEvery: cfg.ProgressEvery,
		Projection:    Projection{XField: cfg.XField, YField: cfg.YField},
	}
}

// Ingestor reads input files into Datasets and projects them into Points.
type Ingestor struct {
	opts    Options
	logger  *slog.Logger
	metrics *infrastructure.IngestMetrics
	tracer  trace.Tracer
}

// NewIngestor creates an Ingestor. logger and metrics may be nil.
func NewIngestor(opts Options, logger *slog.Logger, metrics *infrastructure.IngestMetrics) *Ingestor {
	if opts.Projection == (Projection{}) {
		opts.Projection = DefaultProjection()
	}
	if opts.BufferSize < 0 {
		opts.BufferSize = 0
	}
	return &Ingestor{
		opts:    opts,
		logger:  infrastructure.WithComponent(logger, "ingest"),
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

// Ingest reads the file at path to completion and returns its Dataset.
// Nothing is returned until the stream has reached StateDone, so callers
// never observe a partially filled Dataset. Failures are recorded on the
// span and in metrics but left to the caller to log.
func (in *Ingestor) Ingest(ctx context.Context, path string) (*Dataset, error) {
	ctx, span := in.tracer.Start(ctx, "ingest.Ingest",
		trace.WithAttributes(attribute.String("ingest.path", path)))
	defer span.End()

	start := time.Now()
	format := formatOf(path)

	stream, err := Open(path, in.opts)
	if err != nil {
		in.metrics.RecordIngest(ctx, format, 0, 0, time.Since(start), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return nil, err
	}
	defer stream.Close()

	in.logger.InfoContext(ctx, "Ingestion started",
		slog.String("path", path),
		slog.String("format", stream.Format()),
		slog.Any("header", stream.Header()))

	ds, err := in.collect(ctx, stream)
	elapsed := time.Since(start)
	if err != nil {
		in.metrics.RecordIngest(ctx, stream.Format(), int64(stream.Count()), stream.BytesRead(), elapsed, err)
		span.RecordError(err)
		span.SetAttributes(attribute.Int("ingest.records_read", stream.Count()))
		span.SetStatus(codes.Error, "ingestion failed")
		return nil, err
	}

	in.metrics.RecordIngest(ctx, ds.format, int64(ds.Len()), ds.bytes, elapsed, nil)
	span.SetAttributes(
		attribute.Int("ingest.records", ds.Len()),
		attribute.Int64("ingest.bytes", ds.bytes),
	)
	in.logger.InfoContext(ctx, "Ingestion complete",
		slog.String("path", path),
		slog.Int("records", ds.Len()),
		slog.Int64("bytes", ds.bytes),
		slog.String("checksum", ds.checksum),
		slog.Duration("elapsed", elapsed))

	return ds, nil
}

// collect runs the parser and the collector as two goroutines joined by a
// bounded channel. The Dataset is only handed out after both have exited.
func (in *Ingestor) collect(ctx context.Context, stream *Stream) (*Dataset, error) {
	g, gctx := errgroup.WithContext(ctx)
	records := make(chan Record, in.opts.BufferSize)

	g.Go(func() error {
		defer close(records)
		for rec, err := range stream.Records(gctx) {
			if err != nil {
				return err
			}
			select {
			case records <- rec:
			case <-gctx.Done():
				stream.fail(gctx.Err())
				return gctx.Err()
			}
		}
		return nil
	})

	ds := &Dataset{
		source: stream.Path(),
		format: stream.Format(),
		header: stream.Header(),
	}
	progress := &rate.Sometimes{Every: in.opts.ProgressEvery}

	g.Go(func() error {
		for rec := range records {
			ds.records = append(ds.records, rec)
			if in.opts.ProgressEvery > 0 {
				progress.Do(func() {
					in.logger.DebugContext(gctx, "Ingestion progress", slog.Int("records", len(ds.records)))
				})
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds.checksum = stream.Checksum()
	ds.bytes = stream.BytesRead()
	return ds, nil
}

// Project turns every record of ds into a Point using the configured fields.
// A nil ds projects to no points.
func (in *Ingestor) Project(ctx context.Context, ds *Dataset) []Point {
	_, span := in.tracer.Start(ctx, "ingest.Project",
		trace.WithAttributes(
			attribute.String("project.x_field", in.opts.Projection.XField),
			attribute.String("project.y_field", in.opts.Projection.YField),
		))
	defer span.End()

	var records []Record
	if ds != nil {
		records = ds.records
	}
	points := in.opts.Projection.Apply(records)

	var missing int64
	for _, p := range points {
		if !p.X.Present {
			missing++
		}
		if !p.Y.Present {
			missing++
		}
	}
	in.metrics.RecordProjection(ctx, int64(len(points)), missing)
	span.SetAttributes(attribute.Int("project.points", len(points)))

	if missing > 0 {
		in.logger.WarnContext(ctx, "Projected points with missing coordinates",
			slog.Int64("missing_values", missing),
			slog.Int("points", len(points)))
	}
	return points
}

// Ingest reads path with DefaultOptions and no logging or metrics.
func Ingest(ctx context.Context, path string) (*Dataset, error) {
	return NewIngestor(DefaultOptions(), nil, nil).Ingest(ctx, path)
}
