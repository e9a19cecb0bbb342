package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"housingcli/internal/config"
	apperrors "housingcli/internal/errors"
	"housingcli/internal/infrastructure"
	"housingcli/internal/ingest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logFailure(ctx, slog.Default(), err)
		stop()
		os.Exit(1)
	}
}

// logFailure reports a fatal error once, with the type and context of an
// AppError when there is one.
func logFailure(ctx context.Context, logger *slog.Logger, err error) {
	attrs := []any{slog.String("error", err.Error())}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, slog.String("error_type", string(appErr.Type)))
		for _, key := range slices.Sorted(maps.Keys(appErr.Context)) {
			attrs = append(attrs, slog.Any(key, appErr.Context[key]))
		}
	}
	logger.ErrorContext(ctx, "Ingestion failed", attrs...)
}

// run loads configuration, reads the input file, dumps the dataset to
// stdout and hands the projected points to the consumer.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureRunID(ctx)

	providers, err := infrastructure.InitializeOTel(ctx, cfg.Telemetry, stderr, logger)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewIngestMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	logger.InfoContext(ctx, "Starting ingestion",
		slog.String("input", cfg.Ingest.InputPath),
		slog.String("x_field", cfg.Ingest.XField),
		slog.String("y_field", cfg.Ingest.YField))

	in := ingest.NewIngestor(ingest.OptionsFromConfig(cfg.Ingest), logger, metrics)

	ds, err := in.Ingest(ctx, cfg.Ingest.InputPath)
	if err != nil {
		return err
	}

	if cfg.Ingest.DumpDataset {
		if err := ingest.Dump(stdout, ds); err != nil {
			return fmt.Errorf("dump dataset: %w", err)
		}
	}

	points := in.Project(ctx, ds)

	var consumer ingest.PointConsumer = ingest.LogConsumer{Logger: logger}
	if err := consumer.Consume(ctx, points); err != nil {
		return fmt.Errorf("consume points: %w", err)
	}

	if err := providers.LogMetrics(ctx, logger); err != nil {
		logger.WarnContext(ctx, "Failed to report metrics", slog.String("error", err.Error()))
	}

	return nil
}

// loadConfig parses flags and layers the explicitly set ones over the
// loaded configuration.
func loadConfig(args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file (defaults to config.yaml or configs/config.yaml if present)")
	file := fs.String("file", "", "input .csv or .xlsx file (default kc_house_data.csv)")
	xField := fs.String("x", "", "column projected to x (default sqft_living)")
	yField := fs.String("y", "", "column projected to y (default price)")
	sheet := fs.String("sheet", "", "workbook sheet for .xlsx input (default first sheet)")
	dump := fs.Bool("dump", true, "print the dataset to stdout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.Ingest.InputPath = *file
		case "x":
			cfg.Ingest.XField = *xField
		case "y":
			cfg.Ingest.YField = *yField
		case "sheet":
			cfg.Ingest.Sheet = *sheet
		case "dump":
			cfg.Ingest.DumpDataset = *dump
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
