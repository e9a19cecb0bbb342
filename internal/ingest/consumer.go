package ingest

import (
	"context"
	"log/slog"

	"housingcli/internal/infrastructure"
)

// PointConsumer accepts the ordered Points of one run. It is the hand-off
// to whatever model sits downstream.
type PointConsumer interface {
	Consume(ctx context.Context, points []Point) error
}

// ConsumerFunc adapts a function to PointConsumer.
type ConsumerFunc func(ctx context.Context, points []Point) error

func (f ConsumerFunc) Consume(ctx context.Context, points []Point) error {
	return f(ctx, points)
}

// LogConsumer logs a summary of the points it receives.
type LogConsumer struct {
	Logger *slog.Logger
}

func (c LogConsumer) Consume(ctx context.Context, points []Point) error {
	var numeric, incomplete int
	for _, p := range points {
		if !p.Complete() {
			incomplete++
			continue
		}
		if _, _, err := p.Float64(); err == nil {
			numeric++
		}
	}
	infrastructure.WithComponent(c.Logger, "consumer").InfoContext(ctx, "Points received",
		slog.Int("points", len(points)),
		slog.Int("numeric", numeric),
		slog.Int("incomplete", incomplete))
	return nil
}
