package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogConsumer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	points := []Point{
		{X: ValueOf("1180"), Y: ValueOf("221900")},
		{X: ValueOf("n/a"), Y: ValueOf("538000")},
		{X: ValueOf("770")},
	}
	require.NoError(t, LogConsumer{Logger: logger}.Consume(context.Background(), points))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Points received", entry["msg"])
	assert.Equal(t, "consumer", entry["component"])
	assert.Equal(t, float64(3), entry["points"])
	assert.Equal(t, float64(1), entry["numeric"])
	assert.Equal(t, float64(1), entry["incomplete"])
}

func TestConsumerFunc(t *testing.T) {
	var got []Point
	consumer := ConsumerFunc(func(_ context.Context, points []Point) error {
		got = points
		return nil
	})

	points := []Point{{X: ValueOf("1"), Y: ValueOf("2")}}
	var _ PointConsumer = consumer
	require.NoError(t, consumer.Consume(context.Background(), points))
	assert.Equal(t, points, got)
}
