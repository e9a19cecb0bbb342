package ingest

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	path := writeFile(t, "in.csv", "sqft_living,price\n1180,221900\n2570,538000,\"x\"\"y\"\n770\n")
	ds, err := Ingest(context.Background(), path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, ds))

	expected := `[0] {sqft_living: "1180", price: "221900"}
[1] {sqft_living: "2570", price: "538000", _2: "x\"y"}
[2] {sqft_living: "770"}
`
	assert.Equal(t, expected, buf.String())
}

func TestDump_Empty(t *testing.T) {
	ds, err := Ingest(context.Background(), writeFile(t, "in.csv", "sqft_living,price\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, ds))
	assert.Empty(t, buf.String())
}
