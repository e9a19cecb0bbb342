package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	header := []string{"id", "sqft_living", "price"}
	records := []Record{
		NewRecord(header, []string{"1", "1180", "221900"}),
		NewRecord(header, []string{"2", "2570"}),
		NewRecord([]string{"id", "price"}, []string{"3", "180000"}),
		NewRecord(header, []string{"4", "n/a", ""}),
	}

	points := Project(records)

	require.Len(t, points, len(records))
	assert.Equal(t, Point{X: ValueOf("1180"), Y: ValueOf("221900")}, points[0])
	assert.Equal(t, Point{X: ValueOf("2570"), Y: Value{}}, points[1])
	assert.Equal(t, Point{X: Value{}, Y: ValueOf("180000")}, points[2])
	assert.Equal(t, Point{X: ValueOf("n/a"), Y: ValueOf("")}, points[3])

	assert.True(t, points[0].Complete())
	assert.False(t, points[1].Complete())
	assert.True(t, points[3].Complete(), "present but non-numeric values are not missing")
}

func TestProject_Idempotent(t *testing.T) {
	header := []string{"sqft_living", "price"}
	records := []Record{
		NewRecord(header, []string{"1180", "221900"}),
		NewRecord(header, []string{"2570"}),
	}

	assert.Equal(t, Project(records), Project(records))
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(nil))
}

func TestValue_Float64(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected float64
		err      error
		wantErr  bool
	}{
		{name: "integer", value: ValueOf("221900"), expected: 221900},
		{name: "decimal", value: ValueOf("1.5"), expected: 1.5},
		{name: "padded", value: ValueOf(" 1180 "), expected: 1180},
		{name: "missing", value: Value{}, err: ErrMissingValue, wantErr: true},
		{name: "text", value: ValueOf("n/a"), wantErr: true},
		{name: "empty", value: ValueOf(""), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.Float64()
			if tt.wantErr {
				require.Error(t, err)
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "1180", ValueOf("1180").String())
	assert.Equal(t, "<missing>", Value{}.String())
}

func TestPoint_Float64(t *testing.T) {
	x, y, err := Point{X: ValueOf("1180"), Y: ValueOf("221900")}.Float64()
	require.NoError(t, err)
	assert.Equal(t, 1180.0, x)
	assert.Equal(t, 221900.0, y)

	_, _, err = Point{X: ValueOf("1180")}.Float64()
	assert.ErrorIs(t, err, ErrMissingValue)
}
