package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		row      []string
		expected map[string]string
		keys     []string
	}{
		{
			name:     "row matches header",
			header:   []string{"sqft_living", "price"},
			row:      []string{"1180", "221900"},
			expected: map[string]string{"sqft_living": "1180", "price": "221900"},
			keys:     []string{"sqft_living", "price"},
		},
		{
			name:     "short row leaves trailing columns absent",
			header:   []string{"id", "sqft_living", "price"},
			row:      []string{"7129300520", "1180"},
			expected: map[string]string{"id": "7129300520", "sqft_living": "1180"},
			keys:     []string{"id", "sqft_living"},
		},
		{
			name:     "long row keys extras by index",
			header:   []string{"sqft_living", "price"},
			row:      []string{"1180", "221900", "x", "y"},
			expected: map[string]string{"sqft_living": "1180", "price": "221900", "_2": "x", "_3": "y"},
			keys:     []string{"sqft_living", "price", "_2", "_3"},
		},
		{
			name:     "extra cell does not overwrite header column of the same name",
			header:   []string{"a", "_2"},
			row:      []string{"1", "2", "3"},
			expected: map[string]string{"a": "1", "_2": "2", "__2": "3"},
			keys:     []string{"a", "_2", "__2"},
		},
		{
			name:     "duplicate header keeps last value at first position",
			header:   []string{"price", "sqft_living", "price"},
			row:      []string{"1", "1180", "2"},
			expected: map[string]string{"price": "2", "sqft_living": "1180"},
			keys:     []string{"price", "sqft_living"},
		},
		{
			name:     "empty row",
			header:   []string{"sqft_living", "price"},
			row:      nil,
			expected: map[string]string{},
			keys:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord(tt.header, tt.row)
			assert.Equal(t, tt.expected, rec.Fields())
			assert.Equal(t, tt.keys, rec.Keys())
			assert.Equal(t, len(tt.keys), rec.Len())
		})
	}
}

func TestRecord_FieldsIsCopy(t *testing.T) {
	rec := NewRecord([]string{"price"}, []string{"221900"})

	fields := rec.Fields()
	fields["price"] = "0"

	v, ok := rec.Get("price")
	assert.True(t, ok)
	assert.Equal(t, "221900", v)
}

func TestRecord_Get(t *testing.T) {
	rec := NewRecord([]string{"sqft_living", "price"}, []string{"", "221900"})

	v, ok := rec.Get("sqft_living")
	assert.True(t, ok, "empty cell is still present")
	assert.Equal(t, "", v)

	_, ok = rec.Get("bedrooms")
	assert.False(t, ok)
}
