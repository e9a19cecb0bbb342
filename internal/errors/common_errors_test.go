package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewValidationError("x field is required", nil),
			expected: "[VALIDATION] x field is required",
		},
		{
			name:     "with cause",
			err:      NewFileSystemError("failed to open input", fs.ErrNotExist),
			expected: "[FILESYSTEM] failed to open input: file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	pathErr := &fs.PathError{Op: "open", Path: "kc_house_data.csv", Err: fs.ErrNotExist}
	err := NewFileSystemError("failed to open input", pathErr)

	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var target *fs.PathError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "kc_house_data.csv", target.Path)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad row", nil).WithContext("line", 3)
	assert.Equal(t, 3, err.Context["line"])

	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("file", "config.yaml")
	assert.Equal(t, "config.yaml", bare.Context["file"])
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("ingest: %w", NewParsingError("bad row", nil))

	assert.True(t, IsType(wrapped, ErrTypeParsing))
	assert.False(t, IsType(wrapped, ErrTypeFileSystem))
	assert.False(t, IsType(errors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}
