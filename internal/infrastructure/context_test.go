package infrastructure

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = EnsureRunID(ctx)
	id := GetRunID(ctx)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	assert.Equal(t, id, GetRunID(EnsureRunID(ctx)), "existing id is kept")
	assert.Equal(t, "fixed", GetRunID(WithRunID(ctx, "fixed")))
	assert.NotEqual(t, NewRunID(), NewRunID())
}
