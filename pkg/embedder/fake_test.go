package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClientDimensions(t *testing.T) {
	client := NewFakeClient(8, 1)
	assert.Equal(t, 8, client.Dimensions())

	vector, err := client.EmbedSingle(context.Background(), "paris")
	require.NoError(t, err)
	assert.Len(t, vector, 8)
}

func TestFakeClientNormalized(t *testing.T) {
	client := NewFakeClient(16, 1)
	vector, err := client.EmbedSingle(context.Background(), "paris")
	require.NoError(t, err)

	var norm float64
	for _, f := range vector {
		norm += float64(f) * float64(f)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestFakeClientBatch(t *testing.T) {
	client := NewFakeClient(4, 1)
	embeddings, err := client.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, embeddings, 3)
	for _, v := range embeddings {
		assert.Len(t, v, 4)
	}
}

func TestFakeClientDeterministicWithSeed(t *testing.T) {
	a, err := NewFakeClient(4, 42).EmbedSingle(context.Background(), "x")
	require.NoError(t, err)
	b, err := NewFakeClient(4, 42).EmbedSingle(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
