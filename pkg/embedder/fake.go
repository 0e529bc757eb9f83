package embedder

import (
	"context"
	"math"
	"math/rand"
	"sync"
)

// FakeClient produces random vectors of a fixed dimension. It stands in
// for a real embeddings provider in tests and offline runs; with a fixed
// seed its output is deterministic per call sequence.
type FakeClient struct {
	dim       int
	normalize bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFakeClient creates a fake embeddings client producing normalized
// vectors of the given dimension.
func NewFakeClient(dim int, seed int64) *FakeClient {
	return &FakeClient{
		dim:       dim,
		normalize: true,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Embed generates one random vector per input text.
func (c *FakeClient) Embed(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = c.vector()
	}
	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *FakeClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Dimensions returns the fixed vector width.
func (c *FakeClient) Dimensions() int {
	return c.dim
}

// Close is a no-op.
func (c *FakeClient) Close() error {
	return nil
}

func (c *FakeClient) vector() []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := make([]float32, c.dim)
	var norm float64
	for i := range v {
		v[i] = c.rng.Float32()
		norm += float64(v[i]) * float64(v[i])
	}
	if c.normalize && norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range v {
			v[i] *= scale
		}
	}
	return v
}
