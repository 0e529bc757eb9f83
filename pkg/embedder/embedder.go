package embedder

import (
	"context"
	"errors"
)

// ErrNoEmbeddings is returned when the provider replies without vectors.
var ErrNoEmbeddings = errors.New("no embeddings returned")

// Client generates embedding vectors for text.
type Client interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector width this client produces.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds provider-independent embedding settings.
type Config struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}
