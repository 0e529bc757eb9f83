package embedder

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// OpenAIClient implements Client against the OpenAI embeddings API (or any
// compatible endpoint via BaseURL). Calls go through a circuit breaker.
// The graph layer does not retry or break, only this HTTP dependency.
type OpenAIClient struct {
	client  *openai.Client
	config  *Config
	breaker *gobreaker.CircuitBreaker
}

// BreakerSettings configures the embedding circuit breaker.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// NewOpenAIClient creates an embeddings client. breaker may be nil for
// default settings.
func NewOpenAIClient(cfg *Config, breaker *BreakerSettings) *OpenAIClient {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}

	settings := gobreaker.Settings{Name: "embeddings"}
	if breaker != nil {
		settings.MaxRequests = breaker.MaxRequests
		settings.Interval = breaker.Interval
		settings.Timeout = breaker.Timeout
		ratio := breaker.ReadyToTripRatio
		if ratio > 0 {
			settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
				if counts.Requests < 3 {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
			}
		}
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(apiConfig),
		config:  cfg,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Embed generates embeddings for the given texts.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(c.config.Model),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	resp := result.(openai.EmbeddingResponse)
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", ErrNoEmbeddings, len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		embeddings[i] = item.Embedding
	}
	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *OpenAIClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, ErrNoEmbeddings
	}
	return embeddings[0], nil
}

// Dimensions returns the configured vector width.
func (c *OpenAIClient) Dimensions() int {
	return c.config.Dimensions
}

// Close cleans up any resources.
func (c *OpenAIClient) Close() error {
	return nil
}
