package memograph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/memograph/memograph/pkg/config"
	"github.com/memograph/memograph/pkg/embedder"
	"github.com/memograph/memograph/pkg/factstore"
	"github.com/memograph/memograph/pkg/logger"
	"github.com/memograph/memograph/pkg/tools"
	"github.com/memograph/memograph/pkg/types"
)

// Client is the top-level entry point. It wires the fact store, the
// embedding client, and the tool registry into a single object.
type Client struct {
	store     *factstore.Store
	embedder  embedder.Client
	registry  *tools.Registry
	queryTool *tools.QueryFactsTool
	logger    *slog.Logger
}

// New connects to the configured graph backend and builds a client with
// the query tooling registered.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg == nil {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return nil, err
		}
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	store, err := factstore.New(ctx, factstore.Config{
		Backend:     cfg.Database.Driver,
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		Username:    cfg.Database.Username,
		Password:    cfg.Database.Password,
		Graph:       cfg.Database.Graph,
		WipeOnStart: cfg.Database.WipeOnStart,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("connecting graph backend: %w", err)
	}

	embedderClient, err := newEmbedder(cfg)
	if err != nil {
		store.Close(ctx)
		return nil, err
	}

	client := &Client{
		store:    store,
		embedder: embedderClient,
		registry: tools.NewRegistry(),
		logger:   log,
	}

	client.queryTool = tools.NewQueryFactsTool(store, embedderClient)
	if err := client.registry.Register(client.queryTool); err != nil {
		store.Close(ctx)
		return nil, err
	}
	return client, nil
}

func newEmbedder(cfg *config.Config) (embedder.Client, error) {
	embCfg := &embedder.Config{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}

	switch cfg.Embedding.Provider {
	case "fake":
		return embedder.NewFakeClient(cfg.Embedding.Dimensions, 0), nil
	case "openai", "":
		var breaker *embedder.BreakerSettings
		if cfg.CircuitBreaker.Enabled {
			breaker = &embedder.BreakerSettings{
				MaxRequests:      cfg.CircuitBreaker.MaxRequests,
				Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
				Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
				ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
			}
		}
		return embedder.NewOpenAIClient(embCfg, breaker), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

// Store returns the underlying fact store.
func (c *Client) Store() *factstore.Store {
	return c.store
}

// Tools returns the tool registry.
func (c *Client) Tools() *tools.Registry {
	return c.registry
}

// Embedder returns the embedding client.
func (c *Client) Embedder() embedder.Client {
	return c.embedder
}

// Logger returns the client logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// QueryFacts embeds the query text and returns the most similar facts.
func (c *Client) QueryFacts(ctx context.Context, query string, limit int) (types.FactList, error) {
	return c.queryTool.Query(ctx, query, limit)
}

// Close closes the graph connection and the embedding client.
func (c *Client) Close(ctx context.Context) error {
	if err := c.embedder.Close(); err != nil {
		c.logger.Warn("closing embedder", "error", err)
	}
	return c.store.Close(ctx)
}
