package factstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memograph/memograph/pkg/driver"
)

// Config selects and configures the graph backend for a Store.
type Config struct {
	// Backend is the graph database type: "falkordb" (default) or "neo4j".
	Backend string
	// Host and Port locate the backend.
	Host string
	Port int
	// Username and Password are optional credentials.
	Username string
	Password string
	// Graph is the named graph index to operate on.
	Graph string
	// WipeOnStart clears the named graph at construction time. Destructive
	// and irreversible within this layer.
	WipeOnStart bool
}

// New connects to the configured backend and returns a Store over it.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	driverCfg := driver.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		Graph:       cfg.Graph,
		WipeOnStart: cfg.WipeOnStart,
	}

	var (
		d   driver.GraphDriver
		err error
	)
	switch driver.GraphProvider(cfg.Backend) {
	case driver.GraphProviderFalkorDB, "":
		d, err = driver.NewFalkorDBDriver(ctx, driverCfg)
	case driver.GraphProviderNeo4j:
		d, err = driver.NewNeo4jDriver(ctx, driverCfg)
	default:
		return nil, fmt.Errorf("unknown graph backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return NewStore(d, logger), nil
}
