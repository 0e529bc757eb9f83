package driver

import (
	"context"
	"fmt"
	"regexp"

	"github.com/memograph/memograph/pkg/types"
)

// GraphProvider represents the type of graph database backend.
type GraphProvider string

const (
	GraphProviderFalkorDB GraphProvider = "falkordb"
	GraphProviderNeo4j    GraphProvider = "neo4j"
)

// GraphDriver defines the operations the fact store issues against the
// graph backend. Every method is a single synchronous request/response
// cycle; batch methods are not transactional across items.
type GraphDriver interface {
	// UpsertEntity creates or updates an entity node matched by id,
	// tagging it with the entity's label and overwriting its fields.
	UpsertEntity(ctx context.Context, entity *types.Entity) error

	// UpsertFactEdge creates or updates a fact edge matched by id between
	// two existing entity nodes. Both endpoints must already exist.
	UpsertFactEdge(ctx context.Context, fact *types.Fact) error

	// DeleteNodes removes every entity node whose id is in ids together
	// with all incident edges.
	DeleteNodes(ctx context.Context, ids []string) error

	// DeleteFactEdges removes every fact edge whose id is in ids.
	DeleteFactEdges(ctx context.Context, ids []string) error

	// GetNodes fetches entity nodes by id. Unmatched ids are omitted.
	GetNodes(ctx context.Context, ids []string) ([]*types.Entity, error)

	// GetFactEdges fetches fact edges with their endpoint nodes by id.
	// Unmatched ids are omitted.
	GetFactEdges(ctx context.Context, ids []string) ([]*types.Fact, error)

	// NodeExists reports whether an entity node with the given id exists.
	NodeExists(ctx context.Context, id string) (bool, error)

	// FactExists reports whether a fact edge with the given id exists.
	FactExists(ctx context.Context, id string) (bool, error)

	// FactCandidates fetches fact edges that carry an embedding vector,
	// for similarity ranking outside the database.
	FactCandidates(ctx context.Context, limit int) ([]*types.Fact, error)

	// Stats returns node and edge counts for the graph.
	Stats(ctx context.Context) (*GraphStats, error)

	// Wipe clears the named graph. Destructive and irreversible.
	Wipe(ctx context.Context) error

	// Provider identifies the backend type.
	Provider() GraphProvider

	// Close releases the connection handle.
	Close(ctx context.Context) error
}

// GraphStats holds counts for the graph.
type GraphStats struct {
	NodeCount int64 `json:"node_count"`
	EdgeCount int64 `json:"edge_count"`
}

// Config holds the connection settings shared by both backends.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// Graph is the named graph (FalkorDB graph key or Neo4j database).
	Graph string
	// WipeOnStart clears the named graph at construction time.
	WipeOnStart bool
}

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateLabel guards the one query fragment that cannot be parameterized:
// node labels are spliced into the query text, so they are restricted to
// identifier characters.
func validateLabel(label string) error {
	if !labelPattern.MatchString(label) {
		return fmt.Errorf("invalid label %q: labels must match %s", label, labelPattern)
	}
	return nil
}
