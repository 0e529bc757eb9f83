package tools

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/memograph/memograph/pkg/embedder"
	"github.com/memograph/memograph/pkg/factstore"
	"github.com/memograph/memograph/pkg/types"
)

const (
	// QueryFactsToolName is the registry key of the fact-search tool.
	QueryFactsToolName = "query_facts"

	defaultQueryLimit = 10
	// candidateFetchLimit caps how many vector-carrying edges are pulled
	// from the backend for in-process ranking.
	candidateFetchLimit = 1000
)

// QueryFactsTool answers natural-language queries with matching facts. It
// embeds the query through the external embeddings provider, fetches fact
// candidates from the graph, and ranks them by cosine similarity. The
// store never searches by meaning itself; this tool is the composition of
// fact retrieval with the embedding collaborator.
type QueryFactsTool struct {
	store    *factstore.Store
	embedder embedder.Client
}

// NewQueryFactsTool wires the fact store and embeddings provider together.
func NewQueryFactsTool(store *factstore.Store, client embedder.Client) *QueryFactsTool {
	return &QueryFactsTool{store: store, embedder: client}
}

// Name is the unique registry key.
func (t *QueryFactsTool) Name() string {
	return QueryFactsToolName
}

// Definition returns the function-calling schema for this tool.
func (t *QueryFactsTool) Definition() Definition {
	return Definition{
		Type: "function",
		Function: FunctionDefinition{
			Name:        QueryFactsToolName,
			Description: "Search the fact memory for relationships matching a natural-language query. Returns facts as subject-relationship-object triples with their entities.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The natural-language query to search facts for",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of facts to return (default 10)",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// Call executes the tool. args must contain "query"; "limit" is optional.
func (t *QueryFactsTool) Call(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, fmt.Errorf("query_facts: missing required argument \"query\"")
	}
	limit := defaultQueryLimit
	if raw, ok := args["limit"]; ok {
		switch n := raw.(type) {
		case int:
			limit = n
		case float64:
			limit = int(n)
		}
	}
	return t.Query(ctx, query, limit)
}

// Query embeds the query text and returns the best-matching facts.
func (t *QueryFactsTool) Query(ctx context.Context, query string, limit int) (types.FactList, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	vector, err := t.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return types.FactList{}, fmt.Errorf("query_facts: %w", err)
	}

	candidates, err := t.store.Driver().FactCandidates(ctx, candidateFetchLimit)
	if err != nil {
		return types.FactList{}, fmt.Errorf("query_facts: %w", err)
	}

	type scored struct {
		fact  *types.Fact
		score float32
	}
	ranked := make([]scored, 0, len(candidates))
	for _, fact := range candidates {
		if len(fact.Vector) == 0 {
			continue
		}
		ranked = append(ranked, scored{fact: fact, score: cosineSimilarity(vector, fact.Vector)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	result := types.FactList{Facts: make([]*types.Fact, len(ranked))}
	for i, item := range ranked {
		result.Facts[i] = item.fact
	}
	return result, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
