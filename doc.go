// Package memograph provides a graph-backed long-term fact memory for
// AI agents.
//
// Facts are stored as typed, directed edges between entity nodes in a
// property graph (FalkorDB or Neo4j). Every record carries a stable
// UUID, and writes are upserts keyed on that UUID, so re-ingesting the
// same extraction pipeline output converges instead of duplicating.
//
// # Basic Usage
//
// Create a client from configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := memograph.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// # Storing Facts
//
// Facts reference their subject and object entities inline. Endpoints
// missing from the graph are created as part of the fact upsert:
//
//	fact := &types.Fact{
//		ID:   types.NewID(),
//		Rel:  types.Relationship{Name: "capital_of"},
//		Subj: &types.Entity{ID: parisID, Name: "Paris", Label: "City"},
//		Obj:  &types.Entity{ID: franceID, Name: "France", Label: "Country"},
//	}
//	err = client.Store().Update(ctx, types.UpdateFacts(fact))
//
// # Querying
//
// QueryFacts embeds the query text and ranks stored facts by cosine
// similarity against their vectors:
//
//	facts, err := client.QueryFacts(ctx, "what is the capital of France", 10)
//
// The same capability is exposed through the tool registry in
// function-calling format for LLM agent frameworks:
//
//	defs := client.Tools().Definitions()
//	result, err := client.Tools().Call(ctx, "query_facts", args)
//
// # Architecture
//
//   - pkg/types: core record types and validation
//   - pkg/driver: graph database abstraction (FalkorDB, Neo4j)
//   - pkg/factstore: upsert/remove/get semantics over a driver
//   - pkg/embedder: embedding client interfaces
//   - pkg/tools: tool registry for agent integration
//   - pkg/server: HTTP API
package memograph
