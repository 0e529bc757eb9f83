// Package types defines the entity/fact data model shared by the graph
// drivers, the fact store, and the tool layer.
//
// An Entity is a named, typed node; a Fact is a directed, typed edge between
// two entities. Both carry an optional embedding vector and a metadata map.
// Identifiers are UUID strings, validated at ingestion so that stored ids
// never come back in mixed representations.
package types
