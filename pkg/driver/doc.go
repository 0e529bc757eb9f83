// Package driver provides graph database access for the fact memory.
//
// The GraphDriver interface covers exactly the query surface the fact store
// needs: upserting entity nodes and fact edges matched by id, bulk deletion
// by id list, and fetching nodes and edges (with their endpoints) back out.
// Two implementations are provided: FalkorDB over the Redis protocol and
// Neo4j over Bolt.
//
// The driver holds a single connection handle opened at construction and
// reused for its lifetime. There is no pooling, retry, or reconnection
// logic in this layer; backend errors propagate to the caller unchanged.
package driver
