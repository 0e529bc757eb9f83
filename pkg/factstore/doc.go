// Package factstore maps the entity/fact data model onto a graph database:
// nodes for entities, edges for facts. The store translates CRUD calls into
// graph queries and reshapes result rows back into typed records; the
// database owns all indexing, transaction, and durability guarantees.
//
// The store is stateless beyond the driver handle. Batch operations are not
// atomic: a failure partway through a batch leaves prior upserts committed.
// Updating a fact whose endpoints do not yet exist creates them implicitly;
// callers relying on strict endpoint pre-existence must check first.
package factstore
