// Package embedder supplies the embedding vectors attached to entities and
// facts before they reach the fact store. The store itself never computes
// embeddings; it only persists what this collaborator produces.
package embedder
