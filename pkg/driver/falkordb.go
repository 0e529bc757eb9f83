package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/memograph/memograph/pkg/types"
)

// FalkorDBDriver implements GraphDriver over the Redis protocol using
// GRAPH.QUERY commands against a named graph key.
type FalkorDBDriver struct {
	client *redis.Client
	graph  string
}

// NewFalkorDBDriver opens a Redis connection per cfg and verifies it with
// a ping. If cfg.WipeOnStart is set, the named graph is cleared before the
// driver is returned.
func NewFalkorDBDriver(ctx context.Context, cfg Config) (*FalkorDBDriver, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to falkordb: %w", err)
	}

	graph := cfg.Graph
	if graph == "" {
		graph = "fact_memory"
	}

	d := &FalkorDBDriver{client: client, graph: graph}
	if cfg.WipeOnStart {
		if err := d.Wipe(ctx); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to wipe graph on start: %w", err)
		}
	}
	return d, nil
}

// Provider identifies the backend type.
func (f *FalkorDBDriver) Provider() GraphProvider {
	return GraphProviderFalkorDB
}

// Close releases the connection handle.
func (f *FalkorDBDriver) Close(ctx context.Context) error {
	return f.client.Close()
}

// query issues GRAPH.QUERY with a CYPHER parameter prefix and parses the
// verbose reply into a result set.
func (f *FalkorDBDriver) query(ctx context.Context, q string, params map[string]any) (*resultSet, error) {
	prefix, err := encodeCypherParams(params)
	if err != nil {
		return nil, err
	}
	reply, err := f.client.Do(ctx, "GRAPH.QUERY", f.graph, prefix+q).Result()
	if err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	return parseResultSet(reply)
}

// UpsertEntity creates or updates an entity node matched by id.
func (f *FalkorDBDriver) UpsertEntity(ctx context.Context, entity *types.Entity) error {
	if err := validateLabel(entity.Label); err != nil {
		return err
	}
	metadata, err := types.EncodeMetadata(entity.Metadata)
	if err != nil {
		return err
	}

	set := []string{
		"e.name = $name",
		"e.label = $label",
		"e.description = $description",
		"e.metadata = $metadata",
	}
	params := map[string]any{
		"id":          entity.ID,
		"name":        entity.Name,
		"label":       entity.Label,
		"description": entity.Description,
		"metadata":    metadata,
	}
	if entity.Vector != nil {
		// vecf32 stores the embedding as a fixed-width float32 vector for
		// similarity-search compatibility.
		set = append(set, "e.vector = vecf32($vector)")
		params["vector"] = entity.Vector
	} else {
		set = append(set, "e.vector = NULL")
	}

	q := fmt.Sprintf("MERGE (e:%s:%s {id: $id}) SET %s",
		types.EntityLabel, entity.Label, strings.Join(set, ", "))
	_, err = f.query(ctx, q, params)
	return err
}

// UpsertFactEdge creates or updates a fact edge matched by id between two
// existing entity nodes.
func (f *FalkorDBDriver) UpsertFactEdge(ctx context.Context, fact *types.Fact) error {
	metadata, err := types.EncodeMetadata(fact.Metadata)
	if err != nil {
		return err
	}

	set := []string{
		"r.relationship = $relationship",
		"r.metadata = $metadata",
	}
	params := map[string]any{
		"id":           fact.ID,
		"subject_id":   fact.Subj.ID,
		"object_id":    fact.Obj.ID,
		"relationship": fact.Rel.Name,
		"metadata":     metadata,
	}
	if fact.Vector != nil {
		set = append(set, "r.vector = vecf32($vector)")
		params["vector"] = fact.Vector
	} else {
		set = append(set, "r.vector = NULL")
	}

	q := fmt.Sprintf(
		"MATCH (s:%[1]s {id: $subject_id}), (o:%[1]s {id: $object_id}) MERGE (s)-[r:%[2]s {id: $id}]->(o) SET %[3]s",
		types.EntityLabel, types.FactRelation, strings.Join(set, ", "))
	_, err = f.query(ctx, q, params)
	return err
}

// DeleteNodes removes entity nodes by id, cascading to incident edges.
func (f *FalkorDBDriver) DeleteNodes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := fmt.Sprintf("MATCH (e:%s) WHERE e.id IN $ids DETACH DELETE e", types.EntityLabel)
	_, err := f.query(ctx, q, map[string]any{"ids": ids})
	return err
}

// DeleteFactEdges removes fact edges by id.
func (f *FalkorDBDriver) DeleteFactEdges(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	q := fmt.Sprintf("MATCH ()-[r:%s]->() WHERE r.id IN $ids DELETE r", types.FactRelation)
	_, err := f.query(ctx, q, map[string]any{"ids": ids})
	return err
}

// GetNodes fetches entity nodes by id list.
func (f *FalkorDBDriver) GetNodes(ctx context.Context, ids []string) ([]*types.Entity, error) {
	if len(ids) == 0 {
		return []*types.Entity{}, nil
	}
	q := fmt.Sprintf("MATCH (e:%s) WHERE e.id IN $ids RETURN e", types.EntityLabel)
	rs, err := f.query(ctx, q, map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}

	entities := make([]*types.Entity, 0, len(rs.rows))
	for _, row := range rs.rows {
		if len(row) < 1 {
			continue
		}
		node, err := parseGraphEntity(row[0])
		if err != nil {
			return nil, err
		}
		entity, err := entityFromProps(node.props)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// GetFactEdges fetches fact edges with their endpoint nodes by id list.
func (f *FalkorDBDriver) GetFactEdges(ctx context.Context, ids []string) ([]*types.Fact, error) {
	if len(ids) == 0 {
		return []*types.Fact{}, nil
	}
	q := fmt.Sprintf("MATCH (s:%[1]s)-[r:%[2]s]->(o:%[1]s) WHERE r.id IN $ids RETURN r, s, o",
		types.EntityLabel, types.FactRelation)
	return f.collectFacts(ctx, q, map[string]any{"ids": ids})
}

// FactCandidates fetches fact edges that carry an embedding vector.
func (f *FalkorDBDriver) FactCandidates(ctx context.Context, limit int) ([]*types.Fact, error) {
	q := fmt.Sprintf(
		"MATCH (s:%[1]s)-[r:%[2]s]->(o:%[1]s) WHERE r.vector IS NOT NULL RETURN r, s, o LIMIT $limit",
		types.EntityLabel, types.FactRelation)
	return f.collectFacts(ctx, q, map[string]any{"limit": limit})
}

func (f *FalkorDBDriver) collectFacts(ctx context.Context, q string, params map[string]any) ([]*types.Fact, error) {
	rs, err := f.query(ctx, q, params)
	if err != nil {
		return nil, err
	}

	facts := make([]*types.Fact, 0, len(rs.rows))
	for _, row := range rs.rows {
		if len(row) < 3 {
			continue
		}
		edge, err := parseGraphEntity(row[0])
		if err != nil {
			return nil, err
		}
		subjNode, err := parseGraphEntity(row[1])
		if err != nil {
			return nil, err
		}
		objNode, err := parseGraphEntity(row[2])
		if err != nil {
			return nil, err
		}

		fact, err := factFromProps(edge.props, subjNode.props, objNode.props)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

// NodeExists reports whether an entity node with the given id exists.
func (f *FalkorDBDriver) NodeExists(ctx context.Context, id string) (bool, error) {
	q := fmt.Sprintf("MATCH (e:%s {id: $id}) RETURN e.id LIMIT 1", types.EntityLabel)
	rs, err := f.query(ctx, q, map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	return len(rs.rows) > 0, nil
}

// FactExists reports whether a fact edge with the given id exists.
func (f *FalkorDBDriver) FactExists(ctx context.Context, id string) (bool, error) {
	q := fmt.Sprintf("MATCH ()-[r:%s {id: $id}]->() RETURN r.id LIMIT 1", types.FactRelation)
	rs, err := f.query(ctx, q, map[string]any{"id": id})
	if err != nil {
		return false, err
	}
	return len(rs.rows) > 0, nil
}

// Stats returns node and edge counts for the graph.
func (f *FalkorDBDriver) Stats(ctx context.Context) (*GraphStats, error) {
	stats := &GraphStats{}

	rs, err := f.query(ctx, fmt.Sprintf("MATCH (e:%s) RETURN count(e)", types.EntityLabel), nil)
	if err != nil {
		return nil, err
	}
	stats.NodeCount = rs.scalarInt()

	rs, err = f.query(ctx, fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", types.FactRelation), nil)
	if err != nil {
		return nil, err
	}
	stats.EdgeCount = rs.scalarInt()

	return stats, nil
}

// Wipe clears the named graph.
func (f *FalkorDBDriver) Wipe(ctx context.Context) error {
	_, err := f.query(ctx, "MATCH (n) DETACH DELETE n", nil)
	return err
}
