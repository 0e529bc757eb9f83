package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/memograph/memograph/pkg/types"
)

// Neo4jDriver implements GraphDriver over the Bolt protocol.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver opens a Bolt connection per cfg. If cfg.WipeOnStart is
// set, the named graph is cleared before the driver is returned.
func NewNeo4jDriver(ctx context.Context, cfg Config) (*Neo4jDriver, error) {
	uri := fmt.Sprintf("bolt://%s:%d", cfg.Host, cfg.Port)
	client, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	database := cfg.Graph
	if database == "" {
		database = "neo4j"
	}

	d := &Neo4jDriver{client: client, database: database}
	if cfg.WipeOnStart {
		if err := d.Wipe(ctx); err != nil {
			d.Close(ctx)
			return nil, fmt.Errorf("failed to wipe graph on start: %w", err)
		}
	}
	return d, nil
}

// Provider identifies the backend type.
func (n *Neo4jDriver) Provider() GraphProvider {
	return GraphProviderNeo4j
}

// Close releases the connection handle.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

// UpsertEntity creates or updates an entity node matched by id.
func (n *Neo4jDriver) UpsertEntity(ctx context.Context, entity *types.Entity) error {
	if err := validateLabel(entity.Label); err != nil {
		return err
	}
	metadata, err := types.EncodeMetadata(entity.Metadata)
	if err != nil {
		return err
	}
	vector, err := encodeVector(entity.Vector)
	if err != nil {
		return err
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// The label cannot be parameterized; validateLabel restricts it
		// to identifier characters before it is spliced in.
		query := fmt.Sprintf(`
			MERGE (e:%s {id: $id})
			SET e:%s
			SET e.name = $name,
			    e.label = $label,
			    e.description = $description,
			    e.metadata = $metadata,
			    e.vector = $vector
		`, types.EntityLabel, entity.Label)
		_, err := tx.Run(ctx, query, map[string]any{
			"id":          entity.ID,
			"name":        entity.Name,
			"label":       entity.Label,
			"description": entity.Description,
			"metadata":    metadata,
			"vector":      vector,
		})
		return nil, err
	})
	return err
}

// UpsertFactEdge creates or updates a fact edge matched by id between two
// existing entity nodes.
func (n *Neo4jDriver) UpsertFactEdge(ctx context.Context, fact *types.Fact) error {
	metadata, err := types.EncodeMetadata(fact.Metadata)
	if err != nil {
		return err
	}
	vector, err := encodeVector(fact.Vector)
	if err != nil {
		return err
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH (s:%[1]s {id: $subject_id}), (o:%[1]s {id: $object_id})
			MERGE (s)-[r:%[2]s {id: $id}]->(o)
			SET r.relationship = $relationship,
			    r.metadata = $metadata,
			    r.vector = $vector
		`, types.EntityLabel, types.FactRelation)
		_, err := tx.Run(ctx, query, map[string]any{
			"id":           fact.ID,
			"subject_id":   fact.Subj.ID,
			"object_id":    fact.Obj.ID,
			"relationship": fact.Rel.Name,
			"metadata":     metadata,
			"vector":       vector,
		})
		return nil, err
	})
	return err
}

// DeleteNodes removes entity nodes by id, cascading to incident edges.
func (n *Neo4jDriver) DeleteNodes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH (e:%s) WHERE e.id IN $ids
			DETACH DELETE e
		`, types.EntityLabel)
		_, err := tx.Run(ctx, query, map[string]any{"ids": ids})
		return nil, err
	})
	return err
}

// DeleteFactEdges removes fact edges by id.
func (n *Neo4jDriver) DeleteFactEdges(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH ()-[r:%s]->() WHERE r.id IN $ids
			DELETE r
		`, types.FactRelation)
		_, err := tx.Run(ctx, query, map[string]any{"ids": ids})
		return nil, err
	})
	return err
}

// GetNodes fetches entity nodes by id list.
func (n *Neo4jDriver) GetNodes(ctx context.Context, ids []string) ([]*types.Entity, error) {
	if len(ids) == 0 {
		return []*types.Entity{}, nil
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH (e:%s) WHERE e.id IN $ids
			RETURN e
		`, types.EntityLabel)
		res, err := tx.Run(ctx, query, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	entities := make([]*types.Entity, 0, len(records))
	for _, record := range records {
		nodeValue, found := record.Get("e")
		if !found {
			continue
		}
		node, ok := nodeValue.(dbtype.Node)
		if !ok {
			continue
		}
		entity, err := n.entityFromDBNode(node)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// GetFactEdges fetches fact edges with their endpoint nodes by id list.
func (n *Neo4jDriver) GetFactEdges(ctx context.Context, ids []string) ([]*types.Fact, error) {
	if len(ids) == 0 {
		return []*types.Fact{}, nil
	}
	query := fmt.Sprintf(`
		MATCH (s:%[1]s)-[r:%[2]s]->(o:%[1]s) WHERE r.id IN $ids
		RETURN r, s, o
	`, types.EntityLabel, types.FactRelation)
	return n.collectFacts(ctx, query, map[string]any{"ids": ids})
}

// FactCandidates fetches fact edges that carry an embedding vector.
func (n *Neo4jDriver) FactCandidates(ctx context.Context, limit int) ([]*types.Fact, error) {
	query := fmt.Sprintf(`
		MATCH (s:%[1]s)-[r:%[2]s]->(o:%[1]s)
		WHERE r.vector IS NOT NULL AND r.vector <> ''
		RETURN r, s, o
		LIMIT $limit
	`, types.EntityLabel, types.FactRelation)
	return n.collectFacts(ctx, query, map[string]any{"limit": limit})
}

func (n *Neo4jDriver) collectFacts(ctx context.Context, query string, params map[string]any) ([]*types.Fact, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records := result.([]*db.Record)
	facts := make([]*types.Fact, 0, len(records))
	for _, record := range records {
		relValue, found := record.Get("r")
		if !found {
			continue
		}
		rel, ok := relValue.(dbtype.Relationship)
		if !ok {
			continue
		}
		subjValue, _ := record.Get("s")
		objValue, _ := record.Get("o")
		subjNode, ok := subjValue.(dbtype.Node)
		if !ok {
			continue
		}
		objNode, ok := objValue.(dbtype.Node)
		if !ok {
			continue
		}

		fact, err := n.factFromDBRelation(rel, subjNode, objNode)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, nil
}

// NodeExists reports whether an entity node with the given id exists.
func (n *Neo4jDriver) NodeExists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`
		MATCH (e:%s {id: $id})
		RETURN e.id
		LIMIT 1
	`, types.EntityLabel)
	return n.exists(ctx, query, id)
}

// FactExists reports whether a fact edge with the given id exists.
func (n *Neo4jDriver) FactExists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`
		MATCH ()-[r:%s {id: $id}]->()
		RETURN r.id
		LIMIT 1
	`, types.FactRelation)
	return n.exists(ctx, query, id)
}

func (n *Neo4jDriver) exists(ctx context.Context, query, id string) (bool, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return false, err
	}
	records := result.([]*db.Record)
	return len(records) > 0, nil
}

// Stats returns node and edge counts for the graph.
func (n *Neo4jDriver) Stats(ctx context.Context) (*GraphStats, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH (e:%s)
			OPTIONAL MATCH ()-[r:%s]->()
			RETURN count(DISTINCT e) AS nodes, count(DISTINCT r) AS edges
		`, types.EntityLabel, types.FactRelation)
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		return res.Single(ctx)
	})
	if err != nil {
		return nil, err
	}

	record := result.(*db.Record)
	stats := &GraphStats{}
	if v, found := record.Get("nodes"); found {
		stats.NodeCount, _ = AsInt64(v)
	}
	if v, found := record.Get("edges"); found {
		stats.EdgeCount, _ = AsInt64(v)
	}
	return stats, nil
}

// Wipe clears the named graph.
func (n *Neo4jDriver) Wipe(ctx context.Context) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		return nil, err
	})
	return err
}

func (n *Neo4jDriver) entityFromDBNode(node dbtype.Node) (*types.Entity, error) {
	id, err := MustString(node.Props["id"], "id")
	if err != nil {
		return nil, err
	}

	entity := &types.Entity{ID: id}
	if name, ok := AsString(node.Props["name"]); ok {
		entity.Name = name
	}
	if label, ok := AsString(node.Props["label"]); ok {
		entity.Label = label
	}
	if description, ok := AsString(node.Props["description"]); ok {
		entity.Description = description
	}
	if raw, ok := AsString(node.Props["vector"]); ok {
		vector, err := decodeVector(raw)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", id, err)
		}
		entity.Vector = vector
	}
	if raw, ok := AsString(node.Props["metadata"]); ok {
		metadata, err := types.DecodeMetadata(raw)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", id, err)
		}
		entity.Metadata = metadata
	}
	return entity, nil
}

func (n *Neo4jDriver) factFromDBRelation(rel dbtype.Relationship, subjNode, objNode dbtype.Node) (*types.Fact, error) {
	id, err := MustString(rel.Props["id"], "id")
	if err != nil {
		return nil, err
	}
	subj, err := n.entityFromDBNode(subjNode)
	if err != nil {
		return nil, err
	}
	obj, err := n.entityFromDBNode(objNode)
	if err != nil {
		return nil, err
	}

	fact := &types.Fact{ID: id, Subj: subj, Obj: obj}
	if name, ok := AsString(rel.Props["relationship"]); ok {
		fact.Rel = types.Relationship{Name: name}
	}
	if raw, ok := AsString(rel.Props["vector"]); ok {
		vector, err := decodeVector(raw)
		if err != nil {
			return nil, fmt.Errorf("fact %s: %w", id, err)
		}
		fact.Vector = vector
	}
	if raw, ok := AsString(rel.Props["metadata"]); ok {
		metadata, err := types.DecodeMetadata(raw)
		if err != nil {
			return nil, fmt.Errorf("fact %s: %w", id, err)
		}
		fact.Metadata = metadata
	}
	return fact, nil
}
