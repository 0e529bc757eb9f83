package factstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memograph/memograph/pkg/driver"
	"github.com/memograph/memograph/pkg/types"
)

// Store is the graph-backed fact memory adapter. Every public operation
// issues one or more synchronous queries through the driver and blocks
// until they complete; backend errors propagate unchanged.
type Store struct {
	driver driver.GraphDriver
	logger *slog.Logger
}

// NewStore wraps an already-connected graph driver.
func NewStore(d driver.GraphDriver, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{driver: d, logger: logger}
}

// Driver exposes the underlying graph driver for collaborators that need
// the raw query surface (tools, health checks).
func (s *Store) Driver() driver.GraphDriver {
	return s.driver
}

// Close releases the underlying connection handle.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Exist reports whether an entity node or a fact edge with the given id
// exists. Unknown ids yield (false, nil); only backend failures error.
func (s *Store) Exist(ctx context.Context, id string) (bool, error) {
	found, err := s.driver.NodeExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("exist check for %s: %w", id, err)
	}
	if found {
		return true, nil
	}
	found, err = s.driver.FactExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("exist check for %s: %w", id, err)
	}
	return found, nil
}

// Update upserts a batch of entities or facts. Items are validated before
// any write is issued, but the batch itself is not transactional: a backend
// failure partway through leaves prior upserts committed.
//
// A fact whose subject or object does not yet exist triggers creation of
// the missing endpoint before the edge is materialized.
func (s *Store) Update(ctx context.Context, update types.Update) error {
	if err := update.Validate(); err != nil {
		return err
	}
	for i, entity := range update.Entities {
		if entity == nil {
			return fmt.Errorf("entity %d: %w", i, types.ErrInvalidUpdate)
		}
		if err := entity.Validate(); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
	}
	for i, fact := range update.Facts {
		if fact == nil {
			return fmt.Errorf("fact %d: %w", i, types.ErrInvalidUpdate)
		}
		if err := fact.Validate(); err != nil {
			return fmt.Errorf("fact %d: %w", i, err)
		}
	}

	for _, entity := range update.Entities {
		if err := s.upsertEntity(ctx, entity); err != nil {
			return err
		}
	}
	for _, fact := range update.Facts {
		if err := s.upsertFact(ctx, fact); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) upsertEntity(ctx context.Context, entity *types.Entity) error {
	if err := s.driver.UpsertEntity(ctx, entity); err != nil {
		return fmt.Errorf("upsert entity %s: %w", entity.ID, err)
	}
	s.logger.Debug("entity upserted", "id", entity.ID, "label", entity.Label)
	return nil
}

func (s *Store) upsertFact(ctx context.Context, fact *types.Fact) error {
	for _, endpoint := range []*types.Entity{fact.Subj, fact.Obj} {
		exists, err := s.driver.NodeExists(ctx, endpoint.ID)
		if err != nil {
			return fmt.Errorf("endpoint check for %s: %w", endpoint.ID, err)
		}
		if !exists {
			if err := s.upsertEntity(ctx, endpoint); err != nil {
				return err
			}
			s.logger.Debug("fact endpoint created", "fact", fact.ID, "entity", endpoint.ID)
		}
	}
	if err := s.driver.UpsertFactEdge(ctx, fact); err != nil {
		return fmt.Errorf("upsert fact %s: %w", fact.ID, err)
	}
	s.logger.Debug("fact upserted", "id", fact.ID, "rel", fact.Rel.Name)
	return nil
}

// Remove deletes every entity node whose id is in ids together with all
// incident edges, and separately every fact edge whose id is in ids. The
// two deletions are independent bulk operations over the same id list, so
// callers must keep entity and fact id namespaces disjoint.
func (s *Store) Remove(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.driver.DeleteNodes(ctx, ids); err != nil {
		return fmt.Errorf("delete nodes: %w", err)
	}
	if err := s.driver.DeleteFactEdges(ctx, ids); err != nil {
		return fmt.Errorf("delete fact edges: %w", err)
	}
	s.logger.Debug("removed", "count", len(ids))
	return nil
}

// GetEntities fetches entities by id. Unmatched ids are silently omitted
// from the result.
func (s *Store) GetEntities(ctx context.Context, ids ...string) (types.EntityList, error) {
	entities, err := s.driver.GetNodes(ctx, ids)
	if err != nil {
		return types.EntityList{}, fmt.Errorf("get entities: %w", err)
	}
	return types.EntityList{Entities: entities}, nil
}

// GetFacts fetches facts (with nested subject/object entities) by id.
// Unmatched ids are silently omitted from the result.
func (s *Store) GetFacts(ctx context.Context, ids ...string) (types.FactList, error) {
	facts, err := s.driver.GetFactEdges(ctx, ids)
	if err != nil {
		return types.FactList{}, fmt.Errorf("get facts: %w", err)
	}
	return types.FactList{Facts: facts}, nil
}
