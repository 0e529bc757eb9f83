package factstore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memograph/memograph/pkg/driver"
	"github.com/memograph/memograph/pkg/types"
)

// memDriver is an in-memory GraphDriver used to observe the store's query
// behavior without a live backend.
type memDriver struct {
	nodes map[string]*types.Entity
	edges map[string]*types.Fact

	upsertedEntities []string
	upsertedFacts    []string
	deletedNodeIDs   []string
	deletedEdgeIDs   []string

	failEntityID string
	err          error
}

func newMemDriver() *memDriver {
	return &memDriver{
		nodes: map[string]*types.Entity{},
		edges: map[string]*types.Fact{},
	}
}

func (m *memDriver) UpsertEntity(_ context.Context, entity *types.Entity) error {
	if m.err != nil {
		return m.err
	}
	if m.failEntityID != "" && entity.ID == m.failEntityID {
		return fmt.Errorf("backend rejected entity %s", entity.ID)
	}
	copied := *entity
	m.nodes[entity.ID] = &copied
	m.upsertedEntities = append(m.upsertedEntities, entity.ID)
	return nil
}

func (m *memDriver) UpsertFactEdge(_ context.Context, fact *types.Fact) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.nodes[fact.Subj.ID]; !ok {
		return fmt.Errorf("missing subject %s", fact.Subj.ID)
	}
	if _, ok := m.nodes[fact.Obj.ID]; !ok {
		return fmt.Errorf("missing object %s", fact.Obj.ID)
	}
	copied := *fact
	m.edges[fact.ID] = &copied
	m.upsertedFacts = append(m.upsertedFacts, fact.ID)
	return nil
}

func (m *memDriver) DeleteNodes(_ context.Context, ids []string) error {
	if m.err != nil {
		return m.err
	}
	m.deletedNodeIDs = append(m.deletedNodeIDs, ids...)
	for _, id := range ids {
		if _, ok := m.nodes[id]; !ok {
			continue
		}
		delete(m.nodes, id)
		// Detach-delete: incident edges go with the node.
		for edgeID, fact := range m.edges {
			if fact.Subj.ID == id || fact.Obj.ID == id {
				delete(m.edges, edgeID)
			}
		}
	}
	return nil
}

func (m *memDriver) DeleteFactEdges(_ context.Context, ids []string) error {
	if m.err != nil {
		return m.err
	}
	m.deletedEdgeIDs = append(m.deletedEdgeIDs, ids...)
	for _, id := range ids {
		delete(m.edges, id)
	}
	return nil
}

func (m *memDriver) GetNodes(_ context.Context, ids []string) ([]*types.Entity, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*types.Entity
	for _, id := range ids {
		if entity, ok := m.nodes[id]; ok {
			out = append(out, entity)
		}
	}
	return out, nil
}

func (m *memDriver) GetFactEdges(_ context.Context, ids []string) ([]*types.Fact, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*types.Fact
	for _, id := range ids {
		if fact, ok := m.edges[id]; ok {
			out = append(out, fact)
		}
	}
	return out, nil
}

func (m *memDriver) NodeExists(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.nodes[id]
	return ok, nil
}

func (m *memDriver) FactExists(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.edges[id]
	return ok, nil
}

func (m *memDriver) FactCandidates(_ context.Context, limit int) ([]*types.Fact, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*types.Fact
	for _, fact := range m.edges {
		if fact.Vector == nil {
			continue
		}
		out = append(out, fact)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *memDriver) Stats(_ context.Context) (*driver.GraphStats, error) {
	return &driver.GraphStats{
		NodeCount: int64(len(m.nodes)),
		EdgeCount: int64(len(m.edges)),
	}, nil
}

func (m *memDriver) Wipe(_ context.Context) error {
	m.nodes = map[string]*types.Entity{}
	m.edges = map[string]*types.Fact{}
	return nil
}

func (m *memDriver) Provider() driver.GraphProvider { return "mem" }
func (m *memDriver) Close(_ context.Context) error  { return nil }

const (
	parisID  = "c7f1f6ae-6a7a-4b86-9f6e-2e9fdc5f4a01"
	franceID = "5b40c3a7-88a3-4e0f-8d64-930e64fb0f6a"
	factID   = "9f0d8a6e-13b2-4b63-a5a6-0f9fd1f44f11"
)

func paris() *types.Entity {
	return &types.Entity{ID: parisID, Name: "Paris", Label: "City"}
}

func france() *types.Entity {
	return &types.Entity{ID: franceID, Name: "France", Label: "Country"}
}

func locatedIn() *types.Fact {
	return &types.Fact{
		ID:   factID,
		Subj: paris(),
		Rel:  types.Relationship{Name: "located_in"},
		Obj:  france(),
	}
}

func newTestStore() (*Store, *memDriver) {
	d := newMemDriver()
	return NewStore(d, nil), d
}

func TestUpdateEntityRoundTrip(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	entity := paris()
	entity.Description = "Capital of France"
	entity.Vector = []float32{0.1, 0.2}
	entity.Metadata = map[string]interface{}{"source": "test"}

	require.NoError(t, store.Update(ctx, types.UpdateEntities(entity)))

	list, err := store.GetEntities(ctx, parisID)
	require.NoError(t, err)
	require.Len(t, list.Entities, 1)
	got := list.Entities[0]
	assert.Equal(t, entity.ID, got.ID)
	assert.Equal(t, entity.Name, got.Name)
	assert.Equal(t, entity.Label, got.Label)
	assert.Equal(t, entity.Description, got.Description)
	assert.Equal(t, entity.Vector, got.Vector)
	assert.Equal(t, entity.Metadata, got.Metadata)
}

func TestUpdateIdempotent(t *testing.T) {
	store, d := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, types.UpdateEntities(paris())))
	require.NoError(t, store.Update(ctx, types.UpdateEntities(paris())))

	assert.Len(t, d.nodes, 1)
	assert.Equal(t, []string{parisID, parisID}, d.upsertedEntities)
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	store, d := newTestStore()
	ctx := context.Background()

	t.Run("empty update", func(t *testing.T) {
		err := store.Update(ctx, types.Update{})
		assert.ErrorIs(t, err, types.ErrInvalidUpdate)
	})

	t.Run("mixed update", func(t *testing.T) {
		err := store.Update(ctx, types.Update{
			Entities: []*types.Entity{paris()},
			Facts:    []*types.Fact{locatedIn()},
		})
		assert.ErrorIs(t, err, types.ErrInvalidUpdate)
	})

	t.Run("invalid entity has no effect", func(t *testing.T) {
		bad := paris()
		bad.ID = "not-a-uuid"
		err := store.Update(ctx, types.UpdateEntities(bad))
		assert.ErrorIs(t, err, types.ErrInvalidID)
		assert.Empty(t, d.upsertedEntities)
	})
}

func TestUpdateFactCascadingCreate(t *testing.T) {
	store, d := newTestStore()
	ctx := context.Background()

	// Neither endpoint exists yet; updating the fact creates both.
	require.NoError(t, store.Update(ctx, types.UpdateFacts(locatedIn())))

	list, err := store.GetEntities(ctx, parisID, franceID)
	require.NoError(t, err)
	assert.Len(t, list.Entities, 2)
	assert.Equal(t, []string{factID}, d.upsertedFacts)

	facts, err := store.GetFacts(ctx, factID)
	require.NoError(t, err)
	require.Len(t, facts.Facts, 1)
	fact := facts.Facts[0]
	assert.Equal(t, "located_in", fact.Rel.Name)
	assert.Equal(t, "Paris", fact.Subj.Name)
	assert.Equal(t, "France", fact.Obj.Name)
}

func TestUpdateFactExistingEndpointsNotRecreated(t *testing.T) {
	store, d := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, types.UpdateEntities(paris(), france())))
	require.NoError(t, store.Update(ctx, types.UpdateFacts(locatedIn())))

	// Two explicit upserts only; the fact did not re-upsert its endpoints.
	assert.Equal(t, []string{parisID, franceID}, d.upsertedEntities)
}

func TestUpdateBatchPartialFailure(t *testing.T) {
	store, d := newTestStore()
	ctx := context.Background()

	d.failEntityID = franceID
	err := store.Update(ctx, types.UpdateEntities(paris(), france()))
	require.Error(t, err)

	// The first item's effect is still observable; no atomicity.
	list, getErr := store.GetEntities(ctx, parisID)
	require.NoError(t, getErr)
	assert.Len(t, list.Entities, 1)
}

func TestRemoveDeletesNodesAndEdges(t *testing.T) {
	store, d := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, types.UpdateFacts(locatedIn())))
	require.NoError(t, store.Remove(ctx, parisID))

	// Both bulk deletions run over the same id list.
	assert.Equal(t, []string{parisID}, d.deletedNodeIDs)
	assert.Equal(t, []string{parisID}, d.deletedEdgeIDs)

	exists, err := store.Exist(ctx, parisID)
	require.NoError(t, err)
	assert.False(t, exists)

	// The incident fact edge is gone with the node.
	facts, err := store.GetFacts(ctx, factID)
	require.NoError(t, err)
	assert.Empty(t, facts.Facts)
}

func TestRemoveFactByID(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, types.UpdateFacts(locatedIn())))
	require.NoError(t, store.Remove(ctx, factID))

	exists, err := store.Exist(ctx, factID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Endpoints survive removal of the edge.
	list, err := store.GetEntities(ctx, parisID, franceID)
	require.NoError(t, err)
	assert.Len(t, list.Entities, 2)
}

func TestExistChecksEntityThenFact(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, types.UpdateFacts(locatedIn())))

	for _, id := range []string{parisID, franceID, factID} {
		exists, err := store.Exist(ctx, id)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s to exist", id)
	}

	exists, err := store.Exist(ctx, types.NewID())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetEntitiesUnknownIDTolerance(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	list, err := store.GetEntities(ctx, "nonexistent-id")
	require.NoError(t, err)
	assert.Empty(t, list.Entities)

	facts, err := store.GetFacts(ctx, "nonexistent-id")
	require.NoError(t, err)
	assert.Empty(t, facts.Facts)
}

func TestBackendErrorsPropagate(t *testing.T) {
	store, d := newTestStore()
	ctx := context.Background()

	backendErr := errors.New("connection refused")
	d.err = backendErr

	_, err := store.Exist(ctx, parisID)
	assert.ErrorIs(t, err, backendErr)

	err = store.Update(ctx, types.UpdateEntities(paris()))
	assert.ErrorIs(t, err, backendErr)

	_, err = store.GetEntities(ctx, parisID)
	assert.ErrorIs(t, err, backendErr)

	err = store.Remove(ctx, parisID)
	assert.ErrorIs(t, err, backendErr)
}
