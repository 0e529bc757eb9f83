package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/memograph/memograph/pkg/driver"
	"github.com/memograph/memograph/pkg/embedder"
	"github.com/memograph/memograph/pkg/factstore"
	"github.com/memograph/memograph/pkg/server/dto"
	"github.com/memograph/memograph/pkg/tools"
	"github.com/memograph/memograph/pkg/types"
)

// stubDriver is an in-memory GraphDriver for handler tests.
type stubDriver struct {
	nodes    map[string]*types.Entity
	edges    map[string]*types.Fact
	statsErr error
}

func newStubDriver() *stubDriver {
	return &stubDriver{
		nodes: map[string]*types.Entity{},
		edges: map[string]*types.Fact{},
	}
}

func (d *stubDriver) UpsertEntity(_ context.Context, entity *types.Entity) error {
	d.nodes[entity.ID] = entity
	return nil
}

func (d *stubDriver) UpsertFactEdge(_ context.Context, fact *types.Fact) error {
	if _, ok := d.nodes[fact.Subj.ID]; !ok {
		return fmt.Errorf("missing subject node %s", fact.Subj.ID)
	}
	if _, ok := d.nodes[fact.Obj.ID]; !ok {
		return fmt.Errorf("missing object node %s", fact.Obj.ID)
	}
	d.edges[fact.ID] = fact
	return nil
}

func (d *stubDriver) DeleteNodes(_ context.Context, ids []string) error {
	for _, id := range ids {
		if _, ok := d.nodes[id]; !ok {
			continue
		}
		delete(d.nodes, id)
		for edgeID, fact := range d.edges {
			if fact.Subj.ID == id || fact.Obj.ID == id {
				delete(d.edges, edgeID)
			}
		}
	}
	return nil
}

func (d *stubDriver) DeleteFactEdges(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(d.edges, id)
	}
	return nil
}

func (d *stubDriver) GetNodes(_ context.Context, ids []string) ([]*types.Entity, error) {
	var out []*types.Entity
	for _, id := range ids {
		if e, ok := d.nodes[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d *stubDriver) GetFactEdges(_ context.Context, ids []string) ([]*types.Fact, error) {
	var out []*types.Fact
	for _, id := range ids {
		if f, ok := d.edges[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (d *stubDriver) NodeExists(_ context.Context, id string) (bool, error) {
	_, ok := d.nodes[id]
	return ok, nil
}

func (d *stubDriver) FactExists(_ context.Context, id string) (bool, error) {
	_, ok := d.edges[id]
	return ok, nil
}

func (d *stubDriver) FactCandidates(_ context.Context, limit int) ([]*types.Fact, error) {
	var out []*types.Fact
	for _, f := range d.edges {
		if len(f.Vector) == 0 {
			continue
		}
		out = append(out, f)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (d *stubDriver) Stats(_ context.Context) (*driver.GraphStats, error) {
	if d.statsErr != nil {
		return nil, d.statsErr
	}
	return &driver.GraphStats{
		NodeCount: int64(len(d.nodes)),
		EdgeCount: int64(len(d.edges)),
	}, nil
}

func (d *stubDriver) Wipe(_ context.Context) error {
	d.nodes = map[string]*types.Entity{}
	d.edges = map[string]*types.Fact{}
	return nil
}

func (d *stubDriver) Provider() driver.GraphProvider { return driver.GraphProviderFalkorDB }
func (d *stubDriver) Close(_ context.Context) error  { return nil }

func newTestRouter(d driver.GraphDriver) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := factstore.NewStore(d, nil)
	health := NewHealthHandler(store)
	facts := NewFactsHandler(store, nil, nil)

	r := gin.New()
	r.GET("/health", health.HealthCheck)
	r.GET("/ready", health.ReadinessCheck)
	v1 := r.Group("/api/v1")
	{
		v1.PUT("/entities", facts.UpsertEntities)
		v1.POST("/entities/get", facts.GetEntities)
		v1.PUT("/facts", facts.UpsertFacts)
		v1.POST("/facts/get", facts.GetFacts)
		v1.POST("/facts/query", facts.QueryFacts)
		v1.DELETE("/records", facts.Remove)
		v1.GET("/exist/:id", facts.Exist)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(newStubDriver())

	w := doJSON(t, r, http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}
	if response["service"] != "memograph" {
		t.Errorf("expected service memograph, got %v", response["service"])
	}
	if _, ok := response["timestamp"]; !ok {
		t.Error("expected timestamp in response")
	}
}

func TestReadinessCheck(t *testing.T) {
	r := newTestRouter(newStubDriver())

	w := doJSON(t, r, http.MethodGet, "/ready", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ready" {
		t.Errorf("expected status ready, got %v", response["status"])
	}
}

func TestReadinessCheckBackendDown(t *testing.T) {
	d := newStubDriver()
	d.statsErr = errors.New("connection refused")
	r := newTestRouter(d)

	w := doJSON(t, r, http.MethodGet, "/ready", nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

func TestUpsertEntities(t *testing.T) {
	d := newStubDriver()
	r := newTestRouter(d)

	entity := &types.Entity{ID: types.NewID(), Name: "Paris", Label: "City"}
	w := doJSON(t, r, http.MethodPut, "/api/v1/entities", dto.UpsertEntitiesRequest{
		Entities: []*types.Entity{entity},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response dto.UpsertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Upserted != 1 {
		t.Errorf("expected 1 upserted, got %d", response.Upserted)
	}
	if _, ok := d.nodes[entity.ID]; !ok {
		t.Error("entity was not stored")
	}
}

func TestUpsertEntitiesInvalidID(t *testing.T) {
	r := newTestRouter(newStubDriver())

	w := doJSON(t, r, http.MethodPut, "/api/v1/entities", dto.UpsertEntitiesRequest{
		Entities: []*types.Entity{{ID: "not-a-uuid", Name: "Paris", Label: "City"}},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestUpsertEntitiesEmptyBody(t *testing.T) {
	r := newTestRouter(newStubDriver())

	w := doJSON(t, r, http.MethodPut, "/api/v1/entities", map[string]interface{}{})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestUpsertFactsCreatesEndpoints(t *testing.T) {
	d := newStubDriver()
	r := newTestRouter(d)

	fact := &types.Fact{
		ID:   types.NewID(),
		Rel:  types.Relationship{Name: "capital_of"},
		Subj: &types.Entity{ID: types.NewID(), Name: "Paris", Label: "City"},
		Obj:  &types.Entity{ID: types.NewID(), Name: "France", Label: "Country"},
	}
	w := doJSON(t, r, http.MethodPut, "/api/v1/facts", dto.UpsertFactsRequest{
		Facts: []*types.Fact{fact},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if _, ok := d.edges[fact.ID]; !ok {
		t.Error("fact was not stored")
	}
	if _, ok := d.nodes[fact.Subj.ID]; !ok {
		t.Error("subject endpoint was not created")
	}
	if _, ok := d.nodes[fact.Obj.ID]; !ok {
		t.Error("object endpoint was not created")
	}
}

func TestGetEntities(t *testing.T) {
	d := newStubDriver()
	r := newTestRouter(d)

	id := types.NewID()
	d.nodes[id] = &types.Entity{ID: id, Name: "Paris", Label: "City"}

	w := doJSON(t, r, http.MethodPost, "/api/v1/entities/get", dto.IDsRequest{
		IDs: []string{id, types.NewID()},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response types.EntityList
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(response.Entities))
	}
	if response.Entities[0].Name != "Paris" {
		t.Errorf("expected Paris, got %s", response.Entities[0].Name)
	}
}

func TestGetEntitiesUnknownIDsEmptyList(t *testing.T) {
	r := newTestRouter(newStubDriver())

	w := doJSON(t, r, http.MethodPost, "/api/v1/entities/get", dto.IDsRequest{
		IDs: []string{types.NewID()},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if raw["entities"] == nil {
		t.Error("expected entities to be an empty array, not null")
	}
}

func TestRemove(t *testing.T) {
	d := newStubDriver()
	r := newTestRouter(d)

	id := types.NewID()
	d.nodes[id] = &types.Entity{ID: id, Name: "Paris", Label: "City"}

	w := doJSON(t, r, http.MethodDelete, "/api/v1/records", dto.IDsRequest{
		IDs: []string{id},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if _, ok := d.nodes[id]; ok {
		t.Error("entity was not removed")
	}
}

func TestExist(t *testing.T) {
	d := newStubDriver()
	r := newTestRouter(d)

	id := types.NewID()
	d.nodes[id] = &types.Entity{ID: id, Name: "Paris", Label: "City"}

	w := doJSON(t, r, http.MethodGet, "/api/v1/exist/"+id, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response dto.ExistResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !response.Exists {
		t.Error("expected exists true")
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/exist/"+types.NewID(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d for unknown id, got %d", http.StatusOK, w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Exists {
		t.Error("expected exists false for unknown id")
	}
}

func TestQueryFactsWithoutRegistry(t *testing.T) {
	r := newTestRouter(newStubDriver())

	w := doJSON(t, r, http.MethodPost, "/api/v1/facts/query", dto.QueryFactsRequest{
		Query: "capital of France",
	})

	if w.Code != http.StatusNotImplemented {
		t.Errorf("expected status %d, got %d", http.StatusNotImplemented, w.Code)
	}
}

func TestQueryFacts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	d := newStubDriver()
	store := factstore.NewStore(d, nil)

	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewQueryFactsTool(store, embedder.NewFakeClient(8, 42))); err != nil {
		t.Fatalf("failed to register tool: %v", err)
	}

	facts := NewFactsHandler(store, registry, nil)
	r := gin.New()
	r.POST("/api/v1/facts/query", facts.QueryFacts)

	subj := &types.Entity{ID: types.NewID(), Name: "Paris", Label: "City"}
	obj := &types.Entity{ID: types.NewID(), Name: "France", Label: "Country"}
	d.nodes[subj.ID] = subj
	d.nodes[obj.ID] = obj
	factID := types.NewID()
	d.edges[factID] = &types.Fact{
		ID:     factID,
		Rel:    types.Relationship{Name: "capital_of"},
		Subj:   subj,
		Obj:    obj,
		Vector: []float32{1, 0, 0, 0, 0, 0, 0, 0},
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/facts/query", dto.QueryFactsRequest{
		Query: "capital of France",
		Limit: 5,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var response types.FactList
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Facts) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(response.Facts))
	}
	if response.Facts[0].ID != factID {
		t.Errorf("expected fact %s, got %s", factID, response.Facts[0].ID)
	}
}
