package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memograph/memograph/pkg/factstore"
	"github.com/memograph/memograph/pkg/server/dto"
	"github.com/memograph/memograph/pkg/tools"
	"github.com/memograph/memograph/pkg/types"
)

// FactsHandler handles fact memory CRUD and query requests.
type FactsHandler struct {
	store    *factstore.Store
	registry *tools.Registry
	logger   *slog.Logger
}

// NewFactsHandler creates a new facts handler. registry may be nil when no
// query tooling is configured.
func NewFactsHandler(store *factstore.Store, registry *tools.Registry, logger *slog.Logger) *FactsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactsHandler{store: store, registry: registry, logger: logger}
}

func writeError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, dto.ErrorResponse{Error: code, Message: err.Error()})
}

// isValidationError reports whether err was caused by malformed input rather
// than a backend failure.
func isValidationError(err error) bool {
	return errors.Is(err, types.ErrEmptyID) ||
		errors.Is(err, types.ErrInvalidID) ||
		errors.Is(err, types.ErrEmptyName) ||
		errors.Is(err, types.ErrEmptyLabel) ||
		errors.Is(err, types.ErrEmptyRelation) ||
		errors.Is(err, types.ErrNilEndpoint) ||
		errors.Is(err, types.ErrInvalidUpdate)
}

func writeStoreError(c *gin.Context, logger *slog.Logger, op string, err error) {
	if isValidationError(err) {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	logger.Error(op+" failed", "error", err)
	writeError(c, http.StatusBadGateway, "backend_error", err)
}

// UpsertEntities handles PUT /api/v1/entities.
func (h *FactsHandler) UpsertEntities(c *gin.Context) {
	var req dto.UpsertEntitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if err := h.store.Update(c.Request.Context(), types.UpdateEntities(req.Entities...)); err != nil {
		writeStoreError(c, h.logger, "entity upsert", err)
		return
	}
	c.JSON(http.StatusOK, dto.UpsertResponse{Upserted: len(req.Entities)})
}

// UpsertFacts handles PUT /api/v1/facts.
func (h *FactsHandler) UpsertFacts(c *gin.Context) {
	var req dto.UpsertFactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if err := h.store.Update(c.Request.Context(), types.UpdateFacts(req.Facts...)); err != nil {
		writeStoreError(c, h.logger, "fact upsert", err)
		return
	}
	c.JSON(http.StatusOK, dto.UpsertResponse{Upserted: len(req.Facts)})
}

// Remove handles DELETE /api/v1/records.
func (h *FactsHandler) Remove(c *gin.Context) {
	var req dto.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if err := h.store.Remove(c.Request.Context(), req.IDs...); err != nil {
		writeStoreError(c, h.logger, "remove", err)
		return
	}
	c.JSON(http.StatusOK, dto.RemoveResponse{Removed: len(req.IDs)})
}

// GetEntities handles POST /api/v1/entities/get.
func (h *FactsHandler) GetEntities(c *gin.Context) {
	var req dto.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	list, err := h.store.GetEntities(c.Request.Context(), req.IDs...)
	if err != nil {
		h.logger.Error("get entities failed", "error", err)
		writeError(c, http.StatusBadGateway, "backend_error", err)
		return
	}
	if list.Entities == nil {
		list.Entities = []*types.Entity{}
	}
	c.JSON(http.StatusOK, list)
}

// GetFacts handles POST /api/v1/facts/get.
func (h *FactsHandler) GetFacts(c *gin.Context) {
	var req dto.IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	list, err := h.store.GetFacts(c.Request.Context(), req.IDs...)
	if err != nil {
		h.logger.Error("get facts failed", "error", err)
		writeError(c, http.StatusBadGateway, "backend_error", err)
		return
	}
	if list.Facts == nil {
		list.Facts = []*types.Fact{}
	}
	c.JSON(http.StatusOK, list)
}

// Exist handles GET /api/v1/exist/:id.
func (h *FactsHandler) Exist(c *gin.Context) {
	id := c.Param("id")

	exists, err := h.store.Exist(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("exist check failed", "error", err)
		writeError(c, http.StatusBadGateway, "backend_error", err)
		return
	}
	c.JSON(http.StatusOK, dto.ExistResponse{ID: id, Exists: exists})
}

// QueryFacts handles POST /api/v1/facts/query.
func (h *FactsHandler) QueryFacts(c *gin.Context) {
	if h.registry == nil {
		c.JSON(http.StatusNotImplemented, dto.ErrorResponse{
			Error:   "not_configured",
			Message: "no query tool is registered",
		})
		return
	}

	var req dto.QueryFactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.registry.Call(c.Request.Context(), tools.QueryFactsToolName, map[string]interface{}{
		"query": req.Query,
		"limit": req.Limit,
	})
	if err != nil {
		h.logger.Error("fact query failed", "error", err)
		writeError(c, http.StatusBadGateway, "backend_error", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
