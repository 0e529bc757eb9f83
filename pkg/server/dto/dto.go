// Package dto defines the request and response bodies of the HTTP API.
package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/memograph/memograph/pkg/types"
)

// Validation errors
var (
	ErrEmptyIDs      = errors.New("ids cannot be empty")
	ErrEmptyEntities = errors.New("entities cannot be empty")
	ErrEmptyFacts    = errors.New("facts cannot be empty")
	ErrEmptyQuery    = errors.New("query cannot be empty")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size (1000)")
	ErrQueryTooLong  = errors.New("query exceeds maximum length (4096)")
)

// Limits guarding against oversized requests.
const (
	MaxBatchSize   = 1000
	MaxQueryLength = 4096
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UpsertEntitiesRequest upserts a batch of entities.
type UpsertEntitiesRequest struct {
	Entities []*types.Entity `json:"entities" binding:"required"`
}

// Validate checks the batch before it reaches the store.
func (r *UpsertEntitiesRequest) Validate() error {
	if len(r.Entities) == 0 {
		return ErrEmptyEntities
	}
	if len(r.Entities) > MaxBatchSize {
		return ErrBatchTooLarge
	}
	for i, entity := range r.Entities {
		if entity == nil {
			return fmt.Errorf("entity %d: %w", i, ErrEmptyEntities)
		}
		if err := entity.Validate(); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
	}
	return nil
}

// UpsertFactsRequest upserts a batch of facts.
type UpsertFactsRequest struct {
	Facts []*types.Fact `json:"facts" binding:"required"`
}

// Validate checks the batch before it reaches the store.
func (r *UpsertFactsRequest) Validate() error {
	if len(r.Facts) == 0 {
		return ErrEmptyFacts
	}
	if len(r.Facts) > MaxBatchSize {
		return ErrBatchTooLarge
	}
	for i, fact := range r.Facts {
		if fact == nil {
			return fmt.Errorf("fact %d: %w", i, ErrEmptyFacts)
		}
		if err := fact.Validate(); err != nil {
			return fmt.Errorf("fact %d: %w", i, err)
		}
	}
	return nil
}

// IDsRequest carries an id list for bulk get/remove operations.
type IDsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// Validate checks the id list.
func (r *IDsRequest) Validate() error {
	if len(r.IDs) == 0 {
		return ErrEmptyIDs
	}
	if len(r.IDs) > MaxBatchSize {
		return ErrBatchTooLarge
	}
	for i, id := range r.IDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("id %d: %w", i, types.ErrEmptyID)
		}
	}
	return nil
}

// QueryFactsRequest searches facts by natural-language query.
type QueryFactsRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit,omitempty"`
}

// Validate checks the query.
func (r *QueryFactsRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// ExistResponse reports whether an id resolves to an entity or a fact.
type ExistResponse struct {
	ID     string `json:"id"`
	Exists bool   `json:"exists"`
}

// UpsertResponse reports how many records a batch touched.
type UpsertResponse struct {
	Upserted int `json:"upserted"`
}

// RemoveResponse reports how many ids a removal covered.
type RemoveResponse struct {
	Removed int `json:"removed"`
}
