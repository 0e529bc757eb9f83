package types

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Validation errors
var (
	ErrEmptyID       = errors.New("id cannot be empty")
	ErrInvalidID     = errors.New("id is not a valid UUID")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrEmptyLabel    = errors.New("label cannot be empty")
	ErrEmptyRelation = errors.New("relationship name cannot be empty")
	ErrNilEndpoint   = errors.New("fact endpoints cannot be nil")
	ErrInvalidUpdate = errors.New("update must contain entities or facts, not both")
)

// EntityLabel tags the graph node type of all entities. Specific entity
// labels (City, Person, ...) are applied in addition to this tag.
const EntityLabel = "Entity"

// FactRelation is the edge type tag for all fact edges.
const FactRelation = "FACT"

// NewID returns a fresh random UUID string.
func NewID() string {
	return uuid.New().String()
}

// ValidateID checks that id is a well-formed UUID string. Non-conforming
// ids are rejected at ingestion rather than tolerated at read time.
func ValidateID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Entity represents a typed, identified node in the fact graph.
type Entity struct {
	ID          string                 `json:"id" mapstructure:"id"`
	Name        string                 `json:"name" mapstructure:"name"`
	Label       string                 `json:"label" mapstructure:"label"`
	Description string                 `json:"description,omitempty" mapstructure:"description"`
	Vector      []float32              `json:"vector,omitempty" mapstructure:"vector"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" mapstructure:"metadata"`
}

// Validate checks that the entity can be persisted. The label cannot change
// after creation without a delete and recreate, so it is required up front.
func (e *Entity) Validate() error {
	if err := ValidateID(e.ID); err != nil {
		return err
	}
	if e.Name == "" {
		return ErrEmptyName
	}
	if e.Label == "" {
		return ErrEmptyLabel
	}
	return nil
}

// Relationship is a value object wrapping the name of a fact's relation.
type Relationship struct {
	Name string `json:"name"`
}

// Fact represents a directed, typed edge between two entities.
type Fact struct {
	ID       string                 `json:"id"`
	Subj     *Entity                `json:"subj"`
	Rel      Relationship           `json:"rel"`
	Obj      *Entity                `json:"obj"`
	Vector   []float32              `json:"vector,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate checks that the fact and both endpoints can be persisted.
func (f *Fact) Validate() error {
	if err := ValidateID(f.ID); err != nil {
		return err
	}
	if f.Rel.Name == "" {
		return ErrEmptyRelation
	}
	if f.Subj == nil || f.Obj == nil {
		return ErrNilEndpoint
	}
	if err := f.Subj.Validate(); err != nil {
		return fmt.Errorf("subject: %w", err)
	}
	if err := f.Obj.Validate(); err != nil {
		return fmt.Errorf("object: %w", err)
	}
	return nil
}

// EntityList is an ordered batch container for entities.
type EntityList struct {
	Entities []*Entity `json:"entities"`
}

// FactList is an ordered batch container for facts.
type FactList struct {
	Facts []*Fact `json:"facts"`
}

// Update is the parameter type for Store.Update. It holds either entities
// or facts, never both; construct it with UpdateEntities or UpdateFacts.
// This replaces shape-based runtime dispatch with an exhaustive union.
type Update struct {
	Entities []*Entity
	Facts    []*Fact
}

// UpdateEntities builds an entity upsert batch.
func UpdateEntities(entities ...*Entity) Update {
	return Update{Entities: entities}
}

// UpdateFacts builds a fact upsert batch.
func UpdateFacts(facts ...*Fact) Update {
	return Update{Facts: facts}
}

// Validate rejects empty and mixed updates before any item is touched.
func (u Update) Validate() error {
	if len(u.Entities) == 0 && len(u.Facts) == 0 {
		return fmt.Errorf("%w: empty update", ErrInvalidUpdate)
	}
	if len(u.Entities) > 0 && len(u.Facts) > 0 {
		return ErrInvalidUpdate
	}
	return nil
}
