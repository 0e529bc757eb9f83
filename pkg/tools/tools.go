// Package tools provides the tool registry consumed by LLM-agent
// frameworks. Each tool carries a JSON-schema style function definition
// for function calling and an executable Call entry point.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry errors
var (
	ErrToolNotFound   = errors.New("tool not found")
	ErrDuplicateTool  = errors.New("tool already registered")
	ErrMissingArgName = errors.New("tool name cannot be empty")
)

// Definition describes a tool to an LLM in function-calling format.
type Definition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition is the callable surface of a tool.
type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Tool is an independently registrable capability.
type Tool interface {
	// Name is the unique registry key.
	Name() string

	// Definition returns the function-calling schema for this tool.
	Definition() Definition

	// Call executes the tool with the given arguments.
	Call(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// Registry is a concurrency-safe collection of named tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds a tool under its name.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if name == "" {
		return ErrMissingArgName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// List returns the registered tool names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns all tool definitions, ordered by tool name.
func (r *Registry) Definitions() []Definition {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Call looks up a tool by name and executes it.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	tool, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return tool.Call(ctx, args)
}
