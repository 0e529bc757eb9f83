package driver

import (
	"encoding/json"
	"fmt"
)

// TypeConversionError represents an error converting a database value into
// the expected Go type.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// NewTypeConversionError creates a new TypeConversionError.
func NewTypeConversionError(expected, actual, field string) *TypeConversionError {
	return &TypeConversionError{
		Expected: expected,
		Actual:   actual,
		Field:    field,
	}
}

// AsString safely converts an interface{} to string.
func AsString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AsInt64 converts any numeric database value to int64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// AsAnySlice safely converts an interface{} to []any.
func AsAnySlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// AsFloat32Slice converts a database array value into a float32 vector.
// Backends return vector elements as float64, string, or int64 depending
// on the wire protocol.
func AsFloat32Slice(v any) ([]float32, bool) {
	items, ok := AsAnySlice(v)
	if !ok {
		return nil, false
	}
	vector := make([]float32, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case float64:
			vector = append(vector, float32(n))
		case float32:
			vector = append(vector, n)
		case int64:
			vector = append(vector, float32(n))
		case string:
			var f float64
			if _, err := fmt.Sscanf(n, "%g", &f); err != nil {
				return nil, false
			}
			vector = append(vector, float32(f))
		default:
			return nil, false
		}
	}
	return vector, true
}

// MustString converts an interface{} to string or returns an error.
func MustString(v any, field string) (string, error) {
	s, ok := AsString(v)
	if !ok {
		return "", NewTypeConversionError("string", fmt.Sprintf("%T", v), field)
	}
	return s, nil
}

// encodeVector serializes an embedding for backends that store vectors as
// a JSON text property. A nil vector encodes as the empty string.
func encodeVector(vector []float32) (string, error) {
	if vector == nil {
		return "", nil
	}
	raw, err := json.Marshal(vector)
	if err != nil {
		return "", fmt.Errorf("encode vector: %w", err)
	}
	return string(raw), nil
}

// decodeVector parses a JSON-encoded embedding. Empty input yields nil.
func decodeVector(s string) ([]float32, error) {
	if s == "" {
		return nil, nil
	}
	var vector []float32
	if err := json.Unmarshal([]byte(s), &vector); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	return vector, nil
}
