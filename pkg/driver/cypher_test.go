package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCypherParams(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		prefix, err := encodeCypherParams(nil)
		require.NoError(t, err)
		assert.Equal(t, "", prefix)
	})

	t.Run("sorted keys", func(t *testing.T) {
		prefix, err := encodeCypherParams(map[string]any{
			"name": "Paris",
			"id":   "u1",
		})
		require.NoError(t, err)
		assert.Equal(t, `CYPHER id="u1" name="Paris" `, prefix)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := encodeCypherParams(map[string]any{"bad": struct{}{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported parameter type")
	})
}

func TestEncodeCypherValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"string", "hello", `"hello"`},
		{"string with quotes", `say "hi"`, `"say \"hi\""`},
		{"string with backslash", `a\b`, `"a\\b"`},
		{"string with newline", "a\nb", `"a\nb"`},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float64", 0.5, "0.5"},
		{"float32 slice", []float32{0.1, 0.2}, "[0.1, 0.2]"},
		{"string slice", []string{"a", "b"}, `["a", "b"]`},
		{"empty slice", []string{}, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeCypherValue(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteCypherStringInjection(t *testing.T) {
	// A value trying to escape the literal must stay inside the quotes.
	quoted := quoteCypherString(`" MATCH (n) DETACH DELETE n //`)
	assert.Equal(t, `"\" MATCH (n) DETACH DELETE n //"`, quoted)
}

func TestValidateLabel(t *testing.T) {
	assert.NoError(t, validateLabel("City"))
	assert.NoError(t, validateLabel("My_Label2"))
	assert.Error(t, validateLabel(""))
	assert.Error(t, validateLabel("2bad"))
	assert.Error(t, validateLabel("Bad Label"))
	assert.Error(t, validateLabel("Entity {id:1}) DETACH DELETE (x"))
}
