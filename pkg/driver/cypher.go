package driver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// encodeCypherParams renders a parameter map as a CYPHER prefix for
// GRAPH.QUERY, e.g. `CYPHER id="abc" limit=10 `. Keys are emitted in
// sorted order. FalkorDB accepts parameters only as literals in this
// prefix, so values are encoded with encodeCypherValue.
func encodeCypherParams(params map[string]any) (string, error) {
	if len(params) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("CYPHER")
	for _, k := range keys {
		value, err := encodeCypherValue(params[k])
		if err != nil {
			return "", fmt.Errorf("parameter %s: %w", k, err)
		}
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(value)
	}
	b.WriteString(" ")
	return b.String(), nil
}

// encodeCypherValue renders a Go value as a Cypher literal.
func encodeCypherValue(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "null", nil
	case string:
		return quoteCypherString(value), nil
	case bool:
		return strconv.FormatBool(value), nil
	case int:
		return strconv.Itoa(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case float32:
		return strconv.FormatFloat(float64(value), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64), nil
	case []float32:
		parts := make([]string, len(value))
		for i, f := range value {
			parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case []string:
		parts := make([]string, len(value))
		for i, s := range value {
			parts[i] = quoteCypherString(s)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	default:
		return "", fmt.Errorf("unsupported parameter type %T", v)
	}
}

func quoteCypherString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
