package driver

import (
	"fmt"

	"github.com/memograph/memograph/pkg/types"
)

// resultSet holds the decoded rows of a GRAPH.QUERY reply.
type resultSet struct {
	columns []string
	rows    [][]any
}

// scalarInt returns the first cell of the first row as an int64, for
// single-value aggregate queries.
func (rs *resultSet) scalarInt() int64 {
	if len(rs.rows) == 0 || len(rs.rows[0]) == 0 {
		return 0
	}
	n, _ := AsInt64(rs.rows[0][0])
	return n
}

// parseResultSet decodes the verbose GRAPH.QUERY reply layout:
// [header, rows, statistics]. Write-only queries reply with statistics
// only, which decodes to an empty result set.
func parseResultSet(reply any) (*resultSet, error) {
	sections, ok := AsAnySlice(reply)
	if !ok {
		return nil, NewTypeConversionError("[]any", fmt.Sprintf("%T", reply), "reply")
	}
	rs := &resultSet{}
	if len(sections) < 3 {
		// No result rows, just the statistics section.
		return rs, nil
	}

	if header, ok := AsAnySlice(sections[0]); ok {
		for _, col := range header {
			if name, ok := AsString(col); ok {
				rs.columns = append(rs.columns, name)
			}
		}
	}

	rawRows, ok := AsAnySlice(sections[1])
	if !ok {
		return nil, NewTypeConversionError("[]any", fmt.Sprintf("%T", sections[1]), "rows")
	}
	for _, rawRow := range rawRows {
		row, ok := AsAnySlice(rawRow)
		if !ok {
			return nil, NewTypeConversionError("[]any", fmt.Sprintf("%T", rawRow), "row")
		}
		rs.rows = append(rs.rows, row)
	}
	return rs, nil
}

// graphEntity is a decoded node or edge cell.
type graphEntity struct {
	labels []string
	props  map[string]any
}

// parseGraphEntity decodes the verbose cell layout FalkorDB uses for nodes
// and relationships: a list of ["key", value] pairs where properties is
// itself a list of [name, value] pairs.
func parseGraphEntity(cell any) (*graphEntity, error) {
	fields, ok := AsAnySlice(cell)
	if !ok {
		return nil, NewTypeConversionError("[]any", fmt.Sprintf("%T", cell), "graph entity")
	}

	entity := &graphEntity{props: map[string]any{}}
	for _, rawField := range fields {
		field, ok := AsAnySlice(rawField)
		if !ok || len(field) != 2 {
			continue
		}
		key, ok := AsString(field[0])
		if !ok {
			continue
		}
		switch key {
		case "labels", "type":
			switch v := field[1].(type) {
			case string:
				entity.labels = append(entity.labels, v)
			case []any:
				for _, label := range v {
					if s, ok := AsString(label); ok {
						entity.labels = append(entity.labels, s)
					}
				}
			}
		case "properties":
			pairs, ok := AsAnySlice(field[1])
			if !ok {
				continue
			}
			for _, rawPair := range pairs {
				pair, ok := AsAnySlice(rawPair)
				if !ok || len(pair) != 2 {
					continue
				}
				name, ok := AsString(pair[0])
				if !ok {
					continue
				}
				entity.props[name] = pair[1]
			}
		}
	}
	return entity, nil
}

// entityFromProps reshapes a decoded node property map into an Entity.
func entityFromProps(props map[string]any) (*types.Entity, error) {
	id, err := MustString(props["id"], "id")
	if err != nil {
		return nil, err
	}

	entity := &types.Entity{ID: id}
	if name, ok := AsString(props["name"]); ok {
		entity.Name = name
	}
	if label, ok := AsString(props["label"]); ok {
		entity.Label = label
	}
	if description, ok := AsString(props["description"]); ok {
		entity.Description = description
	}
	if vector, ok := AsFloat32Slice(props["vector"]); ok {
		entity.Vector = vector
	}
	if raw, ok := AsString(props["metadata"]); ok {
		metadata, err := types.DecodeMetadata(raw)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", id, err)
		}
		entity.Metadata = metadata
	}
	return entity, nil
}

// factFromProps reshapes decoded edge and endpoint property maps into a
// Fact with nested subject/object entities. The fact's own fields come
// from the edge properties only.
func factFromProps(edgeProps, subjProps, objProps map[string]any) (*types.Fact, error) {
	id, err := MustString(edgeProps["id"], "id")
	if err != nil {
		return nil, err
	}
	subj, err := entityFromProps(subjProps)
	if err != nil {
		return nil, err
	}
	obj, err := entityFromProps(objProps)
	if err != nil {
		return nil, err
	}

	fact := &types.Fact{ID: id, Subj: subj, Obj: obj}
	if name, ok := AsString(edgeProps["relationship"]); ok {
		fact.Rel = types.Relationship{Name: name}
	}
	if vector, ok := AsFloat32Slice(edgeProps["vector"]); ok {
		fact.Vector = vector
	}
	if raw, ok := AsString(edgeProps["metadata"]); ok {
		metadata, err := types.DecodeMetadata(raw)
		if err != nil {
			return nil, fmt.Errorf("fact %s: %w", id, err)
		}
		fact.Metadata = metadata
	}
	return fact, nil
}
