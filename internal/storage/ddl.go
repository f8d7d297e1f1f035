package storage

import (
	"time"

	"marketpipe/internal/table"
)

// Logical column types shared by the backends.
const (
	TypeText      = "text"
	TypeInteger   = "integer"
	TypeReal      = "real"
	TypeTimestamp = "timestamp"
)

// InferColumns derives a table definition from cell content: the first
// non-nil value of each column decides its logical type. A column that is
// nil in every row falls back to text.
func InferColumns(t *table.Table) []Column {
	cols := make([]Column, len(t.Columns))
	for i, name := range t.Columns {
		cols[i] = Column{Name: name, Type: TypeText}
		for _, r := range t.Rows {
			v := r[name]
			if v == nil {
				continue
			}
			cols[i].Type = logicalType(v)
			break
		}
	}
	return cols
}

func logicalType(v any) string {
	switch v.(type) {
	case int64, int:
		return TypeInteger
	case float64:
		return TypeReal
	case time.Time:
		return TypeTimestamp
	default:
		return TypeText
	}
}
