// Package normalize implements spec.md 4.4: applying a collection's
// inverted normalize map (source field -> canonical field) and then
// schema-declared type coercion, row by row, so a failure on one row never
// affects another.
package normalize

import (
	"strconv"
	"strings"

	"github.com/scottpeterman/wirlwind/internal/collection"
	cclog "github.com/scottpeterman/wirlwind/internal/log"
)

// Row applies sourceToCanonical renames and schema coercion to a single
// parsed row, returning a new map of mixed-type scalars. Unmapped fields
// pass through unchanged (spec.md 8, property 2); a coercion failure logs
// a SchemaCoercionWarning and leaves that one field as a string.
func Row(row map[string]string, sourceToCanonical map[string]string, schema map[string]collection.FieldType) map[string]interface{} {
	renamed := make(map[string]string, len(row))
	for k, v := range row {
		key := strings.ToLower(k)
		if canonical, ok := sourceToCanonical[key]; ok {
			key = canonical
		}
		renamed[key] = v
	}

	out := make(map[string]interface{}, len(renamed))
	for k, v := range renamed {
		out[k] = coerce(k, v, schema)
	}
	return out
}

// Rows applies Row across every parsed row.
func Rows(rows []map[string]string, sourceToCanonical map[string]string, schema map[string]collection.FieldType) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		out[i] = Row(row, sourceToCanonical, schema)
	}
	return out
}

func coerce(field, value string, schema map[string]collection.FieldType) interface{} {
	ft, declared := schema[field]
	if !declared {
		return value
	}

	switch ft {
	case collection.FieldInt:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
		cclog.Warnf("normalize: field %q: cannot coerce %q to int, leaving as string", field, value)
		return value
	case collection.FieldFloat:
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
		cclog.Warnf("normalize: field %q: cannot coerce %q to float, leaving as string", field, value)
		return value
	case collection.FieldBool:
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
		cclog.Warnf("normalize: field %q: cannot coerce %q to bool, leaving as string", field, value)
		return value
	default: // collection.FieldString, or anything unrecognized
		return value
	}
}
