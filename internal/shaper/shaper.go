// Package shaper implements the output shaper (spec.md 4.5): the uniform
// transform from a normalized row list into the canonical per-collection
// envelope shape.
package shaper

// singleRow lists collections whose envelope is a flat dict built from one
// row, per spec.md 3.
var singleRow = map[string]bool{
	"cpu":         true,
	"memory":      true,
	"device_info": true,
}

// listKeys is COLLECTION_LIST_KEYS from spec.md 9: the known bindings from
// a multi-row collection name to the envelope key its rows are wrapped
// under. Any collection not present here wraps under "data".
var listKeys = map[string]string{
	"interfaces":        "interfaces",
	"interface_detail":  "interfaces",
	"bgp_summary":       "peers",
	"neighbors":         "neighbors",
	"log":               "entries",
	"environment":       "sensors",
}

// Shape maps rows to the envelope for collection name, per spec.md 4.5's
// edge cases: an empty row list becomes an empty list-keyed envelope for
// multi-row collections and the sentinel {} for single-row collections;
// cpu specifically hoists row 0 and demotes rows[1:] to "processes"; other
// single-row collections discard rows beyond the first.
func Shape(name string, rows []map[string]interface{}) map[string]interface{} {
	if singleRow[name] {
		return shapeSingleRow(name, rows)
	}
	return shapeListUnder(listKey(name), rows)
}

// ListKey exposes the resolved wrapper key for a collection, so callers
// (e.g. the state store's per-interface series extraction) can find rows
// without re-implementing the binding table.
func ListKey(name string) (key string, isListShaped bool) {
	if singleRow[name] {
		return "", false
	}
	return listKey(name), true
}

func listKey(name string) string {
	if key, ok := listKeys[name]; ok {
		return key
	}
	return "data"
}

func shapeSingleRow(name string, rows []map[string]interface{}) map[string]interface{} {
	if len(rows) == 0 {
		return map[string]interface{}{}
	}

	envelope := make(map[string]interface{}, len(rows[0])+1)
	for k, v := range rows[0] {
		envelope[k] = v
	}

	if name == "cpu" && len(rows) > 1 {
		envelope["processes"] = toInterfaceSlice(rows[1:])
	}
	// Other single-row collections silently discard rows[1:] (spec.md 4.5).

	return envelope
}

func shapeListUnder(key string, rows []map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{key: toInterfaceSlice(rows)}
}

func toInterfaceSlice(rows []map[string]interface{}) []interface{} {
	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
