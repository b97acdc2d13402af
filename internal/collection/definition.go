// Package collection implements the collection registry (spec.md 4.4/6):
// it loads per-vendor collection definitions from a directory tree,
// applies the vendor-fallback rule, inverts the on-disk normalize map, and
// validates structural shape with a JSON Schema before decoding.
package collection

import "github.com/scottpeterman/wirlwind/internal/statestore"

// ParserKind identifies one parser chain entry's engine.
type ParserKind string

const (
	ParserTextFSM ParserKind = "textfsm"
	ParserTTP     ParserKind = "ttp"
	ParserRegex   ParserKind = "regex"
)

// ParserSpec is one entry in a collection's ordered parser chain
// (spec.md 4.3). Only the fields relevant to Kind are populated.
type ParserSpec struct {
	Kind ParserKind

	// TextFSM / TTP
	Templates []string

	// Regex
	Pattern string
	Flags   []string
	Groups  map[string]string // "1", "2", ... or named group -> canonical field
}

// FieldType is a schema-declared coercion target for one field.
type FieldType string

const (
	FieldInt    FieldType = "int"
	FieldFloat  FieldType = "float"
	FieldString FieldType = "string"
	FieldBool   FieldType = "bool"
)

// Definition is a fully-loaded, fully-resolved collection definition: one
// vendor's concrete command, parser stack, normalize map (already inverted
// to source->canonical), and optional schema and series configuration.
type Definition struct {
	Name            string
	Vendor          string // the vendor id that actually satisfied the lookup (post-fallback)
	Command         string
	IntervalSeconds int
	Parsers         []ParserSpec

	// Normalize is inverted at load: source field name -> canonical field
	// name (spec.md 9, "Inverted normalize map").
	Normalize map[string]string

	// Schema declares per-field type coercion, keyed by the *canonical*
	// field name, loaded from the collection's sibling _schema.yaml.
	Schema map[string]FieldType

	// Series declares which envelope fields feed the state store's ring
	// buffers (ambient addition: spec.md 4.8 requires per-series ring
	// buffers to exist but leaves their declaration mechanism to the
	// implementation).
	Series []statestore.SeriesSpec
}

// OneShot reports whether this collection runs once at connect and is
// never re-polled (spec.md 3).
func (d Definition) OneShot() bool {
	return d.IntervalSeconds == 0
}
