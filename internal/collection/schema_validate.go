package collection

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/scottpeterman/wirlwind/internal/errs"
)

// structuralSchema is the JSON Schema a decoded collection YAML document
// must satisfy before it is unmarshaled into Go structs, the same
// validate-the-generic-map-first pattern the teacher uses for its own
// startup config (internal/config/validate.go in the source corpus).
const structuralSchema = `{
  "type": "object",
  "required": ["command", "interval", "parsers"],
  "properties": {
    "command": {"type": "string", "minLength": 1},
    "interval": {"type": "integer", "minimum": 0},
    "parsers": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type"],
        "properties": {
          "type": {"enum": ["textfsm", "ttp", "regex"]}
        }
      }
    },
    "normalize": {"type": "object"},
    "schema": {"type": "object"}
  }
}`

var structuralCompiled *jsonschema.Schema

func init() {
	sch, err := jsonschema.CompileString("collection.json", structuralSchema)
	if err != nil {
		panic(fmt.Sprintf("collection: structural schema failed to compile: %v", err))
	}
	structuralCompiled = sch
}

// validateStructure checks a generically-decoded YAML document (map keys
// as strings, as yaml.v3 produces via map[string]interface{} after a
// round-trip through json-compatible types) against structuralSchema.
// Validation failures are ConfigError (spec.md 7): fatal at load time.
func validateStructure(doc interface{}) error {
	if err := structuralCompiled.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", errs.Config, err)
	}
	return nil
}
