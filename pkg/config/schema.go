package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema generates a JSON Schema document describing Config, for editor
// tooling (e.g. yaml-language-server schema association) and the
// `gohdfs config schema` subcommand.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "yaml",
	}
	schema := r.Reflect(&Config{})
	return json.MarshalIndent(schema, "", "  ")
}
