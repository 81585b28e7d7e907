package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaID identifies the generated document so editors can associate config files with it.
const SchemaID = "https://pb33f.io/gqlific/config.schema.json"

// JSONSchema describes the configuration file as a JSON Schema document. Editors that
// understand JSON Schema use it to complete and check YAML and JSON config files.
func JSONSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}

	schema := r.Reflect(&Config{})
	schema.ID = SchemaID
	schema.Title = "gqlific configuration"
	schema.Required = nil

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config schema: %w", err)
	}
	return out, nil
}
