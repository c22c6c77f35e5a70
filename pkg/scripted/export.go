package scripted

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateFixtureJSONSchema produces a JSON Schema Draft 2020-12 document
// from the page fixture Go types.
func GenerateFixtureJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	s := r.Reflect(&Fixture{})
	s.ID = "https://github.com/ormasoftchile/uiloop/schemas/fixture.json"
	s.Title = "uiloop page fixture"
	s.Description = "Schema for scripted page fixture YAML documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal fixture schema: %w", err)
	}
	return data, nil
}
