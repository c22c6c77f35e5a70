package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateRequestJSONSchema produces a JSON Schema Draft 2020-12 document
// from the loop Request Go types.
func GenerateRequestJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	s := r.Reflect(&Request{})
	s.ID = "https://github.com/ormasoftchile/uiloop/schemas/request.json"
	s.Title = "uiloop request"
	s.Description = "Schema for uiloop loop request documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal request schema: %w", err)
	}
	return data, nil
}
