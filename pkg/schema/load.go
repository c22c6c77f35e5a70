package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and structurally decodes a loop request document.
// YAML and JSON are both accepted (JSON is a YAML subset). Returns a
// structural error if the document contains unknown fields.
func LoadFile(path string) (*Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open request: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a loop request from a reader.
func Load(r io.Reader) (*Request, error) {
	var req Request
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // strict: reject unknown fields
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("structural decode: %w", err)
	}
	return &req, nil
}
