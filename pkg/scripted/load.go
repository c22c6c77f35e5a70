package scripted

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture declares the elements a scripted page knows about and the
// expressions governing their state. Expressions are expr-lang booleans
// over `actions` (total actions performed so far) and `elapsed_ms`;
// empty means "always true".
type Fixture struct {
	Elements []ElementFixture `yaml:"elements" json:"elements"`
}

// ElementFixture is one scripted element.
type ElementFixture struct {
	Selector     string `yaml:"selector"               json:"selector"`
	Description  string `yaml:"description,omitempty"  json:"description,omitempty"`
	Visible      string `yaml:"visible,omitempty"      json:"visible,omitempty"`
	Enabled      string `yaml:"enabled,omitempty"      json:"enabled,omitempty"`
	Interactable string `yaml:"interactable,omitempty" json:"interactable,omitempty"`
}

// FixtureError reports an invalid state expression in a fixture.
type FixtureError struct {
	Selector string
	Field    string
	Err      error
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("element %s: %s: %v", e.Selector, e.Field, e.Err)
}

func (e *FixtureError) Unwrap() error {
	return e.Err
}

// LoadFixtureFile reads and strictly decodes a page fixture.
func LoadFixtureFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return LoadFixture(f)
}

// LoadFixture reads a page fixture from a reader.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("structural decode: %w", err)
	}
	if len(fx.Elements) == 0 {
		return nil, fmt.Errorf("fixture declares no elements")
	}
	for i, el := range fx.Elements {
		if el.Selector == "" {
			return nil, fmt.Errorf("elements[%d]: selector is required", i)
		}
	}
	return &fx, nil
}
