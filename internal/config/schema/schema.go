// Package schema validates option values against the embedded settings
// schema (a JSON Schema subset). Unknown settings are deliberately NOT an
// error here — the config layer warns about them and moves on; validation
// only rejects values whose setting is known and whose value breaks that
// setting's type, enum, range, or length constraints.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed wisp.schema.json
var embedded embed.FS

// Type is a JSON-schema "type" field: a single name or a list of
// alternatives.
type Type []string

// UnmarshalJSON accepts both the string and the array spelling.
func (t *Type) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = Type{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("schema: type must be a string or string array: %w", err)
	}
	*t = Type(many)
	return nil
}

// allows reports whether the type set admits the given JSON type name.
func (t Type) allows(name string) bool {
	if len(t) == 0 {
		return true
	}
	for _, candidate := range t {
		if candidate == name {
			return true
		}
		// JSON-schema "number" subsumes "integer" values.
		if candidate == "number" && name == "integer" {
			return true
		}
	}
	return false
}

// Schema is the subset of JSON Schema the settings file uses.
type Schema struct {
	ID          string `json:"$id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type       Type               `json:"type,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`

	Enum      []any    `json:"enum,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
}

var (
	loadOnce   sync.Once
	loadResult *Schema
	loadErr    error
)

// LoadEmbedded parses the embedded settings schema once and caches it.
func LoadEmbedded() (*Schema, error) {
	loadOnce.Do(func() {
		data, err := embedded.ReadFile("wisp.schema.json")
		if err != nil {
			loadErr = fmt.Errorf("schema: read embedded schema: %w", err)
			return
		}
		s := &Schema{}
		if err := json.Unmarshal(data, s); err != nil {
			loadErr = fmt.Errorf("schema: parse embedded schema: %w", err)
			return
		}
		loadResult = s
	})
	return loadResult, loadErr
}
