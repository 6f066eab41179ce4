package schema

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// ValidationError reports a value that violates its setting's schema.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Path, e.Message)
}

// Validator checks setting values against a schema tree.
type Validator struct {
	root *Schema
}

// NewValidator returns a Validator over root.
func NewValidator(root *Schema) *Validator {
	return &Validator{root: root}
}

// ValidatePath validates a value destined for a dot-separated setting
// path. A path the schema does not describe validates trivially — the
// config layer's unknown-key warning covers that case.
func (v *Validator) ValidatePath(path string, value any) error {
	node := v.root
	for _, part := range strings.Split(path, ".") {
		if node == nil || node.Properties == nil {
			return nil
		}
		child, ok := node.Properties[part]
		if !ok {
			return nil
		}
		node = child
	}
	return validate(path, node, value)
}

func validate(path string, s *Schema, value any) error {
	if s == nil {
		return nil
	}

	name, num, isNum := jsonType(value)
	if !s.Type.allows(name) {
		return &ValidationError{Path: path, Message: fmt.Sprintf("want %s, got %s", strings.Join(s.Type, " or "), name)}
	}

	if len(s.Enum) > 0 && !enumHas(s.Enum, value) {
		return &ValidationError{Path: path, Message: fmt.Sprintf("%v is not one of the allowed values", value)}
	}

	if isNum {
		if s.Minimum != nil && num < *s.Minimum {
			return &ValidationError{Path: path, Message: fmt.Sprintf("%v is below the minimum %v", value, *s.Minimum)}
		}
		if s.Maximum != nil && num > *s.Maximum {
			return &ValidationError{Path: path, Message: fmt.Sprintf("%v is above the maximum %v", value, *s.Maximum)}
		}
	}

	if str, ok := value.(string); ok {
		n := utf8.RuneCountInString(str)
		if s.MinLength != nil && n < *s.MinLength {
			return &ValidationError{Path: path, Message: fmt.Sprintf("shorter than %d characters", *s.MinLength)}
		}
		if s.MaxLength != nil && n > *s.MaxLength {
			return &ValidationError{Path: path, Message: fmt.Sprintf("longer than %d characters", *s.MaxLength)}
		}
	}

	if items := s.Items; items != nil {
		if slice, ok := toSlice(value); ok {
			for i, item := range slice {
				if err := validate(fmt.Sprintf("%s[%d]", path, i), items, item); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// jsonType names a Go value's JSON-schema type and extracts its numeric
// value where applicable.
func jsonType(value any) (name string, num float64, isNum bool) {
	switch v := value.(type) {
	case nil:
		return "null", 0, false
	case bool:
		return "boolean", 0, false
	case string:
		return "string", 0, false
	case int:
		return "integer", float64(v), true
	case int64:
		return "integer", float64(v), true
	case float64:
		if v == math.Trunc(v) {
			return "integer", v, true
		}
		return "number", v, true
	case float32:
		return jsonType(float64(v))
	case map[string]any:
		return "object", 0, false
	default:
		if _, ok := toSlice(value); ok {
			return "array", 0, false
		}
		return "unknown", 0, false
	}
}

func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func enumHas(enum []any, value any) bool {
	_, num, isNum := jsonType(value)
	for _, candidate := range enum {
		if candidate == value {
			return true
		}
		// JSON decoding yields float64 for schema enum numbers; compare
		// numerically so int(2) matches 2.0.
		if _, cnum, cIsNum := jsonType(candidate); cIsNum && isNum && cnum == num {
			return true
		}
	}
	return false
}
