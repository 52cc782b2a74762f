package tool

import (
	"fmt"

	"github.com/doomspork/luagents/core"
)

// ValidationError represents parameter validation errors with detailed information.
type ValidationError struct {
	Field   string     `json:"field"`
	Value   core.Value `json:"-"`
	Message string     `json:"message"`
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Validate checks positional args against the declared parameters. Missing
// or nil required arguments fail, as do non-nil arguments whose type is not
// among the declared tags. Extra trailing arguments are allowed.
func (t *Tool) Validate(args []core.Value) error {
	for i, p := range t.Parameters {
		var v core.Value = core.Nil{}
		if i < len(args) {
			v = core.Normalize(args[i])
		}
		if core.IsNil(v) {
			if p.Required {
				return &ValidationError{Field: p.Name, Message: "required argument is missing"}
			}
			continue
		}
		if !p.Accepts(v) {
			return &ValidationError{
				Field:   p.Name,
				Value:   v,
				Message: fmt.Sprintf("expected type %s, got %s", p.TypeString(), v.Kind()),
			}
		}
	}
	return nil
}

// Schema describes the tool as a JSON-schema-like map, used for the
// machine-readable tool listing in prompts. Parameter order is kept in
// "x-order" since JSON objects are unordered and scripts pass arguments
// positionally.
func (t *Tool) Schema() map[string]any {
	properties := make(map[string]any, len(t.Parameters))
	required := make([]string, 0, len(t.Parameters))
	order := make([]string, 0, len(t.Parameters))

	for _, p := range t.Parameters {
		prop := map[string]any{}
		switch len(p.Types) {
		case 0:
		case 1:
			prop["type"] = jsonType(p.Types[0])
		default:
			types := make([]string, len(p.Types))
			for i, tag := range p.Types {
				types[i] = jsonType(tag)
			}
			prop["type"] = types
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		order = append(order, p.Name)
		if p.Required {
			required = append(required, p.Name)
		}
	}

	params := map[string]any{
		"type":       "object",
		"properties": properties,
		"x-order":    order,
	}
	if len(required) > 0 {
		params["required"] = required
	}

	return map[string]any{
		"name":        t.Name,
		"description": t.Description,
		"parameters":  params,
	}
}

// jsonType returns the JSON schema type for a script type tag.
func jsonType(t TypeTag) string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeTable:
		return "object"
	default:
		return "string"
	}
}
