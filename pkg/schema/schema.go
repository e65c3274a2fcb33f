// Package schema provides data-only argument schemas for tools and the single
// validator that interprets them. A schema is a plain descriptor (field name,
// type, required-ness, bounds, enumeration, default); there is no reflection
// and no runtime metadata discovery. Validation is pure: it either produces a
// typed argument map with defaults applied or the complete list of field
// violations, and it never mutates shared state.
package schema

import (
	"encoding/json"
	"sort"
)

// Type enumerates the primitive shapes a property can declare.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Property declares the shape of one argument field.
type Property struct {
	Type        Type
	Description string
	Required    bool
	MinLength   int  // strings only; 0 means no bound
	MaxLength   int  // strings only; 0 means no bound
	Enum        []string
	Default     interface{} // applied when an optional field is absent
}

// Object is the schema of a tool's argument payload.
type Object struct {
	Properties map[string]Property
}

// NewObject creates an argument schema from property declarations.
func NewObject(properties map[string]Property) Object {
	return Object{Properties: properties}
}

// FieldNames returns the declared field names in sorted order. Sorting keeps
// validation output and marshaled schemas deterministic.
func (o Object) FieldNames() []string {
	names := make([]string, 0, len(o.Properties))
	for name := range o.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// jsonProperty is the JSON Schema rendering of a Property.
type jsonProperty struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	MinLength   int         `json:"minLength,omitempty"`
	MaxLength   int         `json:"maxLength,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

type jsonSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]jsonProperty `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
}

// MarshalJSON renders the schema as a standard JSON Schema document, which is
// what tools/list puts on the wire.
func (o Object) MarshalJSON() ([]byte, error) {
	doc := jsonSchema{Type: "object"}
	if len(o.Properties) > 0 {
		doc.Properties = make(map[string]jsonProperty, len(o.Properties))
	}
	for _, name := range o.FieldNames() {
		prop := o.Properties[name]
		doc.Properties[name] = jsonProperty{
			Type:        string(prop.Type),
			Description: prop.Description,
			MinLength:   prop.MinLength,
			MaxLength:   prop.MaxLength,
			Enum:        prop.Enum,
			Default:     prop.Default,
		}
		if prop.Required {
			doc.Required = append(doc.Required, name)
		}
	}
	return json.Marshal(doc)
}
