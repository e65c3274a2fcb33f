package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/contextworks/mcp-gateway/pkg/errors"
)

// Validate checks raw against the schema and returns the typed argument map
// with declared defaults applied, or the complete list of violations. A nil
// or empty payload is treated as an empty object. Fields not declared by the
// schema are passed through untouched.
func Validate(obj Object, raw json.RawMessage) (map[string]interface{}, []errors.FieldViolation) {
	args := make(map[string]interface{})
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, []errors.FieldViolation{{
				Field:   "",
				Message: fmt.Sprintf("arguments must be a JSON object: %v", err),
				Code:    errors.ViolationType,
			}}
		}
	}

	var violations []errors.FieldViolation
	for _, name := range obj.FieldNames() {
		prop := obj.Properties[name]
		value, present := args[name]

		if !present {
			if prop.Required {
				violations = append(violations, errors.FieldViolation{
					Field:   name,
					Message: fmt.Sprintf("field %q is required", name),
					Code:    errors.ViolationRequired,
				})
			} else if prop.Default != nil {
				args[name] = prop.Default
			}
			continue
		}

		violations = append(violations, checkValue(name, prop, value)...)
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return args, nil
}

// checkValue validates a present value against its declared property.
func checkValue(name string, prop Property, value interface{}) []errors.FieldViolation {
	var violations []errors.FieldViolation

	typeViolation := func(expected Type) errors.FieldViolation {
		return errors.FieldViolation{
			Field:   name,
			Message: fmt.Sprintf("field %q must be of type %s", name, expected),
			Code:    errors.ViolationType,
		}
	}

	switch prop.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return append(violations, typeViolation(TypeString))
		}
		if prop.MinLength > 0 && len(s) < prop.MinLength {
			violations = append(violations, errors.FieldViolation{
				Field:   name,
				Message: fmt.Sprintf("field %q must be at least %d characters", name, prop.MinLength),
				Code:    errors.ViolationMinLength,
			})
		}
		if prop.MaxLength > 0 && len(s) > prop.MaxLength {
			violations = append(violations, errors.FieldViolation{
				Field:   name,
				Message: fmt.Sprintf("field %q must be at most %d characters", name, prop.MaxLength),
				Code:    errors.ViolationMaxLength,
			})
		}
		if len(prop.Enum) > 0 && !containsString(prop.Enum, s) {
			violations = append(violations, errors.FieldViolation{
				Field:   name,
				Message: fmt.Sprintf("field %q must be one of %v", name, prop.Enum),
				Code:    errors.ViolationEnum,
			})
		}

	case TypeNumber:
		if _, ok := value.(float64); !ok {
			violations = append(violations, typeViolation(TypeNumber))
		}

	case TypeInteger:
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) {
			violations = append(violations, typeViolation(TypeInteger))
		}

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			violations = append(violations, typeViolation(TypeBoolean))
		}

	case TypeObject:
		if _, ok := value.(map[string]interface{}); !ok {
			violations = append(violations, typeViolation(TypeObject))
		}

	case TypeArray:
		if _, ok := value.([]interface{}); !ok {
			violations = append(violations, typeViolation(TypeArray))
		}
	}

	return violations
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
