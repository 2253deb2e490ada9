package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// ValidateInput checks input against a tool's JSON schema before execution.
// Only required fields and non-numeric types are enforced here; numeric
// parameters are coerced and clamped by the tool's own readers.
func ValidateInput(input map[string]any, schema any) error {
	s, ok := schemaMap(schema)
	if !ok {
		return nil
	}

	for _, name := range requiredFields(s["required"]) {
		if v, exists := input[name]; !exists || v == nil {
			return fmt.Errorf("missing required parameter: %s", name)
		}
	}

	properties, ok := s["properties"].(map[string]any)
	if !ok {
		return nil
	}
	for name, value := range input {
		propSchema, ok := properties[name].(map[string]any)
		if !ok {
			continue
		}
		if err := validateValue(name, value, propSchema); err != nil {
			return err
		}
	}
	return nil
}

func schemaMap(schema any) (map[string]any, bool) {
	switch s := schema.(type) {
	case map[string]any:
		return s, true
	case json.RawMessage:
		var m map[string]any
		if err := json.Unmarshal(s, &m); err != nil {
			return nil, false
		}
		return m, true
	default:
		return nil, false
	}
}

func requiredFields(v any) []string {
	switch r := v.(type) {
	case []string:
		return r
	case []any:
		names := make([]string, 0, len(r))
		for _, item := range r {
			if name, ok := item.(string); ok {
				names = append(names, name)
			}
		}
		return names
	default:
		return nil
	}
}

// validateValue validates a single value against its schema.
func validateValue(name string, value any, schema map[string]any) error {
	if value == nil {
		return nil // null is generally acceptable
	}

	expectedType, ok := schema["type"].(string)
	if !ok {
		return nil
	}

	actualType := getJSONType(value)
	switch expectedType {
	case "string", "boolean", "array", "object":
		if actualType != expectedType {
			return fmt.Errorf("parameter %s: expected %s, got %s", name, expectedType, actualType)
		}
	}

	if enum, ok := schema["enum"].([]any); ok {
		found := false
		for _, e := range enum {
			if reflect.DeepEqual(e, value) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("parameter %s: value not in allowed enum", name)
		}
	}

	return nil
}

// getJSONType returns the JSON type name for a Go value.
func getJSONType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
