package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mau.fi/util/ptr"
)

// ReadString reads a string parameter from input.
func ReadString(params map[string]any, key string, required bool) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("parameter %q is required", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		if required {
			return "", fmt.Errorf("parameter %q must be a string", key)
		}
		return "", nil
	}
	s = strings.TrimSpace(s)
	if s == "" && required {
		return "", fmt.Errorf("parameter %q is required", key)
	}
	return s, nil
}

// ReadNumber reads a numeric parameter from input.
func ReadNumber(params map[string]any, key string, required bool) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		if required {
			return 0, fmt.Errorf("parameter %q is required", key)
		}
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("parameter %q must be a number", key)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %q must be a number", key)
		}
		return f, nil
	}
	return 0, fmt.Errorf("parameter %q must be a number", key)
}

// ReadOptionalInt reads a positive integer parameter, clamped to ceiling.
// It returns nil when the parameter is absent, not a number, or not positive,
// so the caller's default applies.
func ReadOptionalInt(params map[string]any, key string, ceiling int) *int {
	if _, ok := params[key]; !ok {
		return nil
	}
	n, err := ReadNumber(params, key, false)
	if err != nil || math.IsNaN(n) || n < 1 {
		return nil
	}
	if n >= float64(ceiling) {
		return ptr.Ptr(ceiling)
	}
	return ptr.Ptr(int(n))
}
