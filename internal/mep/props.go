package mep

import "fmt"

// setFloat assigns a numeric property, accepting the numeric types that JSON
// and msgpack decoders produce.
func setFloat(dst *float64, name string, value any) error {
	switch v := value.(type) {
	case float64:
		*dst = v
	case float32:
		*dst = float64(v)
	case int:
		*dst = float64(v)
	case int64:
		*dst = float64(v)
	case uint64:
		*dst = float64(v)
	default:
		return fmt.Errorf("mep: %s expects a number, got %T", name, value)
	}
	return nil
}

// setBool assigns a boolean property.
func setBool(dst *bool, name string, value any) error {
	b, ok := value.(bool)
	if !ok {
		return fmt.Errorf("mep: %s expects a bool, got %T", name, value)
	}
	*dst = b
	return nil
}
