package facet

import (
	"reflect"
	"strings"
)

// extractField resolves a dot-separated field path against a record.
// Each segment is looked up as a map key first, then as an exported struct
// field (directly or through pointers). Returns false when any segment is
// missing or nil.
func extractField(record any, path string) (any, bool) {
	value := record
	for _, segment := range strings.Split(path, ".") {
		if value == nil {
			return nil, false
		}

		if m, ok := value.(map[string]any); ok {
			next, found := m[segment]
			if !found {
				return nil, false
			}
			value = next
			continue
		}

		next, ok := structField(value, segment)
		if !ok {
			return nil, false
		}
		value = next
	}
	if value == nil {
		return nil, false
	}
	return value, true
}

func structField(v any, name string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	field := rv.FieldByNameFunc(func(candidate string) bool {
		return strings.EqualFold(candidate, name)
	})
	if !field.IsValid() || !field.CanInterface() {
		return nil, false
	}
	return field.Interface(), true
}
