// Package normalize rewrites arbitrarily nested values so the output never
// contains a sequence whose elements include another sequence. The sink
// store cannot hold that shape natively, so offending sequences are replaced
// wholesale with their serialized JSON form.
package normalize

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// MaxDepth bounds structural recursion. Values nested deeper than this
// (including self-referential structures) are stringified at the cut point
// instead of recursed into.
const MaxDepth = 32

// Normalize applies the shape policy recursively: scalars pass through, a
// sequence containing a sequence is stringified wholesale, other sequences
// and maps are normalized element by element. Pure and deterministic;
// normalizing an already-normalized value is the identity.
func Normalize(v any) any {
	return normalizeValue(v, 0)
}

// NormalizeMap normalizes every field of a map, returning a new map.
func NormalizeMap(m map[string]any) map[string]any {
	out, ok := Normalize(m).(map[string]any)
	if !ok {
		// Only reachable for inputs beyond MaxDepth at the top level.
		return map[string]any{"value": stringify(m)}
	}
	return out
}

func normalizeValue(v any, depth int) any {
	if v == nil {
		return nil
	}
	if depth > MaxDepth {
		return stringify(v)
	}

	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item, depth+1)
		}
		return out
	case []any:
		return normalizeSequence(val, depth)
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return val
	}

	return normalizeReflect(v, depth)
}

func normalizeSequence(seq []any, depth int) any {
	for _, item := range seq {
		if isSequence(item) {
			return stringify(seq)
		}
	}

	out := make([]any, len(seq))
	for i, item := range seq {
		if isStructured(item) {
			out[i] = normalizeValue(item, depth+1)
		} else {
			out[i] = item
		}
	}
	return out
}

// normalizeReflect handles container values that are not plain JSON types,
// such as named map/slice types or structs from fixtures.
func normalizeReflect(v any, depth int) any {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return normalizeValue(rv.Elem().Interface(), depth)
	case reflect.Slice, reflect.Array:
		// Byte slices are scalar payloads, not sequences.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		seq := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			seq[i] = rv.Index(i).Interface()
		}
		return normalizeSequence(seq, depth)
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalizeValue(iter.Value().Interface(), depth+1)
		}
		return out
	case reflect.Struct:
		m, err := toJSONMap(v)
		if err != nil {
			return stringify(v)
		}
		return normalizeValue(m, depth)
	}

	// Remaining kinds are scalars.
	return v
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	kind := rv.Kind()
	if kind == reflect.Pointer || kind == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		return isSequence(rv.Elem().Interface())
	}
	if kind != reflect.Slice && kind != reflect.Array {
		return false
	}
	return rv.Type().Elem().Kind() != reflect.Uint8
}

func isStructured(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Pointer:
		return true
	}
	return false
}

func stringify(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Cyclic or otherwise unserializable values cannot be printed
		// either; report the error instead of recursing.
		return fmt.Sprintf("<unserializable: %v>", err)
	}
	return string(data)
}

func toJSONMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
