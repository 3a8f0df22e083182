// Package settings implements deep merge and deep diff over JSON-decoded
// settings trees.
//
// Trees are map[string]any values as produced by encoding/json: primitives,
// []any arrays, and nested map[string]any objects. Two rules shape every
// operation here:
//
//   - a nil value in an override deletes the corresponding key instead of
//     setting it to null, and
//   - arrays are atomic: an override array replaces the base array wholesale,
//     never element-merges with it.
package settings

import "github.com/wssync/wssync/pkg/types"

// Merge returns a new tree combining base and override. Objects merge
// key-by-key, everything else (arrays included) replaces. A nil override
// value removes the key. Neither input is mutated.
func Merge(base, override types.SettingsMap) types.SettingsMap {
	result := CloneMap(base)
	for key, value := range override {
		if value == nil {
			delete(result, key)
			continue
		}
		if existing, ok := result[key].(map[string]any); ok {
			if incoming, ok := value.(map[string]any); ok {
				result[key] = Merge(existing, incoming)
				continue
			}
		}
		result[key] = Clone(value)
	}
	return result
}

// Diff computes the patch that transforms expected into current when applied
// with Merge. Keys whose current value differs from the expected one (or that
// expected lacks) carry the current value; keys present in expected but absent
// from current carry nil, the removal sentinel.
func Diff(expected, current types.SettingsMap) types.SettingsMap {
	patch := make(types.SettingsMap)
	for key, currentValue := range current {
		expectedValue, ok := expected[key]
		if !ok || !Equal(expectedValue, currentValue) {
			patch[key] = Clone(currentValue)
		}
	}
	for key := range expected {
		if _, ok := current[key]; !ok {
			patch[key] = nil
		}
	}
	return patch
}

// Equal reports deep equality of two JSON-decoded values. Arrays compare
// pairwise in order, objects by key set, numbers by value.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for key, value := range av {
			other, ok := bv[key]
			if !ok || !Equal(value, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		if an, ok := toNumber(a); ok {
			bn, ok := toNumber(b)
			return ok && an == bn
		}
		return a == b
	}
}

// Clone returns a deep copy of a JSON-decoded value. Primitives are returned
// as-is.
func Clone(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return CloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// CloneMap returns a deep copy of a settings tree. A nil input yields an
// empty, writable map.
func CloneMap(m types.SettingsMap) types.SettingsMap {
	out := make(types.SettingsMap, len(m))
	for key, value := range m {
		out[key] = Clone(value)
	}
	return out
}

// toNumber normalizes the numeric types a tree can hold. Decoded JSON only
// produces float64, but trees built in Go code frequently carry int literals.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
