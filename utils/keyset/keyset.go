package keyset

import (
	"fmt"
	"math"
	"strings"
)

// Key-set helpers for bulk request payloads. Items are JSON objects decoded
// into map[string]interface{}, so numbers arrive as float64.

// Truthy reports whether a decoded JSON value counts as present. Zero
// numbers, empty strings, false and null all count as missing; objects and
// arrays are always present, even when empty.
func Truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}

// AllHaveKeys reports whether every item carries a truthy value at every
// given key. A single miss fails the whole batch.
func AllHaveKeys(items []map[string]interface{}, keys ...string) bool {
	for _, item := range items {
		for _, key := range keys {
			if !Truthy(item[key]) {
				return false
			}
		}
	}
	return true
}

// AnyKeyPresent reports whether every item has at least one of the given
// keys among its own keys. Presence is key existence, not truthiness.
func AnyKeyPresent(items []map[string]interface{}, keys ...string) bool {
	for _, item := range items {
		found := false
		for _, key := range keys {
			if _, ok := item[key]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DedupeByKeys keeps the first occurrence per distinct combination of values
// at the given keys. Stable, order-preserving.
func DedupeByKeys(items []map[string]interface{}, keys ...string) []map[string]interface{} {
	seen := make(map[string]struct{}, len(items))
	result := make([]map[string]interface{}, 0, len(items))

	for _, item := range items {
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%T=%v", item[key], item[key]))
		}
		combo := strings.Join(parts, "\x1f")

		if _, dup := seen[combo]; dup {
			continue
		}
		seen[combo] = struct{}{}
		result = append(result, item)
	}

	return result
}

// ProjectKeys returns new items containing only the truthy-valued fields
// among the given keys.
func ProjectKeys(items []map[string]interface{}, keys ...string) []map[string]interface{} {
	result := make([]map[string]interface{}, 0, len(items))

	for _, item := range items {
		projected := make(map[string]interface{}, len(keys))
		for _, key := range keys {
			if Truthy(item[key]) {
				projected[key] = item[key]
			}
		}
		result = append(result, projected)
	}

	return result
}

// NumericID converts a decoded JSON value to a row identifier. Only numbers
// with integral, positive values qualify; anything else could never match a
// row and is rejected.
func NumericID(v interface{}) (uint, bool) {
	num, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if num <= 0 || num != math.Trunc(num) {
		return 0, false
	}
	return uint(num), true
}

// UniqueNumericIDs deduplicates a raw JSON array and keeps only members
// NumericID accepts. Order-preserving; non-numeric members are dropped
// silently.
func UniqueNumericIDs(values []interface{}) []uint {
	seen := make(map[uint]struct{}, len(values))
	ids := make([]uint, 0, len(values))

	for _, v := range values {
		id, ok := NumericID(v)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}
