package keyset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func item(pairs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i].(string)] = pairs[i+1]
	}
	return m
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"string", "x", true},
		{"zero", float64(0), false},
		{"number", float64(7), true},
		{"negative number", float64(-1), true},
		{"empty array still counts", []interface{}{}, true},
		{"empty object still counts", map[string]interface{}{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truthy(tt.in))
		})
	}
}

func TestAllHaveKeys(t *testing.T) {
	items := []map[string]interface{}{
		item("name", "Lab A", "address", "Street 1"),
		item("name", "Lab B", "address", "Street 2"),
	}
	assert.True(t, AllHaveKeys(items, "name", "address"))

	// A key that is present but empty fails the whole batch
	items = append(items, item("name", "Lab C", "address", ""))
	assert.False(t, AllHaveKeys(items, "name", "address"))

	// So does a missing key
	assert.False(t, AllHaveKeys([]map[string]interface{}{
		item("name", "Lab D"),
	}, "name", "address"))

	// Zero is indistinguishable from absence
	assert.False(t, AllHaveKeys([]map[string]interface{}{
		item("id", float64(0)),
	}, "id"))

	assert.True(t, AllHaveKeys(nil, "name"))
}

func TestAnyKeyPresent(t *testing.T) {
	// Presence is key existence, not truthiness: an empty name still counts
	items := []map[string]interface{}{
		item("id", float64(1), "name", ""),
		item("id", float64(2), "address", "Street 2"),
	}
	assert.True(t, AnyKeyPresent(items, "name", "address"))

	items = append(items, item("id", float64(3)))
	assert.False(t, AnyKeyPresent(items, "name", "address"))
}

func TestDedupeByKeys(t *testing.T) {
	items := []map[string]interface{}{
		item("name", "Lab A", "address", "Street 1", "extra", "first"),
		item("name", "Lab B", "address", "Street 2"),
		item("name", "Lab A", "address", "Street 1", "extra", "second"),
		item("name", "Lab A", "address", "Street 9"),
	}

	got := DedupeByKeys(items, "name", "address")
	assert.Len(t, got, 3)
	// First occurrence wins, order preserved
	assert.Equal(t, "first", got[0]["extra"])
	assert.Equal(t, "Lab B", got[1]["name"])
	assert.Equal(t, "Street 9", got[2]["address"])
}

func TestDedupeByKeysDistinguishesTypes(t *testing.T) {
	items := []map[string]interface{}{
		item("id", float64(1)),
		item("id", "1"),
	}
	assert.Len(t, DedupeByKeys(items, "id"), 2)
}

func TestProjectKeys(t *testing.T) {
	items := []map[string]interface{}{
		item("id", float64(3), "name", "Lab A", "address", "", "status", false),
	}

	got := ProjectKeys(items, "id", "name", "address")
	assert.Len(t, got, 1)
	assert.Equal(t, map[string]interface{}{
		"id":   float64(3),
		"name": "Lab A",
	}, got[0])
}

func TestNumericID(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		wantID uint
		wantOK bool
	}{
		{"valid", float64(42), 42, true},
		{"string", "42", 0, false},
		{"zero", float64(0), 0, false},
		{"negative", float64(-3), 0, false},
		{"fractional", float64(1.5), 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := NumericID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestUniqueNumericIDs(t *testing.T) {
	got := UniqueNumericIDs([]interface{}{
		float64(3), "7", float64(3), float64(1), nil, true, float64(2.5), float64(1),
	})
	assert.Equal(t, []uint{3, 1}, got)

	assert.Empty(t, UniqueNumericIDs([]interface{}{"a", "b"}))
	assert.Empty(t, UniqueNumericIDs(nil))
}
