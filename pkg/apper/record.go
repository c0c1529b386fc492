package apper

import (
	"encoding/json"
	"strconv"
)

// Record is a raw record as returned by the store: wire field names, untyped
// values, lookup fields either bare ids or {Id, Name} objects. Accessors never
// fail; absent or malformed values yield the zero default, which is what the
// normalizers rely on.
type Record map[string]any

// ID returns the record's Id, or 0 when absent
func (r Record) ID() int {
	return r.Int("Id")
}

// String returns the value at key as a string, or "" when absent or not a string
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// FirstString returns the first non-empty string among the given keys
func (r Record) FirstString(keys ...string) string {
	for _, key := range keys {
		if v := r.String(key); v != "" {
			return v
		}
	}
	return ""
}

// Float returns the value at key coerced to float64, defaulting to 0.
// Handles JSON numbers, json.Number, and numeric strings.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

// Int returns the value at key coerced to int, defaulting to 0
func (r Record) Int(key string) int {
	return int(r.Float(key))
}

// Lookup unwraps a relation-valued field. The store delivers these either as
// a bare id or as {Id, Name}; both normalize to a flat id, and the object
// form also carries a display name. ok is false when the field is absent.
func (r Record) Lookup(key string) (id int, name string, ok bool) {
	switch v := r[key].(type) {
	case map[string]any:
		obj := Record(v)
		return obj.Int("Id"), obj.String("Name"), true
	case float64:
		return int(v), "", true
	case int:
		return v, "", true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, "", true
		}
	}
	return 0, "", false
}

// Has reports whether the field is present and non-nil
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}
