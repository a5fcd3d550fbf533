// Package attr implements the immutable attribute model used by variant
// selection.
//
// An attribute is a typed, named axis of variant selection (for example
// usage or format). Attribute sets are immutable value types: every
// mutating operation returns a new set. Equality and the canonical string
// form are independent of insertion order; insertion order is retained
// only for display.
package attr

import (
	"slices"
	"strings"
)

// Key identifies a typed, named attribute axis.
//
// Two keys are the same axis iff both name and type are equal. Most
// attributes are plain strings; use StringKey for those.
type Key struct {
	// Name is the attribute name, e.g. "usage".
	Name string

	// Type distinguishes attributes that share a name. Defaults to
	// "string" for keys built with StringKey.
	Type string
}

// StringKey returns a string-typed attribute key with the given name.
func StringKey(name string) Key {
	return Key{Name: name, Type: "string"}
}

// String returns the key's display form, which is just its name.
func (k Key) String() string {
	return k.Name
}

// canonical returns the key's unambiguous form, including the type.
func (k Key) canonical() string {
	return k.Name + ":" + k.Type
}

// Pair is a single attribute key/value entry, used to construct sets.
type Pair struct {
	Key   Key
	Value string
}

// Set is an immutable mapping from attribute key to value.
//
// The zero value is the empty set and is ready to use. Keys are unique;
// constructing a set with a duplicate key keeps the last value. Insertion
// order is preserved for String() but has no effect on Equal or
// Canonical.
type Set struct {
	keys   []Key
	values map[Key]string
}

// NewSet builds a set from the given pairs, in order.
func NewSet(pairs ...Pair) Set {
	var s Set
	for _, p := range pairs {
		s = s.With(p.Key, p.Value)
	}
	return s
}

// With returns a copy of the set with the given key set to value.
// An existing value for the key is replaced, keeping its position.
func (s Set) With(key Key, value string) Set {
	next := Set{
		keys:   slices.Clone(s.keys),
		values: make(map[Key]string, len(s.values)+1),
	}
	for k, v := range s.values {
		next.values[k] = v
	}
	if _, ok := next.values[key]; !ok {
		next.keys = append(next.keys, key)
	}
	next.values[key] = value
	return next
}

// Concat returns the merge of s and other. Values from other win on
// conflicting keys. In selection the two sides are disjoint by
// construction (request attributes vs. producer-overridden attributes).
func (s Set) Concat(other Set) Set {
	next := s
	for _, k := range other.keys {
		next = next.With(k, other.values[k])
	}
	return next
}

// Value returns the value for key and whether it is present.
func (s Set) Value(key Key) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Contains reports whether the set has a value for key.
func (s Set) Contains(key Key) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the set's keys in insertion order.
func (s Set) Keys() []Key {
	return slices.Clone(s.keys)
}

// Len returns the number of attributes in the set.
func (s Set) Len() int {
	return len(s.keys)
}

// Empty reports whether the set has no attributes.
func (s Set) Empty() bool {
	return len(s.keys) == 0
}

// Equal reports whether both sets hold the same key/value pairs,
// regardless of insertion order.
func (s Set) Equal(other Set) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// String returns the display form, in insertion order:
//
//	{usage=java-api, format=jar}
func (s Set) String() string {
	if len(s.keys) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.Name)
		sb.WriteByte('=')
		sb.WriteString(s.values[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// Canonical returns an order-independent string form of the set, with
// entries sorted by key. Two equal sets always have the same canonical
// form, making it usable as a map key and as fingerprint input.
func (s Set) Canonical() string {
	entries := make([]string, 0, len(s.keys))
	for k, v := range s.values {
		entries = append(entries, k.canonical()+"="+v)
	}
	slices.Sort(entries)
	return strings.Join(entries, ";")
}
