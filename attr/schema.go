package attr

import "slices"

// Rule defines how values of one attribute behave during matching.
//
// Compatible decides whether a candidate value satisfies a requested
// value; ComparePrecedence orders candidate values when several
// compatible candidates compete.
type Rule interface {
	// Compatible reports whether a candidate holding candidate satisfies
	// a request for requested. Equal values are always compatible; rules
	// only need to declare the additional compatible pairs.
	Compatible(requested, candidate string) bool

	// ComparePrecedence orders two values. A negative result means a is
	// preferred over b, positive means b is preferred, zero means the
	// rule expresses no preference between them.
	ComparePrecedence(a, b string) int
}

// EqualityRule is the default rule: only equal values are compatible and
// no value is preferred over another.
type EqualityRule struct{}

// Compatible reports whether the two values are equal.
func (EqualityRule) Compatible(requested, candidate string) bool {
	return requested == candidate
}

// ComparePrecedence always returns zero: equality expresses no preference.
func (EqualityRule) ComparePrecedence(a, b string) int {
	return 0
}

// StaticRule is a Rule driven by explicit value tables. It covers the
// compatibility and precedence declarations a schema makes for one
// attribute.
type StaticRule struct {
	// Compat maps a requested value to the additional candidate values
	// that satisfy it. Equal values are compatible without being listed.
	Compat map[string][]string

	// Order lists values from most preferred to least preferred. Values
	// absent from Order rank below every listed value and are unordered
	// among themselves.
	Order []string
}

// Compatible reports whether candidate satisfies requested, either by
// equality or by an explicit Compat entry.
func (r StaticRule) Compatible(requested, candidate string) bool {
	if requested == candidate {
		return true
	}
	return slices.Contains(r.Compat[requested], candidate)
}

// ComparePrecedence orders values by their position in Order. Unlisted
// values rank last and are mutually unordered.
func (r StaticRule) ComparePrecedence(a, b string) int {
	return r.rank(a) - r.rank(b)
}

func (r StaticRule) rank(v string) int {
	if i := slices.Index(r.Order, v); i >= 0 {
		return i
	}
	return len(r.Order)
}

// Schema describes the matching behavior of a set of attributes: one Rule
// per attribute key, with EqualityRule as the default for undeclared
// keys.
//
// A schema is populated at configuration time and read-only during
// selection.
type Schema struct {
	rules map[Key]Rule
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{rules: make(map[Key]Rule)}
}

// SetRule declares the rule for key, replacing any previous declaration.
func (s *Schema) SetRule(key Key, rule Rule) *Schema {
	s.rules[key] = rule
	return s
}

// Rule returns the rule declared for key, or EqualityRule if none is
// declared. A nil schema behaves like an empty one.
func (s *Schema) Rule(key Key) Rule {
	if s == nil {
		return EqualityRule{}
	}
	if r, ok := s.rules[key]; ok {
		return r
	}
	return EqualityRule{}
}

// Keys returns the keys with declared rules, in unspecified order.
func (s *Schema) Keys() []Key {
	if s == nil {
		return nil
	}
	keys := make([]Key, 0, len(s.rules))
	for k := range s.rules {
		keys = append(keys, k)
	}
	return keys
}

// MergeSchemas combines a consumer and a producer schema into the schema
// used for one matcher. Consumer declarations win over producer
// declarations for the same key. Either argument may be nil.
func MergeSchemas(consumer, producer *Schema) *Schema {
	merged := NewSchema()
	if producer != nil {
		for k, r := range producer.rules {
			merged.rules[k] = r
		}
	}
	if consumer != nil {
		for k, r := range consumer.rules {
			merged.rules[k] = r
		}
	}
	return merged
}
