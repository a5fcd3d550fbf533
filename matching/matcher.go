// Package matching implements attribute matching between a requested
// attribute set and a list of candidates, including the disambiguation
// pass applied when several candidates are compatible.
//
// Matching is deterministic: given the same schema, request, and
// candidate order it always returns the same candidates in the same
// order. Selection relies on that determinism for reproducible results
// and failure messages.
package matching

import (
	"github.com/albertocavalcante/go-variantselect/attr"
)

// Candidate is any attribute-carrying value that can compete in
// matching: resolved variants and transformed variants both qualify.
type Candidate interface {
	// VariantAttributes returns the attribute set the candidate offers.
	VariantAttributes() attr.Set
}

// Matcher matches candidates against requested attributes using one
// merged schema. A matcher is built per (consumer schema, producer
// schema) pair and is read-only, so it is safe for concurrent use.
type Matcher struct {
	schema  *attr.Schema
	explain Explanation
}

// NewMatcher returns a matcher over the given schema. A nil schema
// behaves like an empty one (equality matching only). A nil explanation
// disables explanation output.
func NewMatcher(schema *attr.Schema, explain Explanation) *Matcher {
	if explain == nil {
		explain = NopExplanation{}
	}
	return &Matcher{schema: schema, explain: explain}
}

// Schema returns the merged schema the matcher operates on.
func (m *Matcher) Schema() *attr.Schema {
	return m.schema
}

// IsMatching reports whether candidate satisfies requested: for every
// attribute present in requested, candidate either lacks the key, holds
// an equal value, or holds a value the schema declares compatible.
//
// A missing attribute counts as compatible by convention: the candidate
// makes no claim on that axis, so it does not contradict the request.
func (m *Matcher) IsMatching(requested, candidate attr.Set) bool {
	for _, key := range requested.Keys() {
		want, _ := requested.Value(key)
		got, ok := candidate.Value(key)
		if !ok {
			continue
		}
		if !m.schema.Rule(key).Compatible(want, got) {
			return false
		}
	}
	return true
}

// MutuallyCompatible reports whether two attribute sets agree on every
// shared key. Values agree when they are equal or when the schema rule
// declares them compatible in either direction; keys present on only one
// side never contradict.
func (m *Matcher) MutuallyCompatible(a, b attr.Set) bool {
	for _, key := range a.Keys() {
		av, _ := a.Value(key)
		bv, ok := b.Value(key)
		if !ok {
			continue
		}
		rule := m.schema.Rule(key)
		if !rule.Compatible(av, bv) && !rule.Compatible(bv, av) {
			return false
		}
	}
	return true
}

// Match returns the candidates compatible with requested, reduced by the
// schema's disambiguation rules.
//
// The reduction first applies per-attribute precedence rules in the
// request's display order, then prefers candidates carrying the fewest
// attributes absent from the request. If a single candidate survives,
// only it is returned; otherwise all survivors are returned in their
// original order, signaling ambiguity to the caller.
func Match[T Candidate](m *Matcher, candidates []T, requested attr.Set) []T {
	compatible := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if m.isMatchingExplained(requested, c) {
			compatible = append(compatible, c)
		}
	}
	if len(compatible) <= 1 {
		return compatible
	}
	return disambiguate(m, compatible, requested)
}

// isMatchingExplained is IsMatching with explanation callbacks per
// candidate.
func (m *Matcher) isMatchingExplained(requested attr.Set, candidate Candidate) bool {
	offered := candidate.VariantAttributes()
	for _, key := range requested.Keys() {
		want, _ := requested.Value(key)
		got, ok := offered.Value(key)
		if !ok {
			continue
		}
		if !m.schema.Rule(key).Compatible(want, got) {
			m.explain.CandidateIncompatible(candidate, key, want, got)
			return false
		}
	}
	m.explain.CandidateCompatible(candidate, requested)
	return true
}

// disambiguate reduces a set of compatible candidates using the schema's
// precedence rules, then the fewest-extra-attributes tie-break.
func disambiguate[T Candidate](m *Matcher, compatible []T, requested attr.Set) []T {
	survivors := compatible

	for _, key := range requested.Keys() {
		if len(survivors) == 1 {
			return survivors
		}
		rule := m.schema.Rule(key)

		// Find the most preferred value present among the survivors.
		best := ""
		haveBest := false
		for _, c := range survivors {
			v, ok := c.VariantAttributes().Value(key)
			if !ok {
				continue
			}
			if !haveBest || rule.ComparePrecedence(v, best) < 0 {
				best = v
				haveBest = true
			}
		}
		if !haveBest {
			continue
		}

		// Keep candidates lacking the key or tied with the best value.
		kept := survivors[:0:0]
		for _, c := range survivors {
			v, ok := c.VariantAttributes().Value(key)
			if !ok || rule.ComparePrecedence(v, best) <= 0 {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 && len(kept) < len(survivors) {
			m.explain.PrecedenceApplied(key, best, len(survivors), len(kept))
			survivors = kept
		}
	}

	if len(survivors) > 1 {
		survivors = preferFewestExtraAttributes(survivors, requested)
	}
	return survivors
}

// preferFewestExtraAttributes keeps the candidates carrying the fewest
// attributes that the request did not ask for. Candidates matching on
// less say less; when precedence rules cannot decide, the candidate
// closest to the request wins.
func preferFewestExtraAttributes[T Candidate](survivors []T, requested attr.Set) []T {
	counts := make([]int, len(survivors))
	minExtra := -1
	for i, c := range survivors {
		extra := 0
		for _, key := range c.VariantAttributes().Keys() {
			if !requested.Contains(key) {
				extra++
			}
		}
		counts[i] = extra
		if minExtra < 0 || extra < minExtra {
			minExtra = extra
		}
	}
	kept := survivors[:0:0]
	for i, c := range survivors {
		if counts[i] == minExtra {
			kept = append(kept, c)
		}
	}
	return kept
}
