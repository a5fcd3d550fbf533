// Package variantselect selects a producer's artifact variant for a
// consumer's requested attributes, falling back to artifact transform
// chains when no variant matches directly.
//
// # Overview
//
// The package provides four components:
//
//   - attr: immutable attribute sets and schemas with per-attribute
//     compatibility and precedence rules
//   - matching: attribute matching and disambiguation over candidates
//   - transform: transform step registry, bounded chain search, and
//     order-independent chain fingerprints
//   - variantselect (this package): the selector orchestrating them and
//     the structured failure taxonomy
//
// # Quick start
//
//	registry := new(transform.RegistryBuilder).
//	    Register("unzip", from, to).
//	    Build()
//
//	selector, err := variantselect.NewSelector(schema, registry)
//	if err != nil { ... }
//
//	result := selector.Select(producer, requested, false)
//	if result.Failed() {
//	    // result.Failure is one of the failure types in failures.go
//	}
//
// For many producers, wrap the selector in an Engine to run selections
// concurrently with bounded workers.
//
// # Determinism
//
// Given identical inputs, selection produces identical results and
// identical failure messages across runs and machines: variants are
// processed in producer order, transform steps in registration order,
// and every reduction step is order-stable. Build reproducibility and
// result caching rely on this.
//
// # Thread safety
//
// Selectors, engines, matchers, registries, and all value types are
// read-only after construction and safe for concurrent use.
package variantselect

import (
	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/transform"
)

// Select performs a single selection with a throwaway selector. The
// consumer schema is taken from opts-free defaults (equality matching
// plus the producer's schema); use NewSelector directly to declare
// consumer rules or tune options.
func Select(producer *ResolvedVariantSet, requested attr.Set, registry *transform.Registry, opts ...Option) (ResolvedArtifactSet, error) {
	selector, err := NewSelector(nil, registry, opts...)
	if err != nil {
		return ResolvedArtifactSet{}, err
	}
	return selector.Select(producer, requested, false), nil
}
