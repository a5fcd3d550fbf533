package transform

import (
	"slices"

	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/matching"
)

// DefaultMaxChainLength bounds the breadth-first chain search. Chains
// longer than a handful of steps indicate a misconfigured transform
// registry rather than a legitimate conversion, so the default is small.
const DefaultMaxChainLength = 5

// ChainFinder searches the registered transform steps for chains that
// carry a root variant's attributes to a state compatible with a
// requested attribute set.
//
// The search is a bounded breadth-first search over step sequences,
// explored level by level so that the first level producing any result
// contains exactly the minimal-length chains. A finder is read-only and
// safe for concurrent use.
type ChainFinder struct {
	registry  *Registry
	matcher   *matching.Matcher
	maxLength int
}

// NewChainFinder returns a finder over the given registry, using the
// matcher's compatibility rules both for step applicability and for the
// goal test. A maxLength below 1 uses DefaultMaxChainLength.
func NewChainFinder(registry *Registry, matcher *matching.Matcher, maxLength int) *ChainFinder {
	if maxLength < 1 {
		maxLength = DefaultMaxChainLength
	}
	return &ChainFinder{registry: registry, matcher: matcher, maxLength: maxLength}
}

// searchState is one node of the breadth-first search: the attributes
// accumulated so far from a root, the steps taken, and the attribute
// states already visited on this path (for cycle pruning).
type searchState struct {
	root    matching.Candidate
	attrs   attr.Set
	steps   []*Step
	visited []string
}

// FindTransformedVariants returns every minimal-length chain that
// converts one of the given root variants into a state satisfying
// requested.
//
// All distinct successful chains of that minimal length are returned,
// including chains that are step-reorderings of one another;
// deduplication by reordering is the fingerprinting step's job at the
// selector level, not the finder's. Roots are explored in the given
// order and steps in registration order, so the result order is
// deterministic. The result is nil when no chain exists within the
// length bound.
func (f *ChainFinder) FindTransformedVariants(roots []matching.Candidate, requested attr.Set) []*TransformedVariant {
	frontier := make([]searchState, 0, len(roots))
	for _, root := range roots {
		attrs := root.VariantAttributes()
		frontier = append(frontier, searchState{
			root:    root,
			attrs:   attrs,
			visited: []string{attrs.Canonical()},
		})
	}

	for depth := 1; depth <= f.maxLength; depth++ {
		var found []*TransformedVariant
		var next []searchState

		for _, state := range frontier {
			for _, step := range f.registry.steps {
				if !f.applicable(step, state.attrs) {
					continue
				}
				result := state.attrs.Concat(step.to)

				// Cycle pruning: a step that leaves the attributes
				// unchanged, or leads back to a state already visited on
				// this path, cannot be part of a minimal chain.
				if result.Equal(state.attrs) {
					continue
				}
				canonical := result.Canonical()
				if slices.Contains(state.visited, canonical) {
					continue
				}

				steps := append(slices.Clone(state.steps), step)
				if f.matcher.IsMatching(requested, result) {
					found = append(found, &TransformedVariant{
						root:       state.root,
						steps:      steps,
						attributes: result,
					})
					continue
				}
				next = append(next, searchState{
					root:    state.root,
					attrs:   result,
					steps:   steps,
					visited: append(slices.Clone(state.visited), canonical),
				})
			}
		}

		if len(found) > 0 {
			return found
		}
		frontier = next
	}

	return nil
}

// applicable reports whether a step can be applied to the accumulated
// attributes: every attribute the step requires must be present and
// compatible per the schema rules.
func (f *ChainFinder) applicable(step *Step, attrs attr.Set) bool {
	schema := f.matcher.Schema()
	for _, key := range step.from.Keys() {
		want, _ := step.from.Value(key)
		got, ok := attrs.Value(key)
		if !ok {
			return false
		}
		if !schema.Rule(key).Compatible(want, got) {
			return false
		}
	}
	return true
}
