package transform

import (
	"strings"

	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/matching"
)

// TransformedVariant is a candidate result of applying an ordered
// sequence of steps to a root variant. It is built fresh per selection
// attempt and discarded after use, except for the one that is selected.
//
// It implements matching.Candidate over its final attributes, so the
// selector can run attribute matching directly over candidate chains.
type TransformedVariant struct {
	root       matching.Candidate
	steps      []*Step
	attributes attr.Set
}

// Root returns the variant the chain starts from.
func (v *TransformedVariant) Root() matching.Candidate {
	return v.root
}

// Steps returns the chain's steps in application order.
func (v *TransformedVariant) Steps() []*Step {
	steps := make([]*Step, len(v.steps))
	copy(steps, v.steps)
	return steps
}

// Len returns the chain length.
func (v *TransformedVariant) Len() int {
	return len(v.steps)
}

// VariantAttributes returns the attributes of the virtual variant
// produced by the full chain: the root's attributes progressively
// overridden by each step's "to" attributes.
func (v *TransformedVariant) VariantAttributes() attr.Set {
	return v.attributes
}

// Chain returns the step actions joined in application order, e.g.
// "unzip, relocate".
func (v *TransformedVariant) Chain() string {
	actions := make([]string, len(v.steps))
	for i, s := range v.steps {
		actions[i] = s.action
	}
	return strings.Join(actions, ", ")
}

// String describes the chain with its root and final attributes.
func (v *TransformedVariant) String() string {
	var sb strings.Builder
	if named, ok := v.root.(interface{ VariantName() string }); ok {
		sb.WriteString(named.VariantName())
	} else {
		sb.WriteString(v.root.VariantAttributes().String())
	}
	sb.WriteString(" -> ")
	sb.WriteString(v.Chain())
	sb.WriteString(" => ")
	sb.WriteString(v.attributes.String())
	return sb.String()
}
