// Package transform implements artifact transform chain discovery and
// chain identity for variant selection.
//
// A transform step declares that artifacts carrying its "from" attributes
// can be converted into artifacts carrying its "to" attributes. When no
// producer variant directly satisfies a request, the chain finder
// searches ordered sequences of registered steps that carry a variant's
// attributes to a compatible state. Chain execution is out of scope: the
// step's action token identifies the transform, it does not run it.
package transform

import (
	"strings"

	"github.com/albertocavalcante/go-variantselect/attr"
)

// Step is one registered transformation. Steps are immutable, registered
// once at configuration time, and shared by reference across chain
// searches.
type Step struct {
	action string
	from   attr.Set
	to     attr.Set
}

// NewStep returns a step for the named action that requires the from
// attributes and produces the to attributes.
func NewStep(action string, from, to attr.Set) *Step {
	return &Step{action: action, from: from, to: to}
}

// Action returns the identifying action token. Two steps with the same
// action and attribute sets are the same transformation.
func (s *Step) Action() string {
	return s.action
}

// From returns the partial attribute set the step requires.
func (s *Step) From() attr.Set {
	return s.from
}

// To returns the partial attribute set the step produces.
func (s *Step) To() attr.Set {
	return s.to
}

// String returns a display form like "unzip (format=jar -> format=classes)".
func (s *Step) String() string {
	var sb strings.Builder
	sb.WriteString(s.action)
	sb.WriteString(" (")
	sb.WriteString(trimBraces(s.from.String()))
	sb.WriteString(" -> ")
	sb.WriteString(trimBraces(s.to.String()))
	sb.WriteByte(')')
	return sb.String()
}

// identity returns the step's order-independent identity used by
// fingerprinting: the canonical (from, to, action) triple.
func (s *Step) identity() string {
	return s.from.Canonical() + ">" + s.to.Canonical() + "@" + s.action
}

func trimBraces(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
}

// RegistryBuilder accumulates transform registrations. Registration
// order is preserved and determines the search order of the chain
// finder, which keeps results deterministic.
type RegistryBuilder struct {
	steps []*Step
}

// Register adds a step converting from into to via the named action.
func (b *RegistryBuilder) Register(action string, from, to attr.Set) *RegistryBuilder {
	b.steps = append(b.steps, NewStep(action, from, to))
	return b
}

// Build freezes the registrations into an immutable Registry. The
// builder can keep accumulating steps afterwards without affecting built
// registries.
func (b *RegistryBuilder) Build() *Registry {
	steps := make([]*Step, len(b.steps))
	copy(steps, b.steps)
	return &Registry{steps: steps}
}

// Registry is an immutable snapshot of registered transform steps,
// handed to the chain finder at the start of a resolution pass. Safe for
// concurrent use.
type Registry struct {
	steps []*Step
}

// Steps returns the registered steps in registration order.
func (r *Registry) Steps() []*Step {
	steps := make([]*Step, len(r.steps))
	copy(steps, r.steps)
	return steps
}

// Len returns the number of registered steps.
func (r *Registry) Len() int {
	return len(r.steps)
}
