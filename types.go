package variantselect

import (
	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/transform"
)

// Artifact identifies one artifact owned by a variant. Artifacts are
// opaque to selection: this package never opens or downloads them.
type Artifact struct {
	// Name is the artifact file name, e.g. "lib-1.0.jar".
	Name string `json:"name"`

	// Type is the artifact type, e.g. "jar". Optional.
	Type string `json:"type,omitempty"`
}

// ResolvedVariant is a named, attribute-tagged view of a producer,
// carrying zero or more artifacts. Variants are constructed once during
// graph resolution and read-only during selection.
type ResolvedVariant struct {
	// Name is the variant name, e.g. "apiElements".
	Name string `json:"name"`

	// Attributes are the attributes the variant offers.
	Attributes attr.Set `json:"-"`

	// Artifacts is the variant's ordered artifact list. May be empty.
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// VariantAttributes implements matching.Candidate.
func (v *ResolvedVariant) VariantAttributes() attr.Set {
	return v.Attributes
}

// VariantName returns the variant name for chain descriptions.
func (v *ResolvedVariant) VariantName() string {
	return v.Name
}

// String returns the variant name.
func (v *ResolvedVariant) String() string {
	return v.Name
}

// ResolvedVariantSet is the producer side of one selection: an
// already-resolved component and the variants it offers. Version
// conflict resolution happened upstream; selection only chooses among
// the variants given here.
type ResolvedVariantSet struct {
	// Name identifies the producer, e.g. "com.example:lib:1.0".
	Name string

	// Schema declares the producer's attribute rules. May be nil.
	Schema *attr.Schema

	// Variants are the producer's variants, in producer order. That
	// order is preserved throughout selection and in failure messages.
	Variants []*ResolvedVariant

	// OverriddenAttributes are producer-level attribute overrides,
	// concatenated onto every request. Disjoint from request attributes
	// by construction.
	OverriddenAttributes attr.Set
}

// ResolvedArtifactSet is the outcome of one selection. It takes exactly
// one of three shapes:
//
//   - success: Artifacts is non-empty; TransformedVariant is set when a
//     transform chain produced the result
//   - empty: no artifacts and no failure, returned when the caller
//     allowed a no-match outcome
//   - failure: Failure holds one of this package's failure types
//
// Select never propagates a raw error or panic; every outcome is a
// well-formed ResolvedArtifactSet.
type ResolvedArtifactSet struct {
	// Artifacts are the selected artifacts, in variant order.
	Artifacts []Artifact

	// SelectedVariant is the variant the artifacts come from: the direct
	// match, or the root of the applied transform chain.
	SelectedVariant *ResolvedVariant

	// TransformedVariant is the transform chain that produced the
	// result, nil for direct matches.
	TransformedVariant *transform.TransformedVariant

	// Failure is the structured selection failure, nil on success.
	Failure error
}

// Failed reports whether the selection produced a failure.
func (s ResolvedArtifactSet) Failed() bool {
	return s.Failure != nil
}

// Empty reports whether the selection succeeded with no artifacts.
func (s ResolvedArtifactSet) Empty() bool {
	return s.Failure == nil && len(s.Artifacts) == 0
}
