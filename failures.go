package variantselect

import (
	"fmt"
	"strings"

	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/transform"
)

// AmbiguousVariantsFailure reports that two or more producer variants
// directly satisfy the request. Not recoverable automatically: the
// request must be refined or the schema given a disambiguation rule.
type AmbiguousVariantsFailure struct {
	// Producer is the producer's display name.
	Producer string

	// Requested are the attributes that matched more than once.
	Requested attr.Set

	// Matches are the matching variants, in producer order.
	Matches []*ResolvedVariant
}

func (e *AmbiguousVariantsFailure) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "more than one variant of %s matches the consumer attributes %s:",
		e.Producer, e.Requested)
	for _, v := range e.Matches {
		fmt.Fprintf(&sb, "\n  - %s %s", v.Name, v.Attributes)
	}
	return sb.String()
}

func (e *AmbiguousVariantsFailure) Is(target error) bool {
	return target == ErrAmbiguousVariants
}

// AmbiguousTransformsFailure reports that two or more transform chains
// of equal minimal length satisfy the request and could not be reduced
// to one.
type AmbiguousTransformsFailure struct {
	// Producer is the producer's display name.
	Producer string

	// Requested are the attributes the chains compete for.
	Requested attr.Set

	// Chains are the competing chains, in finder order.
	Chains []*transform.TransformedVariant
}

func (e *AmbiguousTransformsFailure) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "found multiple transformation chains that produce a variant of %s with requested attributes %s:",
		e.Producer, e.Requested)
	for _, c := range e.Chains {
		fmt.Fprintf(&sb, "\n  - %s", c)
	}
	return sb.String()
}

func (e *AmbiguousTransformsFailure) Is(target error) bool {
	return target == ErrAmbiguousTransforms
}

// NoCompatibleVariantFailure reports that no variant matches the request
// directly and no transform chain can produce a match, while the caller
// did not permit an empty result.
type NoCompatibleVariantFailure struct {
	// Producer is the producer's display name.
	Producer string

	// Requested are the attributes nothing satisfied.
	Requested attr.Set

	// Candidates are all variants that were considered, in producer
	// order.
	Candidates []*ResolvedVariant
}

func (e *NoCompatibleVariantFailure) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no variant of %s matches the consumer attributes %s", e.Producer, e.Requested)
	if len(e.Candidates) > 0 {
		sb.WriteString("; considered:")
		for _, v := range e.Candidates {
			fmt.Fprintf(&sb, "\n  - %s %s", v.Name, v.Attributes)
		}
	}
	return sb.String()
}

func (e *NoCompatibleVariantFailure) Is(target error) bool {
	return target == ErrNoCompatibleVariant
}

// UnknownSelectionFailure wraps an unexpected error raised during
// matching or chain search. Selection converts such errors into a broken
// artifact set instead of crashing the whole resolution.
type UnknownSelectionFailure struct {
	// Producer is the producer's display name.
	Producer string

	// Requested are the attributes being selected when the error
	// occurred.
	Requested attr.Set

	// Cause is the triggering error.
	Cause error
}

func (e *UnknownSelectionFailure) Error() string {
	return fmt.Sprintf("could not select a variant of %s matching %s: %v",
		e.Producer, e.Requested, e.Cause)
}

func (e *UnknownSelectionFailure) Unwrap() error {
	return e.Cause
}

func (e *UnknownSelectionFailure) Is(target error) bool {
	return target == ErrUnknownSelection
}

// FailureHandler constructs the structured failures surfaced by
// selection. Message text is owned here, keeping failure reports
// identical across call sites, runs, and machines.
type FailureHandler struct{}

// NewFailureHandler returns the default failure handler.
func NewFailureHandler() *FailureHandler {
	return &FailureHandler{}
}

// AmbiguousVariants builds the failure for >1 directly-matching
// variants.
func (h *FailureHandler) AmbiguousVariants(producer *ResolvedVariantSet, requested attr.Set, matches []*ResolvedVariant) error {
	return &AmbiguousVariantsFailure{
		Producer:  producer.Name,
		Requested: requested,
		Matches:   matches,
	}
}

// AmbiguousTransforms builds the failure for >1 surviving transform
// chains.
func (h *FailureHandler) AmbiguousTransforms(producer *ResolvedVariantSet, requested attr.Set, chains []*transform.TransformedVariant) error {
	return &AmbiguousTransformsFailure{
		Producer:  producer.Name,
		Requested: requested,
		Chains:    chains,
	}
}

// NoCompatibleVariant builds the failure for zero matches and zero
// chains.
func (h *FailureHandler) NoCompatibleVariant(producer *ResolvedVariantSet, requested attr.Set, candidates []*ResolvedVariant) error {
	return &NoCompatibleVariantFailure{
		Producer:   producer.Name,
		Requested:  requested,
		Candidates: candidates,
	}
}

// Unknown wraps an unexpected error.
func (h *FailureHandler) Unknown(producer *ResolvedVariantSet, requested attr.Set, cause error) error {
	return &UnknownSelectionFailure{
		Producer:  producer.Name,
		Requested: requested,
		Cause:     cause,
	}
}
