package variantselect

import "errors"

// Sentinel errors for the selection failure taxonomy. The structured
// failure types in failures.go match these via errors.Is.
var (
	// ErrAmbiguousVariants indicates two or more directly-matching
	// variants satisfy the request.
	ErrAmbiguousVariants = errors.New("multiple compatible variants")

	// ErrAmbiguousTransforms indicates two or more mutually-incompatible
	// transform chains of equal minimal length satisfy the request.
	ErrAmbiguousTransforms = errors.New("multiple compatible transform chains")

	// ErrNoCompatibleVariant indicates no variant matches and no
	// transform chain exists, and an empty result was not permitted.
	ErrNoCompatibleVariant = errors.New("no compatible variant")

	// ErrUnknownSelection indicates an unexpected error during matching
	// or chain search, reported as a broken artifact set.
	ErrUnknownSelection = errors.New("variant selection failed unexpectedly")
)
