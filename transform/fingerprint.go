package transform

import (
	"slices"
	"strings"
)

// Fingerprint is the order-independent identity of a chain's step set.
//
// Two chains whose steps have the same (from, to, action) identities
// produce equal fingerprints even when the steps are sequenced
// differently: reordering-only differences are not semantically distinct
// chains. Changing any step's attributes or action changes the
// fingerprint.
//
// Fingerprints are only meaningful between chains built within one
// selection attempt, from the same request and the same step registry.
type Fingerprint struct {
	digest string
}

// FingerprintOf computes the fingerprint of a chain.
func FingerprintOf(v *TransformedVariant) Fingerprint {
	ids := make([]string, len(v.steps))
	for i, s := range v.steps {
		ids[i] = s.identity()
	}
	slices.Sort(ids)
	// Set semantics: a step appearing twice counts once.
	ids = slices.Compact(ids)
	return Fingerprint{digest: strings.Join(ids, "|")}
}

// String returns the canonical digest underlying the fingerprint.
func (f Fingerprint) String() string {
	return f.digest
}

// DistinctByFingerprint reduces chains to one representative per
// distinct fingerprint, keeping the first chain seen for each and
// preserving the input order.
func DistinctByFingerprint(chains []*TransformedVariant) []*TransformedVariant {
	seen := make(map[Fingerprint]bool, len(chains))
	distinct := make([]*TransformedVariant, 0, len(chains))
	for _, chain := range chains {
		fp := FingerprintOf(chain)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		distinct = append(distinct, chain)
	}
	return distinct
}
