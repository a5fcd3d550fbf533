package variantselect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/matching"
	"github.com/albertocavalcante/go-variantselect/transform"
)

// ArtifactTransformer materializes the artifacts produced by applying a
// selected transform chain to its root variant. Execution of the actual
// transforms (and its caching and concurrency) lives in a separate
// component; selection only hands over the winning chain.
type ArtifactTransformer interface {
	AsTransformed(root *ResolvedVariant, chain *transform.TransformedVariant) ResolvedArtifactSet
}

// PassthroughTransformer is the default ArtifactTransformer. It returns
// the root variant's artifacts unchanged and records the chain on the
// result, leaving execution to downstream components.
type PassthroughTransformer struct{}

// AsTransformed implements ArtifactTransformer.
func (PassthroughTransformer) AsTransformed(root *ResolvedVariant, chain *transform.TransformedVariant) ResolvedArtifactSet {
	artifacts := make([]Artifact, len(root.Artifacts))
	copy(artifacts, root.Artifacts)
	return ResolvedArtifactSet{
		Artifacts:          artifacts,
		SelectedVariant:    root,
		TransformedVariant: chain,
	}
}

// Selector selects a producer's variant for a requested attribute set,
// falling back to transform chain search when no variant matches
// directly.
//
// A selector is read-only after construction and safe for concurrent
// use; the engine issues many Select calls in parallel across
// independent producers.
type Selector struct {
	consumerSchema *attr.Schema
	registry       *transform.Registry
	maxChainLength int
	transformer    ArtifactTransformer
	failures       *FailureHandler
	explain        matching.Explanation
	logger         *zap.Logger
}

// NewSelector returns a selector for a consumer schema and a frozen
// transform registry. Either may be nil: a nil schema matches by
// equality only, a nil registry disables transform chains.
func NewSelector(consumerSchema *attr.Schema, registry *transform.Registry, opts ...Option) (*Selector, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	if registry == nil {
		registry = new(transform.RegistryBuilder).Build()
	}
	return &Selector{
		consumerSchema: consumerSchema,
		registry:       registry,
		maxChainLength: cfg.maxChainLength,
		transformer:    cfg.transformer,
		failures:       cfg.failures,
		explain:        cfg.explain,
		logger:         cfg.logger,
	}, nil
}

// Select chooses the producer's artifacts for the requested attributes.
//
// Exactly one directly-matching variant wins immediately. More than one
// is an ambiguity failure. Zero triggers the transform chain search,
// whose candidates are disambiguated down to one chain or reported as
// ambiguous. With no candidates at all the result is empty when
// allowNoMatch is set, a no-compatible-variant failure otherwise.
//
// Select never panics and never returns a raw error: any unexpected
// failure is captured as a broken artifact set carrying an
// UnknownSelectionFailure.
func (s *Selector) Select(producer *ResolvedVariantSet, requested attr.Set, allowNoMatch bool) (result ResolvedArtifactSet) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			result = ResolvedArtifactSet{Failure: s.failures.Unknown(producer, requested, cause)}
		}
	}()
	return s.doSelect(producer, requested, allowNoMatch)
}

func (s *Selector) doSelect(producer *ResolvedVariantSet, requested attr.Set, allowNoMatch bool) ResolvedArtifactSet {
	matcher := matching.NewMatcher(attr.MergeSchemas(s.consumerSchema, producer.Schema), s.explain)
	componentRequested := requested.Concat(producer.OverriddenAttributes)

	matches := matching.Match(matcher, producer.Variants, componentRequested)
	if len(matches) == 1 {
		winner := matches[0]
		s.logger.Debug("variant matched directly",
			zap.String("producer", producer.Name),
			zap.String("variant", winner.Name),
			zap.Stringer("requested", componentRequested),
		)
		artifacts := make([]Artifact, len(winner.Artifacts))
		copy(artifacts, winner.Artifacts)
		return ResolvedArtifactSet{Artifacts: artifacts, SelectedVariant: winner}
	}
	if len(matches) > 1 {
		return ResolvedArtifactSet{Failure: s.failures.AmbiguousVariants(producer, componentRequested, matches)}
	}

	// No direct match. Attempt to construct transform chains that
	// produce a compatible variant.
	roots := make([]matching.Candidate, len(producer.Variants))
	for i, v := range producer.Variants {
		roots[i] = v
	}
	finder := transform.NewChainFinder(s.registry, matcher, s.maxChainLength)
	chains := finder.FindTransformedVariants(roots, componentRequested)

	if len(chains) > 1 {
		reduced, failure := s.disambiguate(matcher, producer, componentRequested, chains)
		if failure != nil {
			return ResolvedArtifactSet{Failure: failure}
		}
		chains = reduced
	}

	if len(chains) == 1 {
		chain := chains[0]
		root, ok := chain.Root().(*ResolvedVariant)
		if !ok {
			return ResolvedArtifactSet{Failure: s.failures.Unknown(producer, componentRequested,
				fmt.Errorf("transform chain root is %T, not a resolved variant", chain.Root()))}
		}
		s.logger.Debug("transform chain selected",
			zap.String("producer", producer.Name),
			zap.String("root", root.Name),
			zap.String("chain", chain.Chain()),
		)
		return s.transformer.AsTransformed(root, chain)
	}

	if allowNoMatch {
		return ResolvedArtifactSet{}
	}
	return ResolvedArtifactSet{Failure: s.failures.NoCompatibleVariant(producer, componentRequested, producer.Variants)}
}

// disambiguate reduces candidate chains to a single winner, or returns
// the ambiguity failure.
//
// The matcher's disambiguation rules run first over the chains' final
// attribute sets. If several chains survive, the last survivor becomes
// the pivot (an arbitrary, non-semantic choice kept stable for
// deterministic failure messages). Survivors mutually compatible with
// the pivot agree with it and are discarded; survivors that are not
// represent genuinely different outcomes and are kept alongside it.
func (s *Selector) disambiguate(
	matcher *matching.Matcher,
	producer *ResolvedVariantSet,
	requested attr.Set,
	chains []*transform.TransformedVariant,
) ([]*transform.TransformedVariant, error) {
	matches := matching.Match(matcher, chains, requested)
	if len(matches) == 1 {
		return matches, nil
	}

	pivot := matches[len(matches)-1]
	kept := []*transform.TransformedVariant{pivot}
	for _, candidate := range matches[:len(matches)-1] {
		if !matcher.MutuallyCompatible(candidate.VariantAttributes(), pivot.VariantAttributes()) {
			kept = append(kept, candidate)
		}
	}

	if len(kept) > 1 {
		return nil, s.failures.AmbiguousTransforms(producer, requested, chains)
	}

	// Every other candidate agreed with the arbitrarily chosen pivot.
	// That is only safe when the candidates are resequencings of one
	// transformation: chains with distinct fingerprints reached the same
	// destination through different semantic paths, which stays an
	// ambiguity.
	distinct := transform.DistinctByFingerprint(matches)
	if len(distinct) > 1 {
		return nil, s.failures.AmbiguousTransforms(producer, requested, distinct)
	}
	return kept, nil
}
