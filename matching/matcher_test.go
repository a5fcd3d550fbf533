package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/go-variantselect/attr"
)

// fakeCandidate is a minimal Candidate for matcher tests.
type fakeCandidate struct {
	name  string
	attrs attr.Set
}

func (c *fakeCandidate) VariantAttributes() attr.Set { return c.attrs }
func (c *fakeCandidate) String() string              { return c.name }

func candidate(name string, pairs ...attr.Pair) *fakeCandidate {
	return &fakeCandidate{name: name, attrs: attr.NewSet(pairs...)}
}

func names(candidates []*fakeCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

var (
	usage    = attr.StringKey("usage")
	format   = attr.StringKey("format")
	elements = attr.StringKey("libraryelements")
)

func TestIsMatching(t *testing.T) {
	schema := attr.NewSchema().SetRule(usage, attr.StaticRule{
		Compat: map[string][]string{"java-api": {"java-api-classes"}},
	})
	m := NewMatcher(schema, nil)
	requested := attr.NewSet(attr.Pair{Key: usage, Value: "java-api"})

	t.Run("equal value matches", func(t *testing.T) {
		assert.True(t, m.IsMatching(requested, attr.NewSet(attr.Pair{Key: usage, Value: "java-api"})))
	})

	t.Run("schema-compatible value matches", func(t *testing.T) {
		assert.True(t, m.IsMatching(requested, attr.NewSet(attr.Pair{Key: usage, Value: "java-api-classes"})))
	})

	t.Run("incompatible value does not match", func(t *testing.T) {
		assert.False(t, m.IsMatching(requested, attr.NewSet(attr.Pair{Key: usage, Value: "java-runtime"})))
	})

	t.Run("missing attribute is compatible by convention", func(t *testing.T) {
		assert.True(t, m.IsMatching(requested, attr.NewSet(attr.Pair{Key: format, Value: "jar"})))
	})
}

func TestMatchSingleCompatibleCandidate(t *testing.T) {
	// Given: variants {A: usage=api, B: usage=runtime}; request usage=runtime.
	// Expected: B only.
	m := NewMatcher(nil, nil)
	a := candidate("A", attr.Pair{Key: usage, Value: "java-api"})
	b := candidate("B", attr.Pair{Key: usage, Value: "java-runtime"})

	matches := Match(m, []*fakeCandidate{a, b}, attr.NewSet(attr.Pair{Key: usage, Value: "java-runtime"}))
	assert.Equal(t, []string{"B"}, names(matches))
}

func TestMatchReturnsAllAmbiguousCandidates(t *testing.T) {
	// Given: two variants matching usage=java-runtime with different
	// libraryelements values both declared compatible, and no
	// disambiguation rule.
	// Expected: both returned, in candidate order, signaling ambiguity.
	schema := attr.NewSchema().SetRule(elements, attr.StaticRule{
		Compat: map[string][]string{"classes": {"jar", "resources"}},
	})
	m := NewMatcher(schema, nil)

	a := candidate("runtimeJar", attr.Pair{Key: usage, Value: "java-runtime"}, attr.Pair{Key: elements, Value: "jar"})
	b := candidate("runtimeResources", attr.Pair{Key: usage, Value: "java-runtime"}, attr.Pair{Key: elements, Value: "resources"})
	requested := attr.NewSet(attr.Pair{Key: usage, Value: "java-runtime"}, attr.Pair{Key: elements, Value: "classes"})

	matches := Match(m, []*fakeCandidate{a, b}, requested)
	assert.Equal(t, []string{"runtimeJar", "runtimeResources"}, names(matches))
}

func TestMatchPrecedenceDisambiguates(t *testing.T) {
	// Given: both variants compatible with the requested usage, and a
	// precedence rule preferring java-api.
	// Expected: the java-api variant wins.
	schema := attr.NewSchema().SetRule(usage, attr.StaticRule{
		Compat: map[string][]string{"java-api": {"java-runtime"}},
		Order:  []string{"java-api", "java-runtime"},
	})
	m := NewMatcher(schema, nil)

	api := candidate("api", attr.Pair{Key: usage, Value: "java-api"})
	runtime := candidate("runtime", attr.Pair{Key: usage, Value: "java-runtime"})

	matches := Match(m, []*fakeCandidate{runtime, api}, attr.NewSet(attr.Pair{Key: usage, Value: "java-api"}))
	assert.Equal(t, []string{"api"}, names(matches))
}

func TestMatchPrecedenceAppliedInRequestOrder(t *testing.T) {
	// Both attributes have precedence rules; the first requested key
	// already reduces to one candidate, so the second never runs.
	schema := attr.NewSchema().
		SetRule(usage, attr.StaticRule{
			Compat: map[string][]string{"java-api": {"java-runtime"}},
			Order:  []string{"java-api"},
		}).
		SetRule(format, attr.StaticRule{
			Compat: map[string][]string{"classes": {"jar"}},
			Order:  []string{"jar", "classes"},
		})
	m := NewMatcher(schema, nil)

	a := candidate("a", attr.Pair{Key: usage, Value: "java-api"}, attr.Pair{Key: format, Value: "classes"})
	b := candidate("b", attr.Pair{Key: usage, Value: "java-runtime"}, attr.Pair{Key: format, Value: "jar"})
	requested := attr.NewSet(attr.Pair{Key: usage, Value: "java-api"}, attr.Pair{Key: format, Value: "classes"})

	matches := Match(m, []*fakeCandidate{a, b}, requested)
	assert.Equal(t, []string{"a"}, names(matches))
}

func TestMatchCandidateLackingKeySurvivesPrecedence(t *testing.T) {
	schema := attr.NewSchema().SetRule(usage, attr.StaticRule{
		Compat: map[string][]string{"java-api": {"java-runtime"}},
		Order:  []string{"java-api", "java-runtime"},
	})
	m := NewMatcher(schema, nil)

	api := candidate("api", attr.Pair{Key: usage, Value: "java-api"})
	bare := candidate("bare")

	// The bare candidate lacks the key entirely, so precedence filtering
	// keeps it, and neither candidate carries extra attributes: the
	// result stays ambiguous.
	matches := Match(m, []*fakeCandidate{api, bare}, attr.NewSet(attr.Pair{Key: usage, Value: "java-api"}))
	assert.Equal(t, []string{"api", "bare"}, names(matches))
}

func TestMatchPrefersFewestExtraAttributes(t *testing.T) {
	m := NewMatcher(nil, nil)

	exact := candidate("exact", attr.Pair{Key: usage, Value: "java-api"})
	noisy := candidate("noisy", attr.Pair{Key: usage, Value: "java-api"}, attr.Pair{Key: format, Value: "jar"})

	matches := Match(m, []*fakeCandidate{noisy, exact}, attr.NewSet(attr.Pair{Key: usage, Value: "java-api"}))
	assert.Equal(t, []string{"exact"}, names(matches))
}

func TestMatchNoCandidates(t *testing.T) {
	m := NewMatcher(nil, nil)
	matches := Match[*fakeCandidate](m, nil, attr.NewSet(attr.Pair{Key: usage, Value: "java-api"}))
	assert.Empty(t, matches)
}

func TestMatchIsDeterministic(t *testing.T) {
	schema := attr.NewSchema().SetRule(elements, attr.StaticRule{
		Compat: map[string][]string{"classes": {"jar", "resources"}},
	})
	m := NewMatcher(schema, nil)

	a := candidate("a", attr.Pair{Key: elements, Value: "jar"})
	b := candidate("b", attr.Pair{Key: elements, Value: "resources"})
	requested := attr.NewSet(attr.Pair{Key: elements, Value: "classes"})

	first := names(Match(m, []*fakeCandidate{a, b}, requested))
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, names(Match(m, []*fakeCandidate{a, b}, requested)))
	}
}

func TestMutuallyCompatible(t *testing.T) {
	schema := attr.NewSchema().SetRule(usage, attr.StaticRule{
		Compat: map[string][]string{"java-api": {"java-api-classes"}},
	})
	m := NewMatcher(schema, nil)

	t.Run("equal values agree", func(t *testing.T) {
		a := attr.NewSet(attr.Pair{Key: usage, Value: "java-api"})
		b := attr.NewSet(attr.Pair{Key: usage, Value: "java-api"})
		assert.True(t, m.MutuallyCompatible(a, b))
	})

	t.Run("compatible but unequal values agree", func(t *testing.T) {
		a := attr.NewSet(attr.Pair{Key: usage, Value: "java-api"})
		b := attr.NewSet(attr.Pair{Key: usage, Value: "java-api-classes"})
		assert.True(t, m.MutuallyCompatible(a, b))
		assert.True(t, m.MutuallyCompatible(b, a), "must be symmetric")
	})

	t.Run("contradicting values disagree", func(t *testing.T) {
		a := attr.NewSet(attr.Pair{Key: usage, Value: "java-api"})
		b := attr.NewSet(attr.Pair{Key: usage, Value: "java-runtime"})
		assert.False(t, m.MutuallyCompatible(a, b))
	})

	t.Run("disjoint keys never contradict", func(t *testing.T) {
		a := attr.NewSet(attr.Pair{Key: usage, Value: "java-api"})
		b := attr.NewSet(attr.Pair{Key: format, Value: "jar"})
		assert.True(t, m.MutuallyCompatible(a, b))
	})
}

// recordingExplanation captures explanation callbacks for assertions.
type recordingExplanation struct {
	compatible   []string
	incompatible []string
	precedence   int
}

func (r *recordingExplanation) CandidateCompatible(c Candidate, _ attr.Set) {
	r.compatible = append(r.compatible, describe(c))
}

func (r *recordingExplanation) CandidateIncompatible(c Candidate, _ attr.Key, _, _ string) {
	r.incompatible = append(r.incompatible, describe(c))
}

func (r *recordingExplanation) PrecedenceApplied(_ attr.Key, _ string, _, _ int) {
	r.precedence++
}

func TestExplanationReceivesCallbacks(t *testing.T) {
	schema := attr.NewSchema().SetRule(usage, attr.StaticRule{
		Compat: map[string][]string{"java-api": {"java-runtime"}},
		Order:  []string{"java-api", "java-runtime"},
	})
	rec := &recordingExplanation{}
	m := NewMatcher(schema, rec)

	api := candidate("api", attr.Pair{Key: usage, Value: "java-api"})
	runtime := candidate("runtime", attr.Pair{Key: usage, Value: "java-runtime"})
	other := candidate("other", attr.Pair{Key: usage, Value: "native-link"})

	matches := Match(m, []*fakeCandidate{api, runtime, other}, attr.NewSet(attr.Pair{Key: usage, Value: "java-api"}))
	require.Equal(t, []string{"api"}, names(matches))

	assert.Equal(t, []string{"api", "runtime"}, rec.compatible)
	assert.Equal(t, []string{"other"}, rec.incompatible)
	assert.Equal(t, 1, rec.precedence)
}
