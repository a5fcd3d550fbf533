package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/go-variantselect/attr"
)

func chainOf(steps ...*Step) *TransformedVariant {
	attrs := attr.Set{}
	for _, s := range steps {
		attrs = attrs.Concat(s.To())
	}
	return &TransformedVariant{
		root:       &fakeRoot{name: "root"},
		steps:      steps,
		attributes: attrs,
	}
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	x := attr.StringKey("x")
	y := attr.StringKey("y")
	a := NewStep("bumpX", attr.Set{}, attr.NewSet(attr.Pair{Key: x, Value: "1"}))
	b := NewStep("bumpY", attr.Set{}, attr.NewSet(attr.Pair{Key: y, Value: "1"}))

	assert.Equal(t, FingerprintOf(chainOf(a, b)), FingerprintOf(chainOf(b, a)))
}

func TestFingerprintOrderIndependentForAllPermutations(t *testing.T) {
	k := func(name string) attr.Set { return attr.NewSet(attr.Pair{Key: attr.StringKey(name), Value: "1"}) }
	a := NewStep("a", attr.Set{}, k("a"))
	b := NewStep("b", attr.Set{}, k("b"))
	c := NewStep("c", attr.Set{}, k("c"))

	want := FingerprintOf(chainOf(a, b, c))
	permutations := [][]*Step{
		{a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	for _, p := range permutations {
		assert.Equal(t, want, FingerprintOf(chainOf(p...)))
	}
}

func TestFingerprintIsContentSensitive(t *testing.T) {
	from := attr.NewSet(attr.Pair{Key: color, Value: "blue"})
	to := attr.NewSet(attr.Pair{Key: color, Value: "red"})
	base := FingerprintOf(chainOf(NewStep("paint", from, to)))

	t.Run("different action", func(t *testing.T) {
		other := FingerprintOf(chainOf(NewStep("dye", from, to)))
		assert.NotEqual(t, base, other)
	})

	t.Run("different from attributes", func(t *testing.T) {
		other := FingerprintOf(chainOf(NewStep("paint", attr.NewSet(attr.Pair{Key: color, Value: "green"}), to)))
		assert.NotEqual(t, base, other)
	})

	t.Run("different to attributes", func(t *testing.T) {
		other := FingerprintOf(chainOf(NewStep("paint", from, attr.NewSet(attr.Pair{Key: color, Value: "crimson"}))))
		assert.NotEqual(t, base, other)
	})

	t.Run("extra step", func(t *testing.T) {
		extra := NewStep("polish", to, attr.NewSet(attr.Pair{Key: attr.StringKey("finish"), Value: "gloss"}))
		other := FingerprintOf(chainOf(NewStep("paint", from, to), extra))
		assert.NotEqual(t, base, other)
	})
}

func TestFingerprintSharedStepsByReference(t *testing.T) {
	// Steps are registered once and shared by reference; the same *Step
	// in two different chains contributes the same identity.
	step := NewStep("paint", attr.NewSet(attr.Pair{Key: color, Value: "blue"}), attr.NewSet(attr.Pair{Key: color, Value: "red"}))
	assert.Equal(t, FingerprintOf(chainOf(step)), FingerprintOf(chainOf(step)))
}

func TestDistinctByFingerprint(t *testing.T) {
	x := attr.StringKey("x")
	y := attr.StringKey("y")
	a := NewStep("bumpX", attr.Set{}, attr.NewSet(attr.Pair{Key: x, Value: "1"}))
	b := NewStep("bumpY", attr.Set{}, attr.NewSet(attr.Pair{Key: y, Value: "1"}))
	c := NewStep("reset", attr.Set{}, attr.NewSet(attr.Pair{Key: x, Value: "0"}))

	ab := chainOf(a, b)
	ba := chainOf(b, a)
	ac := chainOf(a, c)

	distinct := DistinctByFingerprint([]*TransformedVariant{ab, ba, ac})

	// ab and ba are resequencings of the same transformation; the first
	// seen is the representative. ac is genuinely different.
	require.Len(t, distinct, 2)
	assert.Same(t, ab, distinct[0])
	assert.Same(t, ac, distinct[1])
}
