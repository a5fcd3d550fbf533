package variantselect

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/albertocavalcante/go-variantselect/attr"
	"github.com/albertocavalcante/go-variantselect/transform"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEngineSelectAllPreservesRequestOrder(t *testing.T) {
	// Many independent producers resolved concurrently; the results come
	// back in request order regardless of scheduling.
	s := newSelector(t, nil, nil)
	engine, err := NewEngine(s, WithWorkers(4))
	require.NoError(t, err)

	const n = 32
	requests := make([]SelectionRequest, n)
	for i := range requests {
		value := fmt.Sprintf("v%d", i)
		requests[i] = SelectionRequest{
			Producer: producerOf(fmt.Sprintf("producer-%d", i), nil,
				variant(fmt.Sprintf("variant-%d", i), set(attr.Pair{Key: usage, Value: value}), fmt.Sprintf("artifact-%d.jar", i)),
			),
			Requested: set(attr.Pair{Key: usage, Value: value}),
		}
	}

	results, err := engine.SelectAll(context.Background(), requests)
	require.NoError(t, err)
	require.Len(t, results, n)
	for i, result := range results {
		require.False(t, result.Failed(), "request %d failed: %v", i, result.Failure)
		assert.Equal(t, fmt.Sprintf("artifact-%d.jar", i), result.Artifacts[0].Name)
	}
}

func TestEngineCarriesPerRequestFailures(t *testing.T) {
	s := newSelector(t, nil, nil)
	engine, err := NewEngine(s)
	require.NoError(t, err)

	requests := []SelectionRequest{
		{
			Producer:  producerOf("ok", nil, variant("api", set(attr.Pair{Key: usage, Value: "java-api"}), "api.jar")),
			Requested: set(attr.Pair{Key: usage, Value: "java-api"}),
		},
		{
			Producer:  producerOf("missing", nil, variant("api", set(attr.Pair{Key: usage, Value: "java-api"}), "api.jar")),
			Requested: set(attr.Pair{Key: usage, Value: "native-link"}),
		},
		{
			Producer:     producerOf("tolerated", nil, variant("api", set(attr.Pair{Key: usage, Value: "java-api"}), "api.jar")),
			Requested:    set(attr.Pair{Key: usage, Value: "native-link"}),
			AllowNoMatch: true,
		},
	}

	results, err := engine.SelectAll(context.Background(), requests)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
	assert.True(t, results[2].Empty())
}

// countingTransformer tracks concurrent materializations to observe the
// engine's worker limit.
type countingTransformer struct {
	active atomic.Int32
	peak   atomic.Int32
}

func (c *countingTransformer) AsTransformed(root *ResolvedVariant, chain *transform.TransformedVariant) ResolvedArtifactSet {
	n := c.active.Add(1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	c.active.Add(-1)
	return PassthroughTransformer{}.AsTransformed(root, chain)
}

func TestEngineRespectsWorkerLimit(t *testing.T) {
	counter := &countingTransformer{}
	registry := new(transform.RegistryBuilder).
		Register("paint", set(attr.Pair{Key: color, Value: "blue"}), set(attr.Pair{Key: color, Value: "red"})).
		Build()
	s := newSelector(t, nil, registry, WithTransformer(counter))

	engine, err := NewEngine(s, WithWorkers(2))
	require.NoError(t, err)

	requests := make([]SelectionRequest, 16)
	for i := range requests {
		requests[i] = SelectionRequest{
			Producer:  producerOf(fmt.Sprintf("producer-%d", i), nil, variant("blue", set(attr.Pair{Key: color, Value: "blue"}), "blue.bin")),
			Requested: set(attr.Pair{Key: color, Value: "red"}),
		}
	}

	results, err := engine.SelectAll(context.Background(), requests)
	require.NoError(t, err)
	for _, result := range results {
		require.False(t, result.Failed())
	}
	assert.LessOrEqual(t, counter.peak.Load(), int32(2))
}

func TestEngineCanceledContext(t *testing.T) {
	s := newSelector(t, nil, nil)
	engine, err := NewEngine(s)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	requests := []SelectionRequest{{
		Producer:  producerOf("p", nil, variant("api", set(attr.Pair{Key: usage, Value: "java-api"}), "api.jar")),
		Requested: set(attr.Pair{Key: usage, Value: "java-api"}),
	}}

	_, err = engine.SelectAll(ctx, requests)
	assert.ErrorIs(t, err, context.Canceled)
}
