package variantselect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/albertocavalcante/go-variantselect/matching"
	"github.com/albertocavalcante/go-variantselect/transform"
)

// DefaultWorkers is the engine's default concurrency limit.
const DefaultWorkers = 8

// Option configures a Selector or Engine.
type Option func(*config) error

// config holds all selection configuration.
type config struct {
	maxChainLength int
	workers        int
	logger         *zap.Logger
	explain        matching.Explanation
	transformer    ArtifactTransformer
	failures       *FailureHandler
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		maxChainLength: transform.DefaultMaxChainLength,
		workers:        DefaultWorkers,
		logger:         zap.NewNop(),
		transformer:    PassthroughTransformer{},
		failures:       NewFailureHandler(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithMaxChainLength bounds the transform chain search depth. The bound
// guarantees a selection call completes in bounded time; a runaway
// search is a registry defect, not a legitimate slow path.
func WithMaxChainLength(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("max chain length must be at least 1, got %d", n)
		}
		c.maxChainLength = n
		return nil
	}
}

// WithWorkers sets the engine's concurrency limit for batch selection.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("workers must be at least 1, got %d", n)
		}
		c.workers = n
		return nil
	}
}

// WithLogger sets the structured logger for debug output. The default
// discards all output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithExplanation sets the matcher explanation hook. Use
// matching.LogExplanation to route explanations to a logger.
func WithExplanation(explain matching.Explanation) Option {
	return func(c *config) error {
		c.explain = explain
		return nil
	}
}

// WithTransformer sets the collaborator that materializes a selected
// transform chain. The default returns the root variant's artifacts
// unchanged, recording the chain.
func WithTransformer(t ArtifactTransformer) Option {
	return func(c *config) error {
		if t == nil {
			return fmt.Errorf("transformer must not be nil")
		}
		c.transformer = t
		return nil
	}
}

// WithFailureHandler replaces the failure handler collaborator.
func WithFailureHandler(h *FailureHandler) Option {
	return func(c *config) error {
		if h == nil {
			return fmt.Errorf("failure handler must not be nil")
		}
		c.failures = h
		return nil
	}
}
