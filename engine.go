package variantselect

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/go-variantselect/attr"
)

// SelectionRequest pairs a producer with the attributes requested from
// it.
type SelectionRequest struct {
	// Producer offers the variants to select among.
	Producer *ResolvedVariantSet

	// Requested are the consumer's requested attributes.
	Requested attr.Set

	// AllowNoMatch permits an empty result instead of a
	// no-compatible-variant failure.
	AllowNoMatch bool
}

// Engine runs selections for many independent producers concurrently,
// one logical selection per request. All shared data (variant sets,
// schemas, the transform registry) is read-only, so requests need no
// coordination beyond the worker limit.
type Engine struct {
	selector *Selector
	workers  int
	logger   *zap.Logger
}

// NewEngine returns an engine wrapping the given selector. WithWorkers
// bounds the concurrency; WithLogger sets the engine's logger.
func NewEngine(selector *Selector, opts ...Option) (*Engine, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{
		selector: selector,
		workers:  cfg.workers,
		logger:   cfg.logger,
	}, nil
}

// SelectAll resolves every request and returns the results in request
// order, regardless of scheduling. Individual selection failures are
// carried inside their ResolvedArtifactSet; SelectAll itself only fails
// when the context is canceled before all requests complete.
func (e *Engine) SelectAll(ctx context.Context, requests []SelectionRequest) ([]ResolvedArtifactSet, error) {
	results := make([]ResolvedArtifactSet, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.selector.Select(req.Producer, req.Requested, req.AllowNoMatch)
			if results[i].Failed() {
				e.logger.Debug("selection failed",
					zap.String("producer", req.Producer.Name),
					zap.Error(results[i].Failure),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
