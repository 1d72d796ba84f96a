// Package collector runs the per-category read-only queries. Each
// collector is independent; one failing category degrades to an empty
// list and never aborts the run.
package collector

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/cloudsweep/cloudsweep/config"
	"github.com/cloudsweep/cloudsweep/providers"
	"github.com/cloudsweep/cloudsweep/telemetry"
	"github.com/cloudsweep/cloudsweep/types"
)

// CollectionError wraps a single category's query failure.
type CollectionError struct {
	Category types.Category
	Err      error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collection failed for category %s: %v", e.Category, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Result holds one category's collector output. On failure Resources
// is empty and Err carries the CollectionError.
type Result struct {
	Category  types.Category
	Resources []types.Resource
	Err       *CollectionError
}

// Degraded reports whether this category's collection failed.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Collector fans out read-only queries across enabled categories.
type Collector struct {
	provider providers.ResourceProvider
	logger   *telemetry.Logger
}

// New creates a collector over a provider.
func New(provider providers.ResourceProvider) *Collector {
	return &Collector{
		provider: provider,
		logger:   telemetry.NewLogger("collector"),
	}
}

// Collect queries a single category, read-only and side-effect free.
func (c *Collector) Collect(ctx context.Context, category types.Category) Result {
	ctx, span := telemetry.Tracer.Start(ctx, "collect."+string(category))
	defer span.End()
	span.SetAttributes(attribute.String("category", string(category)))

	resources, err := c.provider.List(ctx, category)
	if err != nil {
		c.logger.WithContext(ctx).Warn().
			Err(err).
			Str("category", string(category)).
			Msg("collection degraded to empty")
		return Result{
			Category: category,
			Err:      &CollectionError{Category: category, Err: err},
		}
	}

	c.logger.WithContext(ctx).Info().
		Str("category", string(category)).
		Int("count", len(resources)).
		Msg("collected resources")

	return Result{Category: category, Resources: resources}
}

// CollectAll runs collectors for every enabled category concurrently.
// Collectors share no mutable state; the merge into the result map is
// the single serialized step.
func (c *Collector) CollectAll(ctx context.Context, policy config.Policy) map[types.Category]Result {
	ctx, span := telemetry.Tracer.Start(ctx, "collect.all")
	defer span.End()

	results := make(map[types.Category]Result)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, category := range policy.EnabledCategories() {
		wg.Add(1)
		go func(cat types.Category) {
			defer wg.Done()
			result := c.Collect(ctx, cat)

			mu.Lock()
			results[cat] = result
			mu.Unlock()
		}(category)
	}
	wg.Wait()

	return results
}
