// File: internal/search/aggregator.go
package search

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
)

// Aggregator fans an investigation query out to the requested categories and
// joins the batches. Category fetches run concurrently through a worker pool
// that is shared across ALL in-flight investigations, capping total outbound
// search pressure under load.
//
// A failing category degrades to an empty batch with a logged warning; it
// never aborts its siblings and no error escapes Search.
type Aggregator struct {
	provider   schemas.SearchProvider
	pool       *semaphore.Weighted
	leakSuffix string
	logger     *zap.Logger
}

// NewAggregator builds an aggregator over the given provider.
func NewAggregator(provider schemas.SearchProvider, cfg config.SearchConfig, logger *zap.Logger) *Aggregator {
	poolSize := int64(cfg.PoolSize)
	if poolSize < 1 {
		poolSize = 1
	}
	return &Aggregator{
		provider:   provider,
		pool:       semaphore.NewWeighted(poolSize),
		leakSuffix: cfg.LeakSuffix,
		logger:     logger.Named("aggregator"),
	}
}

// Search fetches every requested category concurrently and returns one batch
// per category. All categories finish (successfully or empty) before Search
// returns; there is no partial-result short-circuit.
func (a *Aggregator) Search(ctx context.Context, query string, categories []schemas.Category, maxResults int) map[schemas.Category]schemas.Batch {
	batches := make(map[schemas.Category]schemas.Batch, len(categories))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, category := range categories {
		wg.Add(1)
		go func(category schemas.Category) {
			defer wg.Done()
			batch := a.fetchCategory(ctx, query, category, maxResults)
			mu.Lock()
			batches[category] = batch
			mu.Unlock()
		}(category)
	}
	wg.Wait()

	return batches
}

// fetchCategory runs one category through the shared pool.
func (a *Aggregator) fetchCategory(ctx context.Context, query string, category schemas.Category, maxResults int) schemas.Batch {
	batch := schemas.Batch{Category: category, Requested: maxResults}

	if err := a.pool.Acquire(ctx, 1); err != nil {
		a.logger.Warn("Category fetch cancelled before dispatch",
			zap.String("category", string(category)),
			zap.Error(err))
		return batch
	}
	defer a.pool.Release(1)

	var results []schemas.SearchResult
	var err error
	switch category {
	case schemas.CategoryNews:
		results, err = a.provider.NewsSearch(ctx, query, maxResults)
	case schemas.CategoryLeaked:
		// Keyword-suffix approximation of a leak-focused search; there is
		// no dedicated breach feed behind this.
		results, err = a.provider.TextSearch(ctx, query+" "+a.leakSuffix, maxResults)
	default:
		results, err = a.provider.TextSearch(ctx, query, maxResults)
	}

	if err != nil {
		a.logger.Warn("Category search failed, substituting empty batch",
			zap.String("category", string(category)),
			zap.String("query", query),
			zap.Error(err))
		return batch
	}

	batch.Results = results
	return batch
}

// CategoryLabel returns the display name of a category.
func CategoryLabel(c schemas.Category) string {
	switch c {
	case schemas.CategoryNews:
		return "Notícias"
	case schemas.CategoryLeaked:
		return "Dados Vazados"
	default:
		return "Sites"
	}
}

// ShortfallNotice renders the short-result warning for an underfilled batch,
// or "" when the batch is full.
func ShortfallNotice(b schemas.Batch, query string) string {
	if !b.Short() {
		return ""
	}
	return fmt.Sprintf("Apenas %d resultados encontrados para '%s' em %s.",
		len(b.Results), query, CategoryLabel(b.Category))
}
