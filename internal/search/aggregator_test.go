package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/config"
)

// fakeProvider returns canned results per keyword set and records every call.
type fakeProvider struct {
	mu        sync.Mutex
	textCalls []string
	newsCalls []string

	textResults []schemas.SearchResult
	newsResults []schemas.SearchResult
	textErr     error
	newsErr     error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	delay       time.Duration
}

func (f *fakeProvider) track() func() {
	cur := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	time.Sleep(f.delay)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeProvider) TextSearch(ctx context.Context, keywords string, maxResults int) ([]schemas.SearchResult, error) {
	defer f.track()()
	f.mu.Lock()
	f.textCalls = append(f.textCalls, keywords)
	f.mu.Unlock()
	if f.textErr != nil {
		return nil, f.textErr
	}
	return f.textResults, nil
}

func (f *fakeProvider) NewsSearch(ctx context.Context, keywords string, maxResults int) ([]schemas.SearchResult, error) {
	defer f.track()()
	f.mu.Lock()
	f.newsCalls = append(f.newsCalls, keywords)
	f.mu.Unlock()
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	return f.newsResults, nil
}

var _ schemas.SearchProvider = (*fakeProvider)(nil)

func newTestAggregator(provider schemas.SearchProvider, poolSize int) *Aggregator {
	return NewAggregator(provider, config.SearchConfig{
		PoolSize:   poolSize,
		LeakSuffix: "data leak breach",
	}, zap.NewNop())
}

func TestSearchAllCategories(t *testing.T) {
	provider := &fakeProvider{
		textResults: []schemas.SearchResult{{Title: "t", Href: "h"}},
		newsResults: []schemas.SearchResult{{Title: "n", Href: "h2"}},
	}
	agg := newTestAggregator(provider, 4)

	batches := agg.Search(context.Background(), "acme", schemas.AllCategories, 5)

	require.Len(t, batches, 3)
	assert.Len(t, batches[schemas.CategoryWeb].Results, 1)
	assert.Len(t, batches[schemas.CategoryNews].Results, 1)
	assert.Len(t, batches[schemas.CategoryLeaked].Results, 1)
	for category, batch := range batches {
		assert.Equal(t, category, batch.Category)
		assert.Equal(t, 5, batch.Requested)
	}
}

func TestSearchLeakedAppendsSuffix(t *testing.T) {
	provider := &fakeProvider{}
	agg := newTestAggregator(provider, 4)

	agg.Search(context.Background(), "acme", []schemas.Category{schemas.CategoryLeaked}, 5)

	require.Len(t, provider.textCalls, 1)
	assert.Equal(t, "acme data leak breach", provider.textCalls[0])
}

func TestSearchCategoryFailureDegrades(t *testing.T) {
	provider := &fakeProvider{
		textResults: []schemas.SearchResult{{Title: "t", Href: "h"}},
		newsErr:     errors.New("feed down"),
	}
	agg := newTestAggregator(provider, 4)

	batches := agg.Search(context.Background(), "acme",
		[]schemas.Category{schemas.CategoryWeb, schemas.CategoryNews}, 5)

	assert.NotEmpty(t, batches[schemas.CategoryWeb].Results)
	assert.Empty(t, batches[schemas.CategoryNews].Results)
	assert.Equal(t, schemas.CategoryNews, batches[schemas.CategoryNews].Category)
}

func TestSearchRespectsPoolSize(t *testing.T) {
	provider := &fakeProvider{delay: 20 * time.Millisecond}
	agg := newTestAggregator(provider, 1)

	agg.Search(context.Background(), "acme", schemas.AllCategories, 5)

	assert.Equal(t, int32(1), provider.maxInFlight.Load())
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{}
	agg := newTestAggregator(provider, 0)

	batches := agg.Search(ctx, "acme", []schemas.Category{schemas.CategoryWeb}, 5)
	assert.Empty(t, batches[schemas.CategoryWeb].Results)
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Sites", CategoryLabel(schemas.CategoryWeb))
	assert.Equal(t, "Notícias", CategoryLabel(schemas.CategoryNews))
	assert.Equal(t, "Dados Vazados", CategoryLabel(schemas.CategoryLeaked))
}

func TestShortfallNotice(t *testing.T) {
	full := schemas.Batch{
		Category:  schemas.CategoryWeb,
		Requested: 1,
		Results:   []schemas.SearchResult{{Title: "t"}},
	}
	assert.Empty(t, ShortfallNotice(full, "acme"))

	short := schemas.Batch{Category: schemas.CategoryNews, Requested: 5}
	assert.Equal(t,
		"Apenas 0 resultados encontrados para 'acme' em Notícias.",
		ShortfallNotice(short, "acme"))
}
