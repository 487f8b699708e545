package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher records queries and serves canned responses. The optional
// gate channel lets a test hold a fetch in flight.
type fakeFetcher struct {
	mu      sync.Mutex
	queries []Query
	respond func(q Query) (*CatalogPage, error)
	gate    chan struct{}
}

func (f *fakeFetcher) FetchCatalog(_ context.Context, q Query) (*CatalogPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	respond := f.respond
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if respond != nil {
		return respond(q)
	}
	return &CatalogPage{}, nil
}

func (f *fakeFetcher) calls() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Query(nil), f.queries...)
}

func waitForResult(t *testing.T, results <-chan CatalogResult, pred func(CatalogResult) bool) CatalogResult {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case r := <-results:
			if pred(r) {
				return r
			}
		case <-deadline:
			t.Fatal("timed out waiting for catalog result")
		}
	}
}

func newTestController(t *testing.T, fetcher CatalogFetcher, opts ...ControllerOption) (*FilterStore, *CatalogQueryController, <-chan CatalogResult) {
	t.Helper()
	store := NewFilterStore(NewMemoryStorage(), nil)
	opts = append([]ControllerOption{WithDebounce(10 * time.Millisecond)}, opts...)
	ctrl := NewController(context.Background(), store, fetcher, nil, opts...)
	t.Cleanup(ctrl.Close)

	results := make(chan CatalogResult, 32)
	ctrl.Subscribe(func(r CatalogResult) { results <- r })
	return store, ctrl, results
}

func TestControllerDebouncesRapidChanges(t *testing.T) {
	fetcher := &fakeFetcher{}
	store, _, results := newTestController(t, fetcher)

	ctx := context.Background()
	store.Toggle(ctx, DimensionCategory, "bridal")
	store.Toggle(ctx, DimensionCategory, "saree")
	store.Toggle(ctx, DimensionPrice, "under_1000")

	waitForResult(t, results, func(r CatalogResult) bool { return !r.IsLoading })

	calls := fetcher.calls()
	require.Len(t, calls, 1, "three rapid toggles must collapse into one fetch")
	q := calls[0]
	assert.ElementsMatch(t, []string{"bridal", "saree"}, q.Selection[DimensionCategory])
	assert.Equal(t, []string{"under_1000"}, q.Selection[DimensionPrice])
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
}

func TestControllerReflectsURLImmediately(t *testing.T) {
	fetcher := &fakeFetcher{}
	var mu sync.Mutex
	var urls []string
	sink := func(query string) {
		mu.Lock()
		urls = append(urls, query)
		mu.Unlock()
	}
	store, _, _ := newTestController(t, fetcher, WithURLSink(sink))

	ctx := context.Background()
	store.Toggle(ctx, DimensionCategory, "bridal")
	store.Toggle(ctx, DimensionCategory, "bridal")

	mu.Lock()
	defer mu.Unlock()
	// Every change reflects, even ones the debounce later collapses.
	require.Equal(t, []string{"?category=bridal", ""}, urls)
}

func TestControllerDiscardsStaleResponse(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &fakeFetcher{
		gate: gate,
		respond: func(q Query) (*CatalogPage, error) {
			if q.Selection.Has(DimensionCategory, "bridal") {
				return &CatalogPage{Items: []Product{{ID: "stale"}}}, nil
			}
			return &CatalogPage{Items: []Product{{ID: "fresh"}}}, nil
		},
	}
	store, ctrl, results := newTestController(t, fetcher, WithDebounce(time.Hour))

	ctx := context.Background()
	store.Toggle(ctx, DimensionCategory, "bridal")
	ctrl.Refresh() // first fetch, held at the gate

	store.Toggle(ctx, DimensionCategory, "bridal") // back to empty selection
	ctrl.Refresh()                                 // second fetch, also gated

	// Release both in-flight fetches; only the second may publish.
	close(gate)

	r := waitForResult(t, results, func(r CatalogResult) bool {
		return !r.IsLoading && len(r.Items) > 0
	})
	assert.Equal(t, "fresh", r.Items[0].ID)

	// The stale result must never surface afterwards.
	select {
	case r := <-results:
		if len(r.Items) > 0 {
			assert.Equal(t, "fresh", r.Items[0].ID)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestControllerFetchFailureYieldsEmptyState(t *testing.T) {
	fetcher := &fakeFetcher{
		respond: func(Query) (*CatalogPage, error) {
			return nil, errors.New("backend down")
		},
	}
	_, ctrl, results := newTestController(t, fetcher)

	ctrl.Refresh()
	r := waitForResult(t, results, func(r CatalogResult) bool { return !r.IsLoading })

	assert.Empty(t, r.Items)
	assert.Equal(t, Pagination{CurrentPage: 1, TotalPages: 1}, r.Pagination)
}

func TestControllerFallbackPagination(t *testing.T) {
	items := make([]Product, 45)
	fetcher := &fakeFetcher{
		respond: func(Query) (*CatalogPage, error) {
			return &CatalogPage{Items: items}, nil
		},
	}
	_, ctrl, results := newTestController(t, fetcher)

	ctrl.Refresh()
	r := waitForResult(t, results, func(r CatalogResult) bool { return !r.IsLoading })

	assert.Equal(t, 3, r.Pagination.TotalPages)
	assert.Equal(t, 45, r.Pagination.TotalProducts)
	assert.Equal(t, 1, r.Pagination.CurrentPage)
	assert.True(t, r.Pagination.HasNext)
	assert.False(t, r.Pagination.HasPrev)

	// Explicit navigation carries the requested page into the fallback block.
	ctrl.GoToPage(2)
	r = waitForResult(t, results, func(r CatalogResult) bool { return !r.IsLoading })
	assert.Equal(t, 2, r.Pagination.CurrentPage)
	assert.True(t, r.Pagination.HasNext)
	assert.True(t, r.Pagination.HasPrev)
}

func TestControllerPrefersBackendPagination(t *testing.T) {
	fetcher := &fakeFetcher{
		respond: func(Query) (*CatalogPage, error) {
			return &CatalogPage{
				Items:      []Product{{ID: "p1"}},
				Pagination: &Pagination{CurrentPage: 2, TotalPages: 9, TotalProducts: 170, HasNext: true, HasPrev: true},
			}, nil
		},
	}
	_, ctrl, results := newTestController(t, fetcher)

	ctrl.GoToPage(2)
	r := waitForResult(t, results, func(r CatalogResult) bool { return !r.IsLoading })

	assert.Equal(t, 9, r.Pagination.TotalPages)
	assert.Equal(t, 170, r.Pagination.TotalProducts)
}

func TestControllerLoadingFlag(t *testing.T) {
	gate := make(chan struct{})
	fetcher := &fakeFetcher{gate: gate}
	_, ctrl, results := newTestController(t, fetcher)

	ctrl.Refresh()
	r := waitForResult(t, results, func(r CatalogResult) bool { return r.IsLoading })
	assert.True(t, r.IsLoading)

	close(gate)
	r = waitForResult(t, results, func(r CatalogResult) bool { return !r.IsLoading })
	assert.False(t, r.IsLoading)
}
