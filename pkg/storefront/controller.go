package storefront

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period the controller waits for after a
// filter or sort change before issuing a catalog fetch.
const DefaultDebounce = 300 * time.Millisecond

// CatalogFetcher is the slice of Client the controller needs.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, q Query) (*CatalogPage, error)
}

// URLSink receives the page URL query string ("?category=bridal" or "")
// whenever the filter selection changes. Implementations should replace the
// current history entry rather than push a new one, so Back leaves the page
// instead of replaying filter states.
type URLSink func(query string)

// CatalogResult is the controller's published view of the catalog.
type CatalogResult struct {
	Items      []Product
	Pagination Pagination
	IsLoading  bool
}

// CatalogQueryController turns filter-selection and sort changes into
// debounced catalog fetches. Stale responses are discarded: each fetch
// carries a monotonically increasing sequence number, and only the most
// recently issued fetch may publish its result.
type CatalogQueryController struct {
	fetcher  CatalogFetcher
	lg       *zap.Logger
	urlSink  URLSink
	debounce time.Duration
	ctx      context.Context

	seq atomic.Uint64

	mu     sync.Mutex
	sel    Selection
	sort   string
	page   int
	timer  *time.Timer
	result CatalogResult
	subs   []func(CatalogResult)
}

// ControllerOption customizes a CatalogQueryController.
type ControllerOption func(*CatalogQueryController)

// WithDebounce overrides the debounce interval. Tests use short intervals.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *CatalogQueryController) { c.debounce = d }
}

// WithURLSink sets the page URL reflector.
func WithURLSink(sink URLSink) ControllerOption {
	return func(c *CatalogQueryController) { c.urlSink = sink }
}

// NewController builds a controller and subscribes it to the store. The
// context bounds all fetches the controller issues.
func NewController(ctx context.Context, store *FilterStore, fetcher CatalogFetcher, lg *zap.Logger, opts ...ControllerOption) *CatalogQueryController {
	if lg == nil {
		lg = zap.NewNop()
	}
	c := &CatalogQueryController{
		fetcher:  fetcher,
		lg:       lg,
		debounce: DefaultDebounce,
		ctx:      ctx,
		sel:      store.Selection(),
		sort:     SortPriceLowToHigh,
		page:     1,
		result:   CatalogResult{Pagination: emptyPagination()},
	}
	for _, opt := range opts {
		opt(c)
	}
	store.Subscribe(c.onSelectionChange)
	return c
}

// Result returns the current published catalog state.
func (c *CatalogQueryController) Result() CatalogResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Subscribe registers fn to run after every published state change.
func (c *CatalogQueryController) Subscribe(fn func(CatalogResult)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// SetSort changes the sort key and schedules a fetch from page one.
func (c *CatalogQueryController) SetSort(key string) {
	c.mu.Lock()
	c.sort = key
	c.page = 1
	c.mu.Unlock()
	c.schedule()
}

// GoToPage schedules a fetch of the given page with the current filters.
func (c *CatalogQueryController) GoToPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	c.schedule()
}

// Refresh forces an immediate fetch, bypassing the debounce. Used on page
// load after hydration.
func (c *CatalogQueryController) Refresh() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.fire()
}

// Close cancels any pending debounced fetch.
func (c *CatalogQueryController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *CatalogQueryController) onSelectionChange(sel Selection) {
	c.mu.Lock()
	c.sel = sel
	c.page = 1
	c.mu.Unlock()

	// URL reflection is immediate; only the fetch is debounced.
	if c.urlSink != nil {
		c.urlSink(PageURLQuery(sel))
	}
	c.schedule()
}

func (c *CatalogQueryController) schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.fire)
}

// fire issues one sequenced fetch. The loading flag flips before the
// request goes out so the UI can react while the fetch is in flight.
func (c *CatalogQueryController) fire() {
	seq := c.seq.Add(1)

	c.mu.Lock()
	q := Query{
		Selection: c.sel.Clone(),
		Sort:      c.sort,
		Page:      c.page,
		PageSize:  DefaultPageSize,
	}
	c.result.IsLoading = true
	snapshot := c.result
	c.mu.Unlock()
	c.publish(snapshot)

	go func() {
		page, err := c.fetcher.FetchCatalog(c.ctx, q)
		if c.seq.Load() != seq {
			// A newer fetch was issued while this one was in flight.
			return
		}

		var result CatalogResult
		switch {
		case err != nil:
			c.lg.Warn("catalog fetch failed", zap.Error(err))
			result = CatalogResult{Pagination: emptyPagination()}
		default:
			result = CatalogResult{
				Items:      page.Items,
				Pagination: resolvePagination(page, q.Page),
			}
		}

		c.mu.Lock()
		if c.seq.Load() != seq {
			c.mu.Unlock()
			return
		}
		c.result = result
		c.mu.Unlock()
		c.publish(result)
	}()
}

func (c *CatalogQueryController) publish(r CatalogResult) {
	c.mu.Lock()
	subs := append([]func(CatalogResult)(nil), c.subs...)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(r)
	}
}

func emptyPagination() Pagination {
	return Pagination{CurrentPage: 1, TotalPages: 1}
}

// resolvePagination prefers the backend's pagination block and falls back
// to deriving paging from the item count when the block is absent. The
// fallback deliberately reports the requested page rather than pinning
// page 1: the two are identical after a filter or sort change (which
// resets to page 1), and explicit page navigation keeps a truthful
// CurrentPage/HasPrev when the backend omits the block.
func resolvePagination(page *CatalogPage, current int) Pagination {
	if page.Pagination != nil {
		return *page.Pagination
	}
	n := len(page.Items)
	totalPages := (n + DefaultPageSize - 1) / DefaultPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		CurrentPage:   current,
		TotalPages:    totalPages,
		TotalProducts: n,
		HasNext:       current < totalPages,
		HasPrev:       current > 1,
	}
}
