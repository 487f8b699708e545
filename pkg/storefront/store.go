package storefront

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// FilterStoreKey is the storage key a FilterStore persists its selection
// under.
const FilterStoreKey = "filters"

// FilterStore owns the durable filter selection for one storefront session.
// Every mutation persists synchronously to the injected Storage before
// subscribers are notified, so a page reload always observes the latest
// selection. Persistence failures are logged and otherwise ignored: the
// in-memory selection stays authoritative for the running session.
type FilterStore struct {
	storage Storage
	lg      *zap.Logger

	mu   sync.Mutex
	sel  Selection
	subs []func(Selection)
}

func NewFilterStore(storage Storage, lg *zap.Logger) *FilterStore {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &FilterStore{
		storage: storage,
		lg:      lg,
		sel:     Selection{},
	}
}

// Hydrate loads the persisted selection from storage. Missing or malformed
// payloads yield an empty selection. When urlCategory is non-empty it is
// merged additively into the category dimension, so a landing link like
// ?category=saree preselects that category on top of whatever the session
// already had. Subscribers are notified with the hydrated selection.
func (f *FilterStore) Hydrate(ctx context.Context, urlCategory string) {
	sel := Selection{}
	raw, found, err := f.storage.Get(ctx, FilterStoreKey)
	if err != nil {
		f.lg.Warn("filter storage read failed", zap.Error(err))
	} else if found {
		if err := json.Unmarshal([]byte(raw), &sel); err != nil {
			f.lg.Warn("discarding malformed persisted filters", zap.Error(err))
			sel = Selection{}
		}
	}
	if urlCategory != "" && !sel.Has(DimensionCategory, urlCategory) {
		sel[DimensionCategory] = append(sel[DimensionCategory], urlCategory)
	}

	f.mu.Lock()
	f.sel = sel
	snapshot := f.sel.Clone()
	f.mu.Unlock()

	f.persist(ctx, snapshot)
	f.notify(snapshot)
}

// Toggle flips one option in one dimension, persists, and notifies.
func (f *FilterStore) Toggle(ctx context.Context, dimension, option string) {
	f.mu.Lock()
	f.sel.Toggle(dimension, option)
	snapshot := f.sel.Clone()
	f.mu.Unlock()

	f.persist(ctx, snapshot)
	f.notify(snapshot)
}

// Clear resets the selection to empty and removes the persisted copy.
func (f *FilterStore) Clear(ctx context.Context) {
	f.mu.Lock()
	f.sel = Selection{}
	f.mu.Unlock()

	if err := f.storage.Remove(ctx, FilterStoreKey); err != nil {
		f.lg.Warn("filter storage remove failed", zap.Error(err))
	}
	f.notify(Selection{})
}

// Selection returns a snapshot of the current selection.
func (f *FilterStore) Selection() Selection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sel.Clone()
}

// Subscribe registers fn to run synchronously after every selection change,
// with a snapshot of the new selection.
func (f *FilterStore) Subscribe(fn func(Selection)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
}

func (f *FilterStore) persist(ctx context.Context, sel Selection) {
	raw, err := json.Marshal(sel)
	if err != nil {
		f.lg.Warn("filter selection marshal failed", zap.Error(err))
		return
	}
	if err := f.storage.Set(ctx, FilterStoreKey, string(raw)); err != nil {
		f.lg.Warn("filter storage write failed", zap.Error(err))
	}
}

func (f *FilterStore) notify(sel Selection) {
	f.mu.Lock()
	subs := append([]func(Selection)(nil), f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(sel.Clone())
	}
}
