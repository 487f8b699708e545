package storefront

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterStoreTogglePersists(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewFilterStore(storage, nil)

	store.Toggle(ctx, DimensionCategory, "bridal")
	store.Toggle(ctx, DimensionPrice, "under_1000")

	// A second store over the same storage sees the persisted selection.
	reloaded := NewFilterStore(storage, nil)
	reloaded.Hydrate(ctx, "")
	sel := reloaded.Selection()
	assert.True(t, sel.Has(DimensionCategory, "bridal"))
	assert.Equal(t, []string{"under_1000"}, sel[DimensionPrice])
}

func TestFilterStoreHydrateMergesURLCategory(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	first := NewFilterStore(storage, nil)
	first.Toggle(ctx, DimensionCategory, "saree")

	second := NewFilterStore(storage, nil)
	second.Hydrate(ctx, "bridal")
	sel := second.Selection()
	assert.ElementsMatch(t, []string{"saree", "bridal"}, sel[DimensionCategory])

	// Hydrating with an already-selected category must not duplicate it.
	third := NewFilterStore(storage, nil)
	third.Hydrate(ctx, "saree")
	assert.ElementsMatch(t, []string{"saree", "bridal"}, third.Selection()[DimensionCategory])
}

func TestFilterStoreHydrateMalformedPayload(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, FilterStoreKey, "{not json"))

	store := NewFilterStore(storage, nil)
	store.Hydrate(ctx, "")
	assert.True(t, store.Selection().Empty())
}

func TestFilterStoreClear(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewFilterStore(storage, nil)

	store.Toggle(ctx, DimensionCategory, "gown")
	store.Clear(ctx)

	assert.True(t, store.Selection().Empty())
	_, found, err := storage.Get(ctx, FilterStoreKey)
	require.NoError(t, err)
	assert.False(t, found, "persisted copy should be removed")
}

func TestFilterStoreNotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	store := NewFilterStore(NewMemoryStorage(), nil)

	var seen []Selection
	store.Subscribe(func(sel Selection) {
		seen = append(seen, sel)
	})

	store.Toggle(ctx, DimensionCategory, "kurti")
	store.Clear(ctx)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Has(DimensionCategory, "kurti"))
	assert.True(t, seen[1].Empty())
}
