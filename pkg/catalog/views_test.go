package catalog

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matst80/kitchen-catalog/pkg/facet"
	"github.com/matst80/kitchen-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewStore_ViewsAreIsolated(t *testing.T) {
	items := twoItems()
	store := NewViewStore(items, facet.BuildFilterConfig(items), 0)
	a := store.Create()
	b := store.Create()
	require.NotEqual(t, a.Id, b.Id)

	err := a.Do(func(e *Engine) error {
		e.ToggleCategory("Accessories", true)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, a.State(SortPopular).Count)
	assert.Equal(t, 2, b.State(SortPopular).Count)
	assert.Equal(t, 2, store.Len())
}

func TestViewStore_GetAndDelete(t *testing.T) {
	store := NewViewStore(nil, facet.BuildFilterConfig(nil), 0)
	v := store.Create()

	got, err := store.Get(v.Id)
	require.NoError(t, err)
	assert.Same(t, v, got)

	require.NoError(t, store.Delete(v.Id))
	_, err = store.Get(v.Id)
	assert.True(t, errors.Is(err, ErrViewNotFound))
	assert.ErrorIs(t, store.Delete(v.Id), ErrViewNotFound)
}

func TestViewStore_ReplaceCatalog(t *testing.T) {
	items := twoItems()
	store := NewViewStore(items, facet.BuildFilterConfig(items), 0)
	v := store.Create()

	next := []types.CatalogItem{
		{Sku: "N1", Price: 800, Category: "Ice Makers"},
		{Sku: "N2", Price: 900, Category: "Ice Makers"},
		{Sku: "N3", Price: 2000, Category: "Ice Makers"},
	}
	store.ReplaceCatalog(next, facet.BuildFilterConfig(next))

	state := v.State(SortPopular)
	assert.Equal(t, []string{"N1", "N2"}, skus(state.Items), "live view keeps its price range")

	fresh := store.Create().State(SortPopular)
	assert.Equal(t, 3, fresh.Count)
	assert.Equal(t, types.PriceBound{Min: 800, Max: 2000}, fresh.Selection.Price)
}

func TestViewStore_ConcurrentActions(t *testing.T) {
	items := twoItems()
	store := NewViewStore(items, facet.BuildFilterConfig(items), 0)
	v := store.Create()

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = v.Do(func(e *Engine) error {
				return e.Apply(Action{Type: SetInStockOnlyAction, Flag: i%2 == 0})
			})
		}(i)
	}
	wg.Wait()

	state := v.State(SortPopular)
	if state.Selection.InStockOnly {
		assert.Equal(t, 1, state.Count)
	} else {
		assert.Equal(t, 2, state.Count)
	}
}

func TestViewStore_EvictIdle(t *testing.T) {
	items := twoItems()
	store := NewViewStore(items, facet.BuildFilterConfig(items), time.Minute)
	clock := time.Unix(1700000000, 0)
	store.now = func() time.Time { return clock }

	active := store.Create()
	idle := store.Create()

	clock = clock.Add(40 * time.Second)
	active.State(SortPopular)
	clock = clock.Add(30 * time.Second)

	assert.Equal(t, 1, store.EvictIdle())
	_, err := store.Get(idle.Id)
	assert.ErrorIs(t, err, ErrViewNotFound)
	_, err = store.Get(active.Id)
	assert.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	store.Create()
	assert.Equal(t, 1, store.Len(), "create drops idle views")
}

func TestViewStore_ReplaceDoesNotRefreshIdleViews(t *testing.T) {
	items := twoItems()
	store := NewViewStore(items, facet.BuildFilterConfig(items), time.Minute)
	clock := time.Unix(1700000000, 0)
	store.now = func() time.Time { return clock }
	store.Create()

	clock = clock.Add(50 * time.Second)
	store.ReplaceCatalog(items, facet.BuildFilterConfig(items))
	clock = clock.Add(20 * time.Second)
	assert.Equal(t, 1, store.EvictIdle())
}

func TestViewStore_ZeroTTLKeepsViews(t *testing.T) {
	store := NewViewStore(nil, facet.BuildFilterConfig(nil), 0)
	clock := time.Unix(1700000000, 0)
	store.now = func() time.Time { return clock }
	store.Create()
	clock = clock.Add(24 * time.Hour)
	assert.Equal(t, 0, store.EvictIdle())
	assert.Equal(t, 1, store.Len())
}

func TestViewStore_ConcurrentReplaceEndsOnLatest(t *testing.T) {
	items := twoItems()
	store := NewViewStore(items, facet.BuildFilterConfig(items), 0)
	views := make([]*View, 10)
	for i := range views {
		views[i] = store.Create()
	}

	catalogs := make([][]types.CatalogItem, 20)
	for i := range catalogs {
		catalogs[i] = []types.CatalogItem{{Sku: fmt.Sprintf("R%d", i), Price: 100}}
	}
	wg := sync.WaitGroup{}
	for _, next := range catalogs {
		wg.Add(1)
		go func(next []types.CatalogItem) {
			defer wg.Done()
			store.ReplaceCatalog(next, facet.BuildFilterConfig(next))
		}(next)
	}
	wg.Wait()

	latest, _ := store.Catalog()
	for _, v := range views {
		_ = v.Do(func(e *Engine) error {
			assert.Equal(t, latest, e.items, "view %s", v.Id)
			return nil
		})
	}
}

func TestAction_Validate(t *testing.T) {
	cases := []struct {
		action Action
		valid  bool
	}{
		{Action{Type: ToggleCategoryAction, Value: "Ice Makers", Included: true}, true},
		{Action{Type: ToggleCategoryAction}, false},
		{Action{Type: ToggleIceTypeAction, Value: "Cube"}, true},
		{Action{Type: SetPriceBoundAction, Side: types.PriceMax, Price: 10}, true},
		{Action{Type: SetPriceBoundAction, Side: "both"}, false},
		{Action{Type: SetPriceBoundAction, Side: types.PriceMax, Price: math.NaN()}, false},
		{Action{Type: SetPriceBoundAction, Side: types.PriceMin, Price: math.Inf(-1)}, false},
		{Action{Type: SetInStockOnlyAction}, true},
		{Action{Type: ToggleGroupOpenAction, Group: types.PriceGroup}, true},
		{Action{Type: ToggleGroupOpenAction}, false},
		{Action{Type: ResetAction}, true},
		{Action{Type: "explode"}, false},
	}
	for _, c := range cases {
		err := c.action.Validate()
		if c.valid && err != nil {
			t.Errorf("Expected %+v to be valid, got %v", c.action, err)
		}
		if !c.valid && !errors.Is(err, ErrInvalidAction) {
			t.Errorf("Expected %+v to be invalid, got %v", c.action, err)
		}
	}
}

func TestEngine_ApplySequence(t *testing.T) {
	e := newEngine(twoItems())
	actions := []Action{
		{Type: ToggleCategoryAction, Value: "Ice Makers", Included: true},
		{Type: ToggleCategoryAction, Value: "Accessories", Included: true},
		{Type: SetPriceBoundAction, Side: types.PriceMin, Price: 1000},
		{Type: ToggleGroupOpenAction, Group: types.StockGroup},
	}
	for _, a := range actions {
		require.NoError(t, e.Apply(a))
	}
	assert.Equal(t, []string{"X2"}, skus(e.Items()))
	assert.False(t, e.IsGroupOpen(types.StockGroup))

	require.NoError(t, e.Apply(Action{Type: ResetAction}))
	assert.Equal(t, 2, e.Count())
	assert.Error(t, e.Apply(Action{Type: "bogus"}))
}

func TestSortItems(t *testing.T) {
	items := []types.CatalogItem{
		{Sku: "b", Title: "Bin", Price: 300},
		{Sku: "a", Title: "auger", Price: 100},
		{Sku: "c", Title: "Cuber", Price: 200},
	}
	assert.Equal(t, []string{"b", "a", "c"}, skus(SortItems(items, SortPopular)))
	assert.Equal(t, []string{"a", "c", "b"}, skus(SortItems(items, SortPriceAsc)))
	assert.Equal(t, []string{"b", "c", "a"}, skus(SortItems(items, SortPriceDesc)))
	assert.Equal(t, []string{"a", "b", "c"}, skus(SortItems(items, SortTitle)))
	assert.Equal(t, []string{"b", "a", "c"}, skus(items), "input is untouched")

	assert.Equal(t, SortPriceAsc, ParseSortOrder("price-asc"))
	assert.Equal(t, SortPopular, ParseSortOrder("whatever"))
}
