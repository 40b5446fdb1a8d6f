package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/kitchen-catalog/pkg/catalog"
	"github.com/matst80/kitchen-catalog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []types.CatalogItem {
	return []types.CatalogItem{
		{Sku: "X1", Title: "Cuber", Price: 500, Category: "Ice Makers", IceType: "Cube", InStock: types.Stock(true)},
		{Sku: "X2", Title: "Scoop", Price: 1500, Category: "Accessories", InStock: types.Stock(false)},
		{Sku: "X3", Title: "Nugget", Price: 900, Category: "Ice Makers", IceType: "Nugget"},
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[V any](t *testing.T, rec *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func responseSkus(items []types.CatalogItem) []string {
	ret := make([]string, len(items))
	for i, item := range items {
		ret[i] = item.Sku
	}
	return ret
}

func TestDecodeQuery(t *testing.T) {
	q, err := DecodeQuery(url.Values{
		"category": {"Ice Makers", "Accessories"},
		"ice":      {"Cube"},
		"min":      {"100"},
		"stock":    {"true"},
		"unknown":  {"x"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ice Makers", "Accessories"}, q.Categories)
	assert.Equal(t, []string{"Cube"}, q.IceTypes)
	require.NotNil(t, q.Min)
	assert.Equal(t, 100.0, *q.Min)
	assert.Nil(t, q.Max)
	assert.True(t, q.InStock)
	assert.Equal(t, catalog.SortPopular, q.SortOrder())
	assert.Len(t, q.Actions(), 5)

	_, err = DecodeQuery(url.Values{"min": {"cheap"}})
	assert.Error(t, err)

	for _, bad := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		_, err = DecodeQuery(url.Values{"max": {bad}})
		assert.Error(t, err, "max=%s", bad)
		_, err = DecodeQuery(url.Values{"min": {bad}})
		assert.Error(t, err, "min=%s", bad)
	}
}

func TestFilterConfigEndpoint(t *testing.T) {
	h := NewCatalogServer(testItems(), time.Minute).Handler()
	rec := do(t, h, http.MethodGet, "/api/filter-config", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := decode[types.FilterConfig](t, rec)
	require.NotNil(t, cfg.Categories)
	opt, ok := cfg.Categories.Option("Ice Makers")
	assert.True(t, ok)
	assert.Equal(t, 2, opt.Count)
	require.NotNil(t, cfg.IceTypes)
	assert.Nil(t, cfg.Yield)
	assert.Equal(t, types.PriceBound{Min: 500, Max: 1500}, cfg.Price)
	assert.True(t, cfg.ShowInStock)
}

func TestProductsEndpoint(t *testing.T) {
	h := NewCatalogServer(testItems(), time.Minute).Handler()

	res := decode[ProductsResponse](t, do(t, h, http.MethodGet, "/api/products", ""))
	assert.Equal(t, 3, res.Count)

	res = decode[ProductsResponse](t, do(t, h, http.MethodGet, "/api/products?category=Ice+Makers&sort=price-desc", ""))
	assert.Equal(t, []string{"X3", "X1"}, responseSkus(res.Items))

	res = decode[ProductsResponse](t, do(t, h, http.MethodGet, "/api/products?stock=true", ""))
	assert.Equal(t, []string{"X1"}, responseSkus(res.Items))

	res = decode[ProductsResponse](t, do(t, h, http.MethodGet, "/api/products?min=600&max=1000", ""))
	assert.Equal(t, []string{"X3"}, responseSkus(res.Items))

	rec := do(t, h, http.MethodGet, "/api/products?max=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products?max=NaN", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products?min=-Inf&max=Inf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestViewLifecycle(t *testing.T) {
	srv := NewCatalogServer(testItems(), time.Minute)
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/views", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decode[catalog.ViewState](t, rec)
	require.NotEmpty(t, state.Id)
	assert.Equal(t, 3, state.Count)
	assert.True(t, state.OpenGroups[types.CategoryGroup])

	path := "/api/views/" + state.Id
	rec = do(t, h, http.MethodPost, path+"/actions", `{"type":"toggleCategory","value":"Ice Makers","included":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state = decode[catalog.ViewState](t, rec)
	assert.Equal(t, []string{"X1", "X3"}, responseSkus(state.Items))
	assert.Equal(t, []string{"Ice Makers"}, state.Selection.Categories.Values())

	rec = do(t, h, http.MethodPost, path+"/actions", `{"type":"setPriceBound","side":"max","price":100}`)
	state = decode[catalog.ViewState](t, rec)
	assert.Equal(t, types.PriceBound{Min: 500, Max: 500}, state.Selection.Price)
	assert.Equal(t, []string{"X1"}, responseSkus(state.Items))

	rec = do(t, h, http.MethodPost, path+"/actions", `{"type":"toggleGroupOpen","group":"price"}`)
	state = decode[catalog.ViewState](t, rec)
	assert.False(t, state.OpenGroups[types.PriceGroup])

	rec = do(t, h, http.MethodPost, path+"/actions", `{"type":"reset"}`)
	state = decode[catalog.ViewState](t, rec)
	assert.Equal(t, 3, state.Count)
	assert.Empty(t, state.Selection.Categories)
	assert.False(t, state.OpenGroups[types.PriceGroup])

	rec = do(t, h, http.MethodPost, path+"/actions", `{"type":"launch"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, path+"/actions", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, path+"?sort=title", "")
	state = decode[catalog.ViewState](t, rec)
	assert.Equal(t, []string{"X1", "X3", "X2"}, responseSkus(state.Items))

	rec = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodPost, path+"/actions", `{"type":"reset"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReplaceCatalogReachesLiveViews(t *testing.T) {
	srv := NewCatalogServer(testItems(), time.Minute)
	h := srv.Handler()
	state := decode[catalog.ViewState](t, do(t, h, http.MethodPost, "/api/views", ""))

	srv.ReplaceCatalog([]types.CatalogItem{{Sku: "N1", Price: 700, Category: "Dispensers"}})

	state = decode[catalog.ViewState](t, do(t, h, http.MethodGet, "/api/views/"+state.Id, ""))
	assert.Equal(t, []string{"N1"}, responseSkus(state.Items))

	cfg := decode[types.FilterConfig](t, do(t, h, http.MethodGet, "/api/filter-config", ""))
	assert.Equal(t, types.PriceBound{Min: 700, Max: 700}, cfg.Price)
	assert.Nil(t, cfg.IceTypes)
}

func TestIdleViewsAreEvicted(t *testing.T) {
	srv := NewCatalogServer(testItems(), 10*time.Millisecond)
	h := srv.Handler()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.StartViewEviction(ctx, 5*time.Millisecond)

	state := decode[catalog.ViewState](t, do(t, h, http.MethodPost, "/api/views", ""))
	require.Eventually(t, func() bool {
		return srv.Views.Len() == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/views/"+state.Id, "").Code)
}

func TestHealth(t *testing.T) {
	rec := do(t, NewCatalogServer(nil, time.Minute).Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
