package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/kitchen-catalog/pkg/catalog"
	"github.com/matst80/kitchen-catalog/pkg/common"
	"github.com/matst80/kitchen-catalog/pkg/facet"
	"github.com/matst80/kitchen-catalog/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ProductsResponse struct {
	Items  []types.CatalogItem `json:"items"`
	Count  int                 `json:"count"`
	Config types.FilterConfig  `json:"config"`
}

// CatalogServer serves the catalog views over HTTP.
type CatalogServer struct {
	Views *catalog.ViewStore
}

// NewCatalogServer serves items; views idle longer than viewTTL are dropped.
func NewCatalogServer(items []types.CatalogItem, viewTTL time.Duration) *CatalogServer {
	return &CatalogServer{
		Views: catalog.NewViewStore(items, facet.BuildFilterConfig(items), viewTTL),
	}
}

// StartViewEviction sweeps idle views in the background until ctx is done.
func (s *CatalogServer) StartViewEviction(ctx context.Context, interval time.Duration) {
	go s.Views.RunEviction(ctx, interval, func(int) {
		liveViews.Set(float64(s.Views.Len()))
	})
}

// ReplaceCatalog installs a new product collection for all views.
func (s *CatalogServer) ReplaceCatalog(items []types.CatalogItem) {
	s.Views.ReplaceCatalog(items, facet.BuildFilterConfig(items))
	catalogReloads.Inc()
	log.Printf("catalog replaced with %d items", len(items))
}

func (s *CatalogServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/filter-config", common.JsonHandler(s.FilterConfig))
	mux.HandleFunc("GET /api/products", common.JsonHandler(s.Products))
	mux.HandleFunc("POST /api/views", common.JsonHandler(s.CreateView))
	mux.HandleFunc("GET /api/views/{id}", common.JsonHandler(s.GetView))
	mux.HandleFunc("POST /api/views/{id}/actions", common.JsonHandler(s.ApplyAction))
	mux.HandleFunc("DELETE /api/views/{id}", common.JsonHandler(s.DeleteView))
	mux.HandleFunc("OPTIONS /api/", common.RespondToOptions)
	return mux
}

func (s *CatalogServer) FilterConfig(w http.ResponseWriter, r *http.Request, enc common.Encoder) error {
	_, config := s.Views.Catalog()
	w.Header().Set("Cache-Control", "public, max-age=60")
	return enc.Encode(config)
}

func (s *CatalogServer) Products(w http.ResponseWriter, r *http.Request, enc common.Encoder) error {
	query, err := DecodeQuery(r.URL.Query())
	if err != nil {
		return common.NewHttpError(http.StatusBadRequest, err)
	}
	filterRequests.Inc()

	items, config := s.Views.Catalog()
	engine := catalog.NewEngine(items, config)
	for _, action := range query.Actions() {
		if err := engine.Apply(action); err != nil {
			return common.NewHttpError(http.StatusBadRequest, err)
		}
	}
	return enc.Encode(ProductsResponse{
		Items:  catalog.SortItems(engine.Items(), query.SortOrder()),
		Count:  engine.Count(),
		Config: config,
	})
}

func (s *CatalogServer) CreateView(w http.ResponseWriter, r *http.Request, enc common.Encoder) error {
	view := s.Views.Create()
	liveViews.Set(float64(s.Views.Len()))
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(view.State(sortFromRequest(r)))
}

func (s *CatalogServer) getView(r *http.Request) (*catalog.View, error) {
	view, err := s.Views.Get(r.PathValue("id"))
	if errors.Is(err, catalog.ErrViewNotFound) {
		return nil, common.NewHttpError(http.StatusNotFound, err)
	}
	return view, err
}

func (s *CatalogServer) GetView(w http.ResponseWriter, r *http.Request, enc common.Encoder) error {
	view, err := s.getView(r)
	if err != nil {
		return err
	}
	return enc.Encode(view.State(sortFromRequest(r)))
}

func (s *CatalogServer) ApplyAction(w http.ResponseWriter, r *http.Request, enc common.Encoder) error {
	view, err := s.getView(r)
	if err != nil {
		return err
	}
	action := catalog.Action{}
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&action); err != nil {
		return common.NewHttpError(http.StatusBadRequest, fmt.Errorf("decode action: %w", err))
	}
	err = view.Do(func(e *catalog.Engine) error {
		return e.Apply(action)
	})
	if err != nil {
		return common.NewHttpError(http.StatusBadRequest, err)
	}
	viewActions.WithLabelValues(string(action.Type)).Inc()
	return enc.Encode(view.State(sortFromRequest(r)))
}

func (s *CatalogServer) DeleteView(w http.ResponseWriter, r *http.Request, enc common.Encoder) error {
	err := s.Views.Delete(r.PathValue("id"))
	if errors.Is(err, catalog.ErrViewNotFound) {
		return common.NewHttpError(http.StatusNotFound, err)
	}
	if err != nil {
		return err
	}
	liveViews.Set(float64(s.Views.Len()))
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func sortFromRequest(r *http.Request) catalog.SortOrder {
	return catalog.ParseSortOrder(r.URL.Query().Get("sort"))
}
