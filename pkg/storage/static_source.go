package storage

import (
	"context"
	_ "embed"
	"slices"

	"github.com/matst80/kitchen-catalog/pkg/types"
)

//go:embed mock_catalog.json
var mockCatalog []byte

// StaticSource serves the bundled mock catalog, the last resort when
// neither the product API nor a disk snapshot is available.
type StaticSource struct {
	items []types.CatalogItem
	err   error
}

func NewStaticSource() *StaticSource {
	items, err := decodeItems(mockCatalog)
	return &StaticSource{items: items, err: err}
}

func NewStaticSourceFrom(items []types.CatalogItem) *StaticSource {
	return &StaticSource{items: items}
}

func (s *StaticSource) Name() string {
	return "static"
}

func (s *StaticSource) Items(ctx context.Context) ([]types.CatalogItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.items), nil
}
