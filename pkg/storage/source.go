package storage

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/matst80/kitchen-catalog/pkg/types"
)

var (
	ErrNoItems  = errors.New("no items")
	ErrNotFound = errors.New("not found")
)

// Source delivers a complete product collection.
type Source interface {
	Name() string
	Items(ctx context.Context) ([]types.CatalogItem, error)
}

// FallbackSource asks each source in order and returns the first non-empty
// result. Failures are logged and joined if no source delivers.
type FallbackSource struct {
	Sources []Source
}

func NewFallbackSource(sources ...Source) *FallbackSource {
	return &FallbackSource{Sources: sources}
}

func (f *FallbackSource) Name() string {
	return "fallback"
}

func (f *FallbackSource) Items(ctx context.Context) ([]types.CatalogItem, error) {
	errs := make([]error, 0, len(f.Sources))
	for _, src := range f.Sources {
		if src == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := src.Items(ctx)
		if err == nil && len(items) == 0 {
			err = ErrNoItems
		}
		if err != nil {
			log.Printf("catalog source %s failed: %v", src.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		log.Printf("loaded %d items from %s", len(items), src.Name())
		return items, nil
	}
	if len(errs) == 0 {
		return nil, ErrNoItems
	}
	return nil, errors.Join(errs...)
}
