package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matst80/kitchen-catalog/pkg/types"
)

type SortOrder string

const (
	SortPopular   SortOrder = "popular"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortTitle     SortOrder = "title"
)

func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc, SortTitle:
		return SortOrder(s)
	}
	return SortPopular
}

// SortItems returns a sorted copy. Popular keeps the source order.
func SortItems(items []types.CatalogItem, order SortOrder) []types.CatalogItem {
	result := slices.Clone(items)
	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(result, func(a, b types.CatalogItem) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(result, func(a, b types.CatalogItem) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortTitle:
		slices.SortStableFunc(result, func(a, b types.CatalogItem) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
	return result
}
