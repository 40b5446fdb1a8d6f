package catalog

import "github.com/matst80/kitchen-catalog/pkg/types"

// Match reports whether item passes every active filter in sel.
// An empty value set imposes no restriction; a non-empty one requires the
// attribute to be present and selected.
func Match(sel *types.FilterSelection, item *types.CatalogItem) bool {
	if !sel.Price.Contains(item.Price) {
		return false
	}
	if sel.InStockOnly && !item.IsInStock() {
		return false
	}
	if len(sel.Categories) > 0 && (!item.HasCategory() || !sel.Categories.Has(item.Category)) {
		return false
	}
	if len(sel.IceTypes) > 0 && (!item.HasIceType() || !sel.IceTypes.Has(item.IceType)) {
		return false
	}
	return true
}

func Filter(sel *types.FilterSelection, items []types.CatalogItem) []types.CatalogItem {
	result := make([]types.CatalogItem, 0, len(items))
	for i := range items {
		if Match(sel, &items[i]) {
			result = append(result, items[i])
		}
	}
	return result
}
