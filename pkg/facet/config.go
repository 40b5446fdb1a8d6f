package facet

import "github.com/matst80/kitchen-catalog/pkg/types"

const (
	categoryLabel = "Category"
	iceTypeLabel  = "Ice Type"
)

// ShowInStockFilter is a fixed business default: the stock toggle is offered
// whether or not any item carries stock information.
const ShowInStockFilter = true

// BuildFilterConfig derives the selectable facets for a product collection.
// A facet with no values present in items is left nil.
func BuildFilterConfig(items []types.CatalogItem) types.FilterConfig {
	categories := EmptyKeyField(types.CategoryGroup, categoryLabel)
	iceTypes := EmptyKeyField(types.IceTypeGroup, iceTypeLabel)
	price := NumberRange[float64]{}

	for i := range items {
		item := &items[i]
		categories.AddValueLink(item.Category, i)
		iceTypes.AddValueLink(item.IceType, i)
		price.AddValue(item.Price)
	}

	lo, hi := price.Bounds(types.DefaultPriceMin, types.DefaultPriceMax)
	return types.FilterConfig{
		Categories:  categories.Group(),
		IceTypes:    iceTypes.Group(),
		Yield:       nil,
		Price:       types.PriceBound{Min: lo, Max: hi},
		ShowInStock: ShowInStockFilter,
	}
}
