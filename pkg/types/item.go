package types

// CatalogItem is one sellable product as delivered by the product sources.
// Empty Category or IceType means the attribute is absent. InStock is nil
// when the source has no stock information.
type CatalogItem struct {
	Sku      string  `json:"sku"`
	Title    string  `json:"title,omitempty"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	IceType  string  `json:"iceType,omitempty"`
	InStock  *bool   `json:"inStock,omitempty"`
}

func (i *CatalogItem) HasCategory() bool {
	return i.Category != ""
}

func (i *CatalogItem) HasIceType() bool {
	return i.IceType != ""
}

// IsInStock is a strict check, unknown stock is not in stock.
func (i *CatalogItem) IsInStock() bool {
	return i.InStock != nil && *i.InStock
}

// Stock returns a pointer usable as CatalogItem.InStock.
func Stock(v bool) *bool {
	return &v
}
