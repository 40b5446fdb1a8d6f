package types

import (
	"maps"
	"slices"
)

type GroupKey string

const (
	CategoryGroup GroupKey = "category"
	IceTypeGroup  GroupKey = "iceType"
	YieldGroup    GroupKey = "yield"
	PriceGroup    GroupKey = "price"
	StockGroup    GroupKey = "stock"
)

var AllGroups = []GroupKey{CategoryGroup, IceTypeGroup, YieldGroup, PriceGroup, StockGroup}

type PriceSide string

const (
	PriceMin PriceSide = "min"
	PriceMax PriceSide = "max"
)

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 1700
)

type FacetOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetGroup is the set of options for one facet. A nil *FacetGroup in a
// FilterConfig means the group should not be rendered at all.
type FacetGroup struct {
	Key     GroupKey      `json:"key"`
	Label   string        `json:"label"`
	Options []FacetOption `json:"options"`
}

func (g *FacetGroup) Option(value string) (FacetOption, bool) {
	if g == nil {
		return FacetOption{}, false
	}
	for _, o := range g.Options {
		if o.Value == value {
			return o, true
		}
	}
	return FacetOption{}, false
}

type PriceBound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (p PriceBound) Contains(v float64) bool {
	return v >= p.Min && v <= p.Max
}

type FilterConfig struct {
	Categories  *FacetGroup `json:"categories,omitempty"`
	IceTypes    *FacetGroup `json:"iceTypes,omitempty"`
	Yield       *FacetGroup `json:"yield,omitempty"`
	Price       PriceBound  `json:"priceRange"`
	ShowInStock bool        `json:"inStock"`
}

// ValueSet is a set of selected facet values.
type ValueSet map[string]struct{}

func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s ValueSet) Values() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s ValueSet) MarshalJSON() ([]byte, error) {
	return marshalStrings(s.Values())
}

func (s *ValueSet) UnmarshalJSON(data []byte) error {
	values, err := unmarshalStrings(data)
	if err != nil {
		return err
	}
	*s = make(ValueSet, len(values))
	for _, v := range values {
		(*s)[v] = struct{}{}
	}
	return nil
}

type FilterSelection struct {
	Categories  ValueSet   `json:"categories"`
	IceTypes    ValueSet   `json:"iceTypes"`
	Price       PriceBound `json:"priceRange"`
	InStockOnly bool       `json:"inStockOnly"`
}

func NewFilterSelection(price PriceBound) FilterSelection {
	return FilterSelection{
		Categories: ValueSet{},
		IceTypes:   ValueSet{},
		Price:      price,
	}
}

func (s FilterSelection) Clone() FilterSelection {
	return FilterSelection{
		Categories:  maps.Clone(s.Categories),
		IceTypes:    maps.Clone(s.IceTypes),
		Price:       s.Price,
		InStockOnly: s.InStockOnly,
	}
}
