package server

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/matst80/kitchen-catalog/pkg/catalog"
	"github.com/matst80/kitchen-catalog/pkg/types"
)

// FilterQuery is the query string form of a filter selection, e.g.
// ?category=Ice+Makers&ice=Cube&ice=Flake&min=100&max=900&stock=true&sort=price-asc
type FilterQuery struct {
	Categories []string `schema:"category"`
	IceTypes   []string `schema:"ice"`
	Min        *float64 `schema:"min"`
	Max        *float64 `schema:"max"`
	InStock    bool     `schema:"stock"`
	Sort       string   `schema:"sort,default:popular"`
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func DecodeQuery(query url.Values) (*FilterQuery, error) {
	result := &FilterQuery{}
	if err := decoder.Decode(result, query); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// Validate rejects prices the engine cannot order, ParseFloat accepts NaN and Inf.
func (q *FilterQuery) Validate() error {
	if q.Min != nil && !catalog.IsFinitePrice(*q.Min) {
		return fmt.Errorf("min must be a finite number, got %v", *q.Min)
	}
	if q.Max != nil && !catalog.IsFinitePrice(*q.Max) {
		return fmt.Errorf("max must be a finite number, got %v", *q.Max)
	}
	return nil
}

// Actions translates the query into engine operations. The low bound is
// applied before the high bound.
func (q *FilterQuery) Actions() []catalog.Action {
	actions := make([]catalog.Action, 0, len(q.Categories)+len(q.IceTypes)+3)
	for _, c := range q.Categories {
		if c != "" {
			actions = append(actions, catalog.Action{Type: catalog.ToggleCategoryAction, Value: c, Included: true})
		}
	}
	for _, i := range q.IceTypes {
		if i != "" {
			actions = append(actions, catalog.Action{Type: catalog.ToggleIceTypeAction, Value: i, Included: true})
		}
	}
	if q.Min != nil {
		actions = append(actions, catalog.Action{Type: catalog.SetPriceBoundAction, Side: types.PriceMin, Price: *q.Min})
	}
	if q.Max != nil {
		actions = append(actions, catalog.Action{Type: catalog.SetPriceBoundAction, Side: types.PriceMax, Price: *q.Max})
	}
	if q.InStock {
		actions = append(actions, catalog.Action{Type: catalog.SetInStockOnlyAction, Flag: true})
	}
	return actions
}

func (q *FilterQuery) SortOrder() catalog.SortOrder {
	return catalog.ParseSortOrder(q.Sort)
}
