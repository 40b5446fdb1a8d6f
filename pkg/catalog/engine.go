package catalog

import (
	"maps"
	"math"
	"slices"

	"github.com/matst80/kitchen-catalog/pkg/types"
)

// Engine holds the filter selection for one catalog view and keeps the
// filtered product list in sync with it. Every mutator recomputes the
// filtered list before returning. An Engine is not safe for concurrent use.
type Engine struct {
	items     []types.CatalogItem
	config    types.FilterConfig
	selection types.FilterSelection
	open      map[types.GroupKey]bool
	filtered  []types.CatalogItem
}

// NewEngine starts with nothing selected and the price range set to the
// config bound. The config is kept as the reset target for the engine's lifetime.
func NewEngine(items []types.CatalogItem, config types.FilterConfig) *Engine {
	e := &Engine{
		items:     slices.Clone(items),
		config:    config,
		selection: types.NewFilterSelection(config.Price),
		open:      make(map[types.GroupKey]bool, len(types.AllGroups)),
	}
	for _, key := range types.AllGroups {
		e.open[key] = true
	}
	e.recompute()
	return e
}

func (e *Engine) recompute() {
	e.filtered = Filter(&e.selection, e.items)
}

func toggle(set types.ValueSet, value string, included bool) {
	if included {
		set[value] = struct{}{}
	} else {
		delete(set, value)
	}
}

func (e *Engine) ToggleCategory(value string, included bool) {
	toggle(e.selection.Categories, value, included)
	e.recompute()
}

func (e *Engine) ToggleIceType(value string, included bool) {
	toggle(e.selection.IceTypes, value, included)
	e.recompute()
}

// SetPriceBound moves one side of the price range. The moved side is clamped
// against the other side so the range never inverts. Values outside the
// config bound are accepted as-is. NaN is ignored since it cannot be ordered.
func (e *Engine) SetPriceBound(side types.PriceSide, value float64) {
	if math.IsNaN(value) {
		return
	}
	switch side {
	case types.PriceMin:
		e.selection.Price.Min = min(value, e.selection.Price.Max)
	case types.PriceMax:
		e.selection.Price.Max = max(value, e.selection.Price.Min)
	default:
		return
	}
	e.recompute()
}

func (e *Engine) SetInStockOnly(flag bool) {
	e.selection.InStockOnly = flag
	e.recompute()
}

// ToggleGroupOpen only affects presentation state.
func (e *Engine) ToggleGroupOpen(key types.GroupKey) {
	e.open[key] = !e.IsGroupOpen(key)
}

// Reset clears the selection back to the construction-time config.
// Open groups are left as they are.
func (e *Engine) Reset() {
	e.selection = types.NewFilterSelection(e.config.Price)
	e.recompute()
}

// ReplaceItems swaps in a new product collection wholesale.
func (e *Engine) ReplaceItems(items []types.CatalogItem) {
	e.items = slices.Clone(items)
	e.recompute()
}

func (e *Engine) IsGroupOpen(key types.GroupKey) bool {
	open, ok := e.open[key]
	return !ok || open
}

func (e *Engine) OpenGroups() map[types.GroupKey]bool {
	return maps.Clone(e.open)
}

func (e *Engine) Selection() types.FilterSelection {
	return e.selection.Clone()
}

func (e *Engine) Config() types.FilterConfig {
	return e.config
}

// Items returns the filtered products. The slice is shared and must not be modified.
func (e *Engine) Items() []types.CatalogItem {
	return e.filtered
}

func (e *Engine) Count() int {
	return len(e.filtered)
}
