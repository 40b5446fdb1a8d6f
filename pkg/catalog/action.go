package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/matst80/kitchen-catalog/pkg/types"
)

type ActionType string

const (
	ToggleCategoryAction  ActionType = "toggleCategory"
	ToggleIceTypeAction   ActionType = "toggleIceType"
	SetPriceBoundAction   ActionType = "setPriceBound"
	SetInStockOnlyAction  ActionType = "setInStockOnly"
	ToggleGroupOpenAction ActionType = "toggleGroupOpen"
	ResetAction           ActionType = "reset"
)

var ErrInvalidAction = errors.New("invalid action")

// Action is the wire form of a single engine operation.
type Action struct {
	Type     ActionType      `json:"type"`
	Value    string          `json:"value,omitempty"`
	Included bool            `json:"included,omitempty"`
	Side     types.PriceSide `json:"side,omitempty"`
	Price    float64         `json:"price,omitempty"`
	Flag     bool            `json:"flag,omitempty"`
	Group    types.GroupKey  `json:"group,omitempty"`
}

func (a *Action) Validate() error {
	switch a.Type {
	case ToggleCategoryAction, ToggleIceTypeAction:
		if a.Value == "" {
			return fmt.Errorf("%w: %s requires a value", ErrInvalidAction, a.Type)
		}
	case SetPriceBoundAction:
		if a.Side != types.PriceMin && a.Side != types.PriceMax {
			return fmt.Errorf("%w: unknown price side %q", ErrInvalidAction, a.Side)
		}
		if !IsFinitePrice(a.Price) {
			return fmt.Errorf("%w: price must be a finite number", ErrInvalidAction)
		}
	case ToggleGroupOpenAction:
		if a.Group == "" {
			return fmt.Errorf("%w: toggleGroupOpen requires a group", ErrInvalidAction)
		}
	case SetInStockOnlyAction, ResetAction:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}
	return nil
}

func IsFinitePrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (e *Engine) Apply(a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	switch a.Type {
	case ToggleCategoryAction:
		e.ToggleCategory(a.Value, a.Included)
	case ToggleIceTypeAction:
		e.ToggleIceType(a.Value, a.Included)
	case SetPriceBoundAction:
		e.SetPriceBound(a.Side, a.Price)
	case SetInStockOnlyAction:
		e.SetInStockOnly(a.Flag)
	case ToggleGroupOpenAction:
		e.ToggleGroupOpen(a.Group)
	case ResetAction:
		e.Reset()
	}
	return nil
}
