package facet

type FieldNumberValue interface {
	int | float64
}

type NumberRange[V FieldNumberValue] struct {
	Min   V   `json:"min"`
	Max   V   `json:"max"`
	Count int `json:"count"`
}

func (r *NumberRange[V]) AddValue(value V) {
	if r.Count == 0 {
		r.Min = value
		r.Max = value
	} else {
		r.Min = min(r.Min, value)
		r.Max = max(r.Max, value)
	}
	r.Count++
}

// Bounds returns the observed extents, or the fallback when nothing was added.
func (r *NumberRange[V]) Bounds(fallbackMin, fallbackMax V) (V, V) {
	if r.Count == 0 {
		return fallbackMin, fallbackMax
	}
	return r.Min, r.Max
}
