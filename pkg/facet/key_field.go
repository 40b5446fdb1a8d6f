package facet

import "github.com/matst80/kitchen-catalog/pkg/types"

// ItemList holds positions into the source collection.
type ItemList []int

type KeyField struct {
	Key   types.GroupKey
	Label string
	Keys  map[string]ItemList
	order []string
}

// AddValueLink records that the item at position idx carries value.
// Empty values are absent attributes and are not linked.
func (f *KeyField) AddValueLink(value string, idx int) bool {
	if value == "" {
		return false
	}
	ids, ok := f.Keys[value]
	if !ok {
		f.order = append(f.order, value)
	}
	f.Keys[value] = append(ids, idx)
	return true
}

func (f *KeyField) Count(value string) int {
	return len(f.Keys[value])
}

// Group returns nil when no value was ever linked. Options keep first-seen order.
func (f *KeyField) Group() *types.FacetGroup {
	if len(f.Keys) == 0 {
		return nil
	}
	options := make([]types.FacetOption, 0, len(f.order))
	for _, value := range f.order {
		options = append(options, types.FacetOption{
			Label: value,
			Value: value,
			Count: f.Count(value),
		})
	}
	return &types.FacetGroup{
		Key:     f.Key,
		Label:   f.Label,
		Options: options,
	}
}

func EmptyKeyField(key types.GroupKey, label string) *KeyField {
	return &KeyField{
		Key:   key,
		Label: label,
		Keys:  map[string]ItemList{},
	}
}
