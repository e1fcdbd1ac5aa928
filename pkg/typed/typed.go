// Package typed converts between structs and core.Item records.
//
// Conversion goes through JSON, so struct tags decide the field names that
// Filter and OrderBy see.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/gather/pkg/core"
)

// ToItem converts a struct (or map) into an item.
func ToItem(v any) (core.Item, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}

	var item core.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to item: %w", err)
	}
	return item, nil
}

// FromItem decodes an item into T.
func FromItem[T any](item core.Item) (T, error) {
	var out T
	data, err := json.Marshal(item)
	if err != nil {
		return out, fmt.Errorf("item marshal failed: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return out, nil
}

// Add converts values and appends them to c in order.
// Nothing is added if any value fails to convert.
func Add[T any](c *core.Collection, values ...T) error {
	items := make([]core.Item, 0, len(values))
	for i, v := range values {
		item, err := ToItem(v)
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		items = append(items, item)
	}
	c.Append(core.NewCollection(items...))
	return nil
}

// Collect decodes every item of r into T, keeping the collection order.
func Collect[T any](r core.Results) ([]T, error) {
	items := r.All()
	result := make([]T, 0, len(items))
	for i, item := range items {
		v, err := FromItem[T](item)
		if err != nil {
			return nil, fmt.Errorf("failed to process item %d: %w", i, err)
		}
		result = append(result, v)
	}
	return result, nil
}
