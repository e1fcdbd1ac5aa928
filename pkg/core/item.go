package core

import "maps"

// Item is an opaque record held by a Collection.
// Fields are looked up by name at runtime; there is no fixed schema.
type Item map[string]any

// Lookup returns the value stored under field and whether the field is present.
// A present field with a nil value is still present.
func (i Item) Lookup(field string) (any, bool) {
	if i == nil {
		return nil, false
	}
	v, ok := i[field]
	return v, ok
}

// Has reports whether field is present on the item.
func (i Item) Has(field string) bool {
	_, ok := i.Lookup(field)
	return ok
}

// Clone returns a shallow copy of the item.
func (i Item) Clone() Item {
	if i == nil {
		return nil
	}
	return maps.Clone(i)
}
