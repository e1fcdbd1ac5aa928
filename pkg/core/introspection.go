package core

import (
	"github.com/aretw0/introspection"
)

// CollectionState exposes collection size for observability.
type CollectionState struct {
	Items  int `json:"items"`
	Errors int `json:"errors"`
}

// State implements introspection.Introspectable.
func (c *Collection) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CollectionState{
		Items:  len(c.items),
		Errors: len(c.errors),
	}
}

// ComponentType implements introspection.Component.
func (c *Collection) ComponentType() string {
	return "collection"
}

// ComponentType implements introspection.Component.
func (m *MultiCollection) ComponentType() string {
	return "multi_collection"
}

var _ introspection.Introspectable = (*Collection)(nil)
var _ introspection.Component = (*Collection)(nil)
var _ introspection.Component = (*MultiCollection)(nil)
