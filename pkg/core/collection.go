package core

import (
	"slices"
	"sync"
)

// Results is the read side shared by Collection and MultiCollection.
// Append accepts anything that can hand over its items and errors.
type Results interface {
	All() []Item
	Errors() []string
}

// Collection is an ordered sequence of items plus the error messages
// collected while producing them.
//
// Mutators work in place and return the receiver so calls can be chained.
// Filter and OrderBy leave the collection untouched when they fail.
type Collection struct {
	mu     sync.RWMutex
	items  []Item
	errors []string
}

// NewCollection creates a collection holding the given items in order.
func NewCollection(items ...Item) *Collection {
	return &Collection{items: slices.Clone(items)}
}

// Add appends an item.
func (c *Collection) Add(item Item) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
	return c
}

// AddError appends an error message.
func (c *Collection) AddError(msg string) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msg)
	return c
}

// Append merges other into c: its items go after the existing items and its
// errors after the existing errors, both in their original order.
func (c *Collection) Append(other Results) *Collection {
	if other == nil {
		return c
	}
	// Snapshot first so appending a collection to itself does not deadlock.
	items, errs := other.All(), other.Errors()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, items...)
	c.errors = append(c.errors, errs...)
	return c
}

// Count returns the number of items. Errors are not counted.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// IsEmpty reports whether the collection holds no items.
func (c *Collection) IsEmpty() bool {
	return c.Count() == 0
}

// Get returns the item at the zero-based index i.
func (c *Collection) Get(i int) (Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.items) {
		return nil, &IndexError{Index: i, Count: len(c.items)}
	}
	return c.items[i], nil
}

// All returns a snapshot of the items in their current order.
// Later mutations of c do not affect the returned slice.
func (c *Collection) All() []Item {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Errors returns a snapshot of the error messages in insertion order.
func (c *Collection) Errors() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.errors)
}

// HasErrors reports whether any error message was recorded.
func (c *Collection) HasErrors() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.errors) > 0
}

// Filter keeps only the items whose field equals value (see Equal).
// Every item must carry the field; otherwise ErrInvalidField is returned.
func (c *Collection) Filter(field string, value any) (*Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.probe("filter", field); err != nil {
		return c, err
	}

	kept := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if v, _ := item.Lookup(field); Equal(v, value) {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return c, nil
}

// Where keeps only the items for which keep returns true. keep runs with the
// collection locked and must not call back into it.
func (c *Collection) Where(keep func(Item) bool) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = slices.DeleteFunc(c.items, func(item Item) bool { return !keep(item) })
	return c
}

// OrderBy sorts the items by field using Compare. The direction defaults to
// Desc. Items with equal values keep no guaranteed relative order.
func (c *Collection) OrderBy(field string, dir ...Direction) (*Collection, error) {
	d := DefaultDirection
	if len(dir) > 0 {
		var err error
		if d, err = ParseDirection(string(dir[0])); err != nil {
			return c, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.probe("order", field); err != nil {
		return c, err
	}

	sorted := slices.Clone(c.items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		av, _ := a.Lookup(field)
		bv, _ := b.Lookup(field)
		if d == Desc {
			return Compare(bv, av)
		}
		return Compare(av, bv)
	})
	c.items = sorted
	return c, nil
}

// Truncate keeps the first n items. It is a no-op when n >= Count();
// a negative n empties the collection.
func (c *Collection) Truncate(n int) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	n = min(len(c.items), max(n, 0))
	clear(c.items[n:])
	c.items = c.items[:n]
	return c
}

// Clone returns an independent copy. Items themselves are shared.
func (c *Collection) Clone() *Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &Collection{
		items:  slices.Clone(c.items),
		errors: slices.Clone(c.errors),
	}
}

// probe must be called with mu held.
func (c *Collection) probe(op, field string) error {
	for _, item := range c.items {
		if !item.Has(field) {
			return &FieldError{Op: op, Field: field}
		}
	}
	return nil
}
