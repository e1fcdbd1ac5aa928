package core

// MultiCollection aggregates the results of several independent source
// queries. It behaves exactly like Collection; its methods return
// *MultiCollection so chains keep the aggregate type.
type MultiCollection struct {
	Collection
}

// NewMultiCollection creates an empty aggregate.
func NewMultiCollection() *MultiCollection {
	return &MultiCollection{}
}

// Merge builds a MultiCollection from several result sets, in order.
func Merge(results ...Results) *MultiCollection {
	m := NewMultiCollection()
	for _, r := range results {
		m.Append(r)
	}
	return m
}

func (m *MultiCollection) Add(item Item) *MultiCollection {
	m.Collection.Add(item)
	return m
}

func (m *MultiCollection) AddError(msg string) *MultiCollection {
	m.Collection.AddError(msg)
	return m
}

// Append merges the items and errors of other after the current ones.
func (m *MultiCollection) Append(other Results) *MultiCollection {
	m.Collection.Append(other)
	return m
}

func (m *MultiCollection) Filter(field string, value any) (*MultiCollection, error) {
	_, err := m.Collection.Filter(field, value)
	return m, err
}

func (m *MultiCollection) Where(keep func(Item) bool) *MultiCollection {
	m.Collection.Where(keep)
	return m
}

func (m *MultiCollection) OrderBy(field string, dir ...Direction) (*MultiCollection, error) {
	_, err := m.Collection.OrderBy(field, dir...)
	return m, err
}

func (m *MultiCollection) Truncate(n int) *MultiCollection {
	m.Collection.Truncate(n)
	return m
}

func (m *MultiCollection) Clone() *MultiCollection {
	c := NewMultiCollection()
	c.Append(m)
	return c
}
