package core_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gather/pkg/core"
)

func newItem() core.Item {
	return core.Item{"id": uuid.NewString()}
}

func ids(items []core.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item["id"].(string))
	}
	return out
}

func TestCollection_AddIsChainable(t *testing.T) {
	c := core.NewCollection().
		Add(newItem()).
		Add(newItem()).
		AddError("boom")

	assert.Equal(t, 2, c.Count())
	assert.Equal(t, []string{"boom"}, c.Errors())
	assert.True(t, c.HasErrors())
}

func TestCollection_Append(t *testing.T) {
	a := core.NewCollection(newItem()).AddError("a1")
	b := core.NewCollection(newItem(), newItem()).AddError("b1").AddError("b2")

	wantItems := append(a.All(), b.All()...)
	a.Append(b)

	assert.Equal(t, 3, a.Count())
	assert.Equal(t, []string{"a1", "b1", "b2"}, a.Errors())
	assert.Equal(t, ids(wantItems), ids(a.All()))

	// The source collection is left alone.
	assert.Equal(t, 2, b.Count())
}

func TestCollection_AppendEmpty(t *testing.T) {
	c := core.NewCollection(newItem())
	c.Append(core.NewCollection())
	c.Append(nil)

	assert.Equal(t, 1, c.Count())
	assert.Empty(t, c.Errors())

	empty := core.NewCollection()
	empty.Append(core.NewCollection(newItem()))
	assert.Equal(t, 1, empty.Count())
}

func TestCollection_AppendSelf(t *testing.T) {
	c := core.NewCollection(newItem(), newItem()).AddError("e")
	c.Append(c)

	assert.Equal(t, 4, c.Count())
	assert.Equal(t, []string{"e", "e"}, c.Errors())
}

func TestCollection_Get(t *testing.T) {
	item := newItem()
	c := core.NewCollection(item)

	got, err := c.Get(0)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	for _, i := range []int{-1, 1, 42} {
		_, err := c.Get(i)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrOutOfRange)

		var idxErr *core.IndexError
		require.True(t, errors.As(err, &idxErr))
		assert.Equal(t, i, idxErr.Index)
		assert.Equal(t, 1, idxErr.Count)
	}
}

func TestCollection_AllIsSnapshot(t *testing.T) {
	c := core.NewCollection(newItem(), newItem())
	snapshot := c.All()

	c.Add(newItem())
	c.Truncate(0)

	assert.Len(t, snapshot, 2)
	assert.NotNil(t, snapshot[0])
	assert.Equal(t, 0, c.Count())

	errs := c.AddError("x").Errors()
	c.AddError("y")
	assert.Equal(t, []string{"x"}, errs)
}

func TestCollection_FilterWhenFieldExists(t *testing.T) {
	item := newItem()
	c := core.NewCollection(item, newItem())

	out, err := c.Filter("id", item["id"])
	require.NoError(t, err)
	assert.Same(t, c, out)

	assert.Equal(t, 1, c.Count())
	got, err := c.Get(0)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestCollection_FilterKeepsOnlyMatches(t *testing.T) {
	c := core.NewCollection(
		core.Item{"id": "1", "remote": true},
		core.Item{"id": "2", "remote": false},
		core.Item{"id": "3", "remote": true},
	)

	_, err := c.Filter("remote", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(c.All()))
}

func TestCollection_FilterNumbersAcrossTypes(t *testing.T) {
	c := core.NewCollection(
		core.Item{"id": "a", "salary": 100.0},
		core.Item{"id": "b", "salary": 200},
		core.Item{"id": "c", "salary": int64(100)},
	)

	_, err := c.Filter("salary", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(c.All()))
}

func TestCollection_FilterWhenFieldNotExists(t *testing.T) {
	item := newItem()
	c := core.NewCollection(item, newItem())

	_, err := c.Filter(uuid.NewString(), item["id"])
	require.Error(t, err)
	assert.EqualError(t, err, "Property not defined.")
	assert.ErrorIs(t, err, core.ErrInvalidField)
	assert.Equal(t, 2, c.Count())
}

func TestCollection_FilterWhenFieldMissingOnSomeItems(t *testing.T) {
	c := core.NewCollection(core.Item{"id": "1", "tag": "x"}, core.Item{"id": "2"})

	_, err := c.Filter("tag", "x")
	assert.ErrorIs(t, err, core.ErrInvalidField)
	assert.Equal(t, []string{"1", "2"}, ids(c.All()))

	var fieldErr *core.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "tag", fieldErr.Field)
	assert.Equal(t, "filter", fieldErr.Op)
}

func TestCollection_OrderByDefaultsToDesc(t *testing.T) {
	c := core.NewCollection(newItem(), newItem(), newItem())

	_, err := c.OrderBy("id")
	require.NoError(t, err)
	require.Equal(t, 3, c.Count())

	got := ids(c.All())
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i], got[i-1])
	}
}

func TestCollection_OrderByAsc(t *testing.T) {
	c := core.NewCollection(newItem(), newItem(), newItem())

	_, err := c.OrderBy("id", core.Asc)
	require.NoError(t, err)
	require.Equal(t, 3, c.Count())

	got := ids(c.All())
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestCollection_OrderByNumbers(t *testing.T) {
	c := core.NewCollection(
		core.Item{"id": "a", "n": 10},
		core.Item{"id": "b", "n": 2.5},
		core.Item{"id": "c", "n": uint8(7)},
	)

	_, err := c.OrderBy("n", "ASC")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(c.All()))

	_, err = c.OrderBy("n", core.Desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(c.All()))
}

func TestCollection_OrderByWhenFieldNotExists(t *testing.T) {
	c := core.NewCollection(newItem(), newItem(), newItem())
	before := ids(c.All())

	_, err := c.OrderBy(uuid.NewString())
	require.Error(t, err)
	assert.EqualError(t, err, "Property not defined.")
	assert.Equal(t, before, ids(c.All()))
}

func TestCollection_OrderByInvalidDirection(t *testing.T) {
	c := core.NewCollection(newItem())

	_, err := c.OrderBy("id", "sideways")
	assert.ErrorIs(t, err, core.ErrInvalidDirection)
}

func TestCollection_Truncate(t *testing.T) {
	c := core.NewCollection(newItem(), newItem(), newItem())
	first := c.All()[0]

	c.Truncate(1)
	assert.Equal(t, 1, c.Count())
	got, err := c.Get(0)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	c.Truncate(5)
	assert.Equal(t, 1, c.Count())

	c.Truncate(-1)
	assert.True(t, c.IsEmpty())
}

func TestCollection_TruncateKeepsLeadingItemsInOrder(t *testing.T) {
	items := []core.Item{newItem(), newItem(), newItem(), newItem(), newItem()}
	want := ids(items)

	for k := 0; k <= len(items)+1; k++ {
		c := core.NewCollection(items...).AddError("kept")
		c.Truncate(k)

		n := min(k, len(items))
		assert.Equal(t, n, c.Count(), "k=%d", k)
		assert.Equal(t, want[:n], ids(c.All()), "k=%d", k)
		assert.Equal(t, []string{"kept"}, c.Errors(), "k=%d", k)
	}
}

func TestCollection_Where(t *testing.T) {
	c := core.NewCollection(core.Item{"id": "1", "n": 1}, core.Item{"id": "2", "n": 2})
	c.Where(func(item core.Item) bool { return item["n"] == 2 })

	assert.Equal(t, []string{"2"}, ids(c.All()))
}

func TestCollection_Clone(t *testing.T) {
	c := core.NewCollection(newItem()).AddError("e")
	clone := c.Clone()
	clone.Add(newItem()).AddError("f")

	assert.Equal(t, 1, c.Count())
	assert.Equal(t, []string{"e"}, c.Errors())
	assert.Equal(t, 2, clone.Count())
}

func TestCollection_State(t *testing.T) {
	c := core.NewCollection(newItem(), newItem()).AddError("e")

	assert.Equal(t, core.CollectionState{Items: 2, Errors: 1}, c.State())
	assert.Equal(t, "collection", c.ComponentType())
}
