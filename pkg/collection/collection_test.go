package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/pantry/pkg/collection"
)

type item struct {
	id   uint
	name string
}

func TestMapAndUnique(t *testing.T) {
	items := []item{{3, "eggs"}, {1, "flour"}, {3, "eggs again"}}
	ids := collection.Map(items, func(i item) uint { return i.id })
	assert.Equal(t, []uint{3, 1, 3}, ids)
	assert.Equal(t, []uint{3, 1}, collection.Unique(ids))
	assert.Empty(t, collection.Unique([]uint(nil)))
}

func TestKeyBy(t *testing.T) {
	byID := collection.KeyBy([]item{{1, "flour"}, {2, "milk"}, {1, "rye flour"}}, func(i item) uint { return i.id })
	assert.Len(t, byID, 2)
	assert.Equal(t, "rye flour", byID[1].name)
}

func TestSortByLeavesInputAlone(t *testing.T) {
	in := []item{{2, "b"}, {1, "a"}, {2, "c"}}
	out := collection.SortBy(in, func(a, b item) bool { return a.id < b.id })
	assert.Equal(t, []item{{1, "a"}, {2, "b"}, {2, "c"}}, out)
	assert.Equal(t, uint(2), in[0].id)
}
