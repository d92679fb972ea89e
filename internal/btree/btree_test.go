package btree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLess(a, b int) bool { return a < b }

func TestInsertAndFind(t *testing.T) {
	t.Run("upsert replaces the value at an existing key", func(t *testing.T) {
		tr := New[int, string](4, intLess)
		tr.Insert(1, "a")
		v, ok := tr.Find(1)
		require.True(t, ok)
		assert.Equal(t, "a", v)

		tr.Insert(1, "b")
		v, ok = tr.Find(1)
		require.True(t, ok)
		assert.Equal(t, "b", v)
	})

	t.Run("missing key is absent", func(t *testing.T) {
		tr := New[int, string](4, intLess)
		_, ok := tr.Find(42)
		assert.False(t, ok)
	})
}

func TestUpdate(t *testing.T) {
	tr := New[int, string](4, intLess)
	tr.Insert(1, "a")

	assert.True(t, tr.Update(1, "z"))
	v, _ := tr.Find(1)
	assert.Equal(t, "z", v)

	assert.False(t, tr.Update(2, "z"))
}

func TestRemove(t *testing.T) {
	tr := New[int, string](4, intLess)
	tr.Insert(1, "a")

	assert.True(t, tr.Remove(1))
	_, ok := tr.Find(1)
	assert.False(t, ok)
	assert.False(t, tr.Remove(1))
}

func TestFindOnEmptyTreeIsAbsent(t *testing.T) {
	// An empty tree has no keys to find after no operations were
	// performed.
	tr := New[int, string](4, intLess)
	_, ok := tr.Find(1)
	assert.False(t, ok)
}

func TestSplitBoundary(t *testing.T) {
	// Order 4: inserting 5 distinct keys into an empty tree forces the
	// first split; the root becomes internal with one separator and two
	// leaves, and the separator equals the first key of the right leaf.
	tr := New[int, int](4, intLess)
	for _, k := range []int{1, 2, 3, 4, 5} {
		tr.Insert(k, k*10)
	}

	require.False(t, tr.root.isLeaf)
	require.Len(t, tr.root.seps, 1)
	require.Len(t, tr.root.children, 2)

	right := tr.root.children[1]
	require.True(t, right.isLeaf)
	assert.Equal(t, right.keys[0], tr.root.seps[0])
}

func TestInOrderTraversalAscending(t *testing.T) {
	tr := New[int, int](4, intLess)
	keys := []int{9, 3, 7, 1, 5, 11, 13, 2, 8}
	for _, k := range keys {
		tr.Insert(k, k)
	}

	// Walk the leftmost leaf chain from the beginning.
	n := tr.root
	for !n.isLeaf {
		n = n.children[0]
	}

	var got []int
	for n != nil {
		got = append(got, n.keys...)
		n = n.next
	}

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
	assert.Len(t, got, len(keys))
}

func TestRangeScan(t *testing.T) {
	tr := New[int, int](4, intLess)
	for _, k := range []int{1, 3, 5, 7, 9, 11, 13} {
		tr.Insert(k, k)
	}

	t.Run("inner range", func(t *testing.T) {
		var got []int
		tr.RangeScan(4, 10, func(k, v int) { got = append(got, k) })
		assert.Equal(t, []int{5, 7, 9}, got)
	})

	t.Run("lo equals hi and is present", func(t *testing.T) {
		var got []int
		tr.RangeScan(5, 5, func(k, v int) { got = append(got, k) })
		assert.Equal(t, []int{5}, got)
	})

	t.Run("lo greater than every key", func(t *testing.T) {
		calls := 0
		tr.RangeScan(100, 200, func(k, v int) { calls++ })
		assert.Equal(t, 0, calls)
	})
}

func TestManyInsertsStayOrdered(t *testing.T) {
	tr := New[int, int](4, intLess)
	for i := 0; i < 500; i++ {
		tr.Insert((i*37)%500, i)
	}

	n := tr.root
	for !n.isLeaf {
		n = n.children[0]
	}
	prev := -1
	count := 0
	for n != nil {
		for _, k := range n.keys {
			assert.Greater(t, k, prev)
			prev = k
			count++
		}
		n = n.next
	}
	assert.Equal(t, 500, count)
}
