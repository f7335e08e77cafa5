package rbtree //nolint:testpackage // tests require access to unexported fields (root, count, node colors).

import (
	"cmp"
	"math/rand"
	"slices"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Create a tree storing a multiset of integers.
func testNewIntSet() *Tree[int] {
	return New[int]()
}

func treeOf[T cmp.Ordered](values ...T) *Tree[T] {
	tree := New[T]()
	for _, value := range values {
		tree.Insert(value)
	}

	return tree
}

func requireValid[T any](tb testing.TB, tree *Tree[T]) {
	tb.Helper()
	require.NoError(tb, tree.Validate())
}

func iterToString(values *Iterator[int]) string {
	parts := []string{}

	for value, ok := values.Next(); ok; value, ok = values.Next() {
		parts = append(parts, strconv.Itoa(value))
	}

	return strings.Join(parts, ",")
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	assert.Equal(t, 0, tree.Len())
	assert.Nil(t, tree.root)
	assert.False(t, tree.Root().Valid())
	assert.False(t, tree.Contains(10))
	assert.Empty(t, iterToString(tree.Iter()))

	_, ok := tree.Min()
	assert.False(t, ok, "Min on empty")

	_, ok = tree.Max()
	assert.False(t, ok, "Max on empty")

	requireValid(t, tree)
}

func TestInsertCreatesBlackRoot(t *testing.T) {
	t.Parallel()

	tree := treeOf(1)
	require.NotNil(t, tree.root)
	assert.Equal(t, 1, tree.root.value)
	assert.Equal(t, Black, tree.root.color)
	assert.Equal(t, 1, tree.Len())
}

func TestInsertThreeAscending(t *testing.T) {
	t.Parallel()

	tree := treeOf(1, 2, 3)
	root := tree.Root()

	assert.Equal(t, 2, root.Value())
	assert.Equal(t, Black, root.Color())
	assert.Equal(t, 1, root.Left().Value())
	assert.Equal(t, Red, root.Left().Color())
	assert.Equal(t, 3, root.Right().Value())
	assert.Equal(t, Red, root.Right().Color())
	assert.Equal(t, "1,2,3", iterToString(tree.Iter()))
	requireValid(t, tree)
}

func TestInsertFourAscending(t *testing.T) {
	t.Parallel()

	tree := treeOf(1, 2, 3, 4)
	root := tree.Root()

	assert.Equal(t, 2, root.Value())
	assert.Equal(t, Black, root.Color())
	assert.Equal(t, 1, root.Left().Value())
	assert.Equal(t, Black, root.Left().Color())
	assert.Equal(t, 3, root.Right().Value())
	assert.Equal(t, Black, root.Right().Color())
	assert.False(t, root.Right().Left().Valid())
	assert.Equal(t, 4, root.Right().Right().Value())
	assert.Equal(t, Red, root.Right().Right().Color())
	requireValid(t, tree)
}

func TestInsertInnerGrandchild(t *testing.T) {
	t.Parallel()

	// 3, 1, 2 takes the left-right path; 1, 3, 2 the right-left one.
	for _, order := range [][]int{{3, 1, 2}, {1, 3, 2}} {
		tree := treeOf(order...)
		root := tree.Root()

		assert.Equal(t, 2, root.Value(), "order %v", order)
		assert.Equal(t, Red, root.Left().Color(), "order %v", order)
		assert.Equal(t, Red, root.Right().Color(), "order %v", order)
		requireValid(t, tree)
	}
}

func TestRemoveFromSevenAscending(t *testing.T) {
	t.Parallel()

	tree := treeOf(1, 2, 3, 4, 5, 6, 7)
	requireValid(t, tree)

	removed, ok := tree.Remove(4)
	require.True(t, ok)
	assert.Equal(t, 4, removed)
	assert.Equal(t, 6, tree.Len())
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7}, tree.Values())
	requireValid(t, tree)
}

func TestRemoveEmpty(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()

	removed, ok := tree.Remove(1)
	assert.False(t, ok)
	assert.Zero(t, removed)
	assert.Equal(t, 0, tree.Len())
}

func TestRemoveSole(t *testing.T) {
	t.Parallel()

	tree := treeOf(1)

	removed, ok := tree.Remove(1)
	assert.True(t, ok)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, tree.Len())
	assert.Nil(t, tree.root)
}

func TestRemoveMissing(t *testing.T) {
	t.Parallel()

	tree := treeOf(10, 20, 30)

	// Delete was deleting after the request if request not found.
	// Ensure this does not regress.
	_, ok := tree.Remove(25)
	assert.False(t, ok)
	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, []int{10, 20, 30}, tree.Values())
	requireValid(t, tree)
}

func TestDuplicates(t *testing.T) {
	t.Parallel()

	tree := treeOf(5, 3, 5, 8, 5)
	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, []int{3, 5, 5, 5, 8}, tree.Values())
	requireValid(t, tree)

	for remaining := 2; remaining >= 0; remaining-- {
		removed, ok := tree.Remove(5)
		require.True(t, ok)
		assert.Equal(t, 5, removed)
		assert.Equal(t, remaining, strings.Count(iterToString(tree.Iter()), "5"))
		requireValid(t, tree)
	}

	_, ok := tree.Remove(5)
	assert.False(t, ok)
	assert.Equal(t, []int{3, 8}, tree.Values())
}

func TestRemoveDeepValuesFromSkewedInsertions(t *testing.T) {
	t.Parallel()

	const size = 1000

	ascending := testNewIntSet()
	descending := testNewIntSet()

	for idx := range size {
		ascending.Insert(idx)
		descending.Insert(size - 1 - idx)
	}

	for _, tree := range []*Tree[int]{ascending, descending} {
		// Leaves and near-leaves first, the root last.
		for value := 1; value < size; value += 2 {
			removed, ok := tree.Remove(value)
			require.True(t, ok, "remove %d", value)
			require.Equal(t, value, removed)
		}

		requireValid(t, tree)
		assert.Equal(t, size/2, tree.Len())

		for value := 0; value < size; value += 2 {
			require.True(t, tree.Contains(value), "contains %d", value)
		}
	}
}

func TestRemoveReturnsStoredValue(t *testing.T) {
	t.Parallel()

	type entry struct {
		key   int
		label string
	}

	tree := NewFunc(func(a, b entry) bool { return a.key < b.key })
	tree.Insert(entry{key: 2, label: "two"})
	tree.Insert(entry{key: 1, label: "one"})
	tree.Insert(entry{key: 3, label: "three"})

	removed, ok := tree.Remove(entry{key: 2, label: ""})
	require.True(t, ok)
	assert.Equal(t, "two", removed.label)
	requireValid(t, tree)
}

func TestIteratorExhausted(t *testing.T) {
	t.Parallel()

	tree := treeOf(3)
	values := tree.Iter()

	value, ok := values.Next()
	assert.True(t, ok)
	assert.Equal(t, 3, value)

	for range 3 {
		_, ok = values.Next()
		assert.False(t, ok)
	}
}

func TestIteratorGrowingTree(t *testing.T) {
	t.Parallel()

	tree := treeOf(3)
	assert.Equal(t, "3", iterToString(tree.Iter()))

	tree.Insert(9)
	assert.Equal(t, "3,9", iterToString(tree.Iter()))

	tree.Insert(1)
	assert.Equal(t, "1,3,9", iterToString(tree.Iter()))

	tree.Insert(10)
	assert.Equal(t, "1,3,9,10", iterToString(tree.Iter()))

	tree.Insert(2)
	assert.Equal(t, "1,2,3,9,10", iterToString(tree.Iter()))

	tree.Insert(4)
	assert.Equal(t, "1,2,3,4,9,10", iterToString(tree.Iter()))
}

func TestAllStopsEarly(t *testing.T) {
	t.Parallel()

	tree := treeOf(5, 1, 4, 2, 3)
	seen := []int{}

	for value := range tree.All() {
		if value > 3 {
			break
		}

		seen = append(seen, value)
	}

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestPermutationsSort(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	values := make([]int, 200)

	for idx := range values {
		values[idx] = idx
	}

	for range 20 {
		rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

		tree := treeOf(values...)
		requireValid(t, tree)

		got := tree.Values()
		assert.True(t, slices.IsSorted(got))
		assert.Len(t, got, len(values))
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	tree := treeOf(10, 20, 30, 40)
	assert.True(t, tree.Contains(10))
	assert.True(t, tree.Contains(40))
	assert.False(t, tree.Contains(25))
	assert.False(t, tree.Contains(50))
}

func TestMinMax(t *testing.T) {
	t.Parallel()

	tree := treeOf(7, 3, 11, 1, 9)

	low, ok := tree.Min()
	assert.True(t, ok)
	assert.Equal(t, 1, low)

	high, ok := tree.Max()
	assert.True(t, ok)
	assert.Equal(t, 11, high)
}

func TestClear(t *testing.T) {
	t.Parallel()

	tree := treeOf(1, 2, 3)
	tree.Clear()
	assert.Equal(t, 0, tree.Len())
	assert.Nil(t, tree.root)

	tree.Insert(4)
	assert.Equal(t, []int{4}, tree.Values())
}

func TestClone(t *testing.T) {
	t.Parallel()

	tree := treeOf(1, 2, 3, 4, 5)
	clone := tree.Clone()

	assert.Equal(t, tree.Values(), clone.Values())
	assert.Equal(t, shape(tree.root), shape(clone.root))
	assert.NotSame(t, tree.root, clone.root)

	clone.Remove(3)
	clone.Insert(100)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, tree.Values())
	assert.Equal(t, []int{1, 2, 4, 5, 100}, clone.Values())
	requireValid(t, tree)
	requireValid(t, clone)
}

func TestCustomOrdering(t *testing.T) {
	t.Parallel()

	// Order by length only: words of equal length are equal.
	tree := NewFunc(func(a, b string) bool { return len(a) < len(b) })

	for _, word := range []string{"ccc", "a", "bb", "dd", "eeee"} {
		tree.Insert(word)
	}

	assert.Equal(t, []string{"a", "bb", "dd", "ccc", "eeee"}, tree.Values())

	removed, ok := tree.Remove("zz")
	assert.True(t, ok)
	assert.Len(t, removed, 2)
	assert.Equal(t, 4, tree.Len())
	requireValid(t, tree)
}

func TestValidateDetectsCorruption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(tree *Tree[int])
		want    error
	}{
		{"red root", func(tree *Tree[int]) { tree.root.color = Red }, ErrRedRoot},
		{"red child of red", func(tree *Tree[int]) {
			tree.root.left.left = newNode(0)
			tree.count++
		}, ErrRedViolation},
		{"black height", func(tree *Tree[int]) { tree.root.left.color = Black }, ErrBlackHeight},
		{"order", func(tree *Tree[int]) { tree.root.left.value = 5 }, ErrOrder},
		{"count", func(tree *Tree[int]) { tree.count = 7 }, ErrCount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree := treeOf(1, 2, 3)
			requireValid(t, tree)

			tc.corrupt(tree)
			assert.ErrorIs(t, tree.Validate(), tc.want)
		})
	}
}

func TestMustNodePanicsOnEmptySlot(t *testing.T) {
	t.Parallel()

	var empty *node[int]

	assert.Panics(t, func() { mustNode(&empty) })
	assert.Panics(t, func() { Cursor[int]{nd: nil}.Value() })
}

// Randomized tests.

// oracle provides an interface similar to the tree, but stores
// data in a sorted slice.
type oracle struct {
	data []int
}

func newOracle() *oracle {
	return &oracle{data: make([]int, 0)}
}

func (o *oracle) Len() int {
	return len(o.data)
}

func (o *oracle) Insert(key int) {
	// Equal keys go after the existing ones, as in the tree.
	idx := sort.SearchInts(o.data, key+1)
	o.data = slices.Insert(o.data, idx, key)
}

func (o *oracle) RandomExistingKey(rng *rand.Rand) int {
	return o.data[rng.Intn(len(o.data))]
}

func (o *oracle) Delete(key int) bool {
	idx, found := slices.BinarySearch(o.data, key)
	if !found {
		return false
	}

	o.data = slices.Delete(o.data, idx, idx+1)

	return true
}

func compareContents(tb testing.TB, orc *oracle, tree *Tree[int]) {
	tb.Helper()

	require.Equal(tb, orc.Len(), tree.Len())

	values := tree.Iter()

	for idx, want := range orc.data {
		got, ok := values.Next()
		if !ok {
			tb.Fatal("tree exhausted at", idx)
		}

		if got != want {
			tb.Fatal("Wrong item", got, want)
		}
	}

	if got, ok := values.Next(); ok {
		tb.Fatal("!ti.done", got)
	}

	requireValid(tb, tree)
}

func TestRandomized(t *testing.T) {
	t.Parallel()

	// A small key space produces plenty of duplicates.
	const numKeys = 200

	orc := newOracle()
	tree := testNewIntSet()
	rng := rand.New(rand.NewSource(0))

	for range 10000 {
		op := rng.Int31n(100)

		switch {
		case op < 50:
			key := rng.Intn(numKeys)
			orc.Insert(key)
			tree.Insert(key)
			compareContents(t, orc, tree)
		case op < 90 && orc.Len() > 0:
			key := orc.RandomExistingKey(rng)
			orc.Delete(key)

			removed, ok := tree.Remove(key)
			if !ok || removed != key {
				t.Fatal("DeleteExisting", key)
			}

			compareContents(t, orc, tree)
		default:
			key := rng.Intn(numKeys)
			_, want := slices.BinarySearch(orc.data, key)
			assert.Equal(t, want, tree.Contains(key), "contains %d", key)

			if !want {
				_, ok := tree.Remove(key)
				assert.False(t, ok, "DeleteMissing %d", key)
			}
		}
	}
}

func BenchmarkInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	keys := rng.Perm(b.N)
	tree := testNewIntSet()

	b.ResetTimer()

	for _, key := range keys {
		tree.Insert(key)
	}
}

func BenchmarkRemove(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	keys := rng.Perm(b.N)
	tree := treeOf(keys...)

	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	b.ResetTimer()

	for _, key := range keys {
		tree.Remove(key)
	}
}

func BenchmarkIterate(b *testing.B) {
	tree := treeOf(rand.New(rand.NewSource(1)).Perm(10000)...)

	b.ResetTimer()

	for range b.N {
		for range tree.All() {
		}
	}
}
