// Package rbtree provides a generic red-black tree: an ordered, duplicate-tolerant
// in-memory set with O(log n) insertion, removal and lookup.
package rbtree

import (
	"cmp"
	"iter"
)

// Tree is a red-black binary search tree holding values ordered by a less
// function. Equal values are kept side by side; the tree never deduplicates.
//
// A Tree is not safe for concurrent mutation. Callers needing several writers
// must serialize access themselves.
type Tree[T any] struct {
	less func(a, b T) bool

	// Root of the tree.
	root *node[T]

	// Number of values under root, duplicates included.
	count int
}

// New creates an empty tree ordered by cmp.Less.
func New[T cmp.Ordered]() *Tree[T] {
	return NewFunc(cmp.Less[T])
}

// NewFunc creates an empty tree ordered by less, which must be a strict weak
// ordering. Two values are equal when neither is less than the other.
func NewFunc[T any](less func(a, b T) bool) *Tree[T] {
	return &Tree[T]{less: less, root: nil, count: 0}
}

// Len returns the number of values in the tree, duplicates included.
func (tree *Tree[T]) Len() int {
	return tree.count
}

// Insert adds value to the tree. It always succeeds; equal values are stored
// to the right of the ones already present.
func (tree *Tree[T]) Insert(value T) {
	signal := insertAt(&tree.root, value, tree.less)

	// A red-red pair cannot reach the root: the root is black on entry.
	doAssert(signal != insertCheckGrandparent)

	// Case 1: the root is always black.
	tree.root.color = Black
	tree.count++
}

// Remove deletes one value equal to the argument and returns the stored value.
// The second result is false, and the tree untouched, if there is no such value.
func (tree *Tree[T]) Remove(value T) (T, bool) {
	removed, found, _ := removeAt(&tree.root, value, tree.less)
	if !found {
		return removed, false
	}

	if tree.root != nil {
		tree.root.color = Black
	}

	tree.count--

	return removed, true
}

// Contains reports whether a value equal to the argument is stored.
func (tree *Tree[T]) Contains(value T) bool {
	nd := tree.root

	for nd != nil {
		switch {
		case tree.less(value, nd.value):
			nd = nd.left
		case tree.less(nd.value, value):
			nd = nd.right
		default:
			return true
		}
	}

	return false
}

// Min returns the smallest value. The second result is false on an empty tree.
func (tree *Tree[T]) Min() (T, bool) {
	return tree.extreme(Left)
}

// Max returns the largest value. The second result is false on an empty tree.
func (tree *Tree[T]) Max() (T, bool) {
	return tree.extreme(Right)
}

func (tree *Tree[T]) extreme(dir Direction) (T, bool) {
	nd := tree.root
	if nd == nil {
		var zero T

		return zero, false
	}

	for *nd.child(dir) != nil {
		nd = *nd.child(dir)
	}

	return nd.value, true
}

// Clear removes all the values from the tree.
func (tree *Tree[T]) Clear() {
	tree.root = nil
	tree.count = 0
}

// Clone performs a deep copy of the tree. The copy has the same shape and
// colors and shares nothing with the original except the values themselves.
func (tree *Tree[T]) Clone() *Tree[T] {
	return &Tree[T]{less: tree.less, root: cloneNode(tree.root), count: tree.count}
}

func cloneNode[T any](nd *node[T]) *node[T] {
	if nd == nil {
		return nil
	}

	return &node[T]{
		value: nd.value,
		left:  cloneNode(nd.left),
		right: cloneNode(nd.right),
		color: nd.color,
	}
}

// Iter creates an iterator positioned on the minimum value.
func (tree *Tree[T]) Iter() *Iterator[T] {
	return newIterator(tree.root, tree.count)
}

// All returns the values in ascending order as a range-over-func sequence.
func (tree *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		values := tree.Iter()

		for value, ok := values.Next(); ok; value, ok = values.Next() {
			if !yield(value) {
				return
			}
		}
	}
}

// Values returns the values in ascending order.
func (tree *Tree[T]) Values() []T {
	result := make([]T, 0, tree.count)

	for value := range tree.All() {
		result = append(result, value)
	}

	return result
}

// Root returns a read-only cursor on the root position.
func (tree *Tree[T]) Root() Cursor[T] {
	return Cursor[T]{nd: tree.root}
}
