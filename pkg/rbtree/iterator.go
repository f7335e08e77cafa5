package rbtree

import "math/bits"

// Iterator walks a tree in ascending order without recursion.
//
// An Iterator is single-pass: once Next reports false it keeps doing so. Any
// Insert or Remove on the tree invalidates it, since rotations move the nodes
// held on its stack. Several iterators may read the same tree concurrently as
// long as nothing mutates it.
type Iterator[T any] struct {
	// Nodes whose left subtree is being visited.
	ancestors []*node[T]
	current   *node[T]
}

func newIterator[T any](root *node[T], count int) *Iterator[T] {
	// A red-black tree is at most 2*log2(n+1) deep.
	depth := 2 * bits.Len(uint(count))

	iter := &Iterator[T]{ancestors: make([]*node[T], 0, depth), current: nil}
	iter.descend(root)

	return iter
}

// descend moves to the minimum of the subtree at nd, stacking every node passed.
func (iter *Iterator[T]) descend(nd *node[T]) {
	for nd != nil && nd.left != nil {
		iter.ancestors = append(iter.ancestors, nd)
		nd = nd.left
	}

	iter.current = nd
}

// Next returns the next value in ascending order. The second result is false
// when the traversal is over.
func (iter *Iterator[T]) Next() (T, bool) {
	nd := iter.current
	if nd == nil {
		var zero T

		return zero, false
	}

	switch last := len(iter.ancestors) - 1; {
	case nd.right != nil:
		iter.descend(nd.right)
	case last >= 0:
		iter.current = iter.ancestors[last]
		iter.ancestors[last] = nil
		iter.ancestors = iter.ancestors[:last]
	default:
		iter.current = nil
	}

	return nd.value, true
}
