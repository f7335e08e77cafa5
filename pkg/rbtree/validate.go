package rbtree

import (
	"errors"
	"fmt"
)

// Invariant violations reported by Validate.
var (
	// ErrRedRoot is returned when the root node is red.
	ErrRedRoot = errors.New("root is red")
	// ErrRedViolation is returned when a red node has a red child.
	ErrRedViolation = errors.New("red node has a red child")
	// ErrBlackHeight is returned when two paths to empty children cross a different number of black nodes.
	ErrBlackHeight = errors.New("black height mismatch")
	// ErrOrder is returned when the in-order sequence decreases.
	ErrOrder = errors.New("values out of order")
	// ErrCount is returned when Len disagrees with the number of nodes.
	ErrCount = errors.New("count mismatch")
)

// Validate checks the red-black invariants, the ordering and the element count.
// It is meant for tests and diagnostics and runs in O(n).
func (tree *Tree[T]) Validate() error {
	if isRed(tree.root) {
		return ErrRedRoot
	}

	_, size, err := validateSubtree(tree.root)
	if err != nil {
		return err
	}

	if size != tree.count {
		return fmt.Errorf("%w: %d nodes, Len() is %d", ErrCount, size, tree.count)
	}

	iter := tree.Iter()

	prev, ok := iter.Next()
	for value, more := iter.Next(); ok && more; value, more = iter.Next() {
		if tree.less(value, prev) {
			return fmt.Errorf("%w: %v after %v", ErrOrder, value, prev)
		}

		prev = value
	}

	return nil
}

// validateSubtree returns the black height and the size of the subtree at nd.
func validateSubtree[T any](nd *node[T]) (blackHeight, size int, err error) {
	if nd == nil {
		return 0, 0, nil
	}

	if nd.color == Red && (isRed(nd.left) || isRed(nd.right)) {
		return 0, 0, fmt.Errorf("%w: at %v", ErrRedViolation, nd.value)
	}

	leftHeight, leftSize, leftErr := validateSubtree(nd.left)
	if leftErr != nil {
		return 0, 0, leftErr
	}

	rightHeight, rightSize, rightErr := validateSubtree(nd.right)
	if rightErr != nil {
		return 0, 0, rightErr
	}

	if leftHeight != rightHeight {
		return 0, 0, fmt.Errorf("%w: at %v left=%d right=%d", ErrBlackHeight, nd.value, leftHeight, rightHeight)
	}

	if nd.color == Black {
		leftHeight++
	}

	return leftHeight, leftSize + rightSize + 1, nil
}
