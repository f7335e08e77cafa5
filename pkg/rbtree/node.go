package rbtree

// node exclusively owns its children. There are no parent pointers: the engines walk
// back up through their own call frames, each holding the slot of its level.
type node[T any] struct {
	value       T
	left, right *node[T]
	color       Color
}

// New nodes are always red leaves.
func newNode[T any](value T) *node[T] {
	return &node[T]{value: value, left: nil, right: nil, color: Red}
}

// child returns the slot holding the child on the given side.
func (nd *node[T]) child(dir Direction) **node[T] {
	if dir == Left {
		return &nd.left
	}

	return &nd.right
}

// Internal link accessors. A "slot" (**node) is either &tree.root or a child field.

func isRed[T any](nd *node[T]) bool {
	return nd != nil && nd.color == Red
}

func isBlack[T any](nd *node[T]) bool {
	return nd == nil || nd.color == Black
}

// mustNode dereferences a slot which is occupied by construction.
func mustNode[T any](slot **node[T]) *node[T] {
	nd := *slot
	if nd == nil {
		panic("rbtree: empty link dereferenced")
	}

	return nd
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}
