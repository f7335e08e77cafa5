package rbtree

// rotate promotes the child of *slot on the side opposite to dir. Colors are left
// alone; callers recolor as the active fix-up case requires.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func rotate[T any](slot **node[T], dir Direction) {
	pivot := mustNode(slot)
	childSlot := pivot.child(dir.Opposite())
	child := mustNode(childSlot)

	// Move the inner subtree.
	*childSlot = *child.child(dir)

	// Complete the rotation.
	*child.child(dir) = pivot
	*slot = child
}
