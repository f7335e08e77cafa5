package rbtree

// Cursor is a read-only view of one position of the tree, used by diagnostics
// to inspect the shape without reaching into nodes. An empty position is a
// valid Cursor value whose Valid reports false.
type Cursor[T any] struct {
	nd *node[T]
}

// Valid reports whether the position holds a node.
func (cur Cursor[T]) Valid() bool {
	return cur.nd != nil
}

// Value returns the stored value.
//
// REQUIRES: cur.Valid().
func (cur Cursor[T]) Value() T {
	if cur.nd == nil {
		panic("rbtree: value of an empty cursor")
	}

	return cur.nd.value
}

// Color returns the node color. Empty positions are black.
func (cur Cursor[T]) Color() Color {
	if cur.nd == nil {
		return Black
	}

	return cur.nd.color
}

// Child returns the cursor of the child on the given side. Children of an
// empty position are empty.
func (cur Cursor[T]) Child(dir Direction) Cursor[T] {
	if cur.nd == nil {
		return Cursor[T]{nd: nil}
	}

	return Cursor[T]{nd: *cur.nd.child(dir)}
}

// Left is Child(Left).
func (cur Cursor[T]) Left() Cursor[T] {
	return cur.Child(Left)
}

// Right is Child(Right).
func (cur Cursor[T]) Right() Cursor[T] {
	return cur.Child(Right)
}
