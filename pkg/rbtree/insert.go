package rbtree

// insertSignal tells the caller frame how much fixing is left once a recursive
// insertion returns.
type insertSignal uint8

const (
	// insertDone: the subtree below the returned slot satisfies every invariant.
	insertDone insertSignal = iota
	// insertCheckParent: the node at the returned slot is red and its parent
	// has not been looked at yet.
	insertCheckParent
	// insertCheckGrandparent: the node at the returned slot is red and so is one
	// of its children. The caller is the grandparent of that child.
	insertCheckGrandparent
)

// insertAt places value as a red leaf below *slot and repairs the tree on the
// way back up.
func insertAt[T any](slot **node[T], value T, less func(a, b T) bool) insertSignal {
	current := *slot
	if current == nil {
		*slot = newNode(value)

		return insertCheckParent
	}

	dir := Right
	if less(value, current.value) {
		dir = Left
	}

	switch insertAt(current.child(dir), value, less) {
	case insertDone:
		return insertDone
	case insertCheckParent:
		// Case 2: the parent is black, so the tree already
		// satisfies the RB properties.
		if current.color == Black {
			return insertDone
		}

		return insertCheckGrandparent
	case insertCheckGrandparent:
		return fixRedParent(slot, dir)
	}

	panic("rbtree: unknown insert signal")
}

// fixRedParent resolves a red node whose red parent hangs on side parentDir of
// the grandparent at *slot.
func fixRedParent[T any](slot **node[T], parentDir Direction) insertSignal {
	grandparent := mustNode(slot)
	parent := mustNode(grandparent.child(parentDir))
	uncle := *grandparent.child(parentDir.Opposite())

	doAssert(parent.color == Red)

	// Case 3: parent and uncle are both red.
	// Then paint both black and make grandparent red.
	if isRed(uncle) {
		parent.color = Black
		uncle.color = Black
		grandparent.color = Red

		return insertCheckParent
	}

	// Case 4: the red node is an inner grandchild. Lift it above its parent so
	// the violation sits on the outer side.
	if !isRed(*parent.child(parentDir)) {
		doAssert(isRed(*parent.child(parentDir.Opposite())))
		rotate(grandparent.child(parentDir), parentDir)
		parent = mustNode(grandparent.child(parentDir))
	}

	// Case 5: outer grandchild.
	parent.color = Black
	grandparent.color = Red
	rotate(slot, parentDir.Opposite())

	return insertDone
}
