package rbtree

// removeAt searches the subtree at *slot for a value equal to the target and
// removes it. deficient reports that the black height of the subtree at *slot
// dropped by one and the caller's level has to compensate.
func removeAt[T any](slot **node[T], value T, less func(a, b T) bool) (removed T, found, deficient bool) {
	current := *slot
	if current == nil {
		return removed, false, false
	}

	if !less(value, current.value) && !less(current.value, value) {
		if current.left == nil || current.right == nil {
			removed, deficient = splice(slot)

			return removed, true, deficient
		}

		// Two children: the in-order predecessor takes over the value, the
		// node keeps its color and place.
		removed = current.value

		predecessor, short := removeMax(&current.left)
		current.value = predecessor

		if short {
			short = fixDeficiency(slot, Left)
		}

		return removed, true, short
	}

	// Mirror of the insertion comparison: equal values were routed right.
	dir := Left
	if less(current.value, value) {
		dir = Right
	}

	removed, found, deficient = removeAt(current.child(dir), value, less)
	if deficient {
		deficient = fixDeficiency(slot, dir)
	}

	return removed, found, deficient
}

// removeMax removes the right-most node of the non-empty subtree at *slot.
func removeMax[T any](slot **node[T]) (T, bool) {
	current := mustNode(slot)
	if current.right == nil {
		return splice(slot)
	}

	value, deficient := removeMax(&current.right)
	if deficient {
		deficient = fixDeficiency(slot, Right)
	}

	return value, deficient
}

// splice unlinks the node at *slot, which has at most one child, and puts the
// child in its place. The second result is true when a black node was replaced
// by a black (or empty) one.
func splice[T any](slot **node[T]) (T, bool) {
	removed := mustNode(slot)

	doAssert(removed.left == nil || removed.right == nil)

	replacement := removed.left
	if replacement == nil {
		replacement = removed.right
	}

	*slot = replacement
	removed.left, removed.right = nil, nil

	if removed.color == Red {
		return removed.value, false
	}

	if isRed(replacement) {
		replacement.color = Black

		return removed.value, false
	}

	return removed.value, true
}

// fixDeficiency repairs the parent at *slot whose subtree on side dir is one
// black node short. Returns true when the whole subtree at *slot is now short
// and the fix has to continue one level up.
func fixDeficiency[T any](slot **node[T], dir Direction) bool {
	parent := mustNode(slot)
	sibling := mustNode(parent.child(dir.Opposite()))

	// Case 1: red sibling. Rotate it above the parent; the parent's new
	// sibling is black and the parent is red, so the steps below resolve.
	if sibling.color == Red {
		sibling.color = Black
		parent.color = Red
		rotate(slot, dir)

		slot = sibling.child(dir)
		sibling = mustNode(parent.child(dir.Opposite()))
	}

	near := *sibling.child(dir)
	far := *sibling.child(dir.Opposite())

	if isBlack(near) && isBlack(far) {
		sibling.color = Red

		// Case 2: everything around is black, push the deficiency up.
		if parent.color == Black {
			return true
		}

		// Case 3: a red parent absorbs it.
		parent.color = Black

		return false
	}

	// Case 4: only the near nephew is red. Turn it into the far one.
	if isBlack(far) {
		near.color = Black
		sibling.color = Red
		rotate(parent.child(dir.Opposite()), dir.Opposite())

		far = sibling
		sibling = near
	}

	// Case 5.
	doAssert(isRed(far))

	sibling.color = parent.color
	parent.color = Black
	far.color = Black
	rotate(slot, dir)

	return false
}
