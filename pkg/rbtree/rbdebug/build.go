package rbdebug

import (
	"cmp"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// From builds a tree by inserting values in argument order, so a literal
// reproduces the exact shape under inspection.
func From[T cmp.Ordered](values ...T) *rbtree.Tree[T] {
	tree := rbtree.New[T]()

	for _, value := range values {
		tree.Insert(value)
	}

	return tree
}
