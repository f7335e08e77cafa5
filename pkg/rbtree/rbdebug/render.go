package rbdebug

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

const (
	emptyTreeLabel = "(empty)"
	emptyLeafLabel = "·"
	truncatedLabel = "…"
)

// Options controls Render.
type Options struct {
	// MaxNodes stops the drawing after that many nodes. Zero means no limit.
	MaxNodes int
	// Color paints red nodes red and black nodes bold.
	Color bool
}

type renderer[T any] struct {
	writer   list.Writer
	red      *color.Color
	black    *color.Color
	maxNodes int
	drawn    int
}

// Render draws the tree shape top-down, one node per line, left child first.
// Missing children of a node with one child are drawn as "·" to keep sides
// readable.
func Render[T any](tree *rbtree.Tree[T], opts Options) string {
	root := tree.Root()
	if !root.Valid() {
		return emptyTreeLabel
	}

	rend := &renderer[T]{
		writer:   list.NewWriter(),
		red:      color.New(color.FgRed),
		black:    color.New(color.Bold),
		maxNodes: opts.MaxNodes,
		drawn:    0,
	}

	if opts.Color {
		rend.red.EnableColor()
		rend.black.EnableColor()
	} else {
		rend.red.DisableColor()
		rend.black.DisableColor()
	}

	rend.writer.SetStyle(list.StyleConnectedRounded)
	rend.walk(root, "")

	return rend.writer.Render()
}

func (rend *renderer[T]) walk(cur rbtree.Cursor[T], side string) {
	if rend.maxNodes > 0 && rend.drawn >= rend.maxNodes {
		rend.writer.AppendItem(truncatedLabel)

		return
	}

	rend.drawn++
	rend.writer.AppendItem(side + rend.label(cur))

	left, right := cur.Left(), cur.Right()
	if !left.Valid() && !right.Valid() {
		return
	}

	rend.writer.Indent()
	rend.child(left, "L ")
	rend.child(right, "R ")
	rend.writer.UnIndent()
}

func (rend *renderer[T]) child(cur rbtree.Cursor[T], side string) {
	if !cur.Valid() {
		rend.writer.AppendItem(side + emptyLeafLabel)

		return
	}

	rend.walk(cur, side)
}

func (rend *renderer[T]) label(cur rbtree.Cursor[T]) string {
	text := fmt.Sprintf("%v (%s)", cur.Value(), cur.Color())
	if cur.Color() == rbtree.Red {
		return rend.red.Sprint(text)
	}

	return rend.black.Sprint(text)
}
