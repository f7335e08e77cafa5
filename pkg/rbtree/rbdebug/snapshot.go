// Package rbdebug provides diagnostics for rbtree: shape snapshots, terminal
// rendering and balance statistics. It only uses the public Cursor surface.
package rbdebug

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// Snapshot is a detached copy of a subtree shape.
type Snapshot[T any] struct {
	Value T            `json:"value"           yaml:"value"`
	Color string       `json:"color"           yaml:"color"`
	Left  *Snapshot[T] `json:"left,omitempty"  yaml:"left,omitempty"`
	Right *Snapshot[T] `json:"right,omitempty" yaml:"right,omitempty"`
}

// Capture copies the subtree under cur. It returns nil for an empty position.
func Capture[T any](cur rbtree.Cursor[T]) *Snapshot[T] {
	if !cur.Valid() {
		return nil
	}

	return &Snapshot[T]{
		Value: cur.Value(),
		Color: colorName(cur.Color()),
		Left:  Capture(cur.Left()),
		Right: Capture(cur.Right()),
	}
}

// MarshalYAML encodes the snapshot of the whole tree as YAML.
func MarshalYAML[T any](tree *rbtree.Tree[T]) ([]byte, error) {
	data, err := yaml.Marshal(Capture(tree.Root()))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return data, nil
}

// MarshalJSON encodes the snapshot of the whole tree as indented JSON.
func MarshalJSON[T any](tree *rbtree.Tree[T]) ([]byte, error) {
	data, err := json.MarshalIndent(Capture(tree.Root()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}

	return data, nil
}

func colorName(color rbtree.Color) string {
	if color == rbtree.Red {
		return "red"
	}

	return "black"
}
