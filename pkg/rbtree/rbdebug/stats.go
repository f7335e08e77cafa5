package rbdebug

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
)

// Stats summarizes the balance of a tree.
type Stats struct {
	Size int `json:"size" yaml:"size"`
	// Height is the number of nodes on the longest root-to-leaf path.
	Height int `json:"height" yaml:"height"`
	// BlackHeight is the number of black nodes on the left-most path.
	BlackHeight int `json:"black_height" yaml:"black_height"`
	Red         int `json:"red"          yaml:"red"`
	Black       int `json:"black"        yaml:"black"`
}

// Collect walks the tree and computes its statistics.
func Collect[T any](tree *rbtree.Tree[T]) Stats {
	var stats Stats

	stats.Height = collect(tree.Root(), &stats)

	for cur := tree.Root(); cur.Valid(); cur = cur.Left() {
		if cur.Color() == rbtree.Black {
			stats.BlackHeight++
		}
	}

	return stats
}

func collect[T any](cur rbtree.Cursor[T], stats *Stats) int {
	if !cur.Valid() {
		return 0
	}

	stats.Size++

	if cur.Color() == rbtree.Red {
		stats.Red++
	} else {
		stats.Black++
	}

	return 1 + max(collect(cur.Left(), stats), collect(cur.Right(), stats))
}

// HeightBound is the largest height a red-black tree of the given size can
// reach: 2*log2(size+1).
func HeightBound(size int) int {
	return int(math.Floor(2 * math.Log2(float64(size)+1)))
}

// StatsTable renders stats as a two-column table.
func StatsTable(stats Stats) string {
	writer := table.NewWriter()
	writer.SetStyle(table.StyleLight)
	writer.AppendHeader(table.Row{"Metric", "Value"})
	writer.AppendRows([]table.Row{
		{"size", humanize.Comma(int64(stats.Size))},
		{"height", stats.Height},
		{"height bound", HeightBound(stats.Size)},
		{"black height", stats.BlackHeight},
		{"red nodes", humanize.Comma(int64(stats.Red))},
		{"black nodes", humanize.Comma(int64(stats.Black))},
	})

	return writer.Render()
}
