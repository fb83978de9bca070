package asagraph

import (
	"fmt"
	"io"
	"os"
)

// WriteTree emits a level-order dump of the tree: one line per level, each
// node delimited by "||" with "key:counter|" entries between and a
// trailing space per node. The format is stable and test-visible.
func (g *Graph[K]) WriteTree(w io.Writer) error {
	level := []*node[K]{g.root}
	for len(level) > 0 {
		var next []*node[K]
		for _, n := range level {
			if _, err := io.WriteString(w, "||"); err != nil {
				return err
			}
			for j, element := range n.elements {
				if _, err := fmt.Fprintf(w, "%v:%d|", element.key, element.counter); err != nil {
					return err
				}
				if !n.isLeaf {
					next = append(next, n.children[j])
				}
			}
			if !n.isLeaf {
				next = append(next, n.children[n.size()])
			}
			if _, err := io.WriteString(w, "| "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		level = next
	}
	return nil
}

// PrintTree writes the level-order dump to stdout.
func (g *Graph[K]) PrintTree() {
	_ = g.WriteTree(os.Stdout)
}
