package scene

import (
	"fmt"
	"io"
	"strings"
)

// PrintTree writes one line per object of the subtree rooted at root, each
// indented by its depth below root.
func PrintTree(w io.Writer, root Object) error {
	return printTree(w, root, 0)
}

func printTree(w io.Writer, o Object, depth int) error {
	n := o.Node()
	if _, err := fmt.Fprintf(w, "%s-> %s [%s %d]\n", strings.Repeat("   ", depth), n.Name(), o.TypeName(), o.ID()); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := printTree(w, c.Get(), depth+1); err != nil {
			return err
		}
	}
	return nil
}
