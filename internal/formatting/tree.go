package formatting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/list"

	"admitad/pkg/publisher"
)

// PrintCategoryTree renders nested categories as an indented list. Non-table
// formats print the nodes as data.
func (p *Printer) PrintCategoryTree(roots []*publisher.CategoryNode) error {
	if p.options.Format != FormatTable {
		return p.Print(roots)
	}
	if len(roots) == 0 {
		_, err := fmt.Fprintln(p.out, "No categories found")
		return err
	}

	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)
	for _, n := range roots {
		appendNode(l, n)
	}
	_, err := fmt.Fprintln(p.out, l.Render())
	return err
}

func appendNode(l list.Writer, n *publisher.CategoryNode) {
	l.AppendItem(fmt.Sprintf("%s (%d)", n.Name, n.ID))
	if len(n.Children) == 0 {
		return
	}
	l.Indent()
	for _, c := range n.Children {
		appendNode(l, c)
	}
	l.UnIndent()
}
