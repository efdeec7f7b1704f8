package mdsplit

import (
	"fmt"

	"github.com/dgallion1/mdsplit/mdtree"
)

// listSplitter subdivides a list into sub-lists that fit the limit. Ordered
// sub-lists get a corrected start number so item numbering continues across
// chunks instead of resetting to 1.
type listSplitter struct {
	eng *splitter
}

func (ls *listSplitter) split(list *mdtree.Node, limit int) ([]*mdtree.Node, error) {
	var out []*mdtree.Node
	var items []*mdtree.Node
	total := 0
	first := 0 // index of the first item in the accumulating sub-list

	flush := func(next int) {
		if len(items) > 0 {
			out = append(out, subList(list, items, first))
		}
		items, total = nil, 0
		first = next
	}

	for i, item := range list.Children {
		sz := ls.eng.size.node(item)

		if sz > limit {
			flush(i)
			frags, err := ls.splitItem(list, item, i)
			if err != nil {
				return nil, err
			}
			out = append(out, frags...)
			first = i + 1
			continue
		}

		if total+sz > limit && len(items) > 0 {
			flush(i)
		}
		items = append(items, item)
		total += sz
	}
	flush(len(list.Children))
	return out, nil
}

// splitItem handles one item too large for a sub-list of its own: its
// content goes through a fresh engine, the first fragment is re-wrapped as
// a list item keeping the original marker and number, and the remaining
// fragments are emitted as bare content.
func (ls *listSplitter) splitItem(list, item *mdtree.Node, idx int) ([]*mdtree.Node, error) {
	inner, err := reparseBlocks(item.Children)
	if err != nil {
		return nil, fmt.Errorf("split list item %d: %w", idx+1, err)
	}
	frags, err := ls.eng.subSplit(inner)
	if err != nil {
		return nil, err
	}

	var out []*mdtree.Node
	for i, f := range frags {
		if i == 0 {
			wrapped := &mdtree.Node{Kind: mdtree.KindListItem, Children: fragmentBlocks(f)}
			out = append(out, subList(list, []*mdtree.Node{wrapped}, idx))
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// subList clones the list shell around a run of items starting at index
// first of the original.
func subList(list *mdtree.Node, items []*mdtree.Node, first int) *mdtree.Node {
	n := list.Clone()
	n.Children = items
	n.Span = mdtree.Span{}
	if n.Ordered {
		start := list.Start
		if start <= 0 {
			start = 1
		}
		n.Start = start + first
	}
	return n
}

// reparseBlocks serializes a run of blocks and parses it back, giving the
// sub-tree fresh offsets for protected-range derivation.
func reparseBlocks(blocks []*mdtree.Node) (*mdtree.Node, error) {
	doc := &mdtree.Node{Kind: mdtree.KindDocument, Children: blocks}
	parsed, err := mdtree.Parse([]byte(mdtree.Render(doc)))
	if err != nil {
		return nil, fmt.Errorf("reparse sub-tree: %w", err)
	}
	return parsed, nil
}

// fragmentBlocks unwraps a fragment into its block nodes.
func fragmentBlocks(f *mdtree.Node) []*mdtree.Node {
	if f.Kind == mdtree.KindDocument {
		return f.Children
	}
	return []*mdtree.Node{f}
}
