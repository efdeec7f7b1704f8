package mdsplit

import (
	"fmt"

	"github.com/dgallion1/mdsplit/mdtree"
)

// tableSplitter subdivides a table into sub-tables, keeping the header row
// attached to every one so no emitted table loses its column labels.
type tableSplitter struct {
	eng *splitter
}

func (ts *tableSplitter) split(table *mdtree.Node, limit int) ([]*mdtree.Node, error) {
	if len(table.Children) == 0 {
		return []*mdtree.Node{table}, nil
	}

	var header *mdtree.Node
	rows := table.Children
	if rows[0].Header {
		header = rows[0]
		rows = rows[1:]
	}
	headerSize := 0
	if header != nil {
		headerSize = ts.eng.size.node(header)
	}

	var out []*mdtree.Node
	var group []*mdtree.Node
	total := 0

	flush := func() {
		if len(group) > 0 {
			out = append(out, subTable(table, header, group))
		}
		group, total = nil, 0
	}

	for i, row := range rows {
		sz := ts.eng.size.node(row)

		if headerSize+sz > limit {
			flush()
			minis, err := ts.splitRow(table, header, row, i, limit)
			if err != nil {
				return nil, err
			}
			out = append(out, minis...)
			continue
		}

		if headerSize+total+sz > limit && len(group) > 0 {
			flush()
		}
		group = append(group, row)
		total += sz
	}
	flush()
	return out, nil
}

// splitRow reduces one oversized row to single-column mini-tables, pairing
// each data cell with its header cell. A cell that is still too large has
// its content split by a fresh engine, one mini-table per fragment.
func (ts *tableSplitter) splitRow(table, header, row *mdtree.Node, idx, limit int) ([]*mdtree.Node, error) {
	var out []*mdtree.Node
	for i, cell := range row.Children {
		hcell := headerCell(header, i)

		if ts.eng.size.node(cell) <= limit {
			out = append(out, miniTable(table, hcell, cell, i))
			continue
		}

		inner, err := reparseBlocks(cellBlocks(cell))
		if err != nil {
			return nil, fmt.Errorf("split table row %d cell %d: %w", idx+1, i+1, err)
		}
		frags, err := ts.eng.subSplit(inner)
		if err != nil {
			return nil, err
		}
		for _, f := range frags {
			frag := &mdtree.Node{Kind: mdtree.KindTableCell, Children: inlineNodes(f)}
			out = append(out, miniTable(table, hcell, frag, i))
		}
	}
	return out, nil
}

// subTable clones the table shell around a run of rows, re-attaching the
// header row when the original had one.
func subTable(table, header *mdtree.Node, rows []*mdtree.Node) *mdtree.Node {
	n := table.Clone()
	n.Span = mdtree.Span{}
	n.Children = nil
	if header != nil {
		n.Children = append(n.Children, header)
	}
	n.Children = append(n.Children, rows...)
	return n
}

func headerCell(header *mdtree.Node, i int) *mdtree.Node {
	if header == nil || i >= len(header.Children) {
		return nil
	}
	return header.Children[i]
}

// miniTable builds a one-column table out of a header cell and a data cell.
func miniTable(table, hcell, cell *mdtree.Node, col int) *mdtree.Node {
	mini := &mdtree.Node{Kind: mdtree.KindTable, Aligns: []mdtree.Alignment{alignFor(table, col)}}
	if hcell != nil {
		mini.Children = append(mini.Children, &mdtree.Node{
			Kind:     mdtree.KindTableRow,
			Header:   true,
			Children: []*mdtree.Node{hcell},
		})
	}
	mini.Children = append(mini.Children, &mdtree.Node{
		Kind:     mdtree.KindTableRow,
		Children: []*mdtree.Node{cell},
	})
	return mini
}

func alignFor(table *mdtree.Node, col int) mdtree.Alignment {
	if col < len(table.Aligns) {
		return table.Aligns[col]
	}
	return mdtree.AlignNone
}

// cellBlocks lifts a cell's inline content into a paragraph so it can be
// serialized as a standalone sub-tree.
func cellBlocks(cell *mdtree.Node) []*mdtree.Node {
	return []*mdtree.Node{{Kind: mdtree.KindParagraph, Children: cell.Children}}
}

// inlineNodes flattens a fragment back to inline nodes fit for a cell.
func inlineNodes(f *mdtree.Node) []*mdtree.Node {
	switch f.Kind {
	case mdtree.KindDocument:
		var out []*mdtree.Node
		for _, c := range f.Children {
			out = append(out, inlineNodes(c)...)
		}
		return out
	case mdtree.KindParagraph:
		return f.Children
	default:
		return []*mdtree.Node{f}
	}
}
