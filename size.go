package mdsplit

import "github.com/dgallion1/mdsplit/mdtree"

// sizer memoizes semantic sizes per node and section, since the greedy
// packing passes re-measure the same subtrees repeatedly.
type sizer struct {
	fn       SizeFunc
	nodes    map[*mdtree.Node]int
	sections map[*Section]int
}

func newSizer(fn SizeFunc) *sizer {
	return &sizer{
		fn:       fn,
		nodes:    make(map[*mdtree.Node]int),
		sections: make(map[*Section]int),
	}
}

func (z *sizer) text(s string) int {
	return z.fn(s)
}

func (z *sizer) node(n *mdtree.Node) int {
	if sz, ok := z.nodes[n]; ok {
		return sz
	}
	sz := z.fn(mdtree.Text(n))
	z.nodes[n] = sz
	return sz
}

// section sums the heading and all children, recursing into subsections.
func (z *sizer) section(s *Section) int {
	if sz, ok := z.sections[s]; ok {
		return sz
	}
	total := 0
	if s.Heading != nil {
		total += z.node(s.Heading)
	}
	for _, e := range s.Children {
		if e.Node != nil {
			total += z.node(e.Node)
		} else {
			total += z.section(e.Section)
		}
	}
	z.sections[s] = total
	return total
}
