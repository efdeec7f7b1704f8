package mdsplit

import (
	"strings"

	"github.com/dgallion1/mdsplit/mdtree"
)

// Section groups a heading with the content it owns and the subsections
// nested under it. Depth 0 marks a synthetic section with no heading: either
// an orphan wrapping content that has no owning heading, or a sibling-group
// wrapper produced while merging.
type Section struct {
	Depth    int
	Heading  *mdtree.Node
	Children []Element
}

// Element is one ordered child of a Section: a content node or a nested
// subsection. Exactly one field is set.
type Element struct {
	Node    *mdtree.Node
	Section *Section
}

// BuildHierarchy organizes a document's top-level nodes into sections. A
// heading opens a section at its level and absorbs following nodes until a
// heading of equal or shallower depth or a thematic break appears; neither
// terminator is consumed by the section it ends. Deeper headings inside the
// absorbed run become nested subsections. Every top-level element of the
// result is a Section: bare nodes are wrapped in depth-0 orphan sections.
func BuildHierarchy(doc *mdtree.Node) []*Section {
	elems := buildElements(doc.Children)

	out := make([]*Section, 0, len(elems))
	for _, e := range elems {
		if e.Section != nil {
			out = append(out, e.Section)
			continue
		}
		out = append(out, &Section{Children: []Element{e}})
	}
	return out
}

func buildElements(nodes []*mdtree.Node) []Element {
	var out []Element
	for i := 0; i < len(nodes); {
		n := nodes[i]
		if n.Kind != mdtree.KindHeading {
			out = append(out, Element{Node: n})
			i++
			continue
		}

		j := i + 1
		for j < len(nodes) {
			m := nodes[j]
			if m.Kind == mdtree.KindThematicBreak {
				break
			}
			if m.Kind == mdtree.KindHeading && m.Depth <= n.Depth {
				break
			}
			j++
		}

		sec := &Section{Depth: n.Depth, Heading: n}
		sec.Children = buildElements(nodes[i+1 : j])
		out = append(out, Element{Section: sec})
		i = j
	}
	return out
}

// flatten returns the section's nodes in document order, heading first,
// recursing into subsections.
func (s *Section) flatten() []*mdtree.Node {
	var out []*mdtree.Node
	if s.Heading != nil {
		out = append(out, s.Heading)
	}
	for _, e := range s.Children {
		if e.Node != nil {
			out = append(out, e.Node)
		} else {
			out = append(out, e.Section.flatten()...)
		}
	}
	return out
}

// docNode wraps the flattened section in a document node for rendering.
func (s *Section) docNode() *mdtree.Node {
	nodes := s.flatten()
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &mdtree.Node{Kind: mdtree.KindDocument, Children: nodes}
}

// headingCrumb converts a heading node into a breadcrumb entry.
func headingCrumb(h *mdtree.Node) Breadcrumb {
	return Breadcrumb{
		Text:  strings.TrimSpace(mdtree.Text(h)),
		Depth: h.Depth,
	}
}

// appendCrumb extends a breadcrumb trail without sharing backing arrays
// between sibling recursions.
func appendCrumb(crumbs []Breadcrumb, h *mdtree.Node) []Breadcrumb {
	out := make([]Breadcrumb, 0, len(crumbs)+1)
	out = append(out, crumbs...)
	return append(out, headingCrumb(h))
}
