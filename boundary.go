package mdsplit

import (
	"sort"

	"github.com/dgallion1/mdsplit/mdtree"
)

// protectedRange is a byte interval of rendered text that must not be cut
// through: an inline construct whose syntax would be left unbalanced.
type protectedRange struct {
	start int
	end   int
	kind  mdtree.Kind
}

// structuralBoundary is a ranked candidate cut position: the start offset of
// a block element in rendered text.
type structuralBoundary struct {
	pos      int
	kind     mdtree.Kind
	priority int
}

// boundaryPriority ranks block kinds by how acceptable a cut before them is.
var boundaryPriority = map[mdtree.Kind]int{
	mdtree.KindHeading:       7,
	mdtree.KindThematicBreak: 6,
	mdtree.KindCodeBlock:     5,
	mdtree.KindBlockquote:    4,
	mdtree.KindParagraph:     3,
	mdtree.KindList:          2,
	mdtree.KindListItem:      1,
}

// protectedByDefault lists the inline kinds whose spans are never cut
// through unless an allow-split rule lifts the protection.
var protectedByDefault = map[mdtree.Kind]bool{
	mdtree.KindLink:       true,
	mdtree.KindImage:      true,
	mdtree.KindInlineCode: true,
	mdtree.KindEmphasis:   true,
	mdtree.KindStrong:     true,
	mdtree.KindDelete:     true,
}

// analyze renders a node and derives the protected ranges and structural
// boundaries of the output. Called again after every serialize-and-reparse
// round, so the offsets always match the text being cut.
func (s *splitter) analyze(n *mdtree.Node) (string, []protectedRange, []structuralBoundary) {
	text, spans := mdtree.RenderSpans(n)

	var ranges []protectedRange
	var bounds []structuralBoundary
	for _, ns := range spans {
		if ns.Node == n {
			continue
		}
		if prio, ok := boundaryPriority[ns.Node.Kind]; ok && ns.Span.Start > 0 {
			bounds = append(bounds, structuralBoundary{ns.Span.Start, ns.Node.Kind, prio})
		}
		if s.isProtected(ns.Node.Kind) && ns.Span.Len() > 0 {
			ranges = append(ranges, protectedRange{ns.Span.Start, ns.Span.End, ns.Node.Kind})
		}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].pos < bounds[j].pos })
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	return text, ranges, bounds
}

func (s *splitter) isProtected(k mdtree.Kind) bool {
	switch s.opts.Rules[k].Mode {
	case RuleNeverSplit:
		return true
	case RuleAllowSplit:
		return false
	}
	return protectedByDefault[k]
}

// insideProtected reports whether cutting at pos would tear a range open.
// The range endpoints themselves are fine to cut at.
func insideProtected(ranges []protectedRange, pos int) bool {
	for _, r := range ranges {
		if r.start >= pos {
			break
		}
		if pos < r.end {
			return true
		}
	}
	return false
}

// enclosingProtected returns the range strictly containing pos, if any.
func enclosingProtected(ranges []protectedRange, pos int) (protectedRange, bool) {
	for _, r := range ranges {
		if r.start >= pos {
			break
		}
		if pos < r.end {
			return r, true
		}
	}
	return protectedRange{}, false
}
