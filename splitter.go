package mdsplit

import "github.com/dgallion1/mdsplit/mdtree"

// nodeSplitter subdivides one construct kind into fragments no larger than
// the limit, preserving the construct's validity. Construct splitters and
// the orchestrator are mutually recursive: a splitter hands oversized inner
// content back to a fresh engine through subSplit.
type nodeSplitter interface {
	split(n *mdtree.Node, limit int) ([]*mdtree.Node, error)
}

// produced is one emitted chunk before serialization.
type produced struct {
	node   *mdtree.Node
	crumbs []Breadcrumb
}

type splitter struct {
	opts  Options
	max   int
	size  *sizer
	reg   map[mdtree.Kind]nodeSplitter
	sized map[mdtree.Kind]int // kinds with an active size-split threshold
	out   []produced
}

func newSplitter(opts Options) *splitter {
	s := &splitter{
		opts:  opts,
		max:   opts.maxAllowed(),
		size:  newSizer(opts.Size),
		sized: map[mdtree.Kind]int{},
	}
	for k, r := range opts.Rules {
		if r.Mode == RuleSizeSplit && r.Threshold > 0 {
			s.sized[k] = r.Threshold
		}
	}
	s.reg = map[mdtree.Kind]nodeSplitter{
		mdtree.KindList:       &listSplitter{eng: s},
		mdtree.KindTable:      &tableSplitter{eng: s},
		mdtree.KindBlockquote: &quoteSplitter{eng: s},
		mdtree.KindCodeBlock:  &codeSplitter{eng: s},
	}
	return s
}

func (s *splitter) run(doc *mdtree.Node) ([]produced, error) {
	root := BuildHierarchy(doc)
	if err := s.walkSections(root, nil); err != nil {
		return nil, err
	}
	return s.out, nil
}

// fitsWhole reports whether a section may be emitted as a single chunk: its
// content size is within budget and nothing inside it breaches a size-split
// threshold of its own.
func (s *splitter) fitsWhole(sec *Section) bool {
	return s.size.section(sec) <= s.max && !s.sectionViolatesThreshold(sec)
}

func (s *splitter) sectionViolatesThreshold(sec *Section) bool {
	if len(s.sized) == 0 {
		return false
	}
	for _, e := range sec.Children {
		if e.Node != nil && s.nodeViolatesThreshold(e.Node) {
			return true
		}
		if e.Section != nil && s.sectionViolatesThreshold(e.Section) {
			return true
		}
	}
	return false
}

func (s *splitter) nodeViolatesThreshold(n *mdtree.Node) bool {
	if len(s.sized) == 0 {
		return false
	}
	if th, ok := s.sized[n.Kind]; ok && s.size.node(n) > th {
		return true
	}
	for _, c := range n.Children {
		if s.nodeViolatesThreshold(c) {
			return true
		}
	}
	return false
}

// walkSections emits each section whole when it fits and breaks it down
// otherwise.
func (s *splitter) walkSections(secs []*Section, crumbs []Breadcrumb) error {
	for _, sec := range secs {
		if s.fitsWhole(sec) {
			s.emitSection(sec, crumbs)
			continue
		}
		if err := s.splitHierarchicalSection(sec, crumbs); err != nil {
			return err
		}
	}
	return nil
}

// splitHierarchicalSection breaks down one oversized section: the heading
// and its immediate content form a candidate parent chunk that greedily
// absorbs leading subsections while they fit; whatever does not fit is
// handled by sibling merging, and a parent too large on its own is reduced
// by splitSectionContent.
func (s *splitter) splitHierarchicalSection(sec *Section, crumbs []Breadcrumb) error {
	var subs []*Section
	parent := &Section{Depth: sec.Depth, Heading: sec.Heading}
	for _, e := range sec.Children {
		if e.Node != nil {
			parent.Children = append(parent.Children, e)
		} else {
			subs = append(subs, e.Section)
		}
	}

	childCrumbs := crumbs
	if sec.Heading != nil {
		childCrumbs = appendCrumb(crumbs, sec.Heading)
	}

	if total := s.size.section(parent); total <= s.max && !s.sectionViolatesThreshold(parent) {
		merged := 0
		for _, sub := range subs {
			sz := s.size.section(sub)
			if total+sz > s.max || s.sectionViolatesThreshold(sub) {
				break
			}
			parent.Children = append(parent.Children, Element{Section: sub})
			total += sz
			merged++
		}
		if merged > 0 {
			s.emitSection(parent, crumbs)
			return s.mergeSiblingSections(subs[merged:], childCrumbs)
		}
		// Nothing merged: fall through and split the parent anyway, so
		// the heading chunk does not end up nearly empty next to a
		// first subsection that barely missed the budget.
	}

	if err := s.splitSectionContent(parent, crumbs, childCrumbs); err != nil {
		return err
	}
	return s.mergeSiblingSections(subs, childCrumbs)
}

// mergeSiblingSections walks sibling sections, accumulating a running group
// and flushing it as one chunk when the next sibling would overflow. A
// sibling too large on its own is recursively broken down instead of being
// grouped. First-fit in document order, not a global packing optimum.
func (s *splitter) mergeSiblingSections(secs []*Section, crumbs []Breadcrumb) error {
	var group []*Section
	total := 0

	flush := func() {
		if len(group) == 0 {
			return
		}
		if len(group) == 1 {
			s.emitSection(group[0], crumbs)
		} else {
			w := &Section{Depth: wrapperDepth(group[0].Depth)}
			for _, g := range group {
				w.Children = append(w.Children, Element{Section: g})
			}
			s.emitSection(w, crumbs)
		}
		group, total = nil, 0
	}

	for _, sec := range secs {
		sz := s.size.section(sec)
		if sz > s.max || s.sectionViolatesThreshold(sec) {
			flush()
			if err := s.splitHierarchicalSection(sec, crumbs); err != nil {
				return err
			}
			continue
		}
		if total+sz > s.max && len(group) > 0 {
			flush()
		}
		group = append(group, sec)
		total += sz
	}
	flush()
	return nil
}

func wrapperDepth(d int) int {
	if d < 1 {
		d = 1
	}
	return d - 1
}

// splitSectionContent reduces a section whose heading plus immediate content
// exceeds the budget: greedily accumulate items, flush on overflow, and
// delegate items that are individually oversized to their construct
// splitter. Chunks holding the heading get the ancestor breadcrumbs; chunks
// split away from it additionally carry the section's own heading, supplied
// by the caller as childCrumbs.
func (s *splitter) splitSectionContent(sec *Section, crumbs, childCrumbs []Breadcrumb) error {
	var items []*mdtree.Node
	if sec.Heading != nil {
		items = append(items, sec.Heading)
	}
	for _, e := range sec.Children {
		if e.Node != nil {
			items = append(items, e.Node)
		}
	}

	crumbsFor := func(hasHeading bool) []Breadcrumb {
		if sec.Heading == nil || hasHeading {
			return crumbs
		}
		return childCrumbs
	}

	var group []*mdtree.Node
	total := 0
	groupHasHeading := false

	flush := func() {
		if len(group) == 0 {
			return
		}
		s.emitNodes(group, crumbsFor(groupHasHeading))
		group, total, groupHasHeading = nil, 0, false
	}

	for i, item := range items {
		isHeading := sec.Heading != nil && i == 0
		sz := s.size.node(item)

		if sz > s.max || s.nodeViolatesThreshold(item) {
			flush()
			frags, err := s.splitSubNode(item)
			if err != nil {
				return err
			}
			for _, f := range frags {
				s.emitNodes([]*mdtree.Node{f}, crumbsFor(isHeading))
			}
			continue
		}

		if total+sz > s.max && len(group) > 0 {
			flush()
		}
		group = append(group, item)
		total += sz
		if isHeading {
			groupHasHeading = true
		}
	}
	flush()
	return nil
}

// splitSubNode dispatches one oversized node to its construct splitter, or
// to the text splitter when no splitter is registered for the kind.
// Per-construct rules apply here: never-split emits whole, size-split
// substitutes its own threshold for the general limit.
func (s *splitter) splitSubNode(n *mdtree.Node) ([]*mdtree.Node, error) {
	rule := s.opts.Rules[n.Kind]
	if rule.Mode == RuleNeverSplit {
		return []*mdtree.Node{n}, nil
	}
	limit := s.max
	if rule.Mode == RuleSizeSplit && rule.Threshold > 0 {
		limit = rule.Threshold
	}
	if sp, ok := s.reg[n.Kind]; ok {
		return sp.split(n, limit)
	}
	return s.splitTextNode(n, limit)
}

// subSplit runs a fresh engine over a serialized-and-reparsed sub-tree and
// returns its fragments. Construct splitters use it for oversized inner
// content, forming the mutual recursion with the orchestrator.
func (s *splitter) subSplit(doc *mdtree.Node) ([]*mdtree.Node, error) {
	sub := newSplitter(s.opts)
	prods, err := sub.run(doc)
	if err != nil {
		return nil, err
	}
	nodes := make([]*mdtree.Node, 0, len(prods))
	for _, p := range prods {
		nodes = append(nodes, p.node)
	}
	return nodes, nil
}

func (s *splitter) emitSection(sec *Section, crumbs []Breadcrumb) {
	s.out = append(s.out, produced{node: sec.docNode(), crumbs: crumbs})
}

func (s *splitter) emitNodes(nodes []*mdtree.Node, crumbs []Breadcrumb) {
	if len(nodes) == 0 {
		return
	}
	content := nodes[0]
	if len(nodes) > 1 {
		content = &mdtree.Node{Kind: mdtree.KindDocument, Children: nodes}
	}
	s.out = append(s.out, produced{node: content, crumbs: crumbs})
}
