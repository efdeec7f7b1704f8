package mdsplit

import (
	"fmt"

	"github.com/dgallion1/mdsplit/mdtree"
)

// quoteSplitter subdivides a blockquote by splitting its inner content
// through a fresh engine and re-wrapping every fragment in quote markers.
type quoteSplitter struct {
	eng *splitter
}

func (qs *quoteSplitter) split(quote *mdtree.Node, limit int) ([]*mdtree.Node, error) {
	inner, err := reparseBlocks(quote.Children)
	if err != nil {
		return nil, fmt.Errorf("split blockquote: %w", err)
	}
	frags, err := qs.eng.subSplit(inner)
	if err != nil {
		return nil, err
	}

	out := make([]*mdtree.Node, 0, len(frags))
	for _, f := range frags {
		out = append(out, &mdtree.Node{
			Kind:     mdtree.KindBlockquote,
			Children: fragmentBlocks(f),
		})
	}
	return out, nil
}
