package mdsplit

import (
	"strings"

	"github.com/dgallion1/mdsplit/mdtree"
)

// codeSplitter subdivides a code block at line boundaries, carrying the
// fence and language info onto every piece. The limit is the general one,
// or the rule threshold when a size-split rule is configured; never-split
// is handled before dispatch.
type codeSplitter struct {
	eng *splitter
}

func (cs *codeSplitter) split(code *mdtree.Node, limit int) ([]*mdtree.Node, error) {
	lines := splitLines(code.Literal)
	if len(lines) <= 1 {
		// One giant line: nothing line-based to do, emit whole.
		return []*mdtree.Node{code}, nil
	}

	var out []*mdtree.Node
	var cur strings.Builder
	total := 0

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		piece := code.Clone()
		piece.Children = nil
		piece.Literal = cur.String()
		piece.Span = mdtree.Span{}
		out = append(out, piece)
		cur.Reset()
		total = 0
	}

	for _, line := range lines {
		sz := cs.eng.size.text(line)
		if total+sz > limit && cur.Len() > 0 {
			flush()
		}
		cur.WriteString(line)
		total += sz
	}
	flush()
	return out, nil
}

// splitLines splits after every newline, keeping the terminators so the
// pieces concatenate back to the original.
func splitLines(s string) []string {
	var out []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
	return out
}
