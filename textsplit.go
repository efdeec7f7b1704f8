package mdsplit

import (
	"fmt"
	"math"
	"strings"

	"github.com/dgallion1/mdsplit/mdtree"
)

// Merge/flush tie-break constants. Empirically chosen; covered by property
// tests rather than exact-value tests.
const (
	// minFragmentRatio is the fraction of the chunk size below which a
	// fragment is too small to stand alone.
	minFragmentRatio = 0.2

	// structCutLowRatio/structCutHighRatio bound the acceptable first-piece
	// size for a structural cut, as fractions of the chunk size.
	structCutLowRatio  = 0.3
	structCutHighRatio = 1.5

	// cutPriorityWeight converts boundary priority into the same unit as
	// distance-from-target when scoring cut candidates.
	cutPriorityWeight = 16
)

// splitTextNode reduces a node with no registered construct splitter by
// cutting its serialized text, most- to least-preferred: structural
// boundary, sentence packing, best safe position near a proportional
// target, hard cut. No cut ever lands inside a protected range.
//
// Parsed markdown hands this single blocks, which expose no structural
// boundaries; the structural rung engages on multi-block sub-trees, i.e.
// caller-built document nodes and the remainders re-parsed after a cut.
func (s *splitter) splitTextNode(n *mdtree.Node, limit int) ([]*mdtree.Node, error) {
	pieces, err := s.reduceNode(n, limit)
	if err != nil {
		return nil, err
	}
	if len(pieces) <= 1 {
		return []*mdtree.Node{n}, nil
	}

	var out []*mdtree.Node
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		frag, err := mdtree.Parse([]byte(p))
		if err != nil {
			return nil, fmt.Errorf("reparse fragment: %w", err)
		}
		out = append(out, unwrapDoc(frag))
	}
	return out, nil
}

func unwrapDoc(doc *mdtree.Node) *mdtree.Node {
	if doc.Kind == mdtree.KindDocument && len(doc.Children) == 1 {
		return doc.Children[0]
	}
	return doc
}

// reduceNode cuts a node's serialized text into pieces whose estimated
// content size fits the limit.
func (s *splitter) reduceNode(n *mdtree.Node, limit int) ([]string, error) {
	text, ranges, bounds := s.analyze(n)
	csize := s.size.node(n)
	if csize <= limit || len(text) == 0 {
		return []string{text}, nil
	}
	// Content-per-byte density, used to estimate the semantic size of a
	// raw slice without reparsing it.
	scale := float64(csize) / float64(len(text))

	if pos := s.pickStructuralCut(bounds, ranges, scale); pos > 0 && pos < len(text) {
		rest, err := mdtree.Parse([]byte(text[pos:]))
		if err != nil {
			return nil, fmt.Errorf("reparse remainder: %w", err)
		}
		tail, err := s.reduceNode(rest, limit)
		if err != nil {
			return nil, err
		}
		return append([]string{text[:pos]}, tail...), nil
	}

	tc := &textCutter{eng: s, text: text, ranges: ranges, bounds: bounds, scale: scale}
	return tc.pack(limit), nil
}

// pickStructuralCut selects the highest-priority structural boundary whose
// first piece lands in the acceptable window around the chunk size; among
// equals, the one closest to the chunk size wins.
func (s *splitter) pickStructuralCut(bounds []structuralBoundary, ranges []protectedRange, scale float64) int {
	low := structCutLowRatio * float64(s.opts.ChunkSize)
	high := structCutHighRatio * float64(s.opts.ChunkSize)
	target := float64(s.opts.ChunkSize)

	best := -1
	bestPrio := 0
	bestDist := 0.0
	for _, b := range bounds {
		est := float64(b.pos) * scale
		if est < low || est > high {
			continue
		}
		if insideProtected(ranges, b.pos) {
			continue
		}
		dist := math.Abs(est - target)
		if best < 0 || b.priority > bestPrio || (b.priority == bestPrio && dist < bestDist) {
			best, bestPrio, bestDist = b.pos, b.priority, dist
		}
	}
	return best
}

type textCutter struct {
	eng    *splitter
	text   string
	ranges []protectedRange
	bounds []structuralBoundary
	scale  float64
}

// est estimates the semantic size of text[lo:hi].
func (tc *textCutter) est(lo, hi int) int {
	return int(float64(hi-lo)*tc.scale + 0.5)
}

// pack splits the text into markdown-aware sentences and greedily fills
// chunks up to the target size. A sentence that would overflow is absorbed
// anyway when the running chunk or the sentence itself would otherwise fall
// below the minimum fragment size, bounded by the overflow limit.
func (tc *textCutter) pack(limit int) []string {
	target := tc.eng.opts.ChunkSize
	if limit < target {
		target = limit
	}
	minFrag := int(minFragmentRatio * float64(target))

	var pieces []string
	curStart, curEnd, curSize := 0, 0, 0

	flush := func() {
		if curEnd > curStart {
			pieces = append(pieces, tc.text[curStart:curEnd])
		}
		curStart = curEnd
		curSize = 0
	}

	for _, sp := range tc.sentences() {
		ssz := tc.est(sp[0], sp[1])

		if ssz > limit {
			flush()
			pieces = append(pieces, tc.cutOversized(sp[0], sp[1], limit)...)
			curStart, curEnd = sp[1], sp[1]
			continue
		}

		if curSize+ssz > target && curSize > 0 {
			absorb := (curSize < minFrag || ssz < minFrag) && curSize+ssz <= limit
			if !absorb {
				flush()
			}
		}
		curEnd = sp[1]
		curSize += ssz
	}
	flush()
	return pieces
}

// sentences partitions the text at sentence-ending punctuation followed by
// whitespace, skipping positions inside protected ranges, after path
// separators, and after single-letter abbreviations such as "e.g.".
func (tc *textCutter) sentences() [][2]int {
	t := tc.text
	var spans [][2]int
	start := 0
	for i := 0; i < len(t); i++ {
		c := t[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 >= len(t) || !isSpaceByte(t[i+1]) {
			continue
		}
		if insideProtected(tc.ranges, i+1) {
			continue
		}
		if i >= 1 && t[i-1] == '/' {
			continue
		}
		if c == '.' && isSingleLetterAbbrev(t, i) {
			continue
		}
		spans = append(spans, [2]int{start, i + 1})
		start = i + 1
	}
	if start < len(t) {
		spans = append(spans, [2]int{start, len(t)})
	}
	return spans
}

// isSingleLetterAbbrev reports whether the period at i follows a letter
// that stands alone, as in the periods of "e.g." or an initial.
func isSingleLetterAbbrev(t string, i int) bool {
	if i < 1 || !isLetterByte(t[i-1]) {
		return false
	}
	if i >= 2 && (isLetterByte(t[i-2]) || isDigitByte(t[i-2])) {
		return false
	}
	return true
}

// cutOversized reduces one sentence (or other unbreakable run) that alone
// exceeds the limit, repeatedly cutting at the best safe position near a
// target offset scaled from semantic to raw length.
func (tc *textCutter) cutOversized(a, b, limit int) []string {
	var out []string
	for tc.est(a, b) > limit {
		target := a + int(float64(limit)/tc.scale)
		if target >= b {
			break
		}
		pos := tc.bestCut(a, b, target)
		if pos <= a || pos >= b {
			break
		}
		out = append(out, tc.text[a:pos])
		a = pos
	}
	if b > a {
		out = append(out, tc.text[a:b])
	}
	return out
}

// bestCut scores every safe candidate position in (a, b) by boundary
// priority minus distance from the target, preferring positions at or
// before the target on near ties. With no safe candidate at all, it cuts
// immediately after the protected range covering the target, and as an
// absolute last resort hard-cuts at the target.
func (tc *textCutter) bestCut(a, b, target int) int {
	type candidate struct {
		pos  int
		prio int
	}
	var cands []candidate

	for _, sb := range tc.bounds {
		if sb.pos > a && sb.pos < b {
			cands = append(cands, candidate{sb.pos, sb.priority + 2})
		}
	}
	t := tc.text
	for i := a + 1; i < b; i++ {
		if i+1 < b && (t[i] == '.' || t[i] == '!' || t[i] == '?') && isSpaceByte(t[i+1]) {
			cands = append(cands, candidate{i + 1, 2})
			continue
		}
		if isSpaceByte(t[i]) && !isSpaceByte(t[i-1]) {
			cands = append(cands, candidate{i, 1})
		}
	}

	best, bestScore := -1, math.MinInt
	for _, c := range cands {
		if insideProtected(tc.ranges, c.pos) {
			continue
		}
		score := c.prio*cutPriorityWeight - absInt(c.pos-target)
		if c.pos <= target {
			score++
		}
		if score > bestScore {
			best, bestScore = c.pos, score
		}
	}
	if best > 0 {
		return best
	}

	if r, ok := enclosingProtected(tc.ranges, target); ok {
		if r.end < b {
			return r.end
		}
		return b
	}
	return runeAlign(tc.text, target, a)
}

// runeAlign backs pos up to the nearest rune start so a hard cut never
// lands inside a multi-byte character.
func runeAlign(t string, pos, min int) int {
	for pos > min+1 && pos < len(t) && t[pos]&0xC0 == 0x80 {
		pos--
	}
	return pos
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

func isLetterByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
