package mdtree

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// blockContainer marks kinds whose children are block-level, so their
// semantic text is joined with newlines instead of concatenated.
var blockContainer = map[Kind]bool{
	KindDocument:   true,
	KindList:       true,
	KindListItem:   true,
	KindBlockquote: true,
	KindTable:      true,
	KindTableRow:   true,
}

// Text returns a node's semantic text: the visible content with formatting
// syntax stripped. A link contributes its label, not its URL; emphasis
// contributes the emphasized words; raw HTML contributes its tag-stripped
// text; a thematic break contributes nothing.
func Text(n *Node) string {
	var b strings.Builder
	appendText(n, &b)
	return b.String()
}

func appendText(n *Node, b *strings.Builder) {
	switch n.Kind {
	case KindText, KindInlineCode, KindCodeBlock:
		b.WriteString(n.Literal)
	case KindHTML:
		b.WriteString(stripTags(n.Literal))
	case KindThematicBreak:
	default:
		sep := ""
		if blockContainer[n.Kind] {
			sep = "\n"
		}
		for i, c := range n.Children {
			if i > 0 && sep != "" {
				b.WriteString(sep)
			}
			appendText(c, b)
		}
	}
}

// ContentSize is the semantic text length of a node in runes. Splitting a
// node and summing the parts never yields more than the whole (separators
// aside), which keeps size-based packing decisions consistent across splits.
func ContentSize(n *Node) int {
	return utf8.RuneCountInString(Text(n))
}

// RawSize is the serialized length of a node: the original source span when
// offsets are known, the rendered length otherwise.
func RawSize(n *Node) int {
	if n.Span.Valid() {
		return n.Span.Len()
	}
	return len(Render(n))
}

// stripTags extracts the text content of an HTML fragment. On a parse
// failure the raw input is returned unchanged.
func stripTags(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(b.String())
}
