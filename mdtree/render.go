package mdtree

import (
	"fmt"
	"strings"
)

// NodeSpan reports where a node landed in rendered output, as a byte range
// into the string returned alongside it.
type NodeSpan struct {
	Node *Node
	Span Span
}

// Render serializes a node tree back to markdown text.
func Render(n *Node) string {
	r := &renderer{atStart: true, itemSep: "\n\n"}
	r.node(n)
	return r.buf.String()
}

// RenderSpans serializes a node tree and records the output span of every
// node. Callers that re-split serialized text use the spans to re-derive
// protected ranges and structural boundaries against the fresh offsets.
func RenderSpans(n *Node) (string, []NodeSpan) {
	r := &renderer{atStart: true, itemSep: "\n\n", record: true}
	r.node(n)
	return r.buf.String(), r.spans
}

type renderer struct {
	buf     strings.Builder
	prefix  []string
	atStart bool
	itemSep string

	record bool
	spans  []NodeSpan
}

// write emits text, inserting the active line prefixes (blockquote markers,
// list continuation indent) at every line start.
func (r *renderer) write(s string) {
	for len(s) > 0 {
		if r.atStart {
			for _, p := range r.prefix {
				r.buf.WriteString(p)
			}
			r.atStart = false
		}
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			r.buf.WriteString(s)
			return
		}
		r.buf.WriteString(s[:i+1])
		r.atStart = true
		s = s[i+1:]
	}
}

func (r *renderer) push(p string) { r.prefix = append(r.prefix, p) }
func (r *renderer) pop()          { r.prefix = r.prefix[:len(r.prefix)-1] }

func (r *renderer) node(n *Node) {
	start := r.buf.Len()

	switch n.Kind {
	case KindDocument:
		r.blocks(n.Children, "\n\n")
	case KindHeading:
		depth := n.Depth
		if depth < 1 {
			depth = 1
		}
		if depth > 6 {
			depth = 6
		}
		r.write(strings.Repeat("#", depth) + " ")
		r.inlines(n.Children)
	case KindParagraph:
		r.inlines(n.Children)
	case KindText:
		r.write(n.Literal)
	case KindEmphasis:
		r.write("*")
		r.inlines(n.Children)
		r.write("*")
	case KindStrong:
		r.write("**")
		r.inlines(n.Children)
		r.write("**")
	case KindDelete:
		r.write("~~")
		r.inlines(n.Children)
		r.write("~~")
	case KindInlineCode:
		if strings.Contains(n.Literal, "`") {
			r.write("`` " + n.Literal + " ``")
		} else {
			r.write("`" + n.Literal + "`")
		}
	case KindLink:
		r.write("[")
		r.inlines(n.Children)
		r.write("](" + n.URL + linkTitle(n.Title) + ")")
	case KindImage:
		r.write("![")
		r.inlines(n.Children)
		r.write("](" + n.URL + linkTitle(n.Title) + ")")
	case KindList:
		r.list(n)
	case KindListItem:
		r.blocks(n.Children, r.itemSep)
	case KindBlockquote:
		r.push("> ")
		r.blocks(n.Children, "\n\n")
		r.pop()
	case KindCodeBlock:
		fence := "```"
		if strings.Contains(n.Literal, "```") {
			fence = "````"
		}
		r.write(fence + n.Lang + "\n")
		lit := n.Literal
		if lit != "" && !strings.HasSuffix(lit, "\n") {
			lit += "\n"
		}
		r.write(lit)
		r.write(fence)
	case KindThematicBreak:
		r.write("---")
	case KindHTML:
		r.write(strings.TrimRight(n.Literal, "\n"))
	case KindTable:
		r.table(n)
	case KindTableRow:
		r.tableRow(n)
	case KindTableCell:
		r.inlines(n.Children)
	}

	if r.record {
		r.spans = append(r.spans, NodeSpan{Node: n, Span: Span{start, r.buf.Len()}})
	}
}

func (r *renderer) blocks(children []*Node, sep string) {
	for i, c := range children {
		if i > 0 {
			r.write(sep)
		}
		r.node(c)
	}
}

func (r *renderer) inlines(children []*Node) {
	for _, c := range children {
		r.node(c)
	}
}

func (r *renderer) list(n *Node) {
	sep := "\n\n"
	if n.Tight {
		sep = "\n"
	}
	saved := r.itemSep
	r.itemSep = sep
	defer func() { r.itemSep = saved }()

	for i, item := range n.Children {
		if i > 0 {
			r.write(sep)
		}
		marker := listMarker(n, i)
		r.write(marker)
		r.push(strings.Repeat(" ", len(marker)))
		r.node(item)
		r.pop()
	}
}

func listMarker(list *Node, i int) string {
	if list.Ordered {
		start := list.Start
		if start <= 0 {
			start = 1
		}
		delim := list.Marker
		if delim != '.' && delim != ')' {
			delim = '.'
		}
		return fmt.Sprintf("%d%c ", start+i, delim)
	}
	m := list.Marker
	if m != '-' && m != '*' && m != '+' {
		m = '-'
	}
	return string(m) + " "
}

func (r *renderer) table(n *Node) {
	if len(n.Children) == 0 {
		return
	}
	header := n.Children[0]
	r.node(header)
	r.write("\n")
	r.write(delimiterRow(n, len(header.Children)))
	for _, row := range n.Children[1:] {
		r.write("\n")
		r.node(row)
	}
}

func (r *renderer) tableRow(row *Node) {
	r.write("|")
	for _, cell := range row.Children {
		r.write(" ")
		r.node(cell)
		r.write(" |")
	}
}

func delimiterRow(table *Node, cells int) string {
	var b strings.Builder
	b.WriteString("|")
	for i := 0; i < cells; i++ {
		var a Alignment
		if i < len(table.Aligns) {
			a = table.Aligns[i]
		}
		switch a {
		case AlignLeft:
			b.WriteString(" :-- |")
		case AlignCenter:
			b.WriteString(" :-: |")
		case AlignRight:
			b.WriteString(" --: |")
		default:
			b.WriteString(" --- |")
		}
	}
	return b.String()
}

func linkTitle(title string) string {
	if title == "" {
		return ""
	}
	return ` "` + title + `"`
}
