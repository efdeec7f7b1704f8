// Package mdtree is the document model for the chunking engine: a typed
// markdown node tree parsed with goldmark, plus serialization back to
// markdown text and the size metrics the engine bins against.
package mdtree

// Kind identifies one markdown construct.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindEmphasis
	KindStrong
	KindDelete
	KindInlineCode
	KindLink
	KindImage
	KindList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindBlockquote
	KindCodeBlock
	KindThematicBreak
	KindHTML
)

var kindNames = map[Kind]string{
	KindDocument:      "document",
	KindHeading:       "heading",
	KindParagraph:     "paragraph",
	KindText:          "text",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindDelete:        "delete",
	KindInlineCode:    "inline-code",
	KindLink:          "link",
	KindImage:         "image",
	KindList:          "list",
	KindListItem:      "list-item",
	KindTable:         "table",
	KindTableRow:      "table-row",
	KindTableCell:     "table-cell",
	KindBlockquote:    "blockquote",
	KindCodeBlock:     "code-block",
	KindThematicBreak: "thematic-break",
	KindHTML:          "html",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Span is a half-open [Start, End) byte range in the original source.
type Span struct {
	Start int
	End   int
}

// Valid reports whether the span carries real source offsets.
func (s Span) Valid() bool { return s.End > s.Start }

// Len returns the span length in bytes.
func (s Span) Len() int {
	if !s.Valid() {
		return 0
	}
	return s.End - s.Start
}

// Alignment is a table column alignment.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Node is one construct in a parsed document tree. Only the fields relevant
// to a node's Kind are set. Nodes are treated as immutable values:
// transformations build new nodes (see Clone) rather than mutating shared ones.
type Node struct {
	Kind     Kind
	Span     Span
	Children []*Node

	// Literal holds the text of KindText, KindInlineCode, KindCodeBlock
	// and KindHTML nodes.
	Literal string

	// Depth is the heading level, 1-6.
	Depth int

	// URL and Title are the destination of KindLink and KindImage.
	URL   string
	Title string

	// Lang is the fence info string of KindCodeBlock.
	Lang string

	// List fields.
	Ordered bool
	Start   int  // first item number of an ordered list
	Marker  byte // '-', '*', '+' for bullets; '.' or ')' for ordered
	Tight   bool

	// Header marks the header row of a table.
	Header bool

	// Aligns are the column alignments of KindTable.
	Aligns []Alignment
}

// Clone returns a shallow copy of n with its own children slice, so the
// copy's children can be replaced without touching the original.
func (n *Node) Clone() *Node {
	c := *n
	c.Children = append([]*Node(nil), n.Children...)
	return &c
}
