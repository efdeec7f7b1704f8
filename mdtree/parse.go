package mdtree

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Parse reads markdown source into a Node tree. Tables and strikethrough are
// enabled, and reference-style links/images come out resolved to inline form
// (goldmark resolves them against the document's reference definitions).
// Block nodes carry [start, end) source spans.
func Parse(src []byte) (*Node, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	doc := md.Parser().Parse(text.NewReader(src))
	return convert(doc, src)
}

func convert(n ast.Node, src []byte) (*Node, error) {
	out := &Node{}

	switch v := n.(type) {
	case *ast.Document:
		out.Kind = KindDocument
	case *ast.Heading:
		out.Kind = KindHeading
		out.Depth = v.Level
		out.Span = blockSpan(n)
	case *ast.Paragraph:
		out.Kind = KindParagraph
		out.Span = blockSpan(n)
	case *ast.TextBlock:
		// Tight list items carry text blocks instead of paragraphs.
		out.Kind = KindParagraph
		out.Span = blockSpan(n)
	case *ast.Text:
		out.Kind = KindText
		lit := string(v.Segment.Value(src))
		if v.SoftLineBreak() || v.HardLineBreak() {
			lit += "\n"
		}
		out.Literal = lit
		out.Span = Span{v.Segment.Start, v.Segment.Stop}
		return out, nil
	case *ast.String:
		out.Kind = KindText
		out.Literal = string(v.Value)
		return out, nil
	case *ast.Emphasis:
		if v.Level >= 2 {
			out.Kind = KindStrong
		} else {
			out.Kind = KindEmphasis
		}
	case *east.Strikethrough:
		out.Kind = KindDelete
	case *ast.CodeSpan:
		out.Kind = KindInlineCode
		out.Literal = inlineText(n, src)
		return out, nil
	case *ast.Link:
		out.Kind = KindLink
		out.URL = string(v.Destination)
		out.Title = string(v.Title)
	case *ast.Image:
		out.Kind = KindImage
		out.URL = string(v.Destination)
		out.Title = string(v.Title)
	case *ast.AutoLink:
		out.Kind = KindLink
		out.URL = string(v.URL(src))
		out.Children = []*Node{{Kind: KindText, Literal: string(v.Label(src))}}
		return out, nil
	case *ast.FencedCodeBlock:
		out.Kind = KindCodeBlock
		if lang := v.Language(src); lang != nil {
			out.Lang = string(lang)
		}
		out.Literal = linesText(n, src)
		out.Span = blockSpan(n)
		return out, nil
	case *ast.CodeBlock:
		out.Kind = KindCodeBlock
		out.Literal = linesText(n, src)
		out.Span = blockSpan(n)
		return out, nil
	case *ast.List:
		out.Kind = KindList
		out.Ordered = v.IsOrdered()
		out.Start = v.Start
		out.Marker = v.Marker
		out.Tight = v.IsTight
	case *ast.ListItem:
		out.Kind = KindListItem
	case *ast.Blockquote:
		out.Kind = KindBlockquote
	case *ast.ThematicBreak:
		out.Kind = KindThematicBreak
		return out, nil
	case *ast.HTMLBlock:
		out.Kind = KindHTML
		lit := linesText(n, src)
		if v.HasClosure() {
			lit += string(v.ClosureLine.Value(src))
		}
		out.Literal = lit
		out.Span = blockSpan(n)
		return out, nil
	case *ast.RawHTML:
		out.Kind = KindHTML
		var buf bytes.Buffer
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(src))
		}
		out.Literal = buf.String()
		return out, nil
	case *east.Table:
		out.Kind = KindTable
		out.Aligns = convertAligns(v.Alignments)
	case *east.TableHeader:
		out.Kind = KindTableRow
		out.Header = true
	case *east.TableRow:
		out.Kind = KindTableRow
	case *east.TableCell:
		out.Kind = KindTableCell
	default:
		return nil, fmt.Errorf("mdtree: unsupported node kind %s", n.Kind())
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		child, err := convert(c, src)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, child)
	}

	if !out.Span.Valid() {
		out.Span = childUnion(out.Children)
	}
	return out, nil
}

// blockSpan derives a source span from a block node's line segments.
func blockSpan(n ast.Node) Span {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return Span{}
	}
	return Span{lines.At(0).Start, lines.At(lines.Len() - 1).Stop}
}

// childUnion covers the min/max extent of the children's spans.
func childUnion(children []*Node) Span {
	var u Span
	for _, c := range children {
		if !c.Span.Valid() {
			continue
		}
		if !u.Valid() {
			u = c.Span
			continue
		}
		if c.Span.Start < u.Start {
			u.Start = c.Span.Start
		}
		if c.Span.End > u.End {
			u.End = c.Span.End
		}
	}
	return u
}

func linesText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		}
	}
	return buf.String()
}

func convertAligns(aligns []east.Alignment) []Alignment {
	if len(aligns) == 0 {
		return nil
	}
	out := make([]Alignment, len(aligns))
	for i, a := range aligns {
		switch a {
		case east.AlignLeft:
			out[i] = AlignLeft
		case east.AlignCenter:
			out[i] = AlignCenter
		case east.AlignRight:
			out[i] = AlignRight
		default:
			out[i] = AlignNone
		}
	}
	return out
}
