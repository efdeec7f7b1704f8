package mdtree

import (
	"testing"
)

func TestContentSize_StripsFormatting(t *testing.T) {
	doc, err := Parse([]byte("**bold**\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := ContentSize(doc); got != 4 {
		t.Errorf("expected content size 4 for **bold**, got %d", got)
	}
}

func TestContentSize_LinkCountsLabelNotURL(t *testing.T) {
	doc, err := Parse([]byte("[label](https://example.com/very/long/path/that/should/not/count)\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := ContentSize(doc); got != len("label") {
		t.Errorf("expected content size %d, got %d", len("label"), got)
	}
}

func TestContentSize_HTMLTagsStripped(t *testing.T) {
	doc, err := Parse([]byte("<div><b>hi</b></div>\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got := ContentSize(doc); got != 2 {
		t.Errorf("expected content size 2 for tag-stripped html, got %d", got)
	}
}

func TestContentSize_SplitPartsNeverExceedWhole(t *testing.T) {
	// Monotonicity under concatenation: parts measured separately must not
	// sum to more than the whole.
	whole, err := Parse([]byte("alpha beta. gamma delta.\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	p1, err := Parse([]byte("alpha beta.\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	p2, err := Parse([]byte("gamma delta.\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if ContentSize(p1)+ContentSize(p2) > ContentSize(whole) {
		t.Errorf("parts %d+%d exceed whole %d", ContentSize(p1), ContentSize(p2), ContentSize(whole))
	}
}

func TestRawSize_UsesSourceSpan(t *testing.T) {
	src := []byte("hello world\n")
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	p := findKind(doc, KindParagraph)
	if p == nil {
		t.Fatal("expected a paragraph")
	}
	// The span may or may not include the trailing newline depending on
	// how the parser segments lines; either way it covers the paragraph.
	if got := RawSize(p); got < len("hello world") || got > len(src) {
		t.Errorf("expected raw size in [%d, %d], got %d", len("hello world"), len(src), got)
	}
}

func TestRawSize_FallsBackToRenderedLength(t *testing.T) {
	n := &Node{Kind: KindParagraph, Children: []*Node{{Kind: KindText, Literal: "abc"}}}
	if got := RawSize(n); got != 3 {
		t.Errorf("expected rendered-length fallback 3, got %d", got)
	}
}
