package preprocess

import (
	"strings"
	"testing"

	"github.com/dgallion1/mdsplit/mdtree"
)

func mustParse(t *testing.T, src string) *mdtree.Node {
	t.Helper()
	doc, err := mdtree.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func findKind(n *mdtree.Node, k mdtree.Kind) *mdtree.Node {
	if n.Kind == k {
		return n
	}
	for _, c := range n.Children {
		if f := findKind(c, k); f != nil {
			return f
		}
	}
	return nil
}

func TestDropHTML_RemovesBlockAndInline(t *testing.T) {
	doc := mustParse(t, "before\n\n<div>block</div>\n\ninline <b>bold</b> after\n")
	out := Apply(doc, DropHTML())
	if findKind(out, mdtree.KindHTML) != nil {
		t.Error("HTML nodes survive DropHTML")
	}
	if !strings.Contains(mdtree.Text(out), "before") {
		t.Error("non-HTML content lost")
	}
}

func TestResolveLinks_RelativeAgainstBase(t *testing.T) {
	doc := mustParse(t, "see [docs](../guide/intro.md) and [home](https://other.example/x)\n")
	out := Apply(doc, ResolveLinks("https://example.com/a/b/"))

	var urls []string
	var walk func(n *mdtree.Node)
	walk = func(n *mdtree.Node) {
		if n.Kind == mdtree.KindLink {
			urls = append(urls, n.URL)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(out)

	if len(urls) != 2 {
		t.Fatalf("expected 2 links, got %v", urls)
	}
	if urls[0] != "https://example.com/a/guide/intro.md" {
		t.Errorf("relative link not resolved: %q", urls[0])
	}
	if urls[1] != "https://other.example/x" {
		t.Errorf("absolute link should pass through: %q", urls[1])
	}
}

func TestResolveLinks_BadBaseIsNoOp(t *testing.T) {
	doc := mustParse(t, "[docs](./intro.md)\n")
	out := Apply(doc, ResolveLinks("://not a url"))
	link := findKind(out, mdtree.KindLink)
	if link == nil || link.URL != "./intro.md" {
		t.Errorf("expected link untouched, got %v", link)
	}
}

func TestApply_InputNotModified(t *testing.T) {
	doc := mustParse(t, "keep\n\n<div>drop</div>\n")
	before := mdtree.Render(doc)
	_ = Apply(doc, DropHTML())
	if after := mdtree.Render(doc); after != before {
		t.Errorf("input tree modified:\nbefore %q\nafter  %q", before, after)
	}
}

func TestApply_TransformsRunInOrder(t *testing.T) {
	doc := mustParse(t, "[docs](./intro.md)\n")
	var order []string
	first := func(n *mdtree.Node) *mdtree.Node {
		if n.Kind == mdtree.KindLink {
			order = append(order, "first")
		}
		return n
	}
	second := func(n *mdtree.Node) *mdtree.Node {
		if n.Kind == mdtree.KindLink {
			order = append(order, "second")
		}
		return n
	}
	Apply(doc, first, second)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("transforms ran out of order: %v", order)
	}
}

func TestApply_NilDocument(t *testing.T) {
	if out := Apply(nil, DropHTML()); out != nil {
		t.Errorf("expected nil for nil input, got %v", out)
	}
}
