package mdsplit

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/dgallion1/mdsplit/mdtree"
)

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// semanticText reparses chunk text and extracts its formatting-stripped
// content, for reassembly comparisons.
func semanticText(t *testing.T, chunk string) string {
	t.Helper()
	doc, err := mdtree.Parse([]byte(chunk))
	if err != nil {
		t.Fatalf("reparse chunk: %v", err)
	}
	return mdtree.Text(doc)
}

func TestSplit_SmallParagraphSingleChunk(t *testing.T) {
	src := strings.Repeat("word ", 16) // 80 chars of content
	chunks, err := SplitText([]byte(src), Options{ChunkSize: 100})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != strings.TrimSpace(src) {
		t.Errorf("expected text unchanged, got %q", chunks[0].Text)
	}
	if len(chunks[0].Breadcrumbs) != 0 {
		t.Errorf("expected no breadcrumbs, got %v", chunks[0].Breadcrumbs)
	}
}

func TestSplit_SeparateParagraphsStaySeparate(t *testing.T) {
	src := "first paragraph\n\nsecond paragraph\n\nthird paragraph\n"
	chunks, err := SplitText([]byte(src), Options{ChunkSize: 50})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, one per paragraph, got %d", len(chunks))
	}
	want := []string{"first paragraph", "second paragraph", "third paragraph"}
	for i, c := range chunks {
		if c.Text != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], c.Text)
		}
	}
}

func TestSplit_HeadingStaysWithContent(t *testing.T) {
	// Heading text (8) + paragraph (27) = 35 semantic chars, budget 40.
	src := "## Overview\n\nsome short section content\n"
	chunks, err := SplitText([]byte(src), Options{ChunkSize: 40})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "## Overview") {
		t.Errorf("expected heading in chunk, got %q", chunks[0].Text)
	}
	if !strings.Contains(chunks[0].Text, "some short section content") {
		t.Errorf("expected content in chunk, got %q", chunks[0].Text)
	}
}

func TestSplit_NeverSplitLinkEmittedWhole(t *testing.T) {
	src := "[click here for the details](https://example.com/a/very/long/path)\n"
	chunks, err := SplitText([]byte(src), Options{ChunkSize: 10})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 oversized chunk, got %d", len(chunks))
	}
	if chunks[0].Text != strings.TrimSpace(src) {
		t.Errorf("expected the whole link emitted intact, got %q", chunks[0].Text)
	}
}

var itemNumberRe = regexp.MustCompile(`(?m)^(\d+)[.)] `)

func TestSplit_OrderedListNumberingContinues(t *testing.T) {
	big := strings.Repeat("Sentence words in an oversized item body keep going. ", 9)
	small := "short item"

	var b strings.Builder
	for i := 1; i <= 9; i++ {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(". ")
		switch i {
		case 1, 4, 5, 7:
			b.WriteString(big)
		default:
			b.WriteString(small)
		}
		b.WriteString("\n")
	}

	chunks, err := SplitText([]byte(b.String()), Options{ChunkSize: 200, MaxOverflowRatio: 1.5})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) < 5 {
		t.Fatalf("expected the list to split into several chunks, got %d", len(chunks))
	}

	var numbers []int
	for _, c := range chunks {
		for _, m := range itemNumberRe.FindAllStringSubmatch(c.Text, -1) {
			n, _ := strconv.Atoi(m[1])
			numbers = append(numbers, n)
		}
	}
	if len(numbers) != 9 {
		t.Fatalf("expected all 9 item numbers across chunks, got %v", numbers)
	}
	for i, n := range numbers {
		if n != i+1 {
			t.Fatalf("expected strictly increasing numbering 1..9 with no resets, got %v", numbers)
		}
	}
}

func TestSplit_ParentMergesLeadingSubsections(t *testing.T) {
	src := "# Guide\n\n" + strings.Repeat("intro content here ", 2) + "\n\n" + // ~38
		"## Install\n\n" + strings.Repeat("install steps text ", 4) + "\n\n" + // ~76
		"## Use\n\n" + strings.Repeat("usage details written out ", 5) + "\n" // ~130
	chunks, err := SplitText([]byte(src), Options{ChunkSize: 160})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected parent+Install and Use chunks, got %d: %#v", len(chunks), chunks)
	}

	if !strings.Contains(chunks[0].Text, "# Guide") || !strings.Contains(chunks[0].Text, "## Install") {
		t.Errorf("expected first chunk to merge heading, intro and Install, got %q", chunks[0].Text)
	}
	if strings.Contains(chunks[0].Text, "## Use") {
		t.Errorf("Use should not fit into the first chunk: %q", chunks[0].Text)
	}
	if len(chunks[0].Breadcrumbs) != 0 {
		t.Errorf("chunk containing its own headings must not list them: %v", chunks[0].Breadcrumbs)
	}

	if !strings.Contains(chunks[1].Text, "## Use") {
		t.Errorf("expected second chunk to hold Use, got %q", chunks[1].Text)
	}
	want := []Breadcrumb{{Text: "Guide", Depth: 1}}
	if len(chunks[1].Breadcrumbs) != 1 || chunks[1].Breadcrumbs[0] != want[0] {
		t.Errorf("expected breadcrumbs %v, got %v", want, chunks[1].Breadcrumbs)
	}
}

func TestSplit_ContentSeparatedFromHeadingGetsItAsBreadcrumb(t *testing.T) {
	p1 := strings.Repeat("first block of body text here. ", 4)  // ~124
	p2 := strings.Repeat("second block of body text here. ", 4) // ~128
	src := "# Guide\n\nshort intro\n\n## Install\n\n" + p1 + "\n\n" + p2 + "\n"

	chunks, err := SplitText([]byte(src), Options{ChunkSize: 140})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}

	for _, c := range chunks {
		hasInstall := strings.Contains(c.Text, "## Install")
		var crumbTexts []string
		for _, bc := range c.Breadcrumbs {
			crumbTexts = append(crumbTexts, bc.Text)
		}
		joined := strings.Join(crumbTexts, "|")

		if hasInstall && strings.Contains(joined, "Install") {
			t.Errorf("chunk holding its own heading lists it as breadcrumb: %q -> %v", c.Text, c.Breadcrumbs)
		}
		if !hasInstall && strings.Contains(c.Text, "block of body text") {
			if len(c.Breadcrumbs) == 0 || c.Breadcrumbs[len(c.Breadcrumbs)-1].Text != "Install" {
				t.Errorf("content split from its heading must carry it last, got %v for %q", c.Breadcrumbs, c.Text)
			}
		}
	}
}

func TestSplit_SizeBoundHolds(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Doc\n\n")
	for i := 0; i < 6; i++ {
		b.WriteString("## Section ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\n\n")
		b.WriteString(strings.Repeat("plain words fill the section body with text. ", 8))
		b.WriteString("\n\n")
	}

	opts := Options{ChunkSize: 120, MaxOverflowRatio: 1.5}
	chunks, err := SplitText([]byte(b.String()), opts)
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	// Text joins sibling blocks with a newline, so allow one extra rune
	// per block over the engine's ceiling.
	maxAllowed := 180 + 4
	for i, c := range chunks {
		size := len([]rune(semanticText(t, c.Text)))
		if size > maxAllowed {
			t.Errorf("chunk %d: content size %d exceeds %d:\n%s", i, size, maxAllowed, c.Text)
		}
	}
}

func TestSplit_ReassemblyPreservesContent(t *testing.T) {
	src := "# Title\n\n" +
		strings.Repeat("alpha bravo charlie delta echo foxtrot. ", 6) + "\n\n" +
		"## Sub\n\n" +
		"- golf hotel india\n- juliet kilo lima\n- mike november oscar\n\n" +
		strings.Repeat("papa quebec romeo sierra tango uniform. ", 6) + "\n"

	doc := mustParse(t, src)
	want := normalize(mdtree.Text(doc))

	chunks, err := Split(doc, Options{ChunkSize: 90, MaxOverflowRatio: 1.2})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	var parts []string
	for _, c := range chunks {
		parts = append(parts, semanticText(t, c.Text))
	}
	got := normalize(strings.Join(parts, " "))
	if got != want {
		t.Errorf("reassembled text differs:\nwant %q\ngot  %q", want, got)
	}
}

func TestSplit_OverflowRatioBelowOneClamped(t *testing.T) {
	p := strings.Repeat("sixty characters of body text padded out to length xx. ", 1) // 56
	src := "# T\n\n" + p + "\n\n" + p + "\n"

	chunks, err := SplitText([]byte(src), Options{ChunkSize: 100, MaxOverflowRatio: 0.2})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	// With the ratio clamped to 1.0 the section (113 chars) cannot fit one
	// chunk; a ratio honored below 1.0 would have shrunk the budget further
	// and a ratio above would have merged everything.
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks under a clamped ratio, got %d", len(chunks))
	}
}

func TestSplit_ConfigurationErrors(t *testing.T) {
	if _, err := SplitText([]byte("hi"), Options{ChunkSize: -5}); err == nil {
		t.Error("expected error for negative chunk size")
	}
	if _, err := SplitText([]byte("hi"), Options{ChunkSize: 10, MaxRawSize: -1}); err == nil {
		t.Error("expected error for negative max raw size")
	}
	if _, err := Split(nil, Options{ChunkSize: 10}); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestSplit_EmptyDocument(t *testing.T) {
	chunks, err := SplitText(nil, Options{ChunkSize: 100})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty input, got %d", len(chunks))
	}
}

func TestSplit_MaxRawSizeEnforced(t *testing.T) {
	src := "# Doc\n\n" + strings.Repeat("words for the raw ceiling pass to wrap around. ", 20) + "\n"
	chunks, err := SplitText([]byte(src), Options{ChunkSize: 2000, MaxRawSize: 150})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected the raw pass to wrap, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Text) > 150 {
			t.Errorf("chunk %d: serialized length %d exceeds hard ceiling", i, len(c.Text))
		}
	}
}

func TestSplitNode_ReturnsFragments(t *testing.T) {
	doc := mustParse(t, "# A\n\n"+strings.Repeat("body text for fragments. ", 12)+"\n")
	nodes, err := SplitNode(doc, Options{ChunkSize: 80})
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	if len(nodes) < 2 {
		t.Fatalf("expected multiple fragments, got %d", len(nodes))
	}
	for i, n := range nodes {
		if strings.TrimSpace(mdtree.Render(n)) == "" {
			t.Errorf("fragment %d rendered empty", i)
		}
	}
}
