// Package mdsplit divides a parsed markdown tree into bounded-size chunks
// for embedding and indexing pipelines, preserving document structure along
// the way: headings stay attached to the content they own where possible,
// inline constructs (links, images, inline code, emphasis) are never torn in
// half, and list, table and blockquote structure survives splitting.
//
// # Basic Usage
//
//	chunks, err := mdsplit.SplitText(src, mdsplit.Options{ChunkSize: 800})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, c := range chunks {
//	    fmt.Printf("%d bytes, breadcrumbs %v\n", len(c.Text), c.Breadcrumbs)
//	}
//
// # Splitting Strategy
//
// The document is first organized into a hierarchy of sections (heading plus
// owned content plus nested subsections). Sections that fit the size budget
// are emitted whole; oversized sections are broken down top-down, greedily
// merging what fits and delegating oversized constructs to type-specific
// splitters (lists keep their numbering, tables keep their header row,
// blockquotes keep their markers, code blocks keep their fences). Content
// with no structure left to exploit falls back to a text splitter that cuts
// at the best available boundary without ever cutting through a protected
// inline span.
//
// Each chunk carries breadcrumbs: the ancestor headings above it, so a
// consumer can reconstruct where in the document the chunk came from.
//
// Size limits are soft targets. A single atomic unit larger than the budget
// (for example a link under the default never-split rule) is emitted whole
// rather than broken; only Options.MaxRawSize is a hard ceiling.
package mdsplit
