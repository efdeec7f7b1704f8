package mdsplit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/mdsplit/mdtree"
)

// Breadcrumb is one ancestor heading of a chunk.
type Breadcrumb struct {
	Text  string `json:"text"`
	Depth int    `json:"depth"`
}

// Chunk is one emitted unit: serialized markdown plus the heading trail
// above it. If the chunk's own heading is present in Text it is not listed
// in Breadcrumbs; content split away from its heading carries that heading
// as the last breadcrumb instead.
type Chunk struct {
	Text        string       `json:"text"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty"`
}

// SizeFunc measures semantic text. The default counts runes; see the sizer
// package for a token-based alternative.
type SizeFunc func(string) int

// Options controls chunking behavior.
type Options struct {
	// ChunkSize is the target chunk content size. Zero selects the default.
	ChunkSize int

	// MaxOverflowRatio scales ChunkSize into the soft ceiling actually
	// enforced. Values below 1.0 are clamped to 1.0.
	MaxOverflowRatio float64

	// MaxRawSize, when positive, is a hard ceiling on serialized chunk
	// length, enforced as a final pass independent of the content sizes.
	MaxRawSize int

	// Rules overrides per-construct splitting behavior. Merged over
	// DefaultRules, so setting one kind leaves the defaults for the rest.
	Rules RuleSet

	// Size measures semantic text; nil means rune count.
	Size SizeFunc
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		ChunkSize:        1500,
		MaxOverflowRatio: 1.5,
	}
}

func (o Options) withDefaults() (Options, error) {
	if o.ChunkSize < 0 {
		return o, fmt.Errorf("mdsplit: chunk size must be positive, got %d", o.ChunkSize)
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = 1500
	}
	if o.MaxRawSize < 0 {
		return o, fmt.Errorf("mdsplit: max raw size must not be negative, got %d", o.MaxRawSize)
	}
	if o.MaxOverflowRatio < 1 {
		o.MaxOverflowRatio = 1
	}
	if o.Size == nil {
		o.Size = func(s string) int { return utf8.RuneCountInString(s) }
	}
	rules := DefaultRules()
	for k, r := range o.Rules {
		rules[k] = r
	}
	o.Rules = rules
	return o, nil
}

// maxAllowed is the soft ceiling on chunk content size.
func (o Options) maxAllowed() int {
	return int(float64(o.ChunkSize) * o.MaxOverflowRatio)
}

// Split chunks a parsed document tree. The input tree is not modified.
func Split(doc *mdtree.Node, opts Options) ([]Chunk, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("mdsplit: nil document")
	}

	sp := newSplitter(opts)
	prods, err := sp.run(doc)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(prods))
	for _, p := range prods {
		text := strings.TrimSpace(mdtree.Render(p.node))
		if text == "" {
			continue
		}
		chunks = append(chunks, Chunk{Text: text, Breadcrumbs: p.crumbs})
	}
	if opts.MaxRawSize > 0 {
		chunks = enforceRawSize(chunks, opts.MaxRawSize)
	}
	return chunks, nil
}

// SplitText parses markdown source and chunks it in one call.
func SplitText(src []byte, opts Options) ([]Chunk, error) {
	doc, err := mdtree.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return Split(doc, opts)
}

// SplitNode chunks a tree and returns un-serialized fragments, for callers
// that want to keep working with nodes instead of text. Fragments whose
// source spanned multiple blocks come back as document nodes.
func SplitNode(doc *mdtree.Node, opts Options) ([]*mdtree.Node, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("mdsplit: nil document")
	}

	sp := newSplitter(opts)
	prods, err := sp.run(doc)
	if err != nil {
		return nil, err
	}
	nodes := make([]*mdtree.Node, 0, len(prods))
	for _, p := range prods {
		nodes = append(nodes, p.node)
	}
	return nodes, nil
}
