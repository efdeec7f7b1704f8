// Package preprocess normalizes a parsed markdown tree before chunking:
// user-supplied per-node transforms can rewrite or delete nodes without the
// engine knowing how. Reference-style links and images already arrive
// resolved to inline form from mdtree.Parse, so no separate normalizer runs
// here.
package preprocess

import (
	"net/url"

	"github.com/dgallion1/mdsplit/mdtree"
)

// Transform rewrites one node. Returning the node unchanged keeps it,
// returning a different node replaces it, returning nil deletes it along
// with its subtree.
type Transform func(*mdtree.Node) *mdtree.Node

// Apply runs the transforms over the tree depth-first and returns a new
// tree; the input is not modified. Each node passes through the transforms
// in order, after its children have been processed.
func Apply(doc *mdtree.Node, transforms ...Transform) *mdtree.Node {
	if doc == nil {
		return nil
	}
	return rewrite(doc, transforms)
}

func rewrite(n *mdtree.Node, transforms []Transform) *mdtree.Node {
	out := n.Clone()
	out.Children = out.Children[:0]
	for _, c := range n.Children {
		if r := rewrite(c, transforms); r != nil {
			out.Children = append(out.Children, r)
		}
	}
	var result *mdtree.Node = out
	for _, t := range transforms {
		result = t(result)
		if result == nil {
			return nil
		}
	}
	return result
}

// DropHTML deletes raw HTML nodes, block and inline alike.
func DropHTML() Transform {
	return func(n *mdtree.Node) *mdtree.Node {
		if n.Kind == mdtree.KindHTML {
			return nil
		}
		return n
	}
}

// ResolveLinks rewrites relative link and image destinations against a base
// URL. Nodes with absolute destinations and an unparseable base pass
// through untouched.
func ResolveLinks(base string) Transform {
	bu, err := url.Parse(base)
	if err != nil {
		return func(n *mdtree.Node) *mdtree.Node { return n }
	}
	return func(n *mdtree.Node) *mdtree.Node {
		if n.Kind != mdtree.KindLink && n.Kind != mdtree.KindImage {
			return n
		}
		ref, err := url.Parse(n.URL)
		if err != nil || ref.IsAbs() {
			return n
		}
		out := n.Clone()
		out.URL = bu.ResolveReference(ref).String()
		return out
	}
}
