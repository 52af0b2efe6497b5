package viewinfo

import (
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
)

// BuildOptions control flag derivation.
type BuildOptions struct {
	// Explode lists document nodes padded to an interactive size even
	// when they rendered with no area.
	Explode map[*document.Node]bool
	// ExplodeInvisible pads every invisible container.
	ExplodeInvisible bool
	// Padding is the minimum width and height of exploded nodes.
	Padding int
	// Lookup decides whether a childless element is a container.
	Lookup descriptor.Lookup
}

// Tree is one render snapshot. A Tree with no root describes an empty
// document.
type Tree struct {
	root  *Node
	byDoc map[*document.Node]*Node
	all   []*Node
}

// Build converts a render result into a Tree in one pass. Zero roots yield
// an empty tree. When the render result is not rooted at the document root,
// as with merge roots, a zero-size root backed by the document root is
// synthesized around it.
func Build(roots []RenderedView, doc *document.Document, opts BuildOptions) *Tree {
	t := &Tree{byDoc: make(map[*document.Node]*Node)}
	if len(roots) == 0 {
		return t
	}

	top := roots[0]
	var docRoot *document.Node
	if doc != nil {
		docRoot = doc.Root()
	}
	if docRoot != nil && (len(roots) > 1 || top.Cookie != docRoot) {
		top = RenderedView{
			ClassName: docRoot.Type(),
			Cookie:    docRoot,
			Children:  roots,
		}
	}

	t.root = t.build(top, nil, 0, image.Point{}, opts)
	t.root.root = true
	t.root.hidden = false
	t.root.invisible = false
	return t
}

func (t *Tree) build(v RenderedView, parent *Node, index int, origin image.Point, opts BuildOptions) *Node {
	n := &Node{
		className: v.ClassName,
		bounds:    v.Bounds.Canon().Add(origin),
		cookie:    v.Cookie,
		parent:    parent,
		index:     index,
	}
	t.all = append(t.all, n)
	if n.cookie != nil {
		if _, dup := t.byDoc[n.cookie]; !dup {
			t.byDoc[n.cookie] = n
		}
	}

	if geom.IsZeroArea(n.bounds) {
		container := len(v.Children) > 0 || descriptor.IsContainer(opts.Lookup, n.cookie)
		explode := n.cookie != nil && opts.Explode[n.cookie]
		if container {
			n.invisible = true
			explode = explode || opts.ExplodeInvisible
		} else if !explode {
			n.hidden = true
		}
		if explode && opts.Padding > 0 {
			n.bounds = geom.EnsureMin(n.bounds, opts.Padding)
			n.exploded = true
		}
	}

	for i, c := range v.Children {
		n.children = append(n.children, t.build(c, n, i, n.bounds.Min, opts))
	}
	return n
}

// Root returns the root view, or nil when the tree is empty.
func (t *Tree) Root() *Node { return t.root }

// IsEmpty reports whether the tree has no root.
func (t *Tree) IsEmpty() bool { return t == nil || t.root == nil }

// All returns every node in pre-order.
func (t *Tree) All() []*Node { return append([]*Node(nil), t.all...) }

// Walk visits nodes in pre-order until fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	for _, n := range t.all {
		if !fn(n) {
			return
		}
	}
}

// ByDocument returns the view rendered from d.
func (t *Tree) ByDocument(d *document.Node) *Node {
	if t == nil || d == nil {
		return nil
	}
	return t.byDoc[d]
}

// FromBounds builds a render result for the subtree at n from absolute
// bounds, for renderers that lay out in absolute coordinates.
func FromBounds(n *document.Node, bounds func(*document.Node) image.Rectangle) RenderedView {
	return fromBounds(n, image.Point{}, bounds)
}

func fromBounds(n *document.Node, origin image.Point, bounds func(*document.Node) image.Rectangle) RenderedView {
	abs := bounds(n)
	v := RenderedView{
		ClassName: n.Type(),
		Bounds:    abs.Sub(origin),
		Cookie:    n,
	}
	for _, c := range n.Children() {
		v.Children = append(v.Children, fromBounds(c, abs.Min, bounds))
	}
	return v
}
