// Package payload moves element trees between canvases and the clipboard.
// Elements are detached snapshots of document nodes; the structured
// flavor is an s-expression and the plain text flavor is XML markup.
package payload

import (
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// Element is one transferred element with its subtree.
type Element struct {
	Type       string
	Attributes []document.Attribute
	Children   []Element
	// Bounds are the layout bounds when the element was copied, if known.
	Bounds image.Rectangle
	// Source is the live document node for in-process drags. It is never
	// serialized.
	Source *document.Node
}

// Name returns the element type without package qualifier.
func (e Element) Name() string { return document.ShortName(e.Type) }

// Attr returns the value of ns:name.
func (e Element) Attr(ns, name string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Namespace == ns && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// FromNode snapshots n and its subtree. bounds may be nil.
func FromNode(n *document.Node, bounds func(*document.Node) image.Rectangle) Element {
	e := Element{
		Type:       n.Type(),
		Attributes: n.Attributes(),
		Source:     n,
	}
	if bounds != nil {
		e.Bounds = bounds(n)
	}
	for _, c := range n.Children() {
		e.Children = append(e.Children, FromNode(c, bounds))
	}
	return e
}

// FromNodes snapshots each node.
func FromNodes(nodes []*document.Node, bounds func(*document.Node) image.Rectangle) []Element {
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, FromNode(n, bounds))
	}
	return out
}

// Detach returns copies of elements with Source cleared, as seen by a
// canvas that cannot reach the source document.
func Detach(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, e := range elements {
		e.Source = nil
		e.Children = Detach(e.Children)
		out[i] = e
	}
	return out
}

// Sources returns the live source nodes of elements, skipping detached ones.
func Sources(elements []Element) []*document.Node {
	var out []*document.Node
	for _, e := range elements {
		if e.Source != nil {
			out = append(out, e.Source)
		}
	}
	return out
}

// Bounds returns the union of the element bounds.
func Bounds(elements []Element) image.Rectangle {
	var r image.Rectangle
	for _, e := range elements {
		r = r.Union(e.Bounds)
	}
	return r
}

// Materialize creates a detached document node for e inside the session,
// copying every attribute. With lookup set, default layout_width and
// layout_height are added where the element does not carry its own.
// Children are rebuilt the same way.
func Materialize(tx *document.Tx, e Element, lookup descriptor.Lookup) (*document.Node, error) {
	n := tx.Document().NewElement(e.Type)
	for _, a := range e.Attributes {
		if err := tx.SetAttr(n, a.Namespace, a.Name, a.Value); err != nil {
			return nil, err
		}
	}
	if lookup != nil {
		if err := FillDefaults(tx, n, lookup.Describe(e.Type)); err != nil {
			return nil, err
		}
	}
	for _, c := range e.Children {
		child, err := Materialize(tx, c, lookup)
		if err != nil {
			return nil, err
		}
		if err := tx.Append(n, child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// FillDefaults sets the descriptor's default size attributes on n when
// they are absent.
func FillDefaults(tx *document.Tx, n *document.Node, d *descriptor.Descriptor) error {
	if d == nil {
		return nil
	}
	defaults := [][2]string{
		{descriptor.AttrWidth, d.DefaultWidth},
		{descriptor.AttrHeight, d.DefaultHeight},
	}
	for _, kv := range defaults {
		if kv[1] == "" {
			continue
		}
		if _, ok := n.Attr(document.AndroidURI, kv[0]); ok {
			continue
		}
		if err := tx.SetAndroidAttr(n, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}
