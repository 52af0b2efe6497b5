// Package viewinfo builds the rendered snapshot of a layout: an immutable
// tree of view nodes with absolute layout bounds, each linked back to the
// document node it was rendered from.
package viewinfo

import (
	"fmt"
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// RenderedView is one view of a render result. Bounds are relative to the
// parent view. Cookie links the view to its document node and may be nil
// for views the renderer synthesized.
type RenderedView struct {
	ClassName string
	Bounds    image.Rectangle
	Cookie    *document.Node
	Children  []RenderedView
}

// Node is a view in a Tree. Nodes are never mutated after Build returns.
type Node struct {
	className string
	bounds    image.Rectangle
	cookie    *document.Node
	parent    *Node
	children  []*Node
	index     int

	root      bool
	hidden    bool
	invisible bool
	exploded  bool
}

// Bounds returns the absolute layout rectangle.
func (n *Node) Bounds() image.Rectangle { return n.bounds }

// DocNode returns the document node the view was rendered from.
func (n *Node) DocNode() *document.Node { return n.cookie }

// ClassName returns the view class reported by the renderer.
func (n *Node) ClassName() string { return n.className }

// Name returns the short element name used in labels and menus.
func (n *Node) Name() string {
	if n.cookie != nil {
		return n.cookie.ShortName()
	}
	return document.ShortName(n.className)
}

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return append([]*Node(nil), n.children...) }

// Index returns the position among the parent's children.
func (n *Node) Index() int { return n.index }

func (n *Node) IsRoot() bool      { return n.root }
func (n *Node) IsHidden() bool    { return n.hidden }
func (n *Node) IsInvisible() bool { return n.invisible }
func (n *Node) IsExploded() bool  { return n.exploded }

// Contains reports whether p lies inside the node's bounds.
func (n *Node) Contains(p image.Point) bool { return p.In(n.bounds) }

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Selectable reports whether the node can hold a selection.
func (n *Node) Selectable() bool { return n.cookie != nil && !n.hidden }

func (n *Node) String() string {
	return fmt.Sprintf("%s%v", n.Name(), n.bounds)
}
