// Package document holds the mutable element tree that a layout canvas
// edits. The tree is the source of truth; every mutation happens inside an
// edit session opened with Document.Edit, which journals the change so it
// can be rolled back on failure and undone later.
package document

import (
	"fmt"
	"strings"
)

// Attribute is a namespaced key/value pair on an element.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// Node is an element of the document tree. Its identity is stable across
// renders; a node keeps its identity when it is moved within the tree.
type Node struct {
	id       uint64
	typ      string
	attrs    []Attribute
	parent   *Node
	children []*Node
	doc      *Document
}

// ID returns the document-unique id assigned at creation.
func (n *Node) ID() uint64 { return n.id }

// Type returns the element type, e.g. "Button" or "android.widget.Button".
func (n *Node) Type() string { return n.typ }

// ShortName returns the element type without any package qualifier.
func (n *Node) ShortName() string { return ShortName(n.typ) }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// Parent returns the parent element, or nil for the root and detached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index or nil.
func (n *Node) Child(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// Index returns the position of n in its parent, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Attr returns the value of the attribute ns:name.
func (n *Node) Attr(ns, name string) (string, bool) {
	i := n.attrIndex(ns, name)
	if i < 0 {
		return "", false
	}
	return n.attrs[i].Value, true
}

// AndroidAttr is shorthand for Attr(AndroidURI, name).
func (n *Node) AndroidAttr(name string) string {
	v, _ := n.Attr(AndroidURI, name)
	return v
}

// Attributes returns a copy of the attribute list in document order.
func (n *Node) Attributes() []Attribute {
	return append([]Attribute(nil), n.attrs...)
}

func (n *Node) attrIndex(ns, name string) int {
	for i, a := range n.attrs {
		if a.Namespace == ns && a.Name == name {
			return i
		}
	}
	return -1
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Exists reports whether n is still reachable from its document's root.
func (n *Node) Exists() bool {
	if n == nil || n.doc == nil {
		return false
	}
	top := n
	for top.parent != nil {
		top = top.parent
	}
	return top == n.doc.root
}

// Path returns the child indexes leading from the root to n.
func (n *Node) Path() []int {
	var path []int
	for c := n; c.parent != nil; c = c.parent {
		path = append(path, c.Index())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (n *Node) String() string {
	if id := n.AndroidAttr("id"); id != "" {
		return fmt.Sprintf("%s(%s)", n.ShortName(), id)
	}
	return fmt.Sprintf("%s#%d", n.ShortName(), n.id)
}

// ShortName strips a package qualifier from a type name.
func ShortName(typ string) string {
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		return typ[i+1:]
	}
	return typ
}

// low level mutators, used by the journal; they do not record anything

func (n *Node) setAttr(ns, name, value string) {
	if i := n.attrIndex(ns, name); i >= 0 {
		n.attrs[i].Value = value
		return
	}
	n.attrs = append(n.attrs, Attribute{Namespace: ns, Name: name, Value: value})
}

func (n *Node) removeAttr(ns, name string) {
	if i := n.attrIndex(ns, name); i >= 0 {
		n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
	}
}

func (n *Node) insertChild(index int, child *Node) {
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
}

func (n *Node) removeChild(child *Node) int {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return i
		}
	}
	return -1
}
