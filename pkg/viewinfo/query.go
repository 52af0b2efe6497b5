package viewinfo

import (
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
)

// FindDeepest returns the topmost selectable view containing p. Later
// siblings paint over earlier ones and win. Views without a document node
// resolve to their nearest ancestor that has one. Nil when nothing
// selectable is under p.
func (t *Tree) FindDeepest(p image.Point) *Node {
	if t.IsEmpty() {
		return nil
	}
	n := findDeepest(t.root, p)
	for n != nil && n.cookie == nil {
		n = n.parent
	}
	return n
}

func findDeepest(n *Node, p image.Point) *Node {
	if n.hidden {
		return nil
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := findDeepest(n.children[i], p); hit != nil {
			return hit
		}
	}
	if n.Contains(p) {
		return n
	}
	return nil
}

// FindStack returns the selectable views containing p from the outermost
// to the topmost one.
func (t *Tree) FindStack(p image.Point) []*Node {
	var stack []*Node
	for n := t.FindDeepest(p); n != nil; n = n.parent {
		if n.Selectable() && n.Contains(p) {
			stack = append(stack, n)
		}
	}
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	return stack
}

// FindWithin returns the selectable views whose bounds lie entirely inside
// r, in pre-order. The root is never included, and the children of a
// matched view are not reported separately.
func (t *Tree) FindWithin(r image.Rectangle) []*Node {
	if t.IsEmpty() {
		return nil
	}
	var out []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.hidden {
			return
		}
		if !n.root && n.Selectable() && !n.bounds.Empty() && n.bounds.In(r) {
			out = append(out, n)
			return
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(t.root)
	return out
}

// SameType returns the selectable views whose element type is typ.
func (t *Tree) SameType(typ string) []*Node {
	var out []*Node
	for _, n := range t.all {
		if n.Selectable() && n.cookie.Type() == typ {
			out = append(out, n)
		}
	}
	return out
}

// Siblings returns the selectable children of n's parent, n included.
// The root is its own only sibling.
func (t *Tree) Siblings(n *Node) []*Node {
	if n.parent == nil {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.parent.children {
		if c.Selectable() {
			out = append(out, c)
		}
	}
	return out
}

type step struct {
	index int
	typ   string
}

// FindMatch locates the view of this tree that structurally corresponds
// to old, a view of an earlier tree. The path of child indexes from the
// root is replayed and every element type along the way must agree;
// otherwise the structure diverged and nil is returned.
func (t *Tree) FindMatch(old *Node) *Node {
	if t.IsEmpty() || old == nil {
		return nil
	}
	var path []step
	n := old
	for ; n.parent != nil; n = n.parent {
		path = append(path, step{n.index, typeOf(n)})
	}
	if typeOf(n) != typeOf(t.root) {
		return nil
	}
	cur := t.root
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		if s.index >= len(cur.children) {
			return nil
		}
		cur = cur.children[s.index]
		if typeOf(cur) != s.typ {
			return nil
		}
	}
	if !cur.Selectable() {
		return nil
	}
	return cur
}

func typeOf(n *Node) string {
	if n.cookie != nil {
		return n.cookie.Type()
	}
	return n.className
}

// DocNodes maps views to their document nodes, skipping views without one.
func DocNodes(views []*Node) []*document.Node {
	out := make([]*document.Node, 0, len(views))
	for _, v := range views {
		if v.cookie != nil {
			out = append(out, v.cookie)
		}
	}
	return out
}
