package canvas

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/selection"
)

// Copy puts the sanitized selection on the clipboard in both flavors.
// Without a selection, text selected in the host's status area is copied
// instead.
func (c *Canvas) Copy() bool {
	items := c.selection.Sanitized()
	if len(items) == 0 {
		if c.opts.TextSelection == nil {
			return false
		}
		text := c.opts.TextSelection.SelectedText()
		if text == "" {
			return false
		}
		return c.writeClipboard(nil, text)
	}
	elements := payload.FromNodes(nodesOf(items), c.boundsOf)
	data, text := c.opts.Codec.ToPayload(elements)
	return c.writeClipboard(data, text)
}

func (c *Canvas) writeClipboard(data []byte, text string) bool {
	if err := c.opts.Clipboard.Write(data, text); err != nil {
		c.logf("canvas: clipboard write failed: %v", err)
		return false
	}
	return true
}

// Cut copies the selection and deletes it under a "Cut" label.
func (c *Canvas) Cut() {
	if !c.Copy() || c.selection.IsEmpty() {
		return
	}
	c.Delete("Cut")
}

// Delete removes the sanitized selection in one session labeled with
// verb, e.g. "Delete Button". The root is never deleted.
func (c *Canvas) Delete(verb string) {
	c.deleteNodes(verb, nodesOf(c.selection.Sanitized()))
}

// deleteNodes removes nodes, telling each parent's rule once about all of
// its children going away before any of them is detached.
func (c *Canvas) deleteNodes(verb string, nodes []*document.Node) {
	type group struct {
		parent   *document.Node
		children []*document.Node
	}
	var groups []*group
	byParent := make(map[*document.Node]*group)
	for _, n := range nodes {
		if n == c.doc.Root() || n.Parent() == nil {
			continue
		}
		g := byParent[n.Parent()]
		if g == nil {
			g = &group{parent: n.Parent()}
			byParent[n.Parent()] = g
			groups = append(groups, g)
		}
		g.children = append(g.children, n)
	}
	if len(groups) == 0 {
		return
	}

	var all []*document.Node
	for _, g := range groups {
		all = append(all, g.children...)
	}
	label := fmt.Sprintf("%s %s", verb, objectName(payload.FromNodes(all, nil)))
	err := c.doc.Edit(label, func(tx *document.Tx) error {
		for _, g := range groups {
			children := make([]*rules.NodeProxy, len(g.children))
			for i, n := range g.children {
				children[i] = c.proxy(n)
			}
			c.ruleFor(g.parent).OnRemovingChildren(tx, c.proxy(g.parent), children)
			for _, n := range g.children {
				if !n.Exists() {
					continue
				}
				if err := tx.Remove(n); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.logf("canvas: %s failed: %v", label, err)
	}
}

// proxy wraps n with its rendered view when it has one.
func (c *Canvas) proxy(n *document.Node) *rules.NodeProxy {
	if v := c.tree.ByDocument(n); v != nil {
		return rules.NewProxy(v)
	}
	return rules.NewDetachedProxy(n, c.boundsOf(n))
}

// Paste inserts the clipboard contents. An empty document gets the first
// element as its root; otherwise the rule of the first selected node, or
// of the root, decides where the elements go.
func (c *Canvas) Paste() {
	data, _, err := c.opts.Clipboard.Read()
	if err != nil {
		c.logf("canvas: clipboard read failed: %v", err)
		return
	}
	elements := c.opts.Codec.FromPayload(data)
	if len(elements) == 0 {
		return
	}
	if c.doc.IsEmpty() {
		c.selectNodes(c.createRoot("Paste", elements))
		return
	}

	anchor := c.doc.Root()
	if items := c.selection.Sanitized(); len(items) > 0 {
		anchor = items[0].Node()
	}
	target := c.proxy(anchor)
	rule := c.ruleFor(anchor)
	label := fmt.Sprintf("Paste %s in %s", objectName(elements), target.Name())
	var nodes []*document.Node
	err = c.doc.Edit(label, func(tx *document.Tx) error {
		var err error
		nodes, err = rule.OnPaste(tx, target, elements)
		return err
	})
	if err != nil {
		c.logf("canvas: %s failed: %v", label, err)
		return
	}
	c.selectNodes(nodes)
}

// createRoot builds the root of an empty document from the first
// element: the namespace declaration is stamped first, then the
// element's attributes are copied and default sizes filled where absent,
// recursively. Unknown element types are refused before any edit.
func (c *Canvas) createRoot(verb string, elements []payload.Element) []*document.Node {
	e := elements[0]
	d := c.opts.Lookup.Describe(e.Type)
	if d == nil {
		return nil
	}
	if len(elements) > 1 {
		c.logf("canvas: only %s becomes the root, %d more elements ignored", e.Name(), len(elements)-1)
	}
	ns := c.opts.Namespace
	label := fmt.Sprintf("%s root %s in document", verb, e.Name())
	var root *document.Node
	err := c.doc.Edit(label, func(tx *document.Tx) error {
		n := tx.Document().NewElement(e.Type)
		if err := tx.SetAttr(n, document.XMLNSURI, ns.Prefix, ns.URI); err != nil {
			return err
		}
		for _, a := range e.Attributes {
			if err := tx.SetAttr(n, a.Namespace, a.Name, a.Value); err != nil {
				return err
			}
		}
		if err := payload.FillDefaults(tx, n, d); err != nil {
			return err
		}
		for _, child := range e.Children {
			cn, err := payload.Materialize(tx, child, c.opts.Lookup)
			if err != nil {
				return err
			}
			if err := tx.Append(n, cn); err != nil {
				return err
			}
		}
		if err := tx.SetRoot(n); err != nil {
			return err
		}
		root = n
		return nil
	})
	if err != nil {
		c.logf("canvas: %s failed: %v", label, err)
		return nil
	}
	return []*document.Node{root}
}

// Duplicate inserts a copy of each selected view right after it.
func (c *Canvas) Duplicate() {
	var nodes []*document.Node
	for _, n := range nodesOf(c.selection.Sanitized()) {
		if n.Parent() != nil {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return
	}
	elements := payload.FromNodes(nodes, nil)
	label := fmt.Sprintf("Duplicate %s", objectName(elements))
	var made []*document.Node
	err := c.doc.Edit(label, func(tx *document.Tx) error {
		for i, n := range nodes {
			dup, err := payload.Materialize(tx, elements[i], nil)
			if err != nil {
				return err
			}
			if err := tx.Insert(n.Parent(), n.Index()+1, dup); err != nil {
				return err
			}
			made = append(made, dup)
		}
		return nil
	})
	if err != nil {
		c.logf("canvas: %s failed: %v", label, err)
		return
	}
	c.selectNodes(made)
}

func nodesOf(items []*selection.Item) []*document.Node {
	out := make([]*document.Node, 0, len(items))
	for _, it := range items {
		out = append(out, it.Node())
	}
	return out
}
