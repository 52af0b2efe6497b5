package document

import "fmt"

// Tx is the write handle of one edit session. It is only valid inside the
// callback passed to Document.Edit.
type Tx struct {
	doc      *Document
	label    string
	journal  []*change
	inserted []*Node
	closed   bool
}

// Document returns the document being edited.
func (tx *Tx) Document() *Document { return tx.doc }

// Label returns the undo label of the session.
func (tx *Tx) Label() string { return tx.label }

// SetLabel replaces the undo label, for callers that only learn the final
// wording after inspecting the result.
func (tx *Tx) SetLabel(label string) { tx.label = label }

// Inserted returns the attached nodes inserted or moved during the
// session, in order. Nodes whose ancestor was also inserted are omitted.
func (tx *Tx) Inserted() []*Node {
	out := make([]*Node, 0, len(tx.inserted))
	seen := make(map[*Node]bool, len(tx.inserted))
	for _, n := range tx.inserted {
		seen[n] = true
	}
outer:
	for _, n := range tx.inserted {
		if !n.Exists() {
			continue
		}
		for p := n.parent; p != nil; p = p.parent {
			if seen[p] {
				continue outer
			}
		}
		out = append(out, n)
	}
	return out
}

// Changed reports whether the session recorded any change.
func (tx *Tx) Changed() bool { return len(tx.journal) > 0 }

func (tx *Tx) check(nodes ...*Node) error {
	if tx.closed || tx.doc.tx != tx {
		return ErrNoSession
	}
	for _, n := range nodes {
		if n == nil {
			return fmt.Errorf("nil node: %w", ErrDetached)
		}
		if n.doc != tx.doc {
			return fmt.Errorf("%v: %w", n, ErrForeign)
		}
	}
	return nil
}

func (tx *Tx) record(c *change) {
	c.apply(tx.doc)
	tx.journal = append(tx.journal, c)
}

// SetAttr sets ns:name on n.
func (tx *Tx) SetAttr(n *Node, ns, name, value string) error {
	if err := tx.check(n); err != nil {
		return err
	}
	old, had := n.Attr(ns, name)
	if had && old == value {
		return nil
	}
	tx.record(&change{kind: changeAttr, node: n, ns: ns, name: name, oldValue: old, hadOld: had, newValue: value, hasNew: true})
	return nil
}

// SetAndroidAttr is shorthand for SetAttr(n, AndroidURI, name, value).
func (tx *Tx) SetAndroidAttr(n *Node, name, value string) error {
	return tx.SetAttr(n, AndroidURI, name, value)
}

// RemoveAttr removes ns:name from n if present.
func (tx *Tx) RemoveAttr(n *Node, ns, name string) error {
	if err := tx.check(n); err != nil {
		return err
	}
	old, had := n.Attr(ns, name)
	if !had {
		return nil
	}
	tx.record(&change{kind: changeAttr, node: n, ns: ns, name: name, oldValue: old, hadOld: true})
	return nil
}

// Insert attaches the detached child under parent at index; a negative or
// out of range index appends. The parent may itself be detached, which
// lets callers assemble a subtree before attaching it.
func (tx *Tx) Insert(parent *Node, index int, child *Node) error {
	if err := tx.check(parent, child); err != nil {
		return err
	}
	if child.parent != nil || child == tx.doc.root {
		return fmt.Errorf("insert %v: already attached", child)
	}
	if child == parent || child.IsAncestorOf(parent) {
		return fmt.Errorf("insert %v into %v: %w", child, parent, ErrCycle)
	}
	if index < 0 || index > len(parent.children) {
		index = len(parent.children)
	}
	tx.record(&change{kind: changeInsert, node: child, parent: parent, index: index})
	tx.inserted = append(tx.inserted, child)
	return nil
}

// Append attaches child as the last child of parent.
func (tx *Tx) Append(parent, child *Node) error {
	return tx.Insert(parent, -1, child)
}

// Remove detaches n from the tree. The root cannot be removed.
func (tx *Tx) Remove(n *Node) error {
	if err := tx.check(n); err != nil {
		return err
	}
	if n == tx.doc.root {
		return ErrRootDelete
	}
	if n.parent == nil || !n.Exists() {
		return fmt.Errorf("remove %v: %w", n, ErrDetached)
	}
	tx.record(&change{kind: changeRemove, node: n, parent: n.parent, index: n.Index()})
	return nil
}

// Move re-parents n under parent at index. Moving within the same parent
// is allowed; index is interpreted after n has been detached.
func (tx *Tx) Move(n, parent *Node, index int) error {
	if err := tx.check(n, parent); err != nil {
		return err
	}
	if n == parent || n.IsAncestorOf(parent) {
		return fmt.Errorf("move %v into %v: %w", n, parent, ErrCycle)
	}
	if err := tx.Remove(n); err != nil {
		return err
	}
	return tx.Insert(parent, index, n)
}

// SetRoot installs n as the root of an empty document.
func (tx *Tx) SetRoot(n *Node) error {
	if err := tx.check(n); err != nil {
		return err
	}
	if tx.doc.root != nil {
		return ErrHasRoot
	}
	if n.parent != nil {
		return fmt.Errorf("set root %v: already attached", n)
	}
	tx.record(&change{kind: changeRoot, node: n})
	tx.inserted = append(tx.inserted, n)
	return nil
}

// ClearRoot detaches the root, leaving an empty document.
func (tx *Tx) ClearRoot() error {
	if err := tx.check(); err != nil {
		return err
	}
	if tx.doc.root == nil {
		return nil
	}
	tx.record(&change{kind: changeRoot, node: tx.doc.root, clear: true})
	return nil
}

func (tx *Tx) rollback() {
	for i := len(tx.journal) - 1; i >= 0; i-- {
		tx.journal[i].revert(tx.doc)
	}
	tx.journal = nil
	tx.inserted = nil
}
