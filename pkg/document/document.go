package document

import (
	"errors"
	"fmt"
)

var (
	// ErrNestedSession is returned when Edit is called while a session is open.
	ErrNestedSession = errors.New("edit session already open")
	// ErrNoSession is returned when a Tx is used after its session closed.
	ErrNoSession = errors.New("no edit session open")
	// ErrRootDelete is returned when a session tries to detach the root.
	ErrRootDelete = errors.New("cannot remove the document root")
	// ErrDetached is returned when a node is not part of the document.
	ErrDetached = errors.New("node is not attached to the document")
	// ErrCycle is returned when a node would become its own descendant.
	ErrCycle = errors.New("node cannot be moved into its own subtree")
	// ErrForeign is returned when a node belongs to another document.
	ErrForeign = errors.New("node belongs to another document")
	// ErrHasRoot is returned when SetRoot is used on a non-empty document.
	ErrHasRoot = errors.New("document already has a root")
)

// ChangeListener is notified after a session commits or history is replayed.
type ChangeListener func(label string)

// Document is the mutable element tree.
type Document struct {
	root      *Node
	nextID    uint64
	tx        *Tx
	history   *History
	listeners []ChangeListener
}

// New returns an empty document.
func New() *Document {
	return &Document{history: NewHistory(DefaultHistoryLimit)}
}

// Root returns the root element, or nil for an empty document.
func (d *Document) Root() *Node { return d.root }

// IsEmpty reports whether the document has no root element.
func (d *Document) IsEmpty() bool { return d.root == nil }

// History returns the undo history.
func (d *Document) History() *History { return d.history }

// InSession reports whether an edit session is currently open.
func (d *Document) InSession() bool { return d.tx != nil }

// OnChange registers fn to run after every committed session, undo and redo.
func (d *Document) OnChange(fn ChangeListener) {
	d.listeners = append(d.listeners, fn)
}

// NewElement creates a detached element owned by d. Creating an element
// is not a mutation; attaching it requires an edit session.
func (d *Document) NewElement(typ string) *Node {
	d.nextID++
	return &Node{id: d.nextID, typ: typ, doc: d}
}

// Walk visits every attached node depth first, parents before children.
func (d *Document) Walk(fn func(n *Node) bool) {
	if d.root != nil {
		walk(d.root, fn)
	}
}

func walk(n *Node, fn func(n *Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of attached nodes.
func (d *Document) Count() int {
	count := 0
	d.Walk(func(*Node) bool { count++; return true })
	return count
}

// Edit opens the document's single edit session, runs fn and commits the
// journal under label. If fn returns an error or panics, every change made
// so far is reverted before Edit returns, so no reader ever observes a
// partial session. Sessions do not nest.
func (d *Document) Edit(label string, fn func(tx *Tx) error) (err error) {
	if d.tx != nil {
		return fmt.Errorf("edit %q inside %q: %w", label, d.tx.label, ErrNestedSession)
	}
	tx := &Tx{doc: d, label: label}
	d.tx = tx

	defer func() {
		d.tx = nil
		tx.closed = true
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
		if err != nil {
			tx.rollback()
			return
		}
		if len(tx.journal) == 0 {
			return
		}
		d.history.push(&Record{Label: tx.label, changes: tx.journal})
		d.notify(tx.label)
	}()

	return fn(tx)
}

// Undo reverts the most recent session and returns its label.
func (d *Document) Undo() (string, bool) {
	if d.tx != nil {
		return "", false
	}
	rec := d.history.undo()
	if rec == nil {
		return "", false
	}
	for i := len(rec.changes) - 1; i >= 0; i-- {
		rec.changes[i].revert(d)
	}
	d.notify("Undo " + rec.Label)
	return rec.Label, true
}

// Redo reapplies the most recently undone session and returns its label.
func (d *Document) Redo() (string, bool) {
	if d.tx != nil {
		return "", false
	}
	rec := d.history.redo()
	if rec == nil {
		return "", false
	}
	for _, c := range rec.changes {
		c.apply(d)
	}
	d.notify("Redo " + rec.Label)
	return rec.Label, true
}

func (d *Document) notify(label string) {
	for _, fn := range d.listeners {
		fn(label)
	}
}

// Snapshot returns a deep copy of the attached tree together with a map
// from each copied node back to its original. The copy has no history or
// listeners and can be read on another goroutine while d is edited.
func (d *Document) Snapshot() (*Document, map[*Node]*Node) {
	snap := New()
	origin := make(map[*Node]*Node)
	if d.root != nil {
		snap.root = snap.copyNode(d.root, nil, origin)
	}
	return snap, origin
}

func (d *Document) copyNode(n, parent *Node, origin map[*Node]*Node) *Node {
	c := d.NewElement(n.typ)
	c.attrs = append([]Attribute(nil), n.attrs...)
	c.parent = parent
	origin[c] = n
	for _, child := range n.children {
		c.children = append(c.children, d.copyNode(child, c, origin))
	}
	return c
}
