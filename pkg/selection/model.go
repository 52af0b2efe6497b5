// Package selection tracks which rendered views are selected. Selection
// identity is the document node: items are rebuilt against every new
// render snapshot by matching document nodes, not views.
package selection

import (
	"image"
	"slices"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// Listener receives one notification per logical selection change.
type Listener interface {
	SelectionChanged(items []*Item)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(items []*Item)

func (f ListenerFunc) SelectionChanged(items []*Item) { f(items) }

// altCycle is the anchor of alt-click cycling.
type altCycle struct {
	origin     *document.Node
	candidates []*document.Node
	index      int
}

// Model is the selection of one canvas.
type Model struct {
	tree     *viewinfo.Tree
	items    []*Item
	listener Listener
	inUpdate bool
	alt      *altCycle
}

// NewModel returns an empty selection over tree, which may be nil.
func NewModel(tree *viewinfo.Tree) *Model {
	return &Model{tree: tree}
}

// SetListener installs the single observer.
func (m *Model) SetListener(l Listener) { m.listener = l }

// Tree returns the snapshot the items refer to.
func (m *Model) Tree() *viewinfo.Tree { return m.tree }

// Selections returns a snapshot of the selected items in selection order.
func (m *Model) Selections() []*Item { return slices.Clone(m.items) }

// IsEmpty reports whether nothing is selected.
func (m *Model) IsEmpty() bool { return len(m.items) == 0 }

// Len returns the number of selected items.
func (m *Model) Len() int { return len(m.items) }

// Nodes returns the selected document nodes.
func (m *Model) Nodes() []*document.Node {
	out := make([]*document.Node, len(m.items))
	for i, it := range m.items {
		out[i] = it.Node()
	}
	return out
}

// Contains reports whether v is selected.
func (m *Model) Contains(v *viewinfo.Node) bool {
	return m.indexOf(v) >= 0
}

// Paths returns the child index path of every selected node, for outline
// views that address nodes by tree position.
func (m *Model) Paths() [][]int {
	out := make([][]int, len(m.items))
	for i, it := range m.items {
		out[i] = it.Node().Path()
	}
	return out
}

func (m *Model) indexOf(v *viewinfo.Node) int {
	if v == nil {
		return -1
	}
	for i, it := range m.items {
		if it.view == v || it.Node() == v.DocNode() {
			return i
		}
	}
	return -1
}

func (m *Model) root() *viewinfo.Node {
	if m.tree.IsEmpty() {
		return nil
	}
	return m.tree.Root()
}

// SelectSingle makes v the only selected view. A nil or unselectable v
// selects the root. Selecting the current sole selection again changes
// nothing and fires no event.
func (m *Model) SelectSingle(v *viewinfo.Node) *Item {
	m.alt = nil
	if v == nil || !v.Selectable() {
		v = m.root()
	}
	if v == nil {
		m.replace(nil)
		return nil
	}
	if len(m.items) == 1 && m.items[0].Node() == v.DocNode() {
		return m.items[0]
	}
	it := newItem(v)
	m.replace([]*Item{it})
	return it
}

// Toggle adds v to the selection or removes it when already selected.
func (m *Model) Toggle(v *viewinfo.Node) {
	m.alt = nil
	if v == nil || !v.Selectable() {
		return
	}
	items := slices.Clone(m.items)
	if i := m.indexOf(v); i >= 0 {
		items = slices.Delete(items, i, i+1)
	} else {
		items = append(items, newItem(v))
	}
	m.replace(items)
}

// CycleAlternate selects one of the views stacked under an alt-click.
// candidates are ordered topmost first, which is the order the user sees
// them peel away. The first click on origin selects candidates[0]; each
// further click on the same origin, with no other selection operation in
// between, selects the next candidate and wraps after the last one.
func (m *Model) CycleAlternate(origin *viewinfo.Node, candidates []*viewinfo.Node) *Item {
	var views []*viewinfo.Node
	for _, c := range candidates {
		if c != nil && c.Selectable() {
			views = append(views, c)
		}
	}
	if len(views) == 0 {
		return m.SelectSingle(origin)
	}
	nodes := viewinfo.DocNodes(views)

	a := m.alt
	if a != nil && origin != nil && a.origin == origin.DocNode() && slices.Equal(a.candidates, nodes) {
		a.index = (a.index + 1) % len(views)
	} else {
		var o *document.Node
		if origin != nil {
			o = origin.DocNode()
		}
		a = &altCycle{origin: o, candidates: nodes}
	}

	it := newItem(views[a.index])
	m.replace([]*Item{it})
	m.alt = a
	return it
}

// SelectWithin replaces the selection with the views lying inside box.
// Views in toggled, collected during a shift-marquee, flip membership.
func (m *Model) SelectWithin(box image.Rectangle, toggled []*viewinfo.Node) {
	m.alt = nil
	if m.tree.IsEmpty() {
		m.replace(nil)
		return
	}
	within := m.tree.FindWithin(box)
	flip := make(map[*document.Node]bool, len(toggled))
	for _, v := range toggled {
		if v != nil && v.DocNode() != nil {
			flip[v.DocNode()] = true
		}
	}

	var items []*Item
	inBox := make(map[*document.Node]bool, len(within))
	for _, v := range within {
		inBox[v.DocNode()] = true
		if !flip[v.DocNode()] {
			items = append(items, newItem(v))
		}
	}
	for _, v := range toggled {
		if v != nil && v.Selectable() && !inBox[v.DocNode()] {
			items = append(items, newItem(v))
		}
	}
	m.replace(items)
}

// SelectAll selects every child of the root, or the root itself when it
// has none.
func (m *Model) SelectAll() {
	m.alt = nil
	root := m.root()
	if root == nil {
		m.replace(nil)
		return
	}
	var items []*Item
	for _, c := range root.Children() {
		if c.Selectable() {
			items = append(items, newItem(c))
		}
	}
	if len(items) == 0 {
		items = []*Item{newItem(root)}
	}
	m.replace(items)
}

// SelectNone clears the selection.
func (m *Model) SelectNone() {
	m.alt = nil
	m.replace(nil)
}

// SelectParent replaces a single non-root selection with its nearest
// selectable ancestor.
func (m *Model) SelectParent() {
	m.alt = nil
	if len(m.items) != 1 || m.items[0].IsRoot() {
		return
	}
	for p := m.items[0].view.Parent(); p != nil; p = p.Parent() {
		if p.Selectable() {
			m.replace([]*Item{newItem(p)})
			return
		}
	}
}

// SelectSameType selects every view whose element type matches the first
// selected item.
func (m *Model) SelectSameType() {
	m.alt = nil
	if len(m.items) == 0 || m.tree.IsEmpty() {
		return
	}
	var items []*Item
	for _, v := range m.tree.SameType(m.items[0].Node().Type()) {
		items = append(items, newItem(v))
	}
	m.replace(items)
}

// SelectSiblings selects the first selected item and all its siblings.
func (m *Model) SelectSiblings() {
	m.alt = nil
	if len(m.items) == 0 || m.tree.IsEmpty() {
		return
	}
	var items []*Item
	for _, v := range m.tree.Siblings(m.items[0].view) {
		items = append(items, newItem(v))
	}
	m.replace(items)
}

// SetSelection selects the views of nodes, typically on behalf of an
// outline view. Nodes without a view are skipped. Calls made while a
// selection notification is being delivered are ignored.
func (m *Model) SetSelection(nodes []*document.Node) {
	if m.inUpdate {
		return
	}
	m.alt = nil
	m.replace(m.resolve(nodes))
}

// SelectNodes selects nodes only if every one of them has a view in the
// current tree. It reports whether it did.
func (m *Model) SelectNodes(nodes []*document.Node) bool {
	if m.inUpdate {
		return false
	}
	items := m.resolve(nodes)
	if len(items) != len(nodes) {
		return false
	}
	m.alt = nil
	m.replace(items)
	return true
}

func (m *Model) resolve(nodes []*document.Node) []*Item {
	var items []*Item
	seen := make(map[*document.Node]bool)
	for _, n := range nodes {
		if seen[n] {
			continue
		}
		seen[n] = true
		if v := m.tree.ByDocument(n); v != nil && v.Selectable() {
			items = append(items, newItem(v))
		}
	}
	return items
}

// Sanitize returns a copy of items without stale entries and without
// entries whose document node descends from another entry's node. The
// input slice is not modified.
func Sanitize(items []*Item) []*Item {
	present := make(map[*document.Node]bool, len(items))
	for _, it := range items {
		if n := it.Node(); n != nil && n.Exists() {
			present[n] = true
		}
	}
	out := make([]*Item, 0, len(items))
	emitted := make(map[*document.Node]bool, len(items))
	for _, it := range items {
		n := it.Node()
		if !present[n] || emitted[n] {
			continue
		}
		covered := false
		for p := n.Parent(); p != nil; p = p.Parent() {
			if present[p] {
				covered = true
				break
			}
		}
		if !covered {
			emitted[n] = true
			out = append(out, it)
		}
	}
	return out
}

// Sanitized returns Sanitize applied to the current selection.
func (m *Model) Sanitized() []*Item { return Sanitize(m.items) }

// Sync moves the selection onto a freshly built tree. Each item is found
// again by its document node; nodes that no longer exist get one
// structural best-effort match and are dropped when that fails.
func (m *Model) Sync(tree *viewinfo.Tree) {
	old := m.items
	m.tree = tree
	var items []*Item
	seen := make(map[*document.Node]bool)
	for _, it := range old {
		var v *viewinfo.Node
		if n := it.Node(); n != nil && n.Exists() {
			v = tree.ByDocument(n)
		} else {
			v = tree.FindMatch(it.view)
		}
		if v == nil || !v.Selectable() || seen[v.DocNode()] {
			continue
		}
		seen[v.DocNode()] = true
		items = append(items, newItem(v))
	}

	if sameNodes(old, items) {
		m.items = items
		return
	}
	m.replace(items)
}

func sameNodes(a, b []*Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Node() != b[i].Node() {
			return false
		}
	}
	return true
}

// replace installs items and notifies the listener once when the set of
// selected nodes changed.
func (m *Model) replace(items []*Item) {
	if sameNodes(m.items, items) {
		m.items = items
		return
	}
	m.items = items
	if m.listener == nil {
		return
	}
	m.inUpdate = true
	defer func() { m.inUpdate = false }()
	m.listener.SelectionChanged(slices.Clone(items))
}
