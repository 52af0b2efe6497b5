package document

// DefaultHistoryLimit bounds the number of undo records kept.
var DefaultHistoryLimit = 200

type changeKind int

const (
	changeAttr changeKind = iota
	changeInsert
	changeRemove
	changeRoot
)

// change is one journaled mutation together with what is needed to invert it.
type change struct {
	kind   changeKind
	node   *Node
	parent *Node
	index  int
	clear  bool

	ns, name string
	oldValue string
	hadOld   bool
	newValue string
	hasNew   bool
}

func (c *change) apply(d *Document) {
	switch c.kind {
	case changeAttr:
		if c.hasNew {
			c.node.setAttr(c.ns, c.name, c.newValue)
		} else {
			c.node.removeAttr(c.ns, c.name)
		}
	case changeInsert:
		c.parent.insertChild(c.index, c.node)
	case changeRemove:
		c.parent.removeChild(c.node)
	case changeRoot:
		if c.clear {
			d.root = nil
		} else {
			d.root = c.node
		}
	}
}

func (c *change) revert(d *Document) {
	switch c.kind {
	case changeAttr:
		if c.hadOld {
			c.node.setAttr(c.ns, c.name, c.oldValue)
		} else {
			c.node.removeAttr(c.ns, c.name)
		}
	case changeInsert:
		c.parent.removeChild(c.node)
	case changeRemove:
		c.parent.insertChild(c.index, c.node)
	case changeRoot:
		if c.clear {
			d.root = c.node
		} else {
			d.root = nil
		}
	}
}

// Record is one committed edit session.
type Record struct {
	Label   string
	changes []*change
}

// History is the undo/redo list. Idx points at the record that the next
// Undo reverts; records above Idx are redoable.
type History struct {
	Idx   int
	Recs  []*Record
	Limit int
}

// NewHistory returns an empty history keeping at most limit records.
func NewHistory(limit int) *History {
	return &History{Idx: -1, Limit: limit}
}

func (h *History) push(r *Record) {
	h.Recs = append(h.Recs[:h.Idx+1], r)
	if h.Limit > 0 && len(h.Recs) > h.Limit {
		h.Recs = h.Recs[len(h.Recs)-h.Limit:]
	}
	h.Idx = len(h.Recs) - 1
}

func (h *History) undo() *Record {
	if h.Idx < 0 {
		return nil
	}
	r := h.Recs[h.Idx]
	h.Idx--
	return r
}

func (h *History) redo() *Record {
	if h.Idx >= len(h.Recs)-1 {
		return nil
	}
	h.Idx++
	return h.Recs[h.Idx]
}

// CanUndo reports whether there is a record to undo.
func (h *History) CanUndo() bool { return h.Idx >= 0 }

// CanRedo reports whether there is a record to redo.
func (h *History) CanRedo() bool { return h.Idx < len(h.Recs)-1 }

// UndoLabel returns the label of the next record to undo.
func (h *History) UndoLabel() string {
	if !h.CanUndo() {
		return ""
	}
	return h.Recs[h.Idx].Label
}

// Labels returns the labels of all undoable records, oldest first.
func (h *History) Labels() []string {
	labels := make([]string, 0, h.Idx+1)
	for i := 0; i <= h.Idx; i++ {
		labels = append(labels, h.Recs[i].Label)
	}
	return labels
}
