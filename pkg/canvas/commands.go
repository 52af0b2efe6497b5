package canvas

import (
	"errors"
	"fmt"
	"strings"

	"gioui.org/io/key"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// ErrNoSelection is returned by commands that need exactly one selected
// view.
var ErrNoSelection = errors.New("select a single view first")

// Undo reverts the last edit and returns its label.
func (c *Canvas) Undo() (string, bool) {
	label, ok := c.doc.Undo()
	if ok {
		c.logf("canvas: undo %s", label)
	}
	return label, ok
}

// Redo replays the last undone edit and returns its label.
func (c *Canvas) Redo() (string, bool) {
	label, ok := c.doc.Redo()
	if ok {
		c.logf("canvas: redo %s", label)
	}
	return label, ok
}

// ContextMenu returns the actions for v, as offered by its rule.
func (c *Canvas) ContextMenu(v *viewinfo.Node) []rules.Action {
	if v == nil || v.DocNode() == nil {
		return nil
	}
	return c.ruleFor(v.DocNode()).ContextMenu(rules.NewProxy(v))
}

// PerformDefaultAction runs the default action of the single selected
// view, typically on double click or Enter.
func (c *Canvas) PerformDefaultAction() error {
	items := c.selection.Selections()
	if len(items) != 1 {
		return ErrNoSelection
	}
	id := c.ruleFor(items[0].Node()).DefaultActionID(items[0].Proxy())
	if id == "" {
		return nil
	}
	return c.PerformAction(id)
}

// PerformAction runs the action id on the current selection. Actions with
// an edit run in a session named after the action; ids the canvas does
// not know go to Options.OnAction.
func (c *Canvas) PerformAction(id string) error {
	switch id {
	case rules.ActionDelete:
		c.Delete("Delete")
		return nil
	case rules.ActionSelectParent:
		c.selection.SelectParent()
		return nil
	}

	items := c.selection.Sanitized()
	if len(items) == 1 {
		for _, a := range c.ContextMenu(items[0].View()) {
			if a.ID != id || a.Edit == nil {
				continue
			}
			label := strings.TrimSuffix(a.Title, "...")
			return c.doc.Edit(label, a.Edit)
		}
	}
	if c.opts.OnAction == nil {
		return fmt.Errorf("action %q is not handled", id)
	}
	c.opts.OnAction(id, nodesOf(items))
	return nil
}

// PerformRename sets the android:id of the single selected view.
func (c *Canvas) PerformRename(newID string) error {
	items := c.selection.Selections()
	if len(items) != 1 {
		return ErrNoSelection
	}
	newID = strings.TrimSpace(newID)
	newID = strings.TrimPrefix(strings.TrimPrefix(newID, "@+id/"), "@id/")
	if newID == "" || strings.ContainsAny(newID, " \t/") {
		return fmt.Errorf("invalid id %q", newID)
	}
	n := items[0].Node()
	label := fmt.Sprintf("Rename %s", n.ShortName())
	return c.doc.Edit(label, func(tx *document.Tx) error {
		return tx.SetAndroidAttr(n, "id", "@+id/"+newID)
	})
}

// MoveSelection moves the single selected view delta positions among its
// siblings.
func (c *Canvas) MoveSelection(delta int) error {
	items := c.selection.Selections()
	if len(items) != 1 {
		return ErrNoSelection
	}
	n := items[0].Node()
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	index := min(max(n.Index()+delta, 0), parent.ChildCount()-1)
	if index == n.Index() {
		return nil
	}
	label := fmt.Sprintf("Move %s in %s", n.ShortName(), parent.ShortName())
	if err := c.doc.Edit(label, func(tx *document.Tx) error {
		return tx.Move(n, parent, index)
	}); err != nil {
		return err
	}
	c.selectNodes([]*document.Node{n})
	return nil
}

// shortcut handles editing keys while no gesture is active.
func (c *Canvas) shortcut(ev key.Event) bool {
	mods := ev.Modifiers
	if mods.Contain(key.ModShortcut) {
		switch ev.Name {
		case "C":
			c.Copy()
		case "X":
			c.Cut()
		case "V":
			c.Paste()
		case "A":
			c.selection.SelectAll()
		case "D":
			c.Duplicate()
		case "Z":
			if mods.Contain(key.ModShift) {
				c.Redo()
			} else {
				c.Undo()
			}
		case "Y":
			c.Redo()
		default:
			return false
		}
		return true
	}

	var err error
	switch ev.Name {
	case key.NameDeleteBackward, key.NameDeleteForward:
		c.Delete("Delete")
	case key.NameReturn, key.NameEnter:
		err = c.PerformDefaultAction()
	case key.NameUpArrow, key.NameLeftArrow:
		err = c.MoveSelection(-1)
	case key.NameDownArrow, key.NameRightArrow:
		err = c.MoveSelection(1)
	default:
		return false
	}
	if err != nil && !errors.Is(err, ErrNoSelection) {
		c.logf("canvas: %v", err)
	}
	return true
}
