package rules

import (
	"fmt"
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
)

// BaseRule is the behavior of leaf elements: they refuse drops and paste
// next to themselves.
type BaseRule struct{}

func (BaseRule) OnDropEnter(*NodeProxy, []payload.Element) *DropFeedback { return nil }

func (BaseRule) OnDropMove(*NodeProxy, []payload.Element, *DropFeedback, image.Point) *DropFeedback {
	return nil
}

func (BaseRule) OnDropLeave(*NodeProxy, []payload.Element, *DropFeedback) {}

func (BaseRule) OnDropped(_ *document.Tx, target *NodeProxy, _ []payload.Element, _ *DropFeedback, _ image.Point, _ InsertType) error {
	return fmt.Errorf("%s does not accept children", target.Name())
}

func (BaseRule) OnRemovingChildren(*document.Tx, *NodeProxy, []*NodeProxy) {}

// OnPaste inserts the elements into the target's parent, right after it.
func (BaseRule) OnPaste(tx *document.Tx, target *NodeProxy, elements []payload.Element) ([]*document.Node, error) {
	n := target.Node()
	parent := n.Parent()
	if parent == nil {
		return nil, fmt.Errorf("cannot paste next to the root %s", target.Name())
	}
	return insertCopies(tx, parent, n.Index()+1, elements, nil)
}

func (BaseRule) ContextMenu(node *NodeProxy) []Action {
	actions := []Action{
		{ID: ActionProperties, Title: "Properties..."},
		{ID: ActionRename, Title: "Edit ID..."},
		{ID: ActionDelete, Title: "Delete"},
	}
	if node.Node().Parent() != nil {
		actions = append(actions, Action{ID: ActionSelectParent, Title: "Select Parent"})
	}
	return actions
}

func (BaseRule) DefaultActionID(*NodeProxy) string { return ActionProperties }

func insertCopies(tx *document.Tx, parent *document.Node, index int, elements []payload.Element, fill lookupFunc) ([]*document.Node, error) {
	var out []*document.Node
	for _, e := range elements {
		n, err := payload.Materialize(tx, e, fill.lookup())
		if err != nil {
			return nil, err
		}
		if err := tx.Insert(parent, index, n); err != nil {
			return nil, err
		}
		if index >= 0 {
			index = n.Index() + 1
		}
		out = append(out, n)
	}
	return out, nil
}

// highlight paints the accepting target and the dragged bounds.
func highlight(target *NodeProxy, fb *DropFeedback) gfx.Painter {
	return gfx.PainterFunc(func(g gfx.Graphics) {
		style := gfx.StyleDropAccept
		if fb.Invalid {
			style = gfx.StyleInvalid
		}
		g.UseStyle(style)
		g.FillRect(target.Bounds())
		g.DrawRect(target.Bounds())
		if !fb.DragBounds.Empty() {
			g.UseStyle(gfx.StyleDropPreview)
			g.DrawRect(fb.DragBounds)
		}
	})
}

// carry copies the canvas bookkeeping of prev into next.
func carry(next, prev *DropFeedback) *DropFeedback {
	if prev != nil {
		next.IsCopy = prev.IsCopy
		next.SameCanvas = prev.SameCanvas
		next.DragBounds = prev.DragBounds
		next.Modifiers = prev.Modifiers
	}
	return next
}
