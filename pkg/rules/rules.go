// Package rules holds the per element type behavior a canvas consults
// while dragging, dropping, pasting and deleting. Rules compute feedback
// and perform edits through the session handed to them; they never open
// sessions themselves.
package rules

import (
	"fmt"
	"image"

	"gioui.org/io/key"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
)

// InsertType tells OnDropped how the dropped elements relate to the target.
type InsertType int

const (
	// Create inserts elements that came from outside the process.
	Create InsertType = iota
	// MoveWithin reorders elements inside their current parent.
	MoveWithin
	// MoveInto re-parents elements within the same canvas.
	MoveInto
	// Paste inserts copies of elements from another canvas or the clipboard.
	Paste
)

func (t InsertType) String() string {
	switch t {
	case Create:
		return "create"
	case MoveWithin:
		return "move-within"
	case MoveInto:
		return "move-into"
	case Paste:
		return "paste"
	}
	return fmt.Sprintf("insert(%d)", int(t))
}

// IsMove reports whether existing nodes change parent or position.
func (t InsertType) IsMove() bool { return t == MoveWithin || t == MoveInto }

// DropFeedback describes where and whether a drop would land. A rule
// returns a fresh value from every enter and move callback.
type DropFeedback struct {
	// Data is private to the rule that created the feedback.
	Data any
	// Invalid marks the target as refusing the drop.
	Invalid bool
	// Painter draws the feedback; may be nil.
	Painter gfx.Painter
	// CaptureArea, when not empty, keeps the target fixed while the
	// pointer stays inside it.
	CaptureArea image.Rectangle
	Message      string
	ErrorMessage string

	// Filled in by the canvas before each callback.
	IsCopy     bool
	SameCanvas bool
	DragBounds image.Rectangle
	Modifiers  key.Modifiers
}

// Captures reports whether p lies in the capture area.
func (f *DropFeedback) Captures(p image.Point) bool {
	return f != nil && !f.CaptureArea.Empty() && p.In(f.CaptureArea)
}

// Action is a context menu entry. Actions with an Edit run inside a
// session labeled Title; others are commands the canvas handles by ID.
type Action struct {
	ID    string
	Title string
	Edit  func(tx *document.Tx) error
}

// Well known action ids handled by the canvas.
const (
	ActionDelete       = "delete"
	ActionSelectParent = "select-parent"
	ActionProperties   = "properties"
	ActionRename       = "rename"
)

// Rule is the behavior of one element type.
type Rule interface {
	OnDropEnter(target *NodeProxy, elements []payload.Element) *DropFeedback
	OnDropMove(target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point) *DropFeedback
	OnDropLeave(target *NodeProxy, elements []payload.Element, fb *DropFeedback)
	OnDropped(tx *document.Tx, target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point, insert InsertType) error
	OnRemovingChildren(tx *document.Tx, parent *NodeProxy, children []*NodeProxy)
	OnPaste(tx *document.Tx, target *NodeProxy, elements []payload.Element) ([]*document.Node, error)
	ContextMenu(node *NodeProxy) []Action
	DefaultActionID(node *NodeProxy) string
}

// ResizeRule is implemented by container rules that let their children
// be resized with handles.
type ResizeRule interface {
	OnResizeBegin(child, parent *NodeProxy, dir geom.Direction) *DropFeedback
	OnResizeUpdate(fb *DropFeedback, child, parent *NodeProxy, bounds image.Rectangle) *DropFeedback
	OnResizeEnd(tx *document.Tx, fb *DropFeedback, child, parent *NodeProxy, bounds image.Rectangle) error
}

// Registry resolves the rule of a document node.
type Registry interface {
	RuleFor(n *document.Node) Rule
}
