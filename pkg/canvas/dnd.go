package canvas

import (
	"gioui.org/f32"
	"gioui.org/io/key"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
)

// DropOperation is the answer to a platform drag event.
type DropOperation int

const (
	DropNone DropOperation = iota
	DropMove
	DropCopy
)

func (op DropOperation) String() string {
	switch op {
	case DropMove:
		return "move"
	case DropCopy:
		return "copy"
	}
	return "none"
}

// DropEvent is a platform drag-and-drop event over the canvas.
type DropEvent struct {
	// Pos is in device coordinates.
	Pos  f32.Point
	Mods key.Modifiers
	// Data is the structured transfer payload; ignored when the drag is
	// registered in the host's DragRegistry.
	Data []byte
	// Operation is the operation the user asked for.
	Operation DropOperation
}

func (c *Canvas) dropGesture() *MoveGesture {
	g, _ := c.gestures.active.(*MoveGesture)
	if g != nil && g.own {
		return nil
	}
	return g
}

// DragEnter starts a drop gesture for a drag entering the canvas. A
// drag that left moments ago gets its target back.
func (c *Canvas) DragEnter(ev DropEvent) DropOperation {
	pos := c.transform.ToLayout(ev.Pos)
	if g := c.dropGesture(); g != nil && g.left && g.drag == c.opts.Drags.Current() {
		g.restore()
		return c.DragOver(ev)
	}
	if c.stale && !c.doc.IsEmpty() {
		return DropNone
	}
	g := newDropGesture(c, ev.Data)
	if g == nil {
		return DropNone
	}
	g.copy = ev.Operation == DropCopy
	c.gestures.lastPos, c.gestures.lastMods = ev.Pos, ev.Mods
	c.gestures.Start(g, pos, ev.Mods)
	return g.operation()
}

// DragOver updates the drop target under the pointer.
func (c *Canvas) DragOver(ev DropEvent) DropOperation {
	g := c.dropGesture()
	if g == nil {
		return DropNone
	}
	if g.left {
		g.restore()
	}
	c.gestures.lastPos, c.gestures.lastMods = ev.Pos, ev.Mods
	c.gestures.Update(c.transform.ToLayout(ev.Pos), ev.Mods)
	return g.operation()
}

// DragOperationChanged switches between copy and move.
func (c *Canvas) DragOperationChanged(ev DropEvent) DropOperation {
	g := c.dropGesture()
	if g == nil {
		return DropNone
	}
	g.copy = ev.Operation == DropCopy
	return c.DragOver(ev)
}

// DragLeave stashes the target. Platforms may send a leave right before
// the drop, so the gesture stays active until a drop, a re-enter or the
// end of the drag.
func (c *Canvas) DragLeave(ev DropEvent) {
	g := c.dropGesture()
	if g == nil {
		return
	}
	g.stash()
	c.gestures.refresh()
}

// Drop commits the drag at ev.Pos and returns the operation performed.
// A drop nothing accepts cancels the gesture.
func (c *Canvas) Drop(ev DropEvent) DropOperation {
	pos := c.transform.ToLayout(ev.Pos)
	g := c.dropGesture()
	if g == nil {
		c.DragEnter(ev)
		if g = c.dropGesture(); g == nil {
			return DropNone
		}
	} else if g.left {
		g.restore()
	}
	if g.target == nil && !c.doc.IsEmpty() {
		c.gestures.Update(pos, ev.Mods)
	}
	if g.operation() == DropNone {
		c.gestures.finish(pos, true)
		return DropNone
	}
	c.gestures.finish(pos, false)
	return g.result
}

// DragEnd ends any drop gesture left over from a drag that finished
// elsewhere.
func (c *Canvas) DragEnd() {
	if g := c.dropGesture(); g != nil {
		c.gestures.finish(c.gestures.LastPosition(), true)
	}
}

// StartDrag registers the sanitized selection as a platform drag from
// this canvas. It returns nil when nothing can be dragged or the tree is
// stale.
func (c *Canvas) StartDrag() *payload.Drag {
	if c.stale {
		return nil
	}
	var nodes []*document.Node
	for _, it := range c.selection.Sanitized() {
		if !it.IsRoot() {
			nodes = append(nodes, it.Node())
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	elements := payload.FromNodes(nodes, c.boundsOf)
	data, _ := c.opts.Codec.ToPayload(elements)
	d := &payload.Drag{Elements: elements, Data: data, Source: c}
	c.opts.Drags.Start(d)
	c.drag = d
	return d
}

// FinishDrag ends a drag started with StartDrag. When another canvas
// accepted it as a move, the originals are deleted here.
func (c *Canvas) FinishDrag(d *payload.Drag, op DropOperation) {
	if d == nil || d != c.drag {
		return
	}
	c.drag = nil
	c.opts.Drags.Finish(d)
	if op != DropMove || !d.Moved {
		return
	}
	var nodes []*document.Node
	for _, n := range payload.Sources(d.Elements) {
		if n.Exists() {
			nodes = append(nodes, n)
		}
	}
	c.deleteNodes("Move", nodes)
}
