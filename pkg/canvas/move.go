package canvas

import (
	"fmt"
	"image"

	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// copyModifier turns a move into a copy while held.
const copyModifier = key.ModCtrl

// dropTarget is the view currently accepting the drag.
type dropTarget struct {
	view     *viewinfo.Node
	proxy    *rules.NodeProxy
	rule     rules.Rule
	feedback *rules.DropFeedback
}

// MoveGesture drags elements over the canvas and drops them on the view
// whose rule accepts them. It serves drags started on this canvas as
// well as platform drags entering it.
type MoveGesture struct {
	GestureBase
	c *Canvas

	drag     *payload.Drag
	elements []payload.Element
	// own is set for drags started by this canvas's pointer handling.
	own bool
	// sameCanvas is set when the elements are live nodes of this canvas.
	sameCanvas bool
	copy       bool
	sources    []*document.Node

	bounds     image.Rectangle // dragged bounds at the origin
	dragBounds image.Rectangle

	hit    *viewinfo.Node
	target *dropTarget
	// zombie holds the target across a platform leave that may be
	// followed by a drop or a re-enter.
	zombie *dropTarget
	left   bool

	result  DropOperation
	dropped []*document.Node
}

// newOwnMoveGesture drags the sanitized selection, registering the drag so
// other canvases of the host can accept it.
func newOwnMoveGesture(c *Canvas) *MoveGesture {
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
	g := &MoveGesture{
		c:          c,
		drag:       &payload.Drag{Elements: elements, Data: data, Source: c},
		elements:   elements,
		own:        true,
		sameCanvas: true,
		sources:    nodes,
		bounds:     payload.Bounds(elements),
	}
	return g
}

// newDropGesture prepares a gesture for a platform drag carrying data.
// It returns nil when there is nothing to drop.
func newDropGesture(c *Canvas, data []byte) *MoveGesture {
	g := &MoveGesture{c: c}
	if d := c.opts.Drags.Current(); d != nil {
		g.drag = d
		if d.Source == c {
			g.elements = d.Elements
			g.sameCanvas = true
			g.sources = payload.Sources(d.Elements)
		} else {
			g.elements = payload.Detach(d.Elements)
		}
	} else {
		g.elements = c.opts.Codec.FromPayload(data)
	}
	if len(g.elements) == 0 {
		return nil
	}
	g.bounds = payload.Bounds(g.elements)
	return g
}

// Elements returns the dragged elements.
func (g *MoveGesture) Elements() []payload.Element { return g.elements }

// Target returns the view that would receive the drop, or nil.
func (g *MoveGesture) Target() *viewinfo.Node {
	if g.target == nil {
		return nil
	}
	return g.target.view
}

// Feedback returns the current feedback, or nil without a target.
func (g *MoveGesture) Feedback() *rules.DropFeedback {
	if g.target == nil {
		return nil
	}
	return g.target.feedback
}

// Result is the drop operation performed when the gesture ended.
func (g *MoveGesture) Result() DropOperation { return g.result }

// Dropped returns the nodes the drop created or moved.
func (g *MoveGesture) Dropped() []*document.Node { return g.dropped }

func (g *MoveGesture) Begin(pos image.Point, mods key.Modifiers) {
	if g.own {
		g.c.opts.Drags.Start(g.drag)
		g.copy = mods.Contain(copyModifier)
	}
	g.c.explodeEmpty()
	g.track(pos, mods)
}

func (g *MoveGesture) Update(pos image.Point, mods key.Modifiers) {
	if g.own {
		g.copy = mods.Contain(copyModifier)
	}
	g.track(pos, mods)
}

// KeyPressed re-evaluates the drop when the copy modifier changes, using
// the last pointer position.
func (g *MoveGesture) KeyPressed(ev key.Event) bool {
	if !g.own || ev.Name != key.NameCtrl {
		return false
	}
	g.copy = true
	g.track(g.last, ev.Modifiers|copyModifier)
	return true
}

func (g *MoveGesture) KeyReleased(ev key.Event) bool {
	if !g.own || ev.Name != key.NameCtrl {
		return false
	}
	g.copy = false
	g.track(g.last, ev.Modifiers&^copyModifier)
	return true
}

// isDragged reports whether n is one of the dragged nodes or lies inside
// one. Only meaningful when the drag comes from this canvas.
func (g *MoveGesture) isDragged(n *document.Node) bool {
	for _, s := range g.sources {
		if s == n || s.IsAncestorOf(n) {
			return true
		}
	}
	return false
}

// track resolves the drop target under pos and refreshes its feedback.
func (g *MoveGesture) track(pos image.Point, mods key.Modifiers) {
	g.last, g.mods = pos, mods
	if g.bounds.Empty() {
		g.dragBounds = image.Rectangle{}
	} else if g.own {
		g.dragBounds = g.bounds.Add(pos.Sub(g.origin))
	} else {
		g.dragBounds = g.bounds.Sub(g.bounds.Min).Add(pos)
	}

	// captured: same view under the pointer and still inside the
	// target's area, so the target keeps the drag without a new walk
	hit := g.c.tree.FindDeepest(pos)
	if g.target != nil && hit == g.hit && g.target.feedback.Captures(pos) {
		g.moveOver(g.target, pos)
		return
	}
	g.hit = hit

	for v := hit; v != nil; v = v.Parent() {
		n := v.DocNode()
		if n == nil {
			continue
		}
		if g.sameCanvas && g.isDragged(n) {
			continue
		}
		if g.target != nil && g.target.proxy.Node() == n {
			// a new render replaces the views but not the target
			if g.target.view != v {
				g.target.view, g.target.proxy = v, rules.NewProxy(v)
			}
			g.moveOver(g.target, pos)
			if g.target != nil {
				return
			}
			continue
		}
		t := &dropTarget{view: v, proxy: rules.NewProxy(v), rule: g.c.ruleFor(n)}
		fb := t.rule.OnDropEnter(t.proxy, g.elements)
		if fb == nil {
			continue
		}
		g.leave()
		t.feedback = g.fill(fb)
		g.target = t
		g.moveOver(t, pos)
		if g.target != nil {
			return
		}
	}
	g.leave()
}

// moveOver asks the target's rule for feedback at pos. A nil answer
// means the target no longer accepts the drag.
func (g *MoveGesture) moveOver(t *dropTarget, pos image.Point) {
	fb := t.rule.OnDropMove(t.proxy, g.elements, g.fill(t.feedback), pos)
	if fb == nil {
		g.leave()
		return
	}
	t.feedback = g.fill(fb)
}

// fill writes the canvas bookkeeping into fb.
func (g *MoveGesture) fill(fb *rules.DropFeedback) *rules.DropFeedback {
	fb.IsCopy = g.copy
	fb.SameCanvas = g.sameCanvas
	fb.DragBounds = g.dragBounds
	fb.Modifiers = g.mods
	return fb
}

// leave tells the current target the drag has left it.
func (g *MoveGesture) leave() {
	if t := g.target; t != nil {
		g.target = nil
		t.rule.OnDropLeave(t.proxy, g.elements, t.feedback)
	}
}

// stash moves the target into the zombie slot on a platform leave.
func (g *MoveGesture) stash() {
	if g.target != nil {
		g.zombie = g.target
		g.target = nil
	}
	g.hit = nil
	g.left = true
}

// restore brings a stashed target back after a drop or re-enter.
func (g *MoveGesture) restore() {
	if g.zombie != nil && g.target == nil {
		g.target = g.zombie
		g.hit = g.target.view
	}
	g.zombie = nil
	g.left = false
}

// operation is what a drop at the current position would do.
func (g *MoveGesture) operation() DropOperation {
	if g.c.doc.IsEmpty() {
		if len(g.elements) > 0 && g.c.opts.Lookup.Describe(g.elements[0].Type) != nil {
			return DropCopy
		}
		return DropNone
	}
	if g.target == nil || g.target.feedback.Invalid {
		return DropNone
	}
	if g.copy || !g.sameCanvas && g.drag == nil {
		return DropCopy
	}
	return DropMove
}

// insertType classifies the drop for the target's rule.
func (g *MoveGesture) insertType(target *document.Node) rules.InsertType {
	switch {
	case g.drag == nil || g.drag.Source == nil:
		return rules.Create
	case !g.sameCanvas, g.copy:
		return rules.Paste
	}
	for _, s := range g.sources {
		if s.Parent() != target {
			return rules.MoveInto
		}
	}
	return rules.MoveWithin
}

func (g *MoveGesture) End(pos image.Point, canceled bool) {
	if !canceled {
		g.result = g.commit(pos)
	}
	g.leave()
	if z := g.zombie; z != nil {
		g.zombie = nil
		z.rule.OnDropLeave(z.proxy, g.elements, z.feedback)
	}
	if g.own {
		g.c.opts.Drags.Finish(g.drag)
	}
	g.c.clearExplode()
}

// commit performs the drop in one edit session.
func (g *MoveGesture) commit(pos image.Point) DropOperation {
	c := g.c
	if g.left {
		g.restore()
	}
	if c.doc.IsEmpty() {
		nodes := c.createRoot("Drop", g.elements)
		if nodes == nil {
			return DropNone
		}
		g.dropped = nodes
		c.selectNodes(nodes)
		return DropCopy
	}

	op := g.operation()
	if op == DropNone {
		return DropNone
	}
	t := g.target
	insert := g.insertType(t.proxy.Node())
	label := dropLabel(insert, g.copy, g.elements, t.proxy.Name())
	err := c.doc.Edit(label, func(tx *document.Tx) error {
		if err := t.rule.OnDropped(tx, t.proxy, g.elements, t.feedback, pos, insert); err != nil {
			return err
		}
		g.dropped = tx.Inserted()
		return nil
	})
	if err != nil {
		c.logf("canvas: %s failed: %v", label, err)
		g.dropped = nil
		return DropNone
	}
	if g.drag != nil && g.drag.Source != nil && g.drag.Source != c && op == DropMove {
		g.drag.Moved = true
	}
	c.selectNodes(g.dropped)
	return op
}

// dropLabel names the undo entry, e.g. "Move Button in LinearLayout".
func dropLabel(insert rules.InsertType, copy bool, elements []payload.Element, target string) string {
	verb := "Move"
	switch {
	case insert == rules.Create:
		verb = "Drop"
	case copy:
		verb = "Copy"
	}
	return fmt.Sprintf("%s %s in %s", verb, objectName(elements), target)
}

// objectName is the element name for one element, "Widgets" otherwise.
func objectName(elements []payload.Element) string {
	if len(elements) == 1 {
		return elements[0].Name()
	}
	return "Widgets"
}

func (g *MoveGesture) Cursor() pointer.Cursor {
	switch g.operation() {
	case DropNone:
		return pointer.CursorNotAllowed
	case DropCopy:
		return pointer.CursorCrosshair
	}
	return pointer.CursorGrabbing
}

func (g *MoveGesture) Status() Status {
	if g.target == nil {
		return Status{}
	}
	fb := g.target.feedback
	return Status{Message: fb.Message, Error: fb.ErrorMessage}
}

func (g *MoveGesture) CreateOverlays() []Overlay {
	return []Overlay{newOverlay(func(gc gfx.Graphics) {
		if g.target != nil && g.target.feedback.Painter != nil {
			g.target.feedback.Painter.Paint(gc)
			return
		}
		if !g.dragBounds.Empty() {
			gc.UseStyle(gfx.StyleDropPreview)
			gc.DrawRect(g.dragBounds)
		}
	})}
}
