package canvas

import (
	"image"
	"slices"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// GestureManager turns pointer and key events into gestures. At most one
// gesture is active; starting another cancels it first.
type GestureManager struct {
	c *Canvas

	active   Gesture
	overlays []Overlay
	painted  bool

	pressed   bool
	dragging  bool
	pressPos  f32.Point
	pressMods key.Modifiers

	// last known pointer position, in device coordinates
	lastPos  f32.Point
	lastMods key.Modifiers

	cursor pointer.Cursor
	status Status
}

func newGestureManager(c *Canvas) *GestureManager {
	return &GestureManager{c: c}
}

// Active returns the active gesture or nil.
func (m *GestureManager) Active() Gesture { return m.active }

// Cursor is the pointer shape for the current state.
func (m *GestureManager) Cursor() pointer.Cursor { return m.cursor }

// Status is the status line for the current state.
func (m *GestureManager) Status() Status { return m.status }

// LastPosition returns the last pointer position in layout coordinates.
func (m *GestureManager) LastPosition() image.Point {
	return m.c.transform.ToLayout(m.lastPos)
}

// Start makes g the active gesture, canceling the previous one first.
func (m *GestureManager) Start(g Gesture, pos image.Point, mods key.Modifiers) {
	if m.active != nil {
		m.finish(m.LastPosition(), true)
	}
	if !m.c.assertf(m.active == nil, "gesture %T still active after cancel", m.active) {
		return
	}
	b := g.base()
	b.state = Active
	b.origin, b.last, b.mods = pos, pos, mods
	m.active = g
	m.overlays = nil
	m.painted = false
	g.Begin(pos, mods)
	m.refresh()
}

// Update forwards a pointer move to the active gesture.
func (m *GestureManager) Update(pos image.Point, mods key.Modifiers) {
	g := m.active
	if g == nil {
		return
	}
	b := g.base()
	b.last, b.mods = pos, mods
	g.Update(pos, mods)
	m.refresh()
}

// Cancel aborts the active gesture.
func (m *GestureManager) Cancel() {
	if m.active != nil {
		m.finish(m.LastPosition(), true)
	}
}

// finish is the single exit path of a gesture: End runs exactly once and
// the overlays are disposed whether the gesture committed or not.
func (m *GestureManager) finish(pos image.Point, canceled bool) {
	g := m.active
	if g == nil {
		return
	}
	m.active = nil
	defer func() {
		for _, o := range m.overlays {
			o.Dispose()
		}
		m.overlays = nil
		m.painted = false
		if canceled {
			g.base().state = Canceled
		} else {
			g.base().state = Completed
		}
		m.refresh()
	}()
	g.End(pos, canceled)
}

// Paint draws the active gesture's overlays, creating them on first use.
func (m *GestureManager) Paint(g gfx.Graphics) {
	if m.active == nil {
		return
	}
	if !m.painted {
		m.overlays = m.active.CreateOverlays()
		m.painted = true
	}
	for _, o := range m.overlays {
		o.Paint(g)
	}
}

// refresh recomputes cursor and status after a transition or update.
func (m *GestureManager) refresh() {
	cursor := pointer.CursorDefault
	var st Status
	if m.active != nil {
		cursor = m.active.Cursor()
		st = m.active.Status()
	} else if h, ok := m.handleAt(m.LastPosition()); ok {
		cursor = h.Dir.Cursor()
	} else if m.c.hover != nil && !m.c.stale {
		cursor = pointer.CursorPointer
	}
	m.cursor = cursor
	m.setStatus(st)
}

func (m *GestureManager) setStatus(st Status) {
	if m.c.opts.Settings.DedupeStatus && st == m.status {
		return
	}
	m.status = st
	if m.c.opts.Status != nil {
		m.c.opts.Status.SetStatus(st.Message, st.Error)
	}
}

// HandlePointer processes one pointer event. Positions are in device
// coordinates.
func (m *GestureManager) HandlePointer(ev pointer.Event) {
	c := m.c
	pos := c.transform.ToLayout(ev.Position)
	m.lastPos, m.lastMods = ev.Position, ev.Modifiers

	// a drop target left behind by a platform drag ends with the next
	// real pointer interaction
	if mg, ok := m.active.(*MoveGesture); ok && mg.left {
		m.finish(pos, true)
	}

	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons != pointer.ButtonPrimary {
			return
		}
		m.pressed = true
		m.dragging = false
		m.pressPos = ev.Position
		m.pressMods = ev.Modifiers
		if g := m.resizeAt(pos); g != nil {
			m.dragging = true
			m.Start(g, pos, ev.Modifiers)
		}

	case pointer.Drag:
		if m.active != nil {
			m.Update(pos, ev.Modifiers)
			return
		}
		if !m.pressed || m.dragging {
			return
		}
		if dist(ev.Position, m.pressPos) < m.c.opts.Settings.DragThreshold {
			return
		}
		m.dragging = true
		m.startDrag(c.transform.ToLayout(m.pressPos), m.pressMods)
		if m.active != nil {
			m.Update(pos, ev.Modifiers)
		}

	case pointer.Move:
		c.hover = c.tree.FindDeepest(pos)
		m.refresh()

	case pointer.Release:
		switch {
		case m.active != nil:
			m.finish(pos, false)
		case m.pressed && !m.dragging:
			m.click(pos, m.pressMods)
		}
		m.pressed = false
		m.dragging = false

	case pointer.Cancel:
		m.Cancel()
		m.pressed = false
		m.dragging = false

	case pointer.Leave:
		c.hover = nil
		m.refresh()

	case pointer.Scroll:
		if ev.Modifiers.Contain(key.ModShortcut) {
			factor := 1.1
			if ev.Scroll.Y > 0 {
				factor = 1 / factor
			}
			c.transform.ZoomAt(ev.Position, factor)
			return
		}
		c.transform.ScrollBy(float64(ev.Scroll.X), float64(ev.Scroll.Y))
	}
}

func dist(a, b f32.Point) float32 {
	d := a.Sub(b)
	return max(abs(d.X), abs(d.Y))
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// click applies selection semantics for a press and release without drag.
// Alt cycles through the views stacked under the pointer, topmost first;
// shift or ctrl toggles; a plain click selects the deepest view.
func (m *GestureManager) click(pos image.Point, mods key.Modifiers) {
	tree := m.c.tree
	v := tree.FindDeepest(pos)
	sel := m.c.selection
	switch {
	case mods.Contain(key.ModAlt):
		stack := tree.FindStack(pos)
		slices.Reverse(stack)
		sel.CycleAlternate(v, stack)
	case mods.Contain(key.ModShift) || mods.Contain(key.ModCtrl) || mods.Contain(key.ModCommand):
		if v != nil {
			sel.Toggle(v)
		}
	default:
		sel.SelectSingle(v)
	}
	m.refresh()
}

// startDrag picks the gesture for a drag that began at pos.
func (m *GestureManager) startDrag(pos image.Point, mods key.Modifiers) {
	c := m.c
	v := c.tree.FindDeepest(pos)
	if v == nil || v.IsRoot() {
		m.Start(newMarqueeGesture(c), pos, mods)
		return
	}
	if c.stale {
		c.logf("canvas: drag refused, layout not rendered")
		return
	}
	if !c.selection.Contains(v) {
		c.selection.SelectSingle(v)
	}
	g := newOwnMoveGesture(c)
	if g == nil {
		return
	}
	m.Start(g, pos, mods)
}

func (m *GestureManager) handleAt(pos image.Point) (geom.Handle, bool) {
	items := m.c.selection.Selections()
	if len(items) != 1 || items[0].IsRoot() {
		return geom.Handle{}, false
	}
	radius := m.c.transform.ToLayoutDistance(float64(m.c.opts.Settings.HandleRadius))
	return geom.HandleAt(items[0].Handles(), pos, radius)
}

// resizeAt starts a resize when pos hits a handle of the single selected
// view and its parent's rule supports resizing.
func (m *GestureManager) resizeAt(pos image.Point) Gesture {
	h, ok := m.handleAt(pos)
	if !ok || m.c.stale {
		return nil
	}
	item := m.c.selection.Selections()[0]
	parent := parentView(item.View())
	if parent == nil {
		return nil
	}
	rr, ok := m.c.ruleFor(parent.DocNode()).(rules.ResizeRule)
	if !ok {
		return nil
	}
	return newResizeGesture(m.c, item, rules.NewProxy(parent), rr, h.Dir)
}

func parentView(v *viewinfo.Node) *viewinfo.Node {
	for p := v.Parent(); p != nil; p = p.Parent() {
		if p.DocNode() != nil {
			return p
		}
	}
	return nil
}

// HandleKey processes a key event and reports whether it was consumed.
// The active gesture sees keys first; Escape cancels it. Without a
// gesture the editing shortcuts apply.
func (m *GestureManager) HandleKey(ev key.Event) bool {
	m.lastMods = ev.Modifiers
	if g := m.active; g != nil {
		var handled bool
		if ev.State == key.Press {
			handled = g.KeyPressed(ev)
		} else {
			handled = g.KeyReleased(ev)
		}
		if handled {
			m.refresh()
			return true
		}
		if ev.State == key.Press && ev.Name == key.NameEscape {
			m.Cancel()
			return true
		}
		return false
	}
	if ev.State != key.Press {
		return false
	}
	return m.c.shortcut(ev)
}
