package canvas

import (
	"fmt"
	"image"

	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/rules"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/selection"
)

// ResizeGesture drags one edge or corner of the selected view. The parent
// rule turns the final bounds into size attributes.
type ResizeGesture struct {
	GestureBase
	c      *Canvas
	child  *rules.NodeProxy
	parent *rules.NodeProxy
	rule   rules.ResizeRule
	dir    geom.Direction

	start    image.Rectangle
	bounds   image.Rectangle
	feedback *rules.DropFeedback
}

func newResizeGesture(c *Canvas, item *selection.Item, parent *rules.NodeProxy, rule rules.ResizeRule, dir geom.Direction) *ResizeGesture {
	return &ResizeGesture{
		c:      c,
		child:  item.Proxy(),
		parent: parent,
		rule:   rule,
		dir:    dir,
		start:  item.Rect(),
		bounds: item.Rect(),
	}
}

// Bounds is the size the child would get if released now.
func (g *ResizeGesture) Bounds() image.Rectangle { return g.bounds }

func (g *ResizeGesture) Begin(pos image.Point, mods key.Modifiers) {
	g.feedback = g.rule.OnResizeBegin(g.child, g.parent, g.dir)
}

func (g *ResizeGesture) Update(pos image.Point, mods key.Modifiers) {
	g.bounds = g.dir.Resize(g.start, pos.Sub(g.origin))
	if g.feedback != nil {
		if fb := g.rule.OnResizeUpdate(g.feedback, g.child, g.parent, g.bounds); fb != nil {
			g.feedback = fb
		}
	}
}

func (g *ResizeGesture) End(pos image.Point, canceled bool) {
	if canceled || g.feedback == nil || g.bounds == g.start {
		return
	}
	label := fmt.Sprintf("Resize %s", g.child.Name())
	err := g.c.doc.Edit(label, func(tx *document.Tx) error {
		return g.rule.OnResizeEnd(tx, g.feedback, g.child, g.parent, g.bounds)
	})
	if err != nil {
		g.c.logf("canvas: %s failed: %v", label, err)
	}
}

func (g *ResizeGesture) Cursor() pointer.Cursor { return g.dir.Cursor() }

func (g *ResizeGesture) Status() Status {
	if g.feedback == nil {
		return Status{}
	}
	return Status{Message: g.feedback.Message, Error: g.feedback.ErrorMessage}
}

func (g *ResizeGesture) CreateOverlays() []Overlay {
	return []Overlay{newOverlay(func(gc gfx.Graphics) {
		if g.feedback != nil && g.feedback.Painter != nil {
			g.feedback.Painter.Paint(gc)
			return
		}
		gc.UseStyle(gfx.StyleResizePreview)
		gc.DrawRect(g.bounds)
	})}
}
