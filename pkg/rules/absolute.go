package rules

import (
	"fmt"
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
)

const (
	AttrLayoutX = "layout_x"
	AttrLayoutY = "layout_y"
)

// AbsoluteRule positions dropped elements where they were released by
// writing layout_x and layout_y.
type AbsoluteRule struct {
	ContainerRule
}

type absoluteDrop struct {
	at image.Point
}

func (r *AbsoluteRule) OnDropEnter(target *NodeProxy, elements []payload.Element) *DropFeedback {
	return r.OnDropMove(target, elements, nil, target.Bounds().Min)
}

func (r *AbsoluteRule) OnDropMove(target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point) *DropFeedback {
	next := &DropFeedback{}
	carry(next, fb)
	at := p
	if !next.DragBounds.Empty() {
		at = next.DragBounds.Min
	}
	d := &absoluteDrop{at: at.Sub(target.Bounds().Min)}
	next.Data = d
	next.Message = fmt.Sprintf("Place in %s at %d,%d", target.Name(), d.at.X, d.at.Y)
	box := highlight(target, next)
	next.Painter = gfx.PainterFunc(func(g gfx.Graphics) {
		box.Paint(g)
		g.UseStyle(gfx.StyleInsertion)
		c := target.Bounds().Min.Add(d.at)
		g.DrawLine(image.Pt(c.X-4, c.Y), image.Pt(c.X+4, c.Y))
		g.DrawLine(image.Pt(c.X, c.Y-4), image.Pt(c.X, c.Y+4))
	})
	return next
}

func (r *AbsoluteRule) OnDropped(tx *document.Tx, target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point, insert InsertType) error {
	at := p.Sub(target.Bounds().Min)
	if fb != nil {
		if d, ok := fb.Data.(*absoluteDrop); ok {
			at = d.at
		}
	}
	nodes, err := r.insert(tx, target.Node(), -1, elements, fb, insert)
	if err != nil {
		return err
	}
	origin := payload.Bounds(elements).Min
	for i, n := range nodes {
		off := elements[i].Bounds.Min.Sub(origin)
		if elements[i].Bounds.Empty() {
			off = image.Point{}
		}
		pos := at.Add(off)
		if err := tx.SetAndroidAttr(n, AttrLayoutX, px(pos.X)); err != nil {
			return err
		}
		if err := tx.SetAndroidAttr(n, AttrLayoutY, px(pos.Y)); err != nil {
			return err
		}
	}
	return nil
}

func (r *AbsoluteRule) OnResizeEnd(tx *document.Tx, fb *DropFeedback, child, parent *NodeProxy, bounds image.Rectangle) error {
	if err := r.ContainerRule.OnResizeEnd(tx, fb, child, parent, bounds); err != nil {
		return err
	}
	st := fb.Data.(*resizeState)
	rel := bounds.Min.Sub(parent.Bounds().Min)
	n := child.Node()
	if st.dir&geom.West != 0 {
		if err := tx.SetAndroidAttr(n, AttrLayoutX, px(rel.X)); err != nil {
			return err
		}
	}
	if st.dir&geom.North != 0 {
		if err := tx.SetAndroidAttr(n, AttrLayoutY, px(rel.Y)); err != nil {
			return err
		}
	}
	return nil
}
