package rules

import (
	"fmt"
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/descriptor"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/payload"
)

// LinearRule places dropped elements between the children of a stacking
// container, along its orientation.
type LinearRule struct {
	ContainerRule
	// Orientation overrides android:orientation when set.
	Orientation string
}

type linearDrop struct {
	index int
	a, b  image.Point
}

func (r *LinearRule) vertical(target *NodeProxy) bool {
	if r.Orientation != "" {
		return r.Orientation == descriptor.Vertical
	}
	return target.AndroidAttr(descriptor.AttrOrient) == descriptor.Vertical
}

func (r *LinearRule) OnDropEnter(target *NodeProxy, elements []payload.Element) *DropFeedback {
	return r.OnDropMove(target, elements, nil, target.Bounds().Min)
}

func (r *LinearRule) OnDropMove(target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point) *DropFeedback {
	dragged := make(map[*document.Node]bool)
	for _, n := range payload.Sources(elements) {
		dragged[n] = true
	}
	vertical := r.vertical(target)
	axis := func(pt image.Point) int {
		if vertical {
			return pt.Y
		}
		return pt.X
	}

	tb := target.Bounds()
	d := &linearDrop{index: -1}
	var last *NodeProxy
	for _, c := range target.Children() {
		if dragged[c.Node()] {
			continue
		}
		cb := c.Bounds()
		mid := (axis(cb.Min) + axis(cb.Max)) / 2
		if axis(p) < mid {
			d.index = c.Node().Index()
			d.a, d.b = edge(tb, cb.Min, vertical)
			break
		}
		last = c
	}
	if d.index < 0 {
		at := tb.Min
		if last != nil {
			at = last.Bounds().Max
		}
		d.a, d.b = edge(tb, at, vertical)
	}

	next := &DropFeedback{Data: d}
	carry(next, fb)
	pos := d.index
	if pos < 0 {
		pos = target.Node().ChildCount()
	}
	next.Message = fmt.Sprintf("Insert in %s at position %d", target.Name(), pos)
	box := highlight(target, next)
	next.Painter = gfx.PainterFunc(func(g gfx.Graphics) {
		box.Paint(g)
		g.UseStyle(gfx.StyleInsertion)
		g.DrawLine(d.a, d.b)
	})
	return next
}

// edge returns the insertion line through at, spanning the target.
func edge(target image.Rectangle, at image.Point, vertical bool) (image.Point, image.Point) {
	if vertical {
		return image.Pt(target.Min.X, at.Y), image.Pt(target.Max.X, at.Y)
	}
	return image.Pt(at.X, target.Min.Y), image.Pt(at.X, target.Max.Y)
}

func (r *LinearRule) OnDropped(tx *document.Tx, target *NodeProxy, elements []payload.Element, fb *DropFeedback, p image.Point, insert InsertType) error {
	index := -1
	if fb != nil {
		if d, ok := fb.Data.(*linearDrop); ok {
			index = d.index
		}
	}
	_, err := r.insert(tx, target.Node(), index, elements, fb, insert)
	return err
}

func (r *LinearRule) ContextMenu(node *NodeProxy) []Action {
	actions := r.ContainerRule.ContextMenu(node)
	if r.Orientation != "" {
		return actions
	}
	next := descriptor.Vertical
	if r.vertical(node) {
		next = descriptor.Horizontal
	}
	n := node.Node()
	return append(actions, Action{
		ID:    "orientation",
		Title: "Change Orientation to " + next,
		Edit: func(tx *document.Tx) error {
			return tx.SetAndroidAttr(n, descriptor.AttrOrient, next)
		},
	})
}
