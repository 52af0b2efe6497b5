package canvas

import (
	"fmt"
	"image"

	"gioui.org/io/key"
	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/document"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/viewinfo"
)

// MarqueeGesture selects the views inside a rubber band rectangle. With
// shift or ctrl held, views already selected flip membership instead.
type MarqueeGesture struct {
	GestureBase
	c       *Canvas
	toggled []*viewinfo.Node
	initial []*document.Node
	box     image.Rectangle
}

func newMarqueeGesture(c *Canvas) *MarqueeGesture {
	return &MarqueeGesture{c: c}
}

// Box is the current band in layout coordinates.
func (g *MarqueeGesture) Box() image.Rectangle { return g.box }

func (g *MarqueeGesture) Begin(pos image.Point, mods key.Modifiers) {
	sel := g.c.selection
	g.initial = sel.Nodes()
	if mods.Contain(key.ModShift) || mods.Contain(key.ModCtrl) || mods.Contain(key.ModCommand) {
		for _, it := range sel.Selections() {
			g.toggled = append(g.toggled, it.View())
		}
	}
	g.box = image.Rectangle{Min: pos, Max: pos}
}

func (g *MarqueeGesture) Update(pos image.Point, mods key.Modifiers) {
	g.box = geom.FromCorners(g.origin, pos)
	g.c.selection.SelectWithin(g.box, g.toggled)
}

func (g *MarqueeGesture) End(pos image.Point, canceled bool) {
	if canceled {
		g.c.selection.SetSelection(g.initial)
	}
}

func (g *MarqueeGesture) Cursor() pointer.Cursor { return pointer.CursorCrosshair }

func (g *MarqueeGesture) Status() Status {
	n := g.c.selection.Len()
	if n == 0 {
		return Status{}
	}
	return Status{Message: fmt.Sprintf("%d selected", n)}
}

func (g *MarqueeGesture) CreateOverlays() []Overlay {
	return []Overlay{newOverlay(func(gc gfx.Graphics) {
		gc.UseStyle(gfx.StyleMarquee)
		gc.FillRect(g.box)
		gc.DrawRect(g.box)
	})}
}
