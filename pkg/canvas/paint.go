package canvas

import (
	"image"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
)

// Paint draws the canvas feedback in layout coordinates: the hovered
// view, the selection with its handles, the active gesture's overlays
// and a marker when the last render failed.
func (c *Canvas) Paint(g gfx.Graphics) {
	if root := c.tree.Root(); root != nil && c.renderErr != nil {
		g.UseStyle(gfx.StyleInvalid)
		g.FillRect(root.Bounds())
		g.DrawString("Render failed: "+c.renderErr.Error(), root.Bounds().Min.Add(image.Pt(2, 12)))
	}

	active := c.gestures.Active()
	if active == nil && c.hover != nil && !c.selection.Contains(c.hover) {
		g.UseStyle(gfx.StyleHover)
		g.DrawRect(c.hover.Bounds())
	}

	items := c.selection.Selections()
	for _, it := range items {
		g.UseStyle(gfx.StyleSelection)
		g.FillRect(it.Rect())
		g.DrawRect(it.Rect())
	}
	if len(items) == 1 && !items[0].IsRoot() && active == nil {
		radius := c.transform.ToLayoutDistance(float64(c.opts.Settings.HandleRadius))
		g.UseStyle(gfx.StyleHandle)
		for _, h := range items[0].Handles() {
			g.FillRect(h.Rect(radius))
			g.DrawRect(h.Rect(radius))
		}
	}
	if len(items) == 1 {
		g.UseStyle(gfx.StyleLabel)
		g.DrawString(items[0].View().Name(), items[0].Rect().Min.Sub(image.Pt(0, 2)))
	}

	c.gestures.Paint(g)
}
