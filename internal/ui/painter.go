package ui

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/OpenTraceLab/OpenTraceLayout/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceLayout/pkg/gfx"
)

// painter implements gfx.Graphics on gio ops. Coordinates arrive in
// layout units and are mapped through the canvas transform.
type painter struct {
	gtx     layout.Context
	th      *material.Theme
	t       *geom.Transform
	palette gfx.Palette
	style   gfx.Style
	width   float32
}

func newPainter(gtx layout.Context, th *material.Theme, t *geom.Transform, palette gfx.Palette) *painter {
	return &painter{
		gtx:     gtx,
		th:      th,
		t:       t,
		palette: palette,
		width:   float32(gtx.Dp(unit.Dp(1))),
	}
}

func (p *painter) UseStyle(s gfx.Style) { p.style = s }

func (p *painter) stroke() color.NRGBA { return p.palette.Stroke[p.style] }
func (p *painter) fill() color.NRGBA   { return p.palette.Fill[p.style] }

func (p *painter) DrawRect(r image.Rectangle) {
	d := p.t.ToDeviceRect(r)
	var path clip.Path
	path.Begin(p.gtx.Ops)
	path.MoveTo(f32.Pt(float32(d.Min.X), float32(d.Min.Y)))
	path.LineTo(f32.Pt(float32(d.Max.X), float32(d.Min.Y)))
	path.LineTo(f32.Pt(float32(d.Max.X), float32(d.Max.Y)))
	path.LineTo(f32.Pt(float32(d.Min.X), float32(d.Max.Y)))
	path.Close()
	paint.FillShape(p.gtx.Ops, p.stroke(), clip.Stroke{Path: path.End(), Width: p.width}.Op())
}

func (p *painter) FillRect(r image.Rectangle) {
	d := p.t.ToDeviceRect(r)
	if d.Empty() {
		return
	}
	paint.FillShape(p.gtx.Ops, p.fill(), clip.Rect(d).Op())
}

func (p *painter) DrawLine(a, b image.Point) {
	var path clip.Path
	path.Begin(p.gtx.Ops)
	path.MoveTo(p.t.ToDevice(a))
	path.LineTo(p.t.ToDevice(b))
	paint.FillShape(p.gtx.Ops, p.stroke(), clip.Stroke{Path: path.End(), Width: 2 * p.width}.Op())
}

// DrawString draws s with its baseline at the given point.
func (p *painter) DrawString(s string, at image.Point) {
	pt := p.t.ToDevice(at)
	lbl := material.Caption(p.th, s)
	lbl.Color = p.stroke()
	lbl.MaxLines = 1

	gtx := p.gtx
	gtx.Constraints = layout.Constraints{Max: image.Pt(gtx.Dp(unit.Dp(400)), gtx.Dp(unit.Dp(24)))}
	macro := op.Record(gtx.Ops)
	dims := lbl.Layout(gtx)
	call := macro.Stop()

	// Baseline is measured from the bottom edge.
	origin := image.Pt(int(pt.X), int(pt.Y)-(dims.Size.Y-dims.Baseline))
	defer op.Offset(origin).Push(gtx.Ops).Pop()
	if bg := p.palette.Fill[p.style]; bg.A > 0 {
		paint.FillShape(gtx.Ops, bg, clip.Rect{Max: dims.Size}.Op())
	}
	call.Add(gtx.Ops)
}
